package services

import (
	"gorm.io/gorm"

	"dev-feedback-system/models"
)

// AccountService handles whole-account removal.
type AccountService struct {
	DB *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{DB: db}
}

// DeleteAccount erases a user. Content that other users interacted with is
// anonymized instead of deleted so their vote history and points survive:
// issues that received responses from others keep existing with a nulled
// reporter, and projects carrying such issues are kept under a nulled owner
// reference. Everything else goes.
func (s *AccountService) DeleteAccount(userID uint) error {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return translateNotFound(err)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		// Votes cast by the user. Counters on the voted entities are left as
		// they are, matching how deletions behave elsewhere on the board.
		for _, vote := range []interface{}{
			&models.IssueVote{}, &models.ResponseVote{}, &models.PostVote{},
			&models.CommentVote{}, &models.MessageVote{}, &models.MessageReplyVote{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(vote).Error; err != nil {
				return err
			}
		}

		// Ratings given and received.
		if err := tx.Where("user_id = ?", userID).Delete(&models.ProjectRating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("rated_user_id = ? OR rater_user_id = ?", userID, userID).
			Delete(&models.UserRating{}).Error; err != nil {
			return err
		}

		// Board messages and replies.
		if err := tx.Where("user_id = ?", userID).Delete(&models.MessageReply{}).Error; err != nil {
			return err
		}
		var messageIDs []uint
		if err := tx.Model(&models.Message{}).Where("user_id = ?", userID).
			Pluck("id", &messageIDs).Error; err != nil {
			return err
		}
		if len(messageIDs) > 0 {
			if err := tx.Where("message_id IN ?", messageIDs).Delete(&models.MessageReply{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", messageIDs).Delete(&models.Message{}).Error; err != nil {
				return err
			}
		}

		// Posts and comments.
		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", userID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", postIDs).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}

		// Offer redemptions either way round.
		if err := tx.Where("user_id = ?", userID).Delete(&models.OfferRedemption{}).Error; err != nil {
			return err
		}

		// Responses written by the user are anonymized when they are solutions
		// or collected helpful votes, deleted otherwise.
		if err := tx.Model(&models.IssueResponse{}).
			Where("user_id = ? AND (is_solution = ? OR helpful_count > 0)", userID, true).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.IssueResponse{}).Error; err != nil {
			return err
		}

		// Issues reported by the user: anonymize those other users responded
		// to, delete the rest.
		var reported []models.Issue
		if err := tx.Where("user_id = ?", userID).Find(&reported).Error; err != nil {
			return err
		}
		for i := range reported {
			var responses int64
			if err := tx.Model(&models.IssueResponse{}).
				Where("issue_id = ? AND (user_id IS NULL OR user_id <> ?)", reported[i].ID, userID).
				Count(&responses).Error; err != nil {
				return err
			}
			if responses > 0 {
				if err := tx.Model(&reported[i]).Update("user_id", nil).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Where("issue_id = ?", reported[i].ID).Delete(&models.IssueVote{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&reported[i]).Error; err != nil {
				return err
			}
		}

		// Owned projects: keep a project alive only if it still carries issues
		// from other users, detached from it; otherwise remove it wholesale.
		var projects []models.Project
		if err := tx.Where("user_id = ?", userID).Find(&projects).Error; err != nil {
			return err
		}
		for i := range projects {
			pid := projects[i].ID
			// Other users' claims on these offers die with the project, so no
			// obligation survives that can never be fulfilled.
			if err := tx.Where("project_id = ?", pid).Delete(&models.OfferRedemption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", pid).Delete(&models.Offer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", pid).Delete(&models.ProjectRating{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Issue{}).Where("project_id = ?", pid).
				Update("project_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Delete(&projects[i]).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&user).Error
	})
}
