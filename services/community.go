package services

import (
	"log"

	"dev-feedback-system/models"

	"gorm.io/gorm"
)

// CommunityService covers project posts/comments and the public message board.
type CommunityService struct {
	DB     *gorm.DB
	Offers *OfferService
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{DB: db, Offers: NewOfferService(db)}
}

// CreatePost publishes a project update. Only the project owner may post.
func (s *CommunityService) CreatePost(projectID, userID uint, content, mediaURL, mediaType string) (*models.Post, error) {
	var project models.Project
	if err := s.DB.First(&project, projectID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if project.UserID != userID {
		return nil, ErrNotAuthorized
	}

	post := &models.Post{
		ProjectID: projectID,
		UserID:    userID,
		Content:   content,
		MediaURL:  mediaURL,
		MediaType: mediaType,
	}
	if err := s.DB.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment replies to a post. Commenting on a project counts as feedback,
// so pending offer obligations against that project are fulfilled here.
func (s *CommunityService) CreateComment(postID, userID uint, content string) (*models.Comment, error) {
	var post models.Post
	if err := s.DB.First(&post, postID).Error; err != nil {
		return nil, translateNotFound(err)
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.DB.Create(comment).Error; err != nil {
		return nil, err
	}

	if err := s.Offers.FulfillObligation(userID, post.ProjectID); err != nil {
		log.Printf("⚠️ Obligation check failed after comment %d: %v", comment.ID, err)
	}

	return comment, nil
}

// EditPost updates a post's content. Author only.
func (s *CommunityService) EditPost(postID, userID uint, content string) (*models.Post, error) {
	var post models.Post
	if err := s.DB.First(&post, postID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if post.UserID != userID {
		return nil, ErrNotAuthorized
	}
	post.Content = content
	if err := s.DB.Save(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post and its comments. Author only.
func (s *CommunityService) DeletePost(postID, userID uint) error {
	var post models.Post
	if err := s.DB.First(&post, postID).Error; err != nil {
		return translateNotFound(err)
	}
	if post.UserID != userID {
		return ErrNotAuthorized
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostVote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// CreateMessage posts to the public community board.
func (s *CommunityService) CreateMessage(userID uint, content string) (*models.Message, error) {
	message := &models.Message{UserID: userID, Content: content}
	if err := s.DB.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// ReplyToMessage answers a board message.
func (s *CommunityService) ReplyToMessage(messageID, userID uint, content string) (*models.MessageReply, error) {
	var message models.Message
	if err := s.DB.First(&message, messageID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	reply := &models.MessageReply{MessageID: messageID, UserID: userID, Content: content}
	if err := s.DB.Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}

// DeleteMessage removes a message with its replies. Author only.
func (s *CommunityService) DeleteMessage(messageID, userID uint) error {
	var message models.Message
	if err := s.DB.First(&message, messageID).Error; err != nil {
		return translateNotFound(err)
	}
	if message.UserID != userID {
		return ErrNotAuthorized
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var replyIDs []uint
		if err := tx.Model(&models.MessageReply{}).Where("message_id = ?", messageID).
			Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		if len(replyIDs) > 0 {
			if err := tx.Where("reply_id IN ?", replyIDs).Delete(&models.MessageReplyVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("message_id = ?", messageID).Delete(&models.MessageReply{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("message_id = ?", messageID).Delete(&models.MessageVote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&message).Error
	})
}

// DeleteReply removes one reply. Author only.
func (s *CommunityService) DeleteReply(replyID, userID uint) error {
	var reply models.MessageReply
	if err := s.DB.First(&reply, replyID).Error; err != nil {
		return translateNotFound(err)
	}
	if reply.UserID != userID {
		return ErrNotAuthorized
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reply_id = ?", replyID).Delete(&models.MessageReplyVote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&reply).Error
	})
}
