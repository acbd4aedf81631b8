package services

import (
	"errors"
	"math"
	"time"

	"dev-feedback-system/models"

	"gorm.io/gorm"
)

// RatingSummary is returned after every rate/read: the recomputed aggregate plus
// the caller's own stars (0 when they have not rated).
type RatingSummary struct {
	Average    float64 `json:"average_rating"`
	Count      int64   `json:"rating_count"`
	YourRating int     `json:"your_rating,omitempty"`
}

type RatingService struct {
	DB *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{DB: db}
}

// RateProject upserts the caller's 1-5 star rating of a project. Owners cannot
// rate their own project; a repeat rating replaces the stars instead of adding a
// second row.
func (s *RatingService) RateProject(projectID, raterID uint, stars int) (*RatingSummary, error) {
	if stars < 1 || stars > 5 {
		return nil, ErrInvalidStars
	}

	var project models.Project
	if err := s.DB.First(&project, projectID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if project.UserID == raterID {
		return nil, ErrSelfRate
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.ProjectRating
		err := tx.Where("project_id = ? AND user_id = ?", projectID, raterID).First(&existing).Error
		switch {
		case err == nil:
			existing.Stars = stars
			existing.UpdatedAt = time.Now()
			return tx.Save(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&models.ProjectRating{
				ProjectID: projectID,
				UserID:    raterID,
				Stars:     stars,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	return s.projectSummary(projectID, raterID)
}

// GetProjectRating returns the aggregate plus the caller's own stars. raterID 0
// means anonymous.
func (s *RatingService) GetProjectRating(projectID, raterID uint) (*RatingSummary, error) {
	var project models.Project
	if err := s.DB.First(&project, projectID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return s.projectSummary(projectID, raterID)
}

// RateUser upserts the caller's 1-5 star rating of another user.
func (s *RatingService) RateUser(ratedUserID, raterID uint, stars int) (*RatingSummary, error) {
	if stars < 1 || stars > 5 {
		return nil, ErrInvalidStars
	}
	if ratedUserID == raterID {
		return nil, ErrSelfRate
	}

	var rated models.User
	if err := s.DB.First(&rated, ratedUserID).Error; err != nil {
		return nil, translateNotFound(err)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.UserRating
		err := tx.Where("rated_user_id = ? AND rater_user_id = ?", ratedUserID, raterID).First(&existing).Error
		switch {
		case err == nil:
			existing.Stars = stars
			existing.UpdatedAt = time.Now()
			return tx.Save(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&models.UserRating{
				RatedUserID: ratedUserID,
				RaterUserID: raterID,
				Stars:       stars,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	return s.userSummary(ratedUserID, raterID)
}

// GetUserRating returns the aggregate plus the caller's own stars.
func (s *RatingService) GetUserRating(ratedUserID, raterID uint) (*RatingSummary, error) {
	var rated models.User
	if err := s.DB.First(&rated, ratedUserID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return s.userSummary(ratedUserID, raterID)
}

func (s *RatingService) projectSummary(projectID, raterID uint) (*RatingSummary, error) {
	summary := &RatingSummary{}

	var avg *float64
	if err := s.DB.Model(&models.ProjectRating{}).Where("project_id = ?", projectID).
		Select("AVG(stars)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		summary.Average = roundTenth(*avg)
	}
	if err := s.DB.Model(&models.ProjectRating{}).Where("project_id = ?", projectID).
		Count(&summary.Count).Error; err != nil {
		return nil, err
	}
	if raterID != 0 {
		var own models.ProjectRating
		if err := s.DB.Where("project_id = ? AND user_id = ?", projectID, raterID).
			First(&own).Error; err == nil {
			summary.YourRating = own.Stars
		}
	}
	return summary, nil
}

func (s *RatingService) userSummary(ratedUserID, raterID uint) (*RatingSummary, error) {
	summary := &RatingSummary{}

	var avg *float64
	if err := s.DB.Model(&models.UserRating{}).Where("rated_user_id = ?", ratedUserID).
		Select("AVG(stars)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		summary.Average = roundTenth(*avg)
	}
	if err := s.DB.Model(&models.UserRating{}).Where("rated_user_id = ?", ratedUserID).
		Count(&summary.Count).Error; err != nil {
		return nil, err
	}
	if raterID != 0 {
		var own models.UserRating
		if err := s.DB.Where("rated_user_id = ? AND rater_user_id = ?", ratedUserID, raterID).
			First(&own).Error; err == nil {
			summary.YourRating = own.Stars
		}
	}
	return summary, nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
