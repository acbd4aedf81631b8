package models

import "time"

// ProjectRating is a 1-5 star rating of a project. A user can rate a given project
// only once; re-rating updates the stars in place.
type ProjectRating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;uniqueIndex:idx_project_rating" json:"project_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_project_rating" json:"user_id"` // rater
	Stars     int       `gorm:"not null" json:"stars"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// UserRating is a 1-5 star rating of another user.
type UserRating struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RatedUserID uint      `gorm:"not null;uniqueIndex:idx_user_rating" json:"rated_user_id"`
	RaterUserID uint      `gorm:"not null;uniqueIndex:idx_user_rating" json:"rater_user_id"`
	Stars       int       `gorm:"not null" json:"stars"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
