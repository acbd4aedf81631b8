package models

import "time"

// Project is a developer's published tool or app, the anchor for issues, offers,
// posts and ratings.
type Project struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"index;not null" json:"user_id"` // owner
	Name        string `gorm:"size:200;not null" json:"name"`
	Slug        string `gorm:"size:220;index" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	ProjectURL  string `gorm:"size:500" json:"project_url,omitempty"`
	GithubURL   string `gorm:"size:500" json:"github_url,omitempty"`
	Image       string `gorm:"size:500" json:"image,omitempty"`
	Tags        string `gorm:"size:500" json:"tags,omitempty"` // comma-separated

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
