package models

import "time"

// Post is a project update written by the project owner.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProjectID     uint      `gorm:"index;not null" json:"project_id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	MediaURL      string    `gorm:"size:500" json:"media_url,omitempty"`
	MediaType     string    `gorm:"size:50" json:"media_type,omitempty"` // image, video
	UpvoteCount   int       `gorm:"default:0" json:"upvote_count"`
	DownvoteCount int       `gorm:"default:0" json:"downvote_count"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type Comment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PostID        uint      `gorm:"index;not null" json:"post_id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	IsReadByOwner bool      `gorm:"default:false" json:"is_read_by_owner"`
	UpvoteCount   int       `gorm:"default:0" json:"upvote_count"`
	DownvoteCount int       `gorm:"default:0" json:"downvote_count"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}
