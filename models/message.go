package models

import "time"

// Message is a post in the public community chat ("Collective").
type Message struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	UpvoteCount   int       `gorm:"default:0" json:"upvote_count"`
	DownvoteCount int       `gorm:"default:0" json:"downvote_count"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type MessageReply struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	MessageID     uint      `gorm:"index;not null" json:"message_id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	UpvoteCount   int       `gorm:"default:0" json:"upvote_count"`
	DownvoteCount int       `gorm:"default:0" json:"downvote_count"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}
