package models

import "time"

// VoteType is either "upvote" or "downvote". Casting the same type again removes
// the vote; casting the opposite type flips the existing record in place.
type VoteType string

const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// ValidVoteType reports whether t is a known vote type.
func ValidVoteType(t VoteType) bool {
	return t == VoteUp || t == VoteDown
}

// One vote table per votable entity, each uniquely keyed by (entity, user) so a
// user can hold at most a single vote record per entity.

type IssueVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IssueID   uint      `gorm:"not null;uniqueIndex:idx_issue_vote" json:"issue_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_issue_vote" json:"user_id"`
	VoteType  VoteType  `gorm:"size:10;default:'upvote'" json:"vote_type"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type ResponseVote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ResponseID uint      `gorm:"not null;uniqueIndex:idx_response_vote" json:"response_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_response_vote" json:"user_id"`
	VoteType   VoteType  `gorm:"size:10;default:'upvote'" json:"vote_type"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type PostVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_vote" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_vote" json:"user_id"`
	VoteType  VoteType  `gorm:"size:10;default:'upvote'" json:"vote_type"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type CommentVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_vote" json:"comment_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_vote" json:"user_id"`
	VoteType  VoteType  `gorm:"size:10;default:'upvote'" json:"vote_type"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type MessageVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"not null;uniqueIndex:idx_message_vote" json:"message_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_message_vote" json:"user_id"`
	VoteType  VoteType  `gorm:"size:10;default:'upvote'" json:"vote_type"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type MessageReplyVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReplyID   uint      `gorm:"not null;uniqueIndex:idx_message_reply_vote" json:"reply_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_message_reply_vote" json:"user_id"`
	VoteType  VoteType  `gorm:"size:10;default:'upvote'" json:"vote_type"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
