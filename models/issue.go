package models

import "time"

type IssueType string

const (
	IssueTypeBug      IssueType = "bug"
	IssueTypeFeature  IssueType = "feature"
	IssueTypeQuestion IssueType = "question"
	IssueTypeSecurity IssueType = "security"
	IssueTypeDocs     IssueType = "docs"
)

type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "open"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
	IssueStatusWontFix    IssueStatus = "wont_fix"
)

// SourcePlatformSystem tags auto-generated welcome issues. Issues carrying it are
// invisible to karma and leaderboard aggregation.
const (
	SourcePlatformDefault = "DevBoard"
	SourcePlatformSystem  = "System"
)

// Issue is a structured feedback report against a project. ProjectID and UserID are
// nullable: the project may be deleted, and the reporter may have erased their
// account while responses from other users keep the issue alive (anonymized).
type Issue struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	ProjectID   *uint       `gorm:"index" json:"project_id,omitempty"`
	UserID      *uint       `gorm:"index" json:"user_id,omitempty"`
	Title       string      `gorm:"size:300;not null" json:"title"`
	Description string      `gorm:"type:text;not null" json:"description"`
	Screenshot  string      `gorm:"size:500" json:"screenshot,omitempty"`
	IssueType   IssueType   `gorm:"size:50;default:'bug'" json:"issue_type"`
	Status      IssueStatus `gorm:"size:50;default:'open'" json:"status"`

	HelpfulCount            int `gorm:"default:0" json:"helpful_count"`
	DownvoteCount           int `gorm:"default:0" json:"downvote_count"`
	GithubReactions         int `gorm:"default:0" json:"github_reactions"`
	GithubNegativeReactions int `gorm:"default:0" json:"github_negative_reactions"`

	GithubIssueNumber *int   `json:"github_issue_number,omitempty"`
	GithubIssueURL    string `gorm:"size:500" json:"github_issue_url,omitempty"`

	SourcePlatform string `gorm:"size:100;default:'DevBoard'" json:"source_platform"`
	IsReadByOwner  bool   `gorm:"default:false" json:"is_read_by_owner"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// IsSystem reports whether the issue was auto-generated and must be excluded from
// all reputation math.
func (i *Issue) IsSystem() bool {
	return i.SourcePlatform == SourcePlatformSystem
}

// IsClosed reports whether the issue is in a terminal status (closed issues cannot
// be edited by the reporter).
func (i *Issue) IsClosed() bool {
	switch i.Status {
	case IssueStatusResolved, IssueStatusClosed, IssueStatusWontFix:
		return true
	}
	return false
}

type IssueResponse struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	IssueID       *uint     `gorm:"index" json:"issue_id,omitempty"`
	UserID        *uint     `gorm:"index" json:"user_id,omitempty"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	HelpfulCount  int       `gorm:"default:0" json:"helpful_count"`
	DownvoteCount int       `gorm:"default:0" json:"downvote_count"`
	IsSolution    bool      `gorm:"default:false" json:"is_solution"` // at most one per issue
	IsReadByOwner bool      `gorm:"default:false" json:"is_read_by_owner"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// ValidIssueType reports whether t is one of the supported issue types.
func ValidIssueType(t IssueType) bool {
	switch t {
	case IssueTypeBug, IssueTypeFeature, IssueTypeQuestion, IssueTypeSecurity, IssueTypeDocs:
		return true
	}
	return false
}

// ValidIssueStatus reports whether s is one of the supported statuses.
func ValidIssueStatus(s IssueStatus) bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProgress, IssueStatusResolved, IssueStatusClosed, IssueStatusWontFix:
		return true
	}
	return false
}
