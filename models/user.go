package models

import "time"

// UserRole distinguishes GitHub-authenticated developers from Google-authenticated testers.
type UserRole string

const (
	RoleDeveloper UserRole = "developer"
	RoleTester    UserRole = "tester"
)

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Avatar     string    `gorm:"size:500" json:"avatar,omitempty"`
	Bio        string    `gorm:"type:text" json:"bio,omitempty"`
	Github     string    `gorm:"size:255" json:"github,omitempty"`
	Provider   string    `gorm:"size:50;not null" json:"provider"` // github or google
	ProviderID string    `gorm:"size:255;not null" json:"-"`
	Role       UserRole  `gorm:"size:50;default:'developer'" json:"role"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}
