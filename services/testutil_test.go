package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dev-feedback-system/models"
)

// newTestDB opens a fresh in-memory database per test. Max one connection so
// every query sees the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Issue{},
		&models.IssueResponse{},
		&models.IssueVote{},
		&models.ResponseVote{},
		&models.Post{},
		&models.Comment{},
		&models.PostVote{},
		&models.CommentVote{},
		&models.Message{},
		&models.MessageReply{},
		&models.MessageVote{},
		&models.MessageReplyVote{},
		&models.ProjectRating{},
		&models.UserRating{},
		&models.Offer{},
		&models.OfferRedemption{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Username:   username,
		Email:      username + "@example.com",
		Provider:   "github",
		ProviderID: "gh-" + username,
		Role:       role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProject(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Project {
	t.Helper()
	project := &models.Project{
		UserID:      ownerID,
		Name:        name,
		Slug:        name,
		Description: "test project",
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func seedIssue(t *testing.T, db *gorm.DB, projectID, reporterID uint, title string) *models.Issue {
	t.Helper()
	pid := projectID
	uid := reporterID
	issue := &models.Issue{
		ProjectID:      &pid,
		UserID:         &uid,
		Title:          title,
		Description:    "something broke",
		IssueType:      models.IssueTypeBug,
		Status:         models.IssueStatusOpen,
		SourcePlatform: models.SourcePlatformDefault,
	}
	require.NoError(t, db.Create(issue).Error)
	return issue
}

func seedSystemIssue(t *testing.T, db *gorm.DB, projectID uint) *models.Issue {
	t.Helper()
	pid := projectID
	issue := &models.Issue{
		ProjectID:      &pid,
		Title:          "Welcome!",
		Description:    "auto-generated",
		IssueType:      models.IssueTypeQuestion,
		Status:         models.IssueStatusOpen,
		SourcePlatform: models.SourcePlatformSystem,
	}
	require.NoError(t, db.Create(issue).Error)
	return issue
}

func seedOffer(t *testing.T, db *gorm.DB, projectID uint, maxRedemptions *int) *models.Offer {
	t.Helper()
	offer := &models.Offer{
		ProjectID:      projectID,
		Title:          fmt.Sprintf("Offer for project %d", projectID),
		Description:    "50% off",
		OfferType:      models.OfferTypeDiscount,
		MaxRedemptions: maxRedemptions,
		IsActive:       true,
	}
	require.NoError(t, db.Create(offer).Error)
	return offer
}

func intPtr(v int) *int { return &v }
