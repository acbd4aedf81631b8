package services

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"dev-feedback-system/models"
)

type ProjectService struct {
	DB     *gorm.DB
	Issues *IssueService
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{DB: db, Issues: NewIssueService(db)}
}

// ProjectInput carries the owner-editable project fields.
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ProjectURL  string `json:"project_url"`
	GithubURL   string `json:"github_url"`
	Image       string `json:"image"`
	Tags        string `json:"tags"`
}

// CreateProject publishes a new project for a developer and seeds its welcome
// issue. Testers cannot create projects.
func (s *ProjectService) CreateProject(userID uint, in ProjectInput) (*models.Project, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if user.Role == models.RoleTester {
		return nil, ErrTesterForbidden
	}

	project := &models.Project{
		UserID:      userID,
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		ProjectURL:  in.ProjectURL,
		GithubURL:   in.GithubURL,
		Image:       in.Image,
		Tags:        in.Tags,
	}
	if err := s.DB.Create(project).Error; err != nil {
		return nil, err
	}

	// Seed a demo issue so the issues page is not empty. System-tagged, so it
	// never counts toward anyone's karma or score.
	if _, err := s.Issues.CreateWelcomeIssue(project.ID); err != nil {
		return nil, err
	}

	return project, nil
}

// UpdateProject edits an owned project.
func (s *ProjectService) UpdateProject(projectID, userID uint, in ProjectInput) (*models.Project, error) {
	var project models.Project
	if err := s.DB.First(&project, projectID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if project.UserID != userID {
		return nil, ErrNotAuthorized
	}

	project.Name = in.Name
	project.Slug = slug.Make(in.Name)
	project.Description = in.Description
	project.ProjectURL = in.ProjectURL
	project.GithubURL = in.GithubURL
	if in.Image != "" {
		project.Image = in.Image
	}
	project.Tags = in.Tags

	if err := s.DB.Save(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes an owned project. Its issues survive with a nulled
// project reference so responders keep their history and points.
func (s *ProjectService) DeleteProject(projectID, userID uint) error {
	var project models.Project
	if err := s.DB.First(&project, projectID).Error; err != nil {
		return translateNotFound(err)
	}
	if project.UserID != userID {
		return ErrNotAuthorized
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Issue{}).Where("project_id = ?", projectID).
			Update("project_id", nil).Error; err != nil {
			return err
		}
		// Redemption history goes with the offers, pending obligations included:
		// with the project gone there is no way left to fulfill them, and the
		// sweep would otherwise penalize claimers forever.
		if err := tx.Where("project_id = ?", projectID).Delete(&models.OfferRedemption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Offer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectRating{}).Error; err != nil {
			return err
		}
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("project_id = ?", projectID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", projectID).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&project).Error
	})
}

// GetProject fetches one project by id.
func (s *ProjectService) GetProject(projectID uint) (*models.Project, error) {
	var project models.Project
	if err := s.DB.First(&project, projectID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &project, nil
}

// ListProjects returns all projects, newest first.
func (s *ProjectService) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	err := s.DB.Order("created_at DESC").Find(&projects).Error
	return projects, err
}
