package services

import (
	"fmt"
	"log"

	"dev-feedback-system/models"

	"gorm.io/gorm"
)

type IssueService struct {
	DB     *gorm.DB
	Offers *OfferService
}

func NewIssueService(db *gorm.DB) *IssueService {
	return &IssueService{DB: db, Offers: NewOfferService(db)}
}

// IssueInput carries the reporter-editable issue fields.
type IssueInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	IssueType   models.IssueType `json:"issue_type"`
	Screenshot  string           `json:"screenshot"`
}

// CreateIssue files a report against a project. Creating an issue counts as
// giving feedback, so any pending offer obligation the reporter holds on this
// project is fulfilled in the same call.
func (s *IssueService) CreateIssue(projectID, userID uint, in IssueInput) (*models.Issue, error) {
	var project models.Project
	if err := s.DB.First(&project, projectID).Error; err != nil {
		return nil, translateNotFound(err)
	}

	issueType := in.IssueType
	if !models.ValidIssueType(issueType) {
		issueType = models.IssueTypeBug
	}

	pid := projectID
	uid := userID
	issue := &models.Issue{
		ProjectID:      &pid,
		UserID:         &uid,
		Title:          in.Title,
		Description:    in.Description,
		Screenshot:     in.Screenshot,
		IssueType:      issueType,
		Status:         models.IssueStatusOpen,
		SourcePlatform: models.SourcePlatformDefault,
	}
	if err := s.DB.Create(issue).Error; err != nil {
		return nil, err
	}

	if err := s.Offers.FulfillObligation(userID, projectID); err != nil {
		log.Printf("⚠️ Obligation check failed after issue %d: %v", issue.ID, err)
	}

	return issue, nil
}

// CreateWelcomeIssue seeds a system-generated demo issue on a fresh project.
// System issues are invisible to karma and leaderboard aggregation.
func (s *IssueService) CreateWelcomeIssue(projectID uint) (*models.Issue, error) {
	var project models.Project
	if err := s.DB.First(&project, projectID).Error; err != nil {
		return nil, translateNotFound(err)
	}

	pid := projectID
	issue := &models.Issue{
		ProjectID: &pid,
		Title:     fmt.Sprintf("Welcome to %s!", project.Name),
		Description: "This is an example issue. Reports from other users will show up " +
			"here with a type, a status and helpful votes.",
		IssueType:      models.IssueTypeQuestion,
		Status:         models.IssueStatusOpen,
		SourcePlatform: models.SourcePlatformSystem,
	}
	if err := s.DB.Create(issue).Error; err != nil {
		return nil, err
	}
	return issue, nil
}

// RespondToIssue adds an answer. Responding also counts as feedback for the
// issue's project, so obligations are checked here too.
func (s *IssueService) RespondToIssue(issueID, userID uint, content string) (*models.IssueResponse, error) {
	var issue models.Issue
	if err := s.DB.First(&issue, issueID).Error; err != nil {
		return nil, translateNotFound(err)
	}

	iid := issueID
	uid := userID
	response := &models.IssueResponse{
		IssueID: &iid,
		UserID:  &uid,
		Content: content,
	}
	if err := s.DB.Create(response).Error; err != nil {
		return nil, err
	}

	if issue.ProjectID != nil {
		if err := s.Offers.FulfillObligation(userID, *issue.ProjectID); err != nil {
			log.Printf("⚠️ Obligation check failed after response %d: %v", response.ID, err)
		}
	}

	return response, nil
}

// EditIssue updates title/description/type. Only the reporter may edit, and
// closed issues are immutable.
func (s *IssueService) EditIssue(issueID, userID uint, in IssueInput) (*models.Issue, error) {
	var issue models.Issue
	if err := s.DB.First(&issue, issueID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if issue.UserID == nil || *issue.UserID != userID {
		return nil, ErrNotAuthorized
	}
	if issue.IsClosed() {
		return nil, ErrIssueClosed
	}
	if !models.ValidIssueType(in.IssueType) {
		return nil, ErrInvalidIssueType
	}

	issue.Title = in.Title
	issue.Description = in.Description
	issue.IssueType = in.IssueType
	if in.Screenshot != "" {
		issue.Screenshot = in.Screenshot
	}
	if err := s.DB.Save(&issue).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateStatus moves the issue through its workflow. Only the project owner may
// change status.
func (s *IssueService) UpdateStatus(issueID, userID uint, status models.IssueStatus) (*models.Issue, error) {
	var issue models.Issue
	if err := s.DB.First(&issue, issueID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if !models.ValidIssueStatus(status) {
		return nil, ErrInvalidStatus
	}
	if err := s.requireProjectOwner(&issue, userID); err != nil {
		return nil, err
	}

	issue.Status = status
	if err := s.DB.Save(&issue).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// MarkSolution flags one response as the accepted solution. All other responses
// on the issue are cleared first so at most one solution exists, and the issue
// moves to resolved. Allowed for the reporter or the project owner.
func (s *IssueService) MarkSolution(responseID, userID uint) (*models.IssueResponse, error) {
	var response models.IssueResponse
	if err := s.DB.First(&response, responseID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if response.IssueID == nil {
		return nil, ErrNotFound
	}
	var issue models.Issue
	if err := s.DB.First(&issue, *response.IssueID).Error; err != nil {
		return nil, translateNotFound(err)
	}

	isReporter := issue.UserID != nil && *issue.UserID == userID
	if !isReporter {
		if err := s.requireProjectOwner(&issue, userID); err != nil {
			return nil, err
		}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.IssueResponse{}).
			Where("issue_id = ?", issue.ID).
			Update("is_solution", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&response).Update("is_solution", true).Error; err != nil {
			return err
		}
		return tx.Model(&issue).Update("status", models.IssueStatusResolved).Error
	})
	if err != nil {
		return nil, err
	}

	response.IsSolution = true
	return &response, nil
}

// DeleteIssue removes an issue and its votes. Allowed for the reporter or the
// project owner.
func (s *IssueService) DeleteIssue(issueID, userID uint) error {
	var issue models.Issue
	if err := s.DB.First(&issue, issueID).Error; err != nil {
		return translateNotFound(err)
	}

	isReporter := issue.UserID != nil && *issue.UserID == userID
	if !isReporter {
		if err := s.requireProjectOwner(&issue, userID); err != nil {
			return err
		}
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("issue_id = ?", issueID).Delete(&models.IssueVote{}).Error; err != nil {
			return err
		}
		var responseIDs []uint
		if err := tx.Model(&models.IssueResponse{}).Where("issue_id = ?", issueID).
			Pluck("id", &responseIDs).Error; err != nil {
			return err
		}
		if len(responseIDs) > 0 {
			if err := tx.Where("response_id IN ?", responseIDs).Delete(&models.ResponseVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("issue_id = ?", issueID).Delete(&models.IssueResponse{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&issue).Error
	})
}

// GetProjectIssues lists a project's issues, newest first.
func (s *IssueService) GetProjectIssues(projectID uint) ([]models.Issue, error) {
	var issues []models.Issue
	err := s.DB.Where("project_id = ?", projectID).Order("created_at DESC").Find(&issues).Error
	return issues, err
}

func (s *IssueService) requireProjectOwner(issue *models.Issue, userID uint) error {
	if issue.ProjectID == nil {
		return ErrNotAuthorized
	}
	var project models.Project
	if err := s.DB.First(&project, *issue.ProjectID).Error; err != nil {
		return translateNotFound(err)
	}
	if project.UserID != userID {
		return ErrNotAuthorized
	}
	return nil
}
