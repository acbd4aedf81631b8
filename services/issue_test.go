package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev-feedback-system/models"
)

func TestCreateIssueFulfillsObligation(t *testing.T) {
	db := newTestDB(t)
	issueSvc := NewIssueService(db)
	offerSvc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")
	offer := seedOffer(t, db, project.ID, nil)

	claim, err := offerSvc.ClaimOffer(tester.ID, offer.ID)
	require.NoError(t, err)

	issue, err := issueSvc.CreateIssue(project.ID, tester.ID, IssueInput{
		Title:       "crash on start",
		Description: "stack trace attached",
		IssueType:   models.IssueTypeBug,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SourcePlatformDefault, issue.SourcePlatform)

	var stored models.OfferRedemption
	require.NoError(t, db.First(&stored, claim.ID).Error)
	assert.True(t, stored.Fulfilled, "filing an issue is feedback and settles the obligation")
}

func TestCreateIssueDefaultsInvalidType(t *testing.T) {
	db := newTestDB(t)
	svc := NewIssueService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	project := seedProject(t, db, dev.ID, "app")
	tester := seedUser(t, db, "tester", models.RoleTester)

	issue, err := svc.CreateIssue(project.ID, tester.ID, IssueInput{
		Title:       "hmm",
		Description: "odd behavior",
		IssueType:   "banana",
	})
	require.NoError(t, err)
	assert.Equal(t, models.IssueTypeBug, issue.IssueType)
}

func TestRespondToIssueFulfillsObligation(t *testing.T) {
	db := newTestDB(t)
	issueSvc := NewIssueService(db)
	offerSvc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")
	offer := seedOffer(t, db, project.ID, nil)
	issue := seedIssue(t, db, project.ID, dev.ID, "question")

	claim, err := offerSvc.ClaimOffer(tester.ID, offer.ID)
	require.NoError(t, err)

	_, err = issueSvc.RespondToIssue(issue.ID, tester.ID, "works for me on v2")
	require.NoError(t, err)

	var stored models.OfferRedemption
	require.NoError(t, db.First(&stored, claim.ID).Error)
	assert.True(t, stored.Fulfilled)
}

func TestEditIssueGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewIssueService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	reporter := seedUser(t, db, "reporter", models.RoleTester)
	stranger := seedUser(t, db, "stranger", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")
	issue := seedIssue(t, db, project.ID, reporter.ID, "typo in docs")

	_, err := svc.EditIssue(issue.ID, stranger.ID, IssueInput{
		Title: "hijacked", Description: "x", IssueType: models.IssueTypeBug,
	})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.EditIssue(issue.ID, reporter.ID, IssueInput{
		Title: "typo", Description: "x", IssueType: "banana",
	})
	assert.ErrorIs(t, err, ErrInvalidIssueType)

	require.NoError(t, db.Model(issue).Update("status", models.IssueStatusResolved).Error)
	_, err = svc.EditIssue(issue.ID, reporter.ID, IssueInput{
		Title: "typo", Description: "x", IssueType: models.IssueTypeDocs,
	})
	assert.ErrorIs(t, err, ErrIssueClosed)
}

func TestUpdateStatusOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewIssueService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	reporter := seedUser(t, db, "reporter", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")
	issue := seedIssue(t, db, project.ID, reporter.ID, "bug")

	_, err := svc.UpdateStatus(issue.ID, reporter.ID, models.IssueStatusInProgress)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	updated, err := svc.UpdateStatus(issue.ID, dev.ID, models.IssueStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.IssueStatusInProgress, updated.Status)

	_, err = svc.UpdateStatus(issue.ID, dev.ID, "limbo")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMarkSolutionExclusive(t *testing.T) {
	db := newTestDB(t)
	svc := NewIssueService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	reporter := seedUser(t, db, "reporter", models.RoleTester)
	helper := seedUser(t, db, "helper", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")
	issue := seedIssue(t, db, project.ID, reporter.ID, "bug")

	iid := issue.ID
	hid := helper.ID
	first := &models.IssueResponse{IssueID: &iid, UserID: &hid, Content: "attempt one"}
	second := &models.IssueResponse{IssueID: &iid, UserID: &hid, Content: "attempt two"}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	_, err := svc.MarkSolution(first.ID, reporter.ID)
	require.NoError(t, err)

	// Marking a second solution clears the first.
	_, err = svc.MarkSolution(second.ID, reporter.ID)
	require.NoError(t, err)

	var solutions int64
	require.NoError(t, db.Model(&models.IssueResponse{}).
		Where("issue_id = ? AND is_solution = ?", issue.ID, true).Count(&solutions).Error)
	assert.EqualValues(t, 1, solutions)

	var storedIssue models.Issue
	require.NoError(t, db.First(&storedIssue, issue.ID).Error)
	assert.Equal(t, models.IssueStatusResolved, storedIssue.Status)

	// Random users cannot mark solutions.
	stranger := seedUser(t, db, "stranger", models.RoleTester)
	_, err = svc.MarkSolution(first.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestDeleteIssueCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewIssueService(db)
	voteSvc := NewVoteService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	reporter := seedUser(t, db, "reporter", models.RoleTester)
	voter := seedUser(t, db, "voter", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")
	issue := seedIssue(t, db, project.ID, reporter.ID, "bug")

	iid := issue.ID
	rid := reporter.ID
	response := &models.IssueResponse{IssueID: &iid, UserID: &rid, Content: "more detail"}
	require.NoError(t, db.Create(response).Error)

	_, err := voteSvc.VoteIssue(issue.ID, voter.ID, models.VoteUp)
	require.NoError(t, err)
	_, err = voteSvc.VoteResponse(response.ID, voter.ID, models.VoteUp)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteIssue(issue.ID, reporter.ID))

	var count int64
	db.Model(&models.IssueResponse{}).Where("issue_id = ?", issue.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.IssueVote{}).Where("issue_id = ?", issue.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.ResponseVote{}).Where("response_id = ?", response.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCreateWelcomeIssueIsSystem(t *testing.T) {
	db := newTestDB(t)
	svc := NewIssueService(db)
	karmaSvc := NewKarmaService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	project := seedProject(t, db, dev.ID, "app")

	issue, err := svc.CreateWelcomeIssue(project.ID)
	require.NoError(t, err)
	assert.True(t, issue.IsSystem())
	assert.Nil(t, issue.UserID)

	karma, err := karmaSvc.CalculateTestKarma(dev.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, karma.Received)
}
