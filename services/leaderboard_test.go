package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev-feedback-system/models"
)

func TestLeaderboardScoreLaw(t *testing.T) {
	e := LeaderboardEntry{
		SolutionsCount:  2,
		ResponseHelpful: 3,
		IssueHelpful:    4,
		GithubReactions: 5,
		GithubNegative:  1,
		FiveStarRatings: 2,
		KarmaGiven:      3,
		KarmaReceived:   2,
		KarmaPenalties:  1,
	}
	// Every event is worth exactly one point, positive or negative.
	assert.EqualValues(t, 2+3+4+5-1+2+3+2-1, e.score())
}

func TestGetLeaderboardRankingAndTiebreak(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	alice := seedUser(t, db, "alice", models.RoleTester)
	bob := seedUser(t, db, "bob", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")

	// Alice and Bob each report one issue: identical score of 1, tie broken by
	// ascending user id.
	seedIssue(t, db, project.ID, alice.ID, "alice bug")
	seedIssue(t, db, project.ID, bob.ID, "bob bug")

	entries, err := svc.GetLeaderboard()
	require.NoError(t, err)
	require.Len(t, entries, 3) // dev appears too: karma received is activity

	// dev received 2 karma -> score 2, ranks first.
	assert.Equal(t, dev.ID, entries[0].UserID)
	assert.EqualValues(t, 2, entries[0].TotalScore)
	assert.Equal(t, 1, entries[0].Rank)

	assert.Equal(t, alice.ID, entries[1].UserID)
	assert.Equal(t, bob.ID, entries[2].UserID)
	assert.Equal(t, entries[1].TotalScore, entries[2].TotalScore)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestLeaderboardInclusionRules(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	active := seedUser(t, db, "active", models.RoleTester)
	idle := seedUser(t, db, "idle", models.RoleTester)
	penalized := seedUser(t, db, "penalized", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")

	// Zero-score but active: a response with no votes still counts as activity.
	uid := active.ID
	issue := seedIssue(t, db, project.ID, dev.ID, "self-filed")
	iid := issue.ID
	require.NoError(t, db.Create(&models.IssueResponse{
		IssueID: &iid, UserID: &uid, Content: "have you tried...",
	}).Error)

	// Negative score from a penalty, no other activity: excluded.
	offer := seedOffer(t, db, project.ID, nil)
	require.NoError(t, db.Create(&models.OfferRedemption{
		OfferID:             offer.ID,
		UserID:              penalized.ID,
		ProjectID:           project.ID,
		KarmaPenaltyApplied: true,
	}).Error)

	entries, err := svc.GetLeaderboard()
	require.NoError(t, err)

	ids := map[uint]bool{}
	for _, e := range entries {
		ids[e.UserID] = true
	}
	assert.True(t, ids[active.ID], "zero-score user with responses must appear")
	assert.False(t, ids[idle.ID], "user with no signals must not appear")
	assert.False(t, ids[penalized.ID], "negative score with no activity must not appear")
}

func TestLeaderboardIgnoresSystemIssues(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	project := seedProject(t, db, dev.ID, "app")
	sys := seedSystemIssue(t, db, project.ID)
	require.NoError(t, db.Model(sys).Update("helpful_count", 50).Error)

	entries, err := svc.GetLeaderboard()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetMyStatsMatchesLeaderboard(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")

	issue := seedIssue(t, db, project.ID, tester.ID, "found a bug")
	require.NoError(t, db.Model(issue).Updates(map[string]interface{}{
		"helpful_count":    3,
		"github_reactions": 2,
	}).Error)

	iid := issue.ID
	uid := tester.ID
	require.NoError(t, db.Create(&models.IssueResponse{
		IssueID: &iid, UserID: &uid, Content: "fix attached",
		HelpfulCount: 1, IsSolution: true,
	}).Error)

	require.NoError(t, db.Create(&models.UserRating{
		RatedUserID: tester.ID, RaterUserID: dev.ID, Stars: 5,
	}).Error)

	stats, err := svc.GetMyStats(tester.ID)
	require.NoError(t, err)

	// 1 solution + 1 response helpful + 3 issue helpful + 2 reactions +
	// 1 five-star + 1 karma given = 9.
	assert.EqualValues(t, 9, stats.TotalScore)

	entries, err := svc.GetLeaderboard()
	require.NoError(t, err)
	var board *LeaderboardEntry
	for i := range entries {
		if entries[i].UserID == tester.ID {
			board = &entries[i]
			break
		}
	}
	require.NotNil(t, board)
	assert.Equal(t, board.TotalScore, stats.TotalScore, "my-stats and leaderboard must share the scoring law")
	assert.Equal(t, board.Rank, stats.Rank)

	assert.NotNil(t, stats.Karma)
	assert.EqualValues(t, 1, stats.Karma.Given)
}

func TestGetMyStatsUnrankedUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	idle := seedUser(t, db, "idle", models.RoleTester)

	stats, err := svc.GetMyStats(idle.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Rank)
	assert.EqualValues(t, 0, stats.TotalScore)
	assert.Empty(t, stats.Recent)
}

func TestRecentActivitiesCapped(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")

	// 15 karma-giving issues produce more than the cap.
	for i := 0; i < 15; i++ {
		seedIssue(t, db, project.ID, tester.ID, "bug")
	}

	stats, err := svc.GetMyStats(tester.ID)
	require.NoError(t, err)
	assert.Len(t, stats.Recent, 10)

	for i := 1; i < len(stats.Recent); i++ {
		assert.False(t, stats.Recent[i-1].CreatedAt.Before(stats.Recent[i].CreatedAt),
			"feed must be reverse-chronological")
	}
}
