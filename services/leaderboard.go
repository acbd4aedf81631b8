package services

import (
	"fmt"
	"sort"
	"time"

	"dev-feedback-system/models"

	"gorm.io/gorm"
)

// Leaderboard scoring is a flat +/-1 per event: every solution, helpful vote,
// GitHub reaction, five-star rating and karma event moves the score by exactly
// one point (negative reactions and offer penalties by minus one). The single
// scoring function below is shared by the ranking and the my-stats breakdown so
// the two endpoints cannot diverge.

const leaderboardSize = 50

// LeaderboardEntry is one ranked row plus its raw signal counts.
type LeaderboardEntry struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`

	SolutionsCount  int64 `json:"solutions_count"`
	ResponseHelpful int64 `json:"response_helpful"`
	TotalResponses  int64 `json:"total_responses"`
	IssueHelpful    int64 `json:"issue_helpful"`
	GithubReactions int64 `json:"github_reactions"`
	GithubNegative  int64 `json:"github_negative_reactions"`
	TotalIssues     int64 `json:"total_issues"`
	FiveStarRatings int64 `json:"five_star_ratings"`
	KarmaGiven      int64 `json:"karma_given"`
	KarmaReceived   int64 `json:"karma_received"`
	KarmaPenalties  int64 `json:"karma_penalties"`

	TotalScore int64 `json:"total_score"`
	Rank       int   `json:"rank,omitempty"`
}

// score applies the uniform +/-1 law.
func (e *LeaderboardEntry) score() int64 {
	return e.SolutionsCount +
		e.ResponseHelpful +
		e.IssueHelpful +
		e.GithubReactions -
		e.GithubNegative +
		e.FiveStarRatings +
		e.KarmaGiven +
		e.KarmaReceived -
		e.KarmaPenalties
}

// hasActivity gates leaderboard inclusion for zero-score users: anyone who has
// reported issues, responded, or has karma movement still appears.
func (e *LeaderboardEntry) hasActivity() bool {
	return e.TotalIssues > 0 || e.TotalResponses > 0 || e.KarmaGiven > 0 || e.KarmaReceived > 0
}

// Activity is one recent point-earning event on the my-stats view.
type Activity struct {
	Type        string    `json:"type"`
	Points      int64     `json:"points"`
	Description string    `json:"description"`
	Project     string    `json:"project,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MyStats is the per-user leaderboard detail.
type MyStats struct {
	UserID     uint              `json:"user_id"`
	Username   string            `json:"username"`
	Avatar     string            `json:"avatar,omitempty"`
	Rank       int               `json:"rank,omitempty"` // 0 = unranked
	TotalScore int64             `json:"total_score"`
	Breakdown  *LeaderboardEntry `json:"breakdown"`
	Karma      *TestKarma        `json:"karma"`
	Recent     []Activity        `json:"recent_activities"`
}

type LeaderboardService struct {
	DB    *gorm.DB
	Karma *KarmaService
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db, Karma: NewKarmaService(db)}
}

// GetLeaderboard returns the top 50 users by total score, rank-annotated.
func (s *LeaderboardService) GetLeaderboard() ([]LeaderboardEntry, error) {
	entries, err := s.fullRanking()
	if err != nil {
		return nil, err
	}
	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	return entries, nil
}

// fullRanking aggregates every scoring signal per user and sorts. Ties break on
// ascending user id so ordering stays deterministic between requests.
func (s *LeaderboardService) fullRanking() ([]LeaderboardEntry, error) {
	byUser := map[uint]*LeaderboardEntry{}

	var users []models.User
	if err := s.DB.Select("id, username, avatar").Find(&users).Error; err != nil {
		return nil, err
	}
	entry := func(id uint) *LeaderboardEntry {
		if e, ok := byUser[id]; ok {
			return e
		}
		e := &LeaderboardEntry{UserID: id}
		byUser[id] = e
		return e
	}
	names := map[uint]models.User{}
	for _, u := range users {
		names[u.ID] = u
	}

	// Responses: helpful votes received, solutions marked, total written.
	type responseRow struct {
		UserID          uint
		ResponseHelpful int64
		SolutionsCount  int64
		TotalResponses  int64
	}
	var responseRows []responseRow
	err := s.DB.Model(&models.IssueResponse{}).
		Select("user_id, COALESCE(SUM(helpful_count),0) AS response_helpful, " +
			"SUM(CASE WHEN is_solution THEN 1 ELSE 0 END) AS solutions_count, " +
			"COUNT(*) AS total_responses").
		Where("user_id IS NOT NULL").
		Group("user_id").
		Scan(&responseRows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range responseRows {
		e := entry(r.UserID)
		e.ResponseHelpful = r.ResponseHelpful
		e.SolutionsCount = r.SolutionsCount
		e.TotalResponses = r.TotalResponses
	}

	// Issues: helpful votes and GitHub reactions. System issues never count.
	type issueRow struct {
		UserID          uint
		IssueHelpful    int64
		GithubReactions int64
		GithubNegative  int64
		TotalIssues     int64
	}
	var issueRows []issueRow
	err = s.DB.Model(&models.Issue{}).
		Select("user_id, COALESCE(SUM(helpful_count),0) AS issue_helpful, "+
			"COALESCE(SUM(github_reactions),0) AS github_reactions, "+
			"COALESCE(SUM(github_negative_reactions),0) AS github_negative, "+
			"COUNT(*) AS total_issues").
		Where("user_id IS NOT NULL AND source_platform <> ?", models.SourcePlatformSystem).
		Group("user_id").
		Scan(&issueRows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range issueRows {
		e := entry(r.UserID)
		e.IssueHelpful = r.IssueHelpful
		e.GithubReactions = r.GithubReactions
		e.GithubNegative = r.GithubNegative
		e.TotalIssues = r.TotalIssues
	}

	// Five-star ratings received.
	type ratingRow struct {
		RatedUserID uint
		FiveStars   int64
	}
	var ratingRows []ratingRow
	err = s.DB.Model(&models.UserRating{}).
		Select("rated_user_id, COUNT(*) AS five_stars").
		Where("stars = ?", 5).
		Group("rated_user_id").
		Scan(&ratingRows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range ratingRows {
		entry(r.RatedUserID).FiveStarRatings = r.FiveStars
	}

	// Karma given: issues on other people's projects.
	type karmaRow struct {
		UserID uint
		Total  int64
	}
	var givenRows []karmaRow
	err = s.DB.Model(&models.Issue{}).
		Select("issues.user_id AS user_id, COUNT(*) AS total").
		Joins("JOIN projects ON projects.id = issues.project_id").
		Where("issues.user_id IS NOT NULL AND issues.user_id <> projects.user_id AND issues.source_platform <> ?",
			models.SourcePlatformSystem).
		Group("issues.user_id").
		Scan(&givenRows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range givenRows {
		entry(r.UserID).KarmaGiven = r.Total
	}

	// Karma received: issues others filed against the user's projects.
	var receivedRows []karmaRow
	err = s.DB.Model(&models.Issue{}).
		Select("projects.user_id AS user_id, COUNT(*) AS total").
		Joins("JOIN projects ON projects.id = issues.project_id").
		Where("issues.user_id IS NOT NULL AND issues.user_id <> projects.user_id AND issues.source_platform <> ?",
			models.SourcePlatformSystem).
		Group("projects.user_id").
		Scan(&receivedRows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range receivedRows {
		entry(r.UserID).KarmaReceived = r.Total
	}

	// Active offer penalties.
	var penaltyRows []karmaRow
	err = s.DB.Model(&models.OfferRedemption{}).
		Select("user_id, COUNT(*) AS total").
		Where("karma_penalty_applied = ? AND karma_penalty_reversed = ?", true, false).
		Group("user_id").
		Scan(&penaltyRows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range penaltyRows {
		entry(r.UserID).KarmaPenalties = r.Total
	}

	ranked := make([]LeaderboardEntry, 0, len(byUser))
	for id, e := range byUser {
		if u, ok := names[id]; ok {
			e.Username = u.Username
			e.Avatar = u.Avatar
		}
		e.TotalScore = e.score()
		if e.TotalScore > 0 || e.hasActivity() {
			ranked = append(ranked, *e)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalScore != ranked[j].TotalScore {
			return ranked[i].TotalScore > ranked[j].TotalScore
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// GetMyStats computes the caller's breakdown with the same scoring law as the
// ranking, plus their rank and a recent activity feed.
func (s *LeaderboardService) GetMyStats(userID uint) (*MyStats, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return nil, translateNotFound(err)
	}

	karma, err := s.Karma.CalculateTestKarma(userID)
	if err != nil {
		return nil, err
	}

	breakdown := &LeaderboardEntry{
		UserID:         userID,
		Username:       user.Username,
		Avatar:         user.Avatar,
		KarmaGiven:     karma.Given,
		KarmaReceived:  karma.Received,
		KarmaPenalties: karma.OfferPenalties,
	}

	type responseAgg struct {
		ResponseHelpful int64
		SolutionsCount  int64
		TotalResponses  int64
	}
	var ra responseAgg
	err = s.DB.Model(&models.IssueResponse{}).
		Select("COALESCE(SUM(helpful_count),0) AS response_helpful, "+
			"COALESCE(SUM(CASE WHEN is_solution THEN 1 ELSE 0 END),0) AS solutions_count, "+
			"COUNT(*) AS total_responses").
		Where("user_id = ?", userID).
		Scan(&ra).Error
	if err != nil {
		return nil, err
	}
	breakdown.ResponseHelpful = ra.ResponseHelpful
	breakdown.SolutionsCount = ra.SolutionsCount
	breakdown.TotalResponses = ra.TotalResponses

	type issueAgg struct {
		IssueHelpful    int64
		GithubReactions int64
		GithubNegative  int64
		TotalIssues     int64
	}
	var ia issueAgg
	err = s.DB.Model(&models.Issue{}).
		Select("COALESCE(SUM(helpful_count),0) AS issue_helpful, "+
			"COALESCE(SUM(github_reactions),0) AS github_reactions, "+
			"COALESCE(SUM(github_negative_reactions),0) AS github_negative, "+
			"COUNT(*) AS total_issues").
		Where("user_id = ? AND source_platform <> ?", userID, models.SourcePlatformSystem).
		Scan(&ia).Error
	if err != nil {
		return nil, err
	}
	breakdown.IssueHelpful = ia.IssueHelpful
	breakdown.GithubReactions = ia.GithubReactions
	breakdown.GithubNegative = ia.GithubNegative
	breakdown.TotalIssues = ia.TotalIssues

	err = s.DB.Model(&models.UserRating{}).
		Where("rated_user_id = ? AND stars = ?", userID, 5).
		Count(&breakdown.FiveStarRatings).Error
	if err != nil {
		return nil, err
	}

	breakdown.TotalScore = breakdown.score()

	rank := 0
	ranking, err := s.fullRanking()
	if err != nil {
		return nil, err
	}
	for _, e := range ranking {
		if e.UserID == userID {
			rank = e.Rank
			break
		}
	}

	recent, err := s.recentActivities(userID)
	if err != nil {
		return nil, err
	}

	return &MyStats{
		UserID:     userID,
		Username:   user.Username,
		Avatar:     user.Avatar,
		Rank:       rank,
		TotalScore: breakdown.TotalScore,
		Breakdown:  breakdown,
		Karma:      karma,
		Recent:     recent,
	}, nil
}

const recentActivityLimit = 10

// recentActivities builds the reverse-chronological feed of point-earning
// events, capped at the 10 most recent across all event kinds.
func (s *LeaderboardService) recentActivities(userID uint) ([]Activity, error) {
	activities := []Activity{}

	type responseDetail struct {
		HelpfulCount int64
		CreatedAt    time.Time
		IssueTitle   string
		ProjectName  string
	}

	// Solutions: +1 each.
	var solutions []responseDetail
	err := s.DB.Model(&models.IssueResponse{}).
		Select("issue_responses.helpful_count, issue_responses.created_at, "+
			"issues.title AS issue_title, projects.name AS project_name").
		Joins("JOIN issues ON issues.id = issue_responses.issue_id").
		Joins("JOIN projects ON projects.id = issues.project_id").
		Where("issue_responses.user_id = ? AND issue_responses.is_solution = ?", userID, true).
		Order("issue_responses.created_at DESC").
		Limit(recentActivityLimit).
		Scan(&solutions).Error
	if err != nil {
		return nil, err
	}
	for _, r := range solutions {
		activities = append(activities, Activity{
			Type:        "solution",
			Points:      1,
			Description: fmt.Sprintf("Solution marked for '%s'", r.IssueTitle),
			Project:     r.ProjectName,
			CreatedAt:   r.CreatedAt,
		})
	}

	// Helpful votes on non-solution responses: +1 per vote.
	var helpfulResponses []responseDetail
	err = s.DB.Model(&models.IssueResponse{}).
		Select("issue_responses.helpful_count, issue_responses.created_at, "+
			"issues.title AS issue_title, projects.name AS project_name").
		Joins("JOIN issues ON issues.id = issue_responses.issue_id").
		Joins("JOIN projects ON projects.id = issues.project_id").
		Where("issue_responses.user_id = ? AND issue_responses.helpful_count > 0 AND issue_responses.is_solution = ?",
			userID, false).
		Order("issue_responses.created_at DESC").
		Limit(recentActivityLimit).
		Scan(&helpfulResponses).Error
	if err != nil {
		return nil, err
	}
	for _, r := range helpfulResponses {
		activities = append(activities, Activity{
			Type:        "response_helpful",
			Points:      r.HelpfulCount,
			Description: fmt.Sprintf("Response got %d helpful vote(s) on '%s'", r.HelpfulCount, r.IssueTitle),
			Project:     r.ProjectName,
			CreatedAt:   r.CreatedAt,
		})
	}

	// Issues that earned votes or reactions.
	type issueDetail struct {
		Title           string
		HelpfulCount    int64
		GithubReactions int64
		GithubNegative  int64
		CreatedAt       time.Time
		ProjectName     string
	}
	var votedIssues []issueDetail
	err = s.DB.Model(&models.Issue{}).
		Select("issues.title, issues.helpful_count, issues.github_reactions, "+
			"issues.github_negative_reactions AS github_negative, issues.created_at, "+
			"projects.name AS project_name").
		Joins("JOIN projects ON projects.id = issues.project_id").
		Where("issues.user_id = ? AND issues.source_platform <> ? AND (issues.helpful_count > 0 OR issues.github_reactions > 0)",
			userID, models.SourcePlatformSystem).
		Order("issues.created_at DESC").
		Limit(recentActivityLimit).
		Scan(&votedIssues).Error
	if err != nil {
		return nil, err
	}
	for _, r := range votedIssues {
		activities = append(activities, Activity{
			Type:        "issue_helpful",
			Points:      r.HelpfulCount + r.GithubReactions - r.GithubNegative,
			Description: fmt.Sprintf("Issue '%s' got votes", r.Title),
			Project:     r.ProjectName,
			CreatedAt:   r.CreatedAt,
		})
	}

	// Five-star ratings: +1 each.
	type ratingDetail struct {
		CreatedAt     time.Time
		RaterUsername string
	}
	var ratings []ratingDetail
	err = s.DB.Model(&models.UserRating{}).
		Select("user_ratings.created_at, users.username AS rater_username").
		Joins("JOIN users ON users.id = user_ratings.rater_user_id").
		Where("user_ratings.rated_user_id = ? AND user_ratings.stars = ?", userID, 5).
		Order("user_ratings.created_at DESC").
		Limit(recentActivityLimit).
		Scan(&ratings).Error
	if err != nil {
		return nil, err
	}
	for _, r := range ratings {
		activities = append(activities, Activity{
			Type:        "five_star",
			Points:      1,
			Description: fmt.Sprintf("5-star rating from %s", r.RaterUsername),
			CreatedAt:   r.CreatedAt,
		})
	}

	// Karma-giving issues: +1 for each issue reported on someone else's project.
	type givenDetail struct {
		Title       string
		CreatedAt   time.Time
		ProjectName string
	}
	var given []givenDetail
	err = s.DB.Model(&models.Issue{}).
		Select("issues.title, issues.created_at, projects.name AS project_name").
		Joins("JOIN projects ON projects.id = issues.project_id").
		Where("issues.user_id = ? AND issues.user_id <> projects.user_id AND issues.source_platform <> ?",
			userID, models.SourcePlatformSystem).
		Order("issues.created_at DESC").
		Limit(recentActivityLimit).
		Scan(&given).Error
	if err != nil {
		return nil, err
	}
	for _, r := range given {
		activities = append(activities, Activity{
			Type:        "karma_given",
			Points:      1,
			Description: fmt.Sprintf("Reported issue '%s'", r.Title),
			Project:     r.ProjectName,
			CreatedAt:   r.CreatedAt,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
	if len(activities) > recentActivityLimit {
		activities = activities[:recentActivityLimit]
	}
	return activities, nil
}
