package services

import (
	"errors"

	"dev-feedback-system/models"

	"gorm.io/gorm"
)

// KarmaLimit is the floor below which a user is blocked from taking on new offer
// obligations. karma = given - received - offerPenalties.
const KarmaLimit = -5

// TestKarma is the fairness breakdown for a single user. All counts exclude
// system-generated issues.
type TestKarma struct {
	Given              int64 `json:"given"`               // issues written on other people's projects
	Received           int64 `json:"received"`            // issues others wrote on own projects
	OfferPenalties     int64 `json:"offer_penalties"`     // applied and not reversed
	PendingObligations int64 `json:"pending_obligations"` // unfulfilled redemptions
	Karma              int64 `json:"karma"`
	IsBlocked          bool  `json:"is_blocked"`
	Limit              int   `json:"limit"`
}

type KarmaService struct {
	DB *gorm.DB
}

func NewKarmaService(db *gorm.DB) *KarmaService {
	return &KarmaService{DB: db}
}

// CalculateTestKarma derives the fairness score from raw records. Pure read: no
// score column exists anywhere, so repeated calls always reflect current state.
func (s *KarmaService) CalculateTestKarma(userID uint) (*TestKarma, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	k := &TestKarma{Limit: KarmaLimit}

	// Issues this user reported on projects they do not own.
	err := s.DB.Model(&models.Issue{}).
		Joins("JOIN projects ON projects.id = issues.project_id").
		Where("issues.user_id = ? AND projects.user_id <> ? AND issues.source_platform <> ?",
			userID, userID, models.SourcePlatformSystem).
		Count(&k.Given).Error
	if err != nil {
		return nil, err
	}

	// Issues other users reported on this user's projects.
	err = s.DB.Model(&models.Issue{}).
		Joins("JOIN projects ON projects.id = issues.project_id").
		Where("projects.user_id = ? AND issues.user_id IS NOT NULL AND issues.user_id <> ? AND issues.source_platform <> ?",
			userID, userID, models.SourcePlatformSystem).
		Count(&k.Received).Error
	if err != nil {
		return nil, err
	}

	err = s.DB.Model(&models.OfferRedemption{}).
		Where("user_id = ? AND karma_penalty_applied = ? AND karma_penalty_reversed = ?", userID, true, false).
		Count(&k.OfferPenalties).Error
	if err != nil {
		return nil, err
	}

	err = s.DB.Model(&models.OfferRedemption{}).
		Where("user_id = ? AND fulfilled = ?", userID, false).
		Count(&k.PendingObligations).Error
	if err != nil {
		return nil, err
	}

	k.Karma = k.Given - k.Received - k.OfferPenalties
	k.IsBlocked = k.Karma < KarmaLimit
	return k, nil
}
