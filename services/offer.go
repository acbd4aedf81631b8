package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"dev-feedback-system/models"

	"gorm.io/gorm"
)

type OfferService struct {
	DB    *gorm.DB
	Karma *KarmaService
}

func NewOfferService(db *gorm.DB) *OfferService {
	return &OfferService{DB: db, Karma: NewKarmaService(db)}
}

// OfferInput carries the owner-editable offer fields.
type OfferInput struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	OfferType       models.OfferType `json:"offer_type"`
	OriginalPrice   string           `json:"original_price"`
	OfferPrice      string           `json:"offer_price"`
	DiscountPercent *int             `json:"discount_percent"`
	Duration        string           `json:"duration"`
	CouponCode      string           `json:"coupon_code"`
	RedemptionURL   string           `json:"redemption_url"`
	MaxRedemptions  *int             `json:"max_redemptions"`
	ValidUntil      *time.Time       `json:"valid_until"`
}

// CreateOffer attaches a new offer to a project owned by the caller. Testers
// cannot create offers.
func (s *OfferService) CreateOffer(userID, projectID uint, in OfferInput) (*models.Offer, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if user.Role == models.RoleTester {
		return nil, ErrTesterForbidden
	}

	var project models.Project
	if err := s.DB.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		return nil, translateNotFound(err)
	}

	offer := &models.Offer{
		ProjectID:       projectID,
		Title:           in.Title,
		Description:     in.Description,
		OfferType:       in.OfferType,
		OriginalPrice:   in.OriginalPrice,
		OfferPrice:      in.OfferPrice,
		DiscountPercent: in.DiscountPercent,
		Duration:        in.Duration,
		CouponCode:      strings.ToUpper(in.CouponCode),
		RedemptionURL:   in.RedemptionURL,
		MaxRedemptions:  in.MaxRedemptions,
		ValidUntil:      in.ValidUntil,
		IsActive:        true,
	}
	if offer.OfferType == "" {
		offer.OfferType = models.OfferTypeOther
	}
	if err := s.DB.Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

// UpdateOffer replaces the editable fields of an offer owned by the caller.
func (s *OfferService) UpdateOffer(userID, offerID uint, in OfferInput) (*models.Offer, error) {
	offer, err := s.ownedOffer(userID, offerID)
	if err != nil {
		return nil, err
	}

	offer.Title = in.Title
	offer.Description = in.Description
	offer.OfferType = in.OfferType
	offer.OriginalPrice = in.OriginalPrice
	offer.OfferPrice = in.OfferPrice
	offer.DiscountPercent = in.DiscountPercent
	offer.Duration = in.Duration
	offer.CouponCode = strings.ToUpper(in.CouponCode)
	offer.RedemptionURL = in.RedemptionURL
	offer.MaxRedemptions = in.MaxRedemptions
	offer.ValidUntil = in.ValidUntil

	if err := s.DB.Save(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

// ToggleOffer flips the active flag.
func (s *OfferService) ToggleOffer(userID, offerID uint) (*models.Offer, error) {
	offer, err := s.ownedOffer(userID, offerID)
	if err != nil {
		return nil, err
	}
	offer.IsActive = !offer.IsActive
	if err := s.DB.Save(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

// DeleteOffer removes an offer and its redemption history.
func (s *OfferService) DeleteOffer(userID, offerID uint) error {
	offer, err := s.ownedOffer(userID, offerID)
	if err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", offerID).Delete(&models.OfferRedemption{}).Error; err != nil {
			return err
		}
		return tx.Delete(offer).Error
	})
}

// ListOffers returns all currently claimable offers, newest first. Claimable
// means active, not expired and not exhausted, same as Offer.IsValid.
func (s *OfferService) ListOffers() ([]models.Offer, error) {
	var offers []models.Offer
	err := s.DB.
		Where("is_active = ?", true).
		Where("valid_until IS NULL OR valid_until > ?", time.Now()).
		Where("max_redemptions IS NULL OR current_redemptions < max_redemptions").
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

// ClaimOffer records that the user took the coupon and now owes the project
// feedback within the obligation window. Claiming twice returns the original
// redemption unchanged. The redemption insert and the counter increment commit
// together so a cap of N can never hand out more than N coupons.
func (s *OfferService) ClaimOffer(userID, offerID uint) (*models.OfferRedemption, error) {
	var offer models.Offer
	if err := s.DB.First(&offer, offerID).Error; err != nil {
		return nil, translateNotFound(err)
	}

	// Idempotent re-claim: hand back the existing state, deadline untouched.
	var existing models.OfferRedemption
	err := s.DB.Where("offer_id = ? AND user_id = ?", offerID, userID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var project models.Project
	if err := s.DB.First(&project, offer.ProjectID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if project.UserID == userID {
		return nil, ErrOwnOffer
	}

	karma, err := s.Karma.CalculateTestKarma(userID)
	if err != nil {
		return nil, err
	}
	if karma.IsBlocked {
		return nil, ErrKarmaBlocked
	}

	if !offer.IsValid() {
		return nil, ErrOfferUnavailable
	}

	now := time.Now()
	redemption := &models.OfferRedemption{
		OfferID:   offerID,
		UserID:    userID,
		ProjectID: offer.ProjectID,
		ClaimedAt: now,
		Deadline:  now.Add(models.ObligationWindow),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(redemption).Error; err != nil {
			return err
		}
		// Guarded increment: refuses to run past the cap even under a racing claim.
		res := tx.Model(&models.Offer{}).
			Where("id = ? AND (max_redemptions IS NULL OR current_redemptions < max_redemptions)", offerID).
			Update("current_redemptions", gorm.Expr("current_redemptions + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOfferUnavailable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎟️ Offer %d claimed by user %d (deadline %s)", offerID, userID, redemption.Deadline.Format(time.RFC3339))
	return redemption, nil
}

// FulfillObligation closes every pending redemption the user holds against the
// project. Called whenever the user posts an issue, response or comment there.
// Penalties already applied are reversed in the same write. No-op when nothing
// is pending.
func (s *OfferService) FulfillObligation(userID, projectID uint) error {
	return s.fulfillObligationTx(s.DB, userID, projectID)
}

func (s *OfferService) fulfillObligationTx(db *gorm.DB, userID, projectID uint) error {
	var pending []models.OfferRedemption
	err := db.Where("user_id = ? AND project_id = ? AND fulfilled = ?", userID, projectID, false).
		Find(&pending).Error
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	now := time.Now()
	return db.Transaction(func(tx *gorm.DB) error {
		for i := range pending {
			r := &pending[i]
			r.Fulfilled = true
			r.FulfilledAt = &now
			if r.KarmaPenaltyApplied {
				r.KarmaPenaltyReversed = true
			}
			if err := tx.Save(r).Error; err != nil {
				return err
			}
		}
		log.Printf("✅ User %d fulfilled %d obligation(s) on project %d", userID, len(pending), projectID)
		return nil
	})
}

// SweepOverduePenalties applies the karma penalty to every redemption whose
// deadline passed unfulfilled. One bulk conditional update; the applied flag
// makes repeated sweeps harmless. Reversal never happens here.
func (s *OfferService) SweepOverduePenalties() (int64, error) {
	res := s.DB.Model(&models.OfferRedemption{}).
		Where("fulfilled = ? AND karma_penalty_applied = ? AND deadline < ?", false, false, time.Now()).
		Update("karma_penalty_applied", true)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("⚖️ Penalty sweep: %d overdue redemption(s) penalized", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

// GetUserRedemptions lists the caller's claims, pending first.
func (s *OfferService) GetUserRedemptions(userID uint) ([]models.OfferRedemption, error) {
	var redemptions []models.OfferRedemption
	err := s.DB.Where("user_id = ?", userID).
		Order("fulfilled ASC, deadline ASC").
		Find(&redemptions).Error
	return redemptions, err
}

func (s *OfferService) ownedOffer(userID, offerID uint) (*models.Offer, error) {
	var offer models.Offer
	if err := s.DB.First(&offer, offerID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	var project models.Project
	if err := s.DB.First(&project, offer.ProjectID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if project.UserID != userID {
		return nil, ErrNotAuthorized
	}
	return &offer, nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
