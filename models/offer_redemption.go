package models

import "time"

// ObligationWindow is how long a claimer has to give feedback on the offering
// project before the karma penalty kicks in.
const ObligationWindow = 7 * 24 * time.Hour

// OfferRedemption tracks who claimed which coupon and whether they fulfilled the
// feedback obligation that comes with it.
//
// Lifecycle: claimed -> (deadline passes unfulfilled) -> penalized by the sweep ->
// fulfilled at any later time reverses the penalty. Fulfilling before the deadline
// skips the penalty entirely. Fulfilled is terminal.
type OfferRedemption struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	OfferID   uint `gorm:"not null;uniqueIndex:idx_offer_redemption" json:"offer_id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_offer_redemption" json:"user_id"`
	ProjectID uint `gorm:"index;not null" json:"project_id"` // the project the offer belongs to

	ClaimedAt time.Time `json:"claimed_at" gorm:"autoCreateTime"`
	Deadline  time.Time `gorm:"not null" json:"deadline"` // ClaimedAt + ObligationWindow

	Fulfilled   bool       `gorm:"default:false" json:"fulfilled"`
	FulfilledAt *time.Time `json:"fulfilled_at,omitempty"`

	KarmaPenaltyApplied  bool `gorm:"default:false" json:"karma_penalty_applied"`
	KarmaPenaltyReversed bool `gorm:"default:false" json:"karma_penalty_reversed"`
}

// IsOverdue reports whether the deadline has passed without fulfillment.
func (r *OfferRedemption) IsOverdue() bool {
	return !r.Fulfilled && time.Now().After(r.Deadline)
}

// DaysRemaining returns whole days until the deadline, floored at 0.
func (r *OfferRedemption) DaysRemaining() int {
	if r.Fulfilled {
		return 0
	}
	remaining := int(time.Until(r.Deadline).Hours() / 24)
	if remaining < 0 {
		return 0
	}
	return remaining
}
