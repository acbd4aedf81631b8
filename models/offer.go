package models

import "time"

type OfferType string

const (
	OfferTypeFreeTrial    OfferType = "free_trial"
	OfferTypeDiscount     OfferType = "discount"
	OfferTypeEarlyAdopter OfferType = "early_adopter"
	OfferTypeLifetime     OfferType = "lifetime"
	OfferTypeBetaAccess   OfferType = "beta_access"
	OfferTypeOther        OfferType = "other"
)

// Offer is a coupon a developer attaches to their project. Claiming it creates a
// time-boxed obligation to give feedback on the project (see OfferRedemption).
type Offer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"index;not null" json:"project_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	OfferType   OfferType `gorm:"size:50;default:'other'" json:"offer_type"`

	OriginalPrice   string `gorm:"size:50" json:"original_price,omitempty"`
	OfferPrice      string `gorm:"size:50" json:"offer_price,omitempty"`
	DiscountPercent *int   `json:"discount_percent,omitempty"`
	Duration        string `gorm:"size:100" json:"duration,omitempty"`

	CouponCode    string `gorm:"size:50" json:"coupon_code,omitempty"`
	RedemptionURL string `gorm:"size:500" json:"redemption_url,omitempty"`

	MaxRedemptions     *int `json:"max_redemptions,omitempty"` // nil = unlimited
	CurrentRedemptions int  `gorm:"default:0" json:"current_redemptions"`

	ValidFrom  time.Time  `json:"valid_from" gorm:"autoCreateTime"`
	ValidUntil *time.Time `json:"valid_until,omitempty"` // nil = no expiry
	IsActive   bool       `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// IsValid reports whether the offer can currently be claimed: active, not expired
// and not exhausted.
func (o *Offer) IsValid() bool {
	if !o.IsActive {
		return false
	}
	if o.ValidUntil != nil && time.Now().After(*o.ValidUntil) {
		return false
	}
	if o.MaxRedemptions != nil && o.CurrentRedemptions >= *o.MaxRedemptions {
		return false
	}
	return true
}

// SpotsLeft returns the remaining redemption slots, or nil for unlimited offers.
func (o *Offer) SpotsLeft() *int {
	if o.MaxRedemptions == nil {
		return nil
	}
	left := *o.MaxRedemptions - o.CurrentRedemptions
	if left < 0 {
		left = 0
	}
	return &left
}
