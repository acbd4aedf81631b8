package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev-feedback-system/models"
)

func TestClaimOfferCreatesObligation(t *testing.T) {
	db := newTestDB(t)
	svc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")
	offer := seedOffer(t, db, project.ID, nil)

	before := time.Now()
	redemption, err := svc.ClaimOffer(tester.ID, offer.ID)
	require.NoError(t, err)

	assert.Equal(t, offer.ID, redemption.OfferID)
	assert.Equal(t, project.ID, redemption.ProjectID)
	assert.False(t, redemption.Fulfilled)
	assert.False(t, redemption.KarmaPenaltyApplied)

	wantDeadline := before.Add(models.ObligationWindow)
	assert.WithinDuration(t, wantDeadline, redemption.Deadline, 5*time.Second)

	var stored models.Offer
	require.NoError(t, db.First(&stored, offer.ID).Error)
	assert.Equal(t, 1, stored.CurrentRedemptions)
}

func TestClaimOfferIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")
	offer := seedOffer(t, db, project.ID, nil)

	first, err := svc.ClaimOffer(tester.ID, offer.ID)
	require.NoError(t, err)

	second, err := svc.ClaimOffer(tester.ID, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.WithinDuration(t, first.Deadline, second.Deadline, time.Second)

	var stored models.Offer
	require.NoError(t, db.First(&stored, offer.ID).Error)
	assert.Equal(t, 1, stored.CurrentRedemptions, "re-claim must not increment the counter")
}

func TestClaimOfferRejectsOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	project := seedProject(t, db, dev.ID, "app")
	offer := seedOffer(t, db, project.ID, nil)

	_, err := svc.ClaimOffer(dev.ID, offer.ID)
	assert.ErrorIs(t, err, ErrOwnOffer)
}

func TestClaimOfferRejectsBlockedUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")

	for i := 0; i < 6; i++ {
		penalized := seedOffer(t, db, project.ID, nil)
		require.NoError(t, db.Create(&models.OfferRedemption{
			OfferID:             penalized.ID,
			UserID:              tester.ID,
			ProjectID:           project.ID,
			Deadline:            time.Now().Add(-time.Hour),
			KarmaPenaltyApplied: true,
		}).Error)
	}

	fresh := seedOffer(t, db, project.ID, nil)
	_, err := svc.ClaimOffer(tester.ID, fresh.ID)
	assert.ErrorIs(t, err, ErrKarmaBlocked)
}

func TestClaimOfferRespectsCap(t *testing.T) {
	db := newTestDB(t)
	svc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	first := seedUser(t, db, "first", models.RoleTester)
	second := seedUser(t, db, "second", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")
	offer := seedOffer(t, db, project.ID, intPtr(1))

	_, err := svc.ClaimOffer(first.ID, offer.ID)
	require.NoError(t, err)

	_, err = svc.ClaimOffer(second.ID, offer.ID)
	assert.ErrorIs(t, err, ErrOfferUnavailable)

	var stored models.Offer
	require.NoError(t, db.First(&stored, offer.ID).Error)
	assert.Equal(t, 1, stored.CurrentRedemptions)
}

func TestClaimOfferRejectsInactiveAndExpired(t *testing.T) {
	db := newTestDB(t)
	svc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")

	inactive := seedOffer(t, db, project.ID, nil)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)
	_, err := svc.ClaimOffer(tester.ID, inactive.ID)
	assert.ErrorIs(t, err, ErrOfferUnavailable)

	expired := seedOffer(t, db, project.ID, nil)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(expired).Update("valid_until", past).Error)
	_, err = svc.ClaimOffer(tester.ID, expired.ID)
	assert.ErrorIs(t, err, ErrOfferUnavailable)
}

// Fulfillment before the deadline: no penalty ever appears.
func TestObligationFulfilledOnTime(t *testing.T) {
	db := newTestDB(t)
	svc := NewOfferService(db)
	karmaSvc := NewKarmaService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")
	offer := seedOffer(t, db, project.ID, nil)

	redemption, err := svc.ClaimOffer(tester.ID, offer.ID)
	require.NoError(t, err)

	require.NoError(t, svc.FulfillObligation(tester.ID, project.ID))

	var stored models.OfferRedemption
	require.NoError(t, db.First(&stored, redemption.ID).Error)
	assert.True(t, stored.Fulfilled)
	assert.NotNil(t, stored.FulfilledAt)
	assert.False(t, stored.KarmaPenaltyApplied)

	// The sweep must not touch fulfilled redemptions.
	swept, err := svc.SweepOverduePenalties()
	require.NoError(t, err)
	assert.EqualValues(t, 0, swept)

	karma, err := karmaSvc.CalculateTestKarma(tester.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, karma.OfferPenalties)
}

// Deadline passes, penalty lands, then late feedback reverses it.
func TestObligationPenaltyAndLateReversal(t *testing.T) {
	db := newTestDB(t)
	svc := NewOfferService(db)
	karmaSvc := NewKarmaService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")
	offer := seedOffer(t, db, project.ID, nil)

	redemption, err := svc.ClaimOffer(tester.ID, offer.ID)
	require.NoError(t, err)

	// Backdate the deadline to simulate the window elapsing.
	require.NoError(t, db.Model(&models.OfferRedemption{}).
		Where("id = ?", redemption.ID).
		Update("deadline", time.Now().Add(-time.Hour)).Error)

	swept, err := svc.SweepOverduePenalties()
	require.NoError(t, err)
	assert.EqualValues(t, 1, swept)

	// Sweeping again is a no-op.
	swept, err = svc.SweepOverduePenalties()
	require.NoError(t, err)
	assert.EqualValues(t, 0, swept)

	karma, err := karmaSvc.CalculateTestKarma(tester.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, karma.OfferPenalties)
	assert.EqualValues(t, -1, karma.Karma)

	// Late feedback fulfills and reverses.
	require.NoError(t, svc.FulfillObligation(tester.ID, project.ID))

	var stored models.OfferRedemption
	require.NoError(t, db.First(&stored, redemption.ID).Error)
	assert.True(t, stored.Fulfilled)
	assert.True(t, stored.KarmaPenaltyApplied)
	assert.True(t, stored.KarmaPenaltyReversed)

	karma, err = karmaSvc.CalculateTestKarma(tester.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, karma.OfferPenalties)
	assert.EqualValues(t, 0, karma.Karma)
}

func TestFulfillObligationNoPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")

	// Nothing claimed: must be a silent no-op.
	require.NoError(t, svc.FulfillObligation(tester.ID, project.ID))
}

func TestFulfillObligationScopedToProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	other := seedUser(t, db, "other", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	projectA := seedProject(t, db, dev.ID, "app-a")
	projectB := seedProject(t, db, other.ID, "app-b")
	offerA := seedOffer(t, db, projectA.ID, nil)
	offerB := seedOffer(t, db, projectB.ID, nil)

	_, err := svc.ClaimOffer(tester.ID, offerA.ID)
	require.NoError(t, err)
	claimB, err := svc.ClaimOffer(tester.ID, offerB.ID)
	require.NoError(t, err)

	require.NoError(t, svc.FulfillObligation(tester.ID, projectA.ID))

	var storedB models.OfferRedemption
	require.NoError(t, db.First(&storedB, claimB.ID).Error)
	assert.False(t, storedB.Fulfilled, "feedback on project A must not fulfill project B's obligation")
}

// The listing filters in the query itself, so disabled, expired and exhausted
// offers never reach the caller.
func TestListOffersOnlyClaimable(t *testing.T) {
	db := newTestDB(t)
	svc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	project := seedProject(t, db, dev.ID, "app")

	open := seedOffer(t, db, project.ID, nil)

	disabled := seedOffer(t, db, project.ID, nil)
	require.NoError(t, db.Model(disabled).Update("is_active", false).Error)

	expired := seedOffer(t, db, project.ID, nil)
	require.NoError(t, db.Model(expired).
		Update("valid_until", time.Now().Add(-time.Hour)).Error)

	exhausted := seedOffer(t, db, project.ID, intPtr(1))
	require.NoError(t, db.Model(exhausted).Update("current_redemptions", 1).Error)

	offers, err := svc.ListOffers()
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, open.ID, offers[0].ID)
}

func TestCreateOfferTesterForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")

	_, err := svc.CreateOffer(tester.ID, project.ID, OfferInput{Title: "nope", Description: "x"})
	assert.ErrorIs(t, err, ErrTesterForbidden)
}

func TestOfferOwnershipGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	stranger := seedUser(t, db, "stranger", models.RoleDeveloper)
	project := seedProject(t, db, dev.ID, "app")
	offer := seedOffer(t, db, project.ID, nil)

	_, err := svc.UpdateOffer(stranger.ID, offer.ID, OfferInput{Title: "hijack"})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.ToggleOffer(stranger.ID, offer.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	err = svc.DeleteOffer(stranger.ID, offer.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}
