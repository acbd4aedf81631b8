package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev-feedback-system/models"
)

func TestCreateCommentFulfillsObligation(t *testing.T) {
	db := newTestDB(t)
	communitySvc := NewCommunityService(db)
	offerSvc := NewOfferService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	tester := seedUser(t, db, "tester", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")
	offer := seedOffer(t, db, project.ID, nil)

	post, err := communitySvc.CreatePost(project.ID, dev.ID, "v2 released", "", "")
	require.NoError(t, err)

	claim, err := offerSvc.ClaimOffer(tester.ID, offer.ID)
	require.NoError(t, err)

	_, err = communitySvc.CreateComment(post.ID, tester.ID, "congrats, trying it now")
	require.NoError(t, err)

	var stored models.OfferRedemption
	require.NoError(t, db.First(&stored, claim.ID).Error)
	assert.True(t, stored.Fulfilled, "commenting on the project's post is feedback")
}

func TestCreatePostOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db)

	dev := seedUser(t, db, "dev", models.RoleDeveloper)
	stranger := seedUser(t, db, "stranger", models.RoleTester)
	project := seedProject(t, db, dev.ID, "app")

	_, err := svc.CreatePost(project.ID, stranger.ID, "not mine", "", "")
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestDeleteMessageCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommunityService(db)
	voteSvc := NewVoteService(db)

	author := seedUser(t, db, "author", models.RoleDeveloper)
	replier := seedUser(t, db, "replier", models.RoleTester)

	message, err := svc.CreateMessage(author.ID, "anyone tried the new API?")
	require.NoError(t, err)
	reply, err := svc.ReplyToMessage(message.ID, replier.ID, "yes, works fine")
	require.NoError(t, err)

	_, err = voteSvc.VoteMessage(message.ID, replier.ID, models.VoteUp)
	require.NoError(t, err)
	_, err = voteSvc.VoteMessageReply(reply.ID, author.ID, models.VoteUp)
	require.NoError(t, err)

	// Only the author may delete.
	assert.ErrorIs(t, svc.DeleteMessage(message.ID, replier.ID), ErrNotAuthorized)
	require.NoError(t, svc.DeleteMessage(message.ID, author.ID))

	var count int64
	db.Model(&models.MessageReply{}).Where("message_id = ?", message.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.MessageVote{}).Where("message_id = ?", message.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.MessageReplyVote{}).Where("reply_id = ?", reply.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}
