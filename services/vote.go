package services

import (
	"time"

	"dev-feedback-system/models"

	"gorm.io/gorm"
)

// VoteState is the caller's resulting relationship to the entity after a cast.
type VoteState string

const (
	VoteStateUp   VoteState = "upvote"
	VoteStateDown VoteState = "downvote"
	VoteStateNone VoteState = "none"
)

// VoteResult reports the post-toggle state plus both denormalized counters.
type VoteResult struct {
	State     VoteState `json:"state"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
}

// voteAction is what the toggle decided to do with the vote record.
type voteAction int

const (
	voteCreate voteAction = iota
	voteDelete
	voteFlip
)

// applyVoteToggle is the pure toggle law shared by every votable entity:
// no record -> create; same type -> remove; opposite type -> flip in place.
// Returns the counter deltas to apply; the write side floors the stored
// counters at zero.
func applyVoteToggle(existing *models.VoteType, requested models.VoteType) (voteAction, VoteState, int, int) {
	switch {
	case existing == nil:
		if requested == models.VoteUp {
			return voteCreate, VoteStateUp, 1, 0
		}
		return voteCreate, VoteStateDown, 0, 1

	case *existing == requested:
		if requested == models.VoteUp {
			return voteDelete, VoteStateNone, -1, 0
		}
		return voteDelete, VoteStateNone, 0, -1

	default:
		if requested == models.VoteUp {
			return voteFlip, VoteStateUp, 1, -1
		}
		return voteFlip, VoteStateDown, -1, 1
	}
}

type VoteService struct {
	DB *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{DB: db}
}

// voteTarget abstracts the entity-specific pieces of a toggle: which table
// holds the counters, who authored the entity, and how the vote row is keyed.
type voteTarget struct {
	entityTable string      // table holding the counters
	voteModel   interface{} // empty vote record, e.g. &models.IssueVote{}
	voteColumn  string      // FK column in the vote table, e.g. "issue_id"
	authorID    *uint       // nil for anonymized entities (self-vote cannot trigger)
	entityID    uint
}

// castVote runs the toggle protocol for one entity inside a single transaction:
// the vote-record mutation and both counter updates commit or roll back together.
func (s *VoteService) castVote(t voteTarget, userID uint, voteType models.VoteType) (*VoteResult, error) {
	if !models.ValidVoteType(voteType) {
		return nil, ErrInvalidVoteType
	}
	if t.authorID != nil && *t.authorID == userID {
		return nil, ErrSelfVote
	}

	var result *VoteResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existingTypes []string
		err := tx.Model(t.voteModel).
			Where(t.voteColumn+" = ? AND user_id = ?", t.entityID, userID).
			Limit(1).
			Pluck("vote_type", &existingTypes).Error
		if err != nil {
			return err
		}
		var existingType *models.VoteType
		if len(existingTypes) > 0 {
			vt := models.VoteType(existingTypes[0])
			existingType = &vt
		}

		action, state, upDelta, downDelta := applyVoteToggle(existingType, voteType)

		switch action {
		case voteCreate:
			create := map[string]interface{}{
				t.voteColumn: t.entityID,
				"user_id":    userID,
				"vote_type":  string(voteType),
				"created_at": time.Now(),
			}
			if err := tx.Model(t.voteModel).Create(create).Error; err != nil {
				return err
			}
		case voteDelete:
			if err := tx.Where(t.voteColumn+" = ? AND user_id = ?", t.entityID, userID).
				Delete(t.voteModel).Error; err != nil {
				return err
			}
		case voteFlip:
			// Single record mutated in place, never delete+create.
			if err := tx.Model(t.voteModel).
				Where(t.voteColumn+" = ? AND user_id = ?", t.entityID, userID).
				Update("vote_type", string(voteType)).Error; err != nil {
				return err
			}
		}

		// Relative increments, floored in SQL, so concurrent voters on the same
		// entity never clobber each other's counter writes.
		upCol := s.upColumn(t.entityTable)
		downCol := s.downColumn(t.entityTable)
		updates := map[string]interface{}{}
		if upDelta != 0 {
			updates[upCol] = gorm.Expr(
				"CASE WHEN "+upCol+" + ? < 0 THEN 0 ELSE "+upCol+" + ? END", upDelta, upDelta)
		}
		if downDelta != 0 {
			updates[downCol] = gorm.Expr(
				"CASE WHEN "+downCol+" + ? < 0 THEN 0 ELSE "+downCol+" + ? END", downDelta, downDelta)
		}
		if err := tx.Table(t.entityTable).Where("id = ?", t.entityID).
			Updates(updates).Error; err != nil {
			return err
		}

		var counters struct {
			Up   int
			Down int
		}
		if err := tx.Table(t.entityTable).
			Select(upCol+" AS up, "+downCol+" AS down").
			Where("id = ?", t.entityID).
			Scan(&counters).Error; err != nil {
			return err
		}

		result = &VoteResult{State: state, Upvotes: counters.Up, Downvotes: counters.Down}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Issues and responses keep their historical "helpful" naming for the positive
// counter; the newer community entities use plain upvote/downvote columns.
func (s *VoteService) upColumn(table string) string {
	switch table {
	case "issues", "issue_responses":
		return "helpful_count"
	}
	return "upvote_count"
}

func (s *VoteService) downColumn(table string) string {
	return "downvote_count"
}

// VoteIssue toggles the caller's vote on an issue.
func (s *VoteService) VoteIssue(issueID, userID uint, voteType models.VoteType) (*VoteResult, error) {
	var issue models.Issue
	if err := s.DB.First(&issue, issueID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return s.castVote(voteTarget{
		entityTable: "issues",
		voteModel:   &models.IssueVote{},
		voteColumn:  "issue_id",
		authorID:    issue.UserID,
		entityID:    issue.ID,
	}, userID, voteType)
}

// VoteResponse toggles the caller's vote on an issue response.
func (s *VoteService) VoteResponse(responseID, userID uint, voteType models.VoteType) (*VoteResult, error) {
	var response models.IssueResponse
	if err := s.DB.First(&response, responseID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return s.castVote(voteTarget{
		entityTable: "issue_responses",
		voteModel:   &models.ResponseVote{},
		voteColumn:  "response_id",
		authorID:    response.UserID,
		entityID:    response.ID,
	}, userID, voteType)
}

// VotePost toggles the caller's vote on a project post.
func (s *VoteService) VotePost(postID, userID uint, voteType models.VoteType) (*VoteResult, error) {
	var post models.Post
	if err := s.DB.First(&post, postID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return s.castVote(voteTarget{
		entityTable: "posts",
		voteModel:   &models.PostVote{},
		voteColumn:  "post_id",
		authorID:    &post.UserID,
		entityID:    post.ID,
	}, userID, voteType)
}

// VoteComment toggles the caller's vote on a comment.
func (s *VoteService) VoteComment(commentID, userID uint, voteType models.VoteType) (*VoteResult, error) {
	var comment models.Comment
	if err := s.DB.First(&comment, commentID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return s.castVote(voteTarget{
		entityTable: "comments",
		voteModel:   &models.CommentVote{},
		voteColumn:  "comment_id",
		authorID:    &comment.UserID,
		entityID:    comment.ID,
	}, userID, voteType)
}

// VoteMessage toggles the caller's vote on a community message.
func (s *VoteService) VoteMessage(messageID, userID uint, voteType models.VoteType) (*VoteResult, error) {
	var message models.Message
	if err := s.DB.First(&message, messageID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return s.castVote(voteTarget{
		entityTable: "messages",
		voteModel:   &models.MessageVote{},
		voteColumn:  "message_id",
		authorID:    &message.UserID,
		entityID:    message.ID,
	}, userID, voteType)
}

// VoteMessageReply toggles the caller's vote on a message reply.
func (s *VoteService) VoteMessageReply(replyID, userID uint, voteType models.VoteType) (*VoteResult, error) {
	var reply models.MessageReply
	if err := s.DB.First(&reply, replyID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return s.castVote(voteTarget{
		entityTable: "message_replies",
		voteModel:   &models.MessageReplyVote{},
		voteColumn:  "reply_id",
		authorID:    &reply.UserID,
		entityID:    reply.ID,
	}, userID, voteType)
}
