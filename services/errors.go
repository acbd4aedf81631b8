package services

import "errors"

// Sentinel errors returned by the reputation services. Handlers map these to
// HTTP statuses; everything else surfaces as a 500.
var (
	ErrNotFound         = errors.New("record not found")
	ErrSelfVote         = errors.New("cannot vote for own content")
	ErrSelfRate         = errors.New("cannot rate yourself or your own project")
	ErrInvalidVoteType  = errors.New("invalid vote type")
	ErrInvalidStars     = errors.New("rating must be between 1 and 5 stars")
	ErrInvalidIssueType = errors.New("invalid issue type")
	ErrInvalidStatus    = errors.New("invalid issue status")
	ErrOwnOffer         = errors.New("cannot claim an offer on your own project")
	ErrOfferUnavailable = errors.New("offer no longer available")
	ErrKarmaBlocked     = errors.New("karma too low to claim new offers")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrIssueClosed      = errors.New("closed issues cannot be edited")
	ErrTesterForbidden  = errors.New("testers cannot create projects or offers")
)
