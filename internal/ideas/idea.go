// Package ideas implements the feedback idea board: visitors submit
// feature ideas and vote on them.
package ideas

import (
	"errors"
	"time"
)

// Idea is a submitted feature idea with its running vote total.
type Idea struct {
	ID        int64
	Content   string
	AuthorID  string
	Votes     int
	CreatedAt time.Time
}

// VoteType is the direction of a vote.
type VoteType string

const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// Delta returns the vote's numeric contribution.
func (v VoteType) Delta() int {
	if v == VoteDown {
		return -1
	}

	return 1
}

var (
	// ErrIdeaNotFound is returned when a vote targets an unknown idea.
	ErrIdeaNotFound = errors.New("idea not found")

	// ErrDuplicateVote is returned when an author repeats the vote they
	// already cast. Switching direction is allowed; repeating is not.
	ErrDuplicateVote = errors.New("vote already cast")

	// ErrVoteNotFound is the store signal that an author has not voted
	// on an idea yet.
	ErrVoteNotFound = errors.New("vote not found")

	// ErrRateLimited is returned when an author exceeds the daily
	// submission quota.
	ErrRateLimited = errors.New("daily idea limit reached")
)
