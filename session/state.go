// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrSessionInactive = errors.New("voting session is no longer active")
	ErrNotSessionOwner = errors.New("voting session belongs to another user")
	ErrUnknownAction   = errors.New("unknown session action")
)

type State int

const (
	NotStarted State = iota
	AwaitingStart
	Browsing
	Finished
	Rejected
	Expired
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case AwaitingStart:
		return "awaiting_start"
	case Browsing:
		return "browsing"
	case Finished:
		return "finished"
	case Rejected:
		return "rejected"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Terminal states accept no further actions.
func (s State) Terminal() bool {
	return s == Finished || s == Rejected || s == Expired
}

// Session is one user's interactive pass over a ballot. Votes, budget and
// remaining options live in the ledger; the session only tracks where the
// user is.
type Session struct {
	ID       string
	BallotID string
	UserID   string

	mu         sync.Mutex
	state      State
	page       int
	lastActive time.Time
}

func (s *Session) idle(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.lastActive) > timeout
}
