// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haris-hm/gorkminion-voting-machine/chat"
	"github.com/haris-hm/gorkminion-voting-machine/clock"
	"github.com/haris-hm/gorkminion-voting-machine/ledger"
	"github.com/haris-hm/gorkminion-voting-machine/models"
)

// PageSize is how many options one voting page shows.
const PageSize = 4

// DefaultIdleTimeout applies when the manager is built with a zero timeout.
const DefaultIdleTimeout = 24 * time.Hour

// Ledger is the part of *ledger.Ledger a session drives.
type Ledger interface {
	Ensure(ctx context.Context, ballotID, userID string, optionIDs []int) (bool, error)
	Budget(ctx context.Context, ballotID, userID string) (int, int, error)
	RemainingOptions(ctx context.Context, ballotID, userID string) ([]int, error)
	RecordVote(ctx context.Context, ballotID string, optionID int, userID string) (ledger.Vote, error)
	VotedMessage(ctx context.Context, ballotID, userID string) (models.MessageRef, error)
	SetVotedMessage(ctx context.Context, ballotID, userID string, ref models.MessageRef) error
}

// Ballots looks up ballots by id.
type Ballots interface {
	Get(ctx context.Context, id string) (models.Ballot, error)
}

// Manager owns the live voting sessions.
type Manager struct {
	ledger    Ledger
	ballots   Ballots
	messenger chat.Messenger
	clock     clock.Clock
	idle      time.Duration
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(l Ledger, ballots Ballots, messenger chat.Messenger, clk clock.Clock, idle time.Duration, logger *slog.Logger) *Manager {
	if clk == nil {
		clk = clock.Real()
	}
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		ledger:    l,
		ballots:   ballots,
		messenger: messenger,
		clock:     clk,
		idle:      idle,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// Begin handles a user pressing the ballot's vote button. It creates the
// voter record on first contact and opens a session unless the user's votes
// are already spent, in which case the view has no session id.
func (m *Manager) Begin(ctx context.Context, ballotID, userID string) (models.SessionView, error) {
	b, err := m.ballots.Get(ctx, ballotID)
	if err != nil {
		return models.SessionView{}, err
	}
	if b.Closed {
		return models.SessionView{}, fmt.Errorf("ballot %s: %w", ballotID, models.ErrBallotClosed)
	}

	created, err := m.ledger.Ensure(ctx, b.ID, userID, b.OptionIDs())
	if err != nil {
		return models.SessionView{}, err
	}
	if created {
		m.announceStart(ctx, b, userID)
	}

	given, available, err := m.ledger.Budget(ctx, b.ID, userID)
	if err != nil {
		return models.SessionView{}, err
	}
	if given >= available {
		return models.SessionView{
			State:   Finished.String(),
			Message: models.Message{Content: chat.AlreadyVotedText},
		}, nil
	}

	s := &Session{
		ID:         uuid.NewString(),
		BallotID:   b.ID,
		UserID:     userID,
		state:      AwaitingStart,
		lastActive: m.clock.Now(),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	label := "Start Voting"
	if given > 0 {
		label = "Resume Voting"
	}
	return models.SessionView{
		SessionID: s.ID,
		State:     s.state.String(),
		Message: models.Message{
			Content: chat.VotingIntro(available, given, given > 0),
			Buttons: []models.Button{{
				CustomID: Action{Domain: DomainVote, Kind: KindStart, Arg: b.ID}.String(),
				Label:    label,
				Style:    models.StyleSuccess,
			}},
		},
	}, nil
}

// announceStart posts the "started voting" reply and remembers it so it can
// be edited once the user finishes. Failures only cost the announcement.
func (m *Manager) announceStart(ctx context.Context, b models.Ballot, userID string) {
	ref, err := m.messenger.Reply(ctx, b.PostedLocation, models.Message{
		Content:  chat.StartedVoting(userID),
		Mentions: []string{userID},
	})
	if err != nil {
		m.logger.Warn("failed to announce voter", "ballot_id", b.ID, "user_id", userID, "error", err)
		return
	}
	if err := m.ledger.SetVotedMessage(ctx, b.ID, userID, ref); err != nil {
		m.logger.Warn("failed to store voted message", "ballot_id", b.ID, "user_id", userID, "error", err)
	}
}

// Handle applies one button press to a session.
func (m *Manager) Handle(ctx context.Context, sessionID, userID, customID string) (models.SessionView, error) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return models.SessionView{}, ErrSessionInactive
	}
	if s.UserID != userID {
		return models.SessionView{}, ErrNotSessionOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := m.clock.Now()
	if s.state.Terminal() {
		return models.SessionView{}, ErrSessionInactive
	}
	if s.idle(now, m.idle) {
		s.state = Expired
		return models.SessionView{}, ErrSessionInactive
	}

	action, err := ParseAction(customID)
	if err != nil {
		return models.SessionView{}, err
	}
	if action.Domain != DomainVote {
		return models.SessionView{}, fmt.Errorf("%w: %q", ErrUnknownAction, customID)
	}
	s.lastActive = now

	b, err := m.ballots.Get(ctx, s.BallotID)
	if err != nil {
		return models.SessionView{}, err
	}
	if b.Closed {
		return m.closed(s), nil
	}

	switch action.Kind {
	case KindStart:
		if action.Arg != s.BallotID {
			return models.SessionView{}, fmt.Errorf("%w: start for ballot %q", ErrUnknownAction, action.Arg)
		}
		s.state = Browsing
		s.page = 0
		return m.render(ctx, s)

	case KindOption:
		if s.state != Browsing {
			return models.SessionView{}, fmt.Errorf("%w: vote before start", ErrUnknownAction)
		}
		return m.vote(ctx, s, action.Arg)

	case KindPage:
		if s.state != Browsing {
			return models.SessionView{}, fmt.Errorf("%w: paging before start", ErrUnknownAction)
		}
		switch action.Arg {
		case PagePrev:
			s.page = max(0, s.page-1)
		case PageNext:
			s.page++ // clamped by render
		default:
			return models.SessionView{}, fmt.Errorf("%w: %q", ErrUnknownAction, customID)
		}
		return m.render(ctx, s)
	}

	return models.SessionView{}, fmt.Errorf("%w: %q", ErrUnknownAction, customID)
}

func (m *Manager) vote(ctx context.Context, s *Session, arg string) (models.SessionView, error) {
	optionID, err := strconv.Atoi(arg)
	if err != nil {
		return m.reject(s, arg), nil
	}

	v, err := m.ledger.RecordVote(ctx, s.BallotID, optionID, s.UserID)
	switch {
	case errors.Is(err, models.ErrInvalidOption):
		return m.reject(s, arg), nil
	case errors.Is(err, models.ErrBudgetExhausted):
		return m.finish(ctx, s), nil
	case errors.Is(err, models.ErrBallotClosed):
		return m.closed(s), nil
	case err != nil:
		return models.SessionView{}, err
	}

	if v.RemainingValue <= 0 {
		return m.finish(ctx, s), nil
	}

	if s.page > 0 && s.page*PageSize >= len(v.Record.RemainingOptions) {
		s.page--
	}
	return m.render(ctx, s)
}

// reject ends the session after a vote that was never offered to the user.
func (m *Manager) reject(s *Session, arg string) models.SessionView {
	m.logger.Warn("rejected vote outside remaining options",
		"ballot_id", s.BallotID, "user_id", s.UserID, "option", arg)
	s.state = Rejected
	return models.SessionView{
		SessionID: s.ID,
		State:     s.state.String(),
		Message:   models.Message{Content: chat.RejectedText},
	}
}

// closed ends a session whose ballot was closed while it was open.
func (m *Manager) closed(s *Session) models.SessionView {
	m.logger.Info("voting session ended by ballot closure", "ballot_id", s.BallotID, "user_id", s.UserID)
	s.state = Expired
	return models.SessionView{
		SessionID: s.ID,
		State:     s.state.String(),
		Message:   models.Message{Content: chat.BallotClosedText},
	}
}

func (m *Manager) finish(ctx context.Context, s *Session) models.SessionView {
	s.state = Finished

	ref, err := m.ledger.VotedMessage(ctx, s.BallotID, s.UserID)
	switch {
	case err != nil:
		m.logger.Warn("failed to load voted message", "ballot_id", s.BallotID, "user_id", s.UserID, "error", err)
	case !ref.IsZero():
		err := m.messenger.Edit(ctx, ref, models.Message{
			Content:  chat.HasVoted(s.UserID),
			Mentions: []string{s.UserID},
		})
		if err != nil {
			m.logger.Warn("failed to edit voted message", "ballot_id", s.BallotID, "user_id", s.UserID, "error", err)
		}
	}

	m.logger.Info("voter finished", "ballot_id", s.BallotID, "user_id", s.UserID)
	return models.SessionView{
		SessionID: s.ID,
		State:     s.state.String(),
		Message:   models.Message{Content: chat.FinishedText},
	}
}

// render shows the session's current page of remaining options, clamping
// the page to the last one that exists.
func (m *Manager) render(ctx context.Context, s *Session) (models.SessionView, error) {
	given, available, err := m.ledger.Budget(ctx, s.BallotID, s.UserID)
	if err != nil {
		return models.SessionView{}, err
	}
	if given >= available {
		return m.finish(ctx, s), nil
	}

	remaining, err := m.ledger.RemainingOptions(ctx, s.BallotID, s.UserID)
	if err != nil {
		return models.SessionView{}, err
	}
	b, err := m.ballots.Get(ctx, s.BallotID)
	if err != nil {
		return models.SessionView{}, err
	}
	byID := make(map[int]models.Option, len(b.Options))
	for _, opt := range b.Options {
		byID[opt.ID] = opt
	}

	pages := max(1, (len(remaining)+PageSize-1)/PageSize)
	s.page = min(s.page, pages-1)

	lo := s.page * PageSize
	hi := min(lo+PageSize, len(remaining))

	msg := models.Message{Content: chat.VotePage(available-given, s.page+1, pages)}
	for _, id := range remaining[lo:hi] {
		opt, ok := byID[id]
		if !ok {
			opt = models.Option{ID: id}
		}
		msg.Cards = append(msg.Cards, opt)
		msg.Buttons = append(msg.Buttons, models.Button{
			CustomID: Action{Domain: DomainVote, Kind: KindOption, Arg: strconv.Itoa(id)}.String(),
			Label:    strconv.Itoa(id),
			Style:    models.StylePrimary,
		})
	}
	if pages > 1 {
		msg.Buttons = append(msg.Buttons,
			models.Button{
				CustomID: Action{Domain: DomainVote, Kind: KindPage, Arg: PagePrev}.String(),
				Label:    "Previous",
				Style:    models.StyleSecondary,
				Disabled: s.page == 0,
			},
			models.Button{
				CustomID: Action{Domain: DomainVote, Kind: KindPage, Arg: PageNext}.String(),
				Label:    "Next",
				Style:    models.StyleSecondary,
				Disabled: s.page == pages-1,
			},
		)
	}

	return models.SessionView{SessionID: s.ID, State: s.state.String(), Message: msg}, nil
}

// Lookup reports a session's state and page.
func (m *Manager) Lookup(sessionID string) (State, int, bool) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return NotStarted, 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.page, true
}

// Prune drops sessions that ended or sat idle past the timeout and returns
// how many were removed. Sessions busy handling an action are kept.
func (m *Manager) Prune(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if !s.mu.TryLock() {
			continue
		}
		if s.state.Terminal() || s.idle(now, m.idle) {
			delete(m.sessions, id)
			removed++
		}
		s.mu.Unlock()
	}
	return removed
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
