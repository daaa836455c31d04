// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/haris-hm/gorkminion-voting-machine/chat"
	"github.com/haris-hm/gorkminion-voting-machine/clock"
	"github.com/haris-hm/gorkminion-voting-machine/models"
	"github.com/haris-hm/gorkminion-voting-machine/tally"
)

// Ballots is the part of *ballot.Registry the scheduler drives.
type Ballots interface {
	ListOpen(ctx context.Context) ([]models.Ballot, error)
	Close(ctx context.Context, id string, winners []int) error
	MarkWarningSent(ctx context.Context, id string) error
}

type Tabulator interface {
	Results(ctx context.Context, ballotID string) ([]models.Result, error)
}

type Sequences interface {
	Sequences(ctx context.Context, ballotID string) ([]models.VoterRecord, error)
}

// Pruner drops finished and idle voting sessions.
type Pruner interface {
	Prune(now time.Time) int
}

type Config struct {
	Interval            time.Duration
	WarningWindow       time.Duration
	ShowUserVotingStats bool
	ParticipantRoleID   string
}

// Scheduler warns about and closes ballots whose time is running out.
type Scheduler struct {
	cfg       Config
	ballots   Ballots
	tabulator Tabulator
	sequences Sequences
	sessions  Pruner
	messenger chat.Messenger
	clock     clock.Clock
	logger    *slog.Logger

	running atomic.Bool
}

func New(cfg Config, ballots Ballots, tabulator Tabulator, sequences Sequences, sessions Pruner,
	messenger chat.Messenger, clk clock.Clock, logger *slog.Logger) *Scheduler {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:       cfg,
		ballots:   ballots,
		tabulator: tabulator,
		sequences: sequences,
		sessions:  sessions,
		messenger: messenger,
		clock:     clk,
		logger:    logger,
	}
}

// Start sweeps once immediately and then every cfg.Interval until ctx is
// done. It blocks; run it in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.logger.Info("lifecycle scheduler started", "interval", s.cfg.Interval)
	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("lifecycle scheduler stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep processes every open ballot once. It returns false without doing
// anything when the previous sweep is still running.
func (s *Scheduler) Sweep(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous sweep still running, skipping")
		return false
	}
	defer s.running.Store(false)

	now := s.clock.Now()
	if s.sessions != nil {
		if n := s.sessions.Prune(now); n > 0 {
			s.logger.Debug("pruned voting sessions", "count", n)
		}
	}

	open, err := s.ballots.ListOpen(ctx)
	if err != nil {
		s.logger.Error("failed to list open ballots", "error", err)
		return true
	}

	for _, b := range open {
		elapsed := now.Sub(b.CreatedAt)
		left := b.TTL - elapsed

		switch {
		case elapsed > b.TTL:
			if err := s.closeBallot(ctx, b); err != nil {
				s.logger.Error("failed to close ballot", "ballot_id", b.ID, "error", err)
			}
		case left > 0 && left <= s.cfg.WarningWindow && !b.WarningSent:
			if err := s.warn(ctx, b, now); err != nil {
				s.logger.Error("failed to send closing warning", "ballot_id", b.ID, "error", err)
			}
		}
	}
	return true
}

func (s *Scheduler) warn(ctx context.Context, b models.Ballot, now time.Time) error {
	msg := models.Message{Content: chat.Warning(s.cfg.ParticipantRoleID, b.ClosesAt(), now)}
	if s.cfg.ParticipantRoleID != "" {
		msg.Mentions = []string{s.cfg.ParticipantRoleID}
	}
	if _, err := s.messenger.Reply(ctx, b.PostedLocation, msg); err != nil {
		return err
	}
	if err := s.ballots.MarkWarningSent(ctx, b.ID); err != nil {
		return err
	}
	s.logger.Info("closing warning sent", "ballot_id", b.ID, "closes_at", b.ClosesAt())
	return nil
}

// closeBallot announces the results and marks the ballot closed. If any step
// before Close fails the ballot stays open and is retried on the next sweep.
func (s *Scheduler) closeBallot(ctx context.Context, b models.Ballot) error {
	if err := s.messenger.DisableButtons(ctx, b.PostedLocation, chat.VotingClosed); err != nil {
		return err
	}

	results, err := s.tabulator.Results(ctx, b.ID)
	if err != nil {
		return err
	}
	groups := tally.RankByPoints(results)

	if len(groups) == 0 {
		if _, err := s.messenger.Reply(ctx, b.PostedLocation, models.Message{Content: chat.NoVotesText}); err != nil {
			return err
		}
		if err := s.ballots.Close(ctx, b.ID, []int{}); err != nil && !errors.Is(err, models.ErrBallotClosed) {
			return err
		}
		s.logger.Info("ballot closed without votes", "ballot_id", b.ID)
		return nil
	}

	options := make(map[int]models.Option, len(b.Options))
	for _, opt := range b.Options {
		options[opt.ID] = opt
	}

	month, year := period(b.ID)
	intro := models.Message{Content: chat.WinnersIntro(month, year)}
	if s.cfg.ParticipantRoleID != "" {
		intro.Content = chat.RoleMention(s.cfg.ParticipantRoleID) + "\n" + intro.Content
		intro.Mentions = []string{s.cfg.ParticipantRoleID}
	}
	if _, err := s.messenger.Reply(ctx, b.PostedLocation, intro); err != nil {
		return err
	}

	for _, g := range groups {
		msg := models.Message{Content: chat.RankHeading(g.Rank, g.Points)}
		for _, id := range g.OptionIDs {
			msg.Cards = append(msg.Cards, options[id])
		}
		if _, err := s.messenger.Reply(ctx, b.PostedLocation, msg); err != nil {
			return err
		}
	}

	if err := s.ballots.Close(ctx, b.ID, tally.WinnerIDs(groups)); err != nil {
		if errors.Is(err, models.ErrBallotClosed) {
			s.logger.Info("ballot closed by another sweep", "ballot_id", b.ID)
			return nil
		}
		return err
	}
	s.logger.Info("ballot closed", "ballot_id", b.ID, "rank_groups", len(groups))

	// Statistics are informational; the ballot is already closed.
	if err := s.postStats(ctx, b, results, options); err != nil {
		s.logger.Warn("failed to post voting statistics", "ballot_id", b.ID, "error", err)
	}
	return nil
}

func (s *Scheduler) postStats(ctx context.Context, b models.Ballot, results []models.Result, options map[int]models.Option) error {
	var records []models.VoterRecord
	if s.cfg.ShowUserVotingStats {
		var err error
		if records, err = s.sequences.Sequences(ctx, b.ID); err != nil {
			return fmt.Errorf("failed to load voting sequences: %w", err)
		}
		if records == nil {
			records = []models.VoterRecord{}
		}
	}

	_, err := s.messenger.Reply(ctx, b.PostedLocation, models.Message{
		Content: chat.VotingStats(results, options, records),
	})
	return err
}

// period recovers the display month and year from a ballot id such as
// "march-2025".
func period(ballotID string) (string, string) {
	i := strings.LastIndex(ballotID, "-")
	if i < 0 {
		return ballotID, ""
	}
	month := strings.ReplaceAll(ballotID[:i], "-", " ")
	if month != "" {
		month = strings.ToUpper(month[:1]) + month[1:]
	}
	return month, ballotID[i+1:]
}
