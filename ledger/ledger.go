// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/haris-hm/gorkminion-voting-machine/clock"
	"github.com/haris-hm/gorkminion-voting-machine/models"
	"github.com/haris-hm/gorkminion-voting-machine/store"
)

// Store is the persistence the ledger needs. *store.Store implements it.
type Store interface {
	InsertVoterRecord(ctx context.Context, rec models.VoterRecord) (bool, error)
	GetVoterRecord(ctx context.Context, ballotID, userID string) (models.VoterRecord, error)
	ListVoterRecords(ctx context.Context, ballotID string) ([]models.VoterRecord, error)
	SetVotedMessage(ctx context.Context, ballotID, userID string, ref models.MessageRef) error
	ApplyVote(ctx context.Context, ballotID, userID string, decide store.VoteFunc) (models.VoterRecord, error)
}

type Ledger struct {
	store  Store
	clock  clock.Clock
	logger *slog.Logger
}

func New(st Store, clk clock.Clock, logger *slog.Logger) *Ledger {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: st, clock: clk, logger: logger}
}

// VotesAvailable is the vote budget for a ballot with optionCount options:
// ceil(0.75 × optionCount).
func VotesAvailable(optionCount int) int {
	if optionCount <= 0 {
		return 0
	}
	return (3*optionCount + 3) / 4
}

// Vote is the outcome of a recorded vote.
type Vote struct {
	OptionID       int
	Points         int
	RemainingValue int // weight of the voter's next vote
	Record         models.VoterRecord
}

// Ensure creates the voter record for a user's first interaction with a
// ballot. Existing records are left untouched, so progress is never reset.
func (l *Ledger) Ensure(ctx context.Context, ballotID, userID string, optionIDs []int) (bool, error) {
	created, err := l.store.InsertVoterRecord(ctx, models.VoterRecord{
		BallotID:         ballotID,
		UserID:           userID,
		VotesGiven:       0,
		VotesAvailable:   VotesAvailable(len(optionIDs)),
		RemainingOptions: slices.Clone(optionIDs),
		VotingSequence:   []int{},
		StartedAt:        l.clock.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("ensure voter record: %w", err)
	}
	if created {
		l.logger.Info("voter record created", "ballot_id", ballotID, "user_id", userID,
			"votes_available", VotesAvailable(len(optionIDs)))
	}
	return created, nil
}

// Budget returns (votesGiven, votesAvailable). A user without a record has
// (0, 0).
func (l *Ledger) Budget(ctx context.Context, ballotID, userID string) (int, int, error) {
	rec, err := l.record(ctx, ballotID, userID)
	if err != nil {
		return 0, 0, err
	}
	return rec.VotesGiven, rec.VotesAvailable, nil
}

// RemainingOptions lists the option ids the user can still vote for, in
// ballot order.
func (l *Ledger) RemainingOptions(ctx context.Context, ballotID, userID string) ([]int, error) {
	rec, err := l.record(ctx, ballotID, userID)
	if err != nil {
		return nil, err
	}
	if rec.RemainingOptions == nil {
		return []int{}, nil
	}
	return rec.RemainingOptions, nil
}

// RemainingPointValue is the weight the user's next vote carries. It drops by
// one per vote and reaches 0 when the budget is spent.
func (l *Ledger) RemainingPointValue(ctx context.Context, ballotID, userID string) (int, error) {
	given, available, err := l.Budget(ctx, ballotID, userID)
	if err != nil {
		return 0, err
	}
	return available - given, nil
}

// RecordVote credits optionID with the user's current point value and
// advances the user's record. It fails with models.ErrBudgetExhausted when no
// points remain and models.ErrInvalidOption when the option is not in the
// user's remaining set; in both cases nothing is written.
func (l *Ledger) RecordVote(ctx context.Context, ballotID string, optionID int, userID string) (Vote, error) {
	var points int
	rec, err := l.store.ApplyVote(ctx, ballotID, userID, func(rec *models.VoterRecord) (int, int, error) {
		points = rec.PointValue()
		if points <= 0 {
			return 0, 0, models.ErrBudgetExhausted
		}

		idx := slices.Index(rec.RemainingOptions, optionID)
		if idx < 0 {
			return 0, 0, models.ErrInvalidOption
		}

		rec.RemainingOptions = slices.Delete(rec.RemainingOptions, idx, idx+1)
		rec.VotesGiven++
		rec.VotingSequence = append(rec.VotingSequence, optionID)
		return optionID, points, nil
	})
	if errors.Is(err, models.ErrNotFound) {
		// No record means no budget was ever assigned.
		return Vote{}, models.ErrBudgetExhausted
	}
	if err != nil {
		return Vote{}, err
	}

	l.logger.Info("vote recorded", "ballot_id", ballotID, "user_id", userID,
		"option_id", optionID, "points", points)

	return Vote{
		OptionID:       optionID,
		Points:         points,
		RemainingValue: rec.PointValue(),
		Record:         rec,
	}, nil
}

// Sequences returns every voter record of the ballot in the order voters
// started.
func (l *Ledger) Sequences(ctx context.Context, ballotID string) ([]models.VoterRecord, error) {
	return l.store.ListVoterRecords(ctx, ballotID)
}

// VotedMessage returns the reference of the "started voting" announcement for
// the user, or the zero reference when there is none.
func (l *Ledger) VotedMessage(ctx context.Context, ballotID, userID string) (models.MessageRef, error) {
	rec, err := l.record(ctx, ballotID, userID)
	if err != nil {
		return models.MessageRef{}, err
	}
	return rec.VotedMessage, nil
}

func (l *Ledger) SetVotedMessage(ctx context.Context, ballotID, userID string, ref models.MessageRef) error {
	return l.store.SetVotedMessage(ctx, ballotID, userID, ref)
}

// record loads the voter record, treating absence as an empty record.
func (l *Ledger) record(ctx context.Context, ballotID, userID string) (models.VoterRecord, error) {
	rec, err := l.store.GetVoterRecord(ctx, ballotID, userID)
	if errors.Is(err, models.ErrNotFound) {
		return models.VoterRecord{BallotID: ballotID, UserID: userID, RemainingOptions: []int{}, VotingSequence: []int{}}, nil
	}
	if err != nil {
		return models.VoterRecord{}, err
	}
	return rec, nil
}
