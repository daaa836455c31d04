// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/haris-hm/gorkminion-voting-machine/models"
)

// maxVoteAttempts bounds how often ApplyVote re-reads a voter row after
// losing a compare-and-set race to another vote of the same user.
const maxVoteAttempts = 5

// ErrVoteContention is returned when every vote attempt lost its race.
var ErrVoteContention = errors.New("vote contention: voter record kept changing")

// VoteFunc decides a vote against the voter's current record. It mutates rec
// in place and returns the option to credit and the points to add, or an
// error to abort without writing anything.
type VoteFunc func(rec *models.VoterRecord) (optionID, points int, err error)

const voterColumns = `ballot_id, user_id, votes_given, votes_available, remaining_options, voting_sequence, voted_channel_id, voted_message_id, started_at`

// InsertVoterRecord creates the record unless one already exists for the
// (ballot, user) pair. It reports whether a row was inserted.
func (s *Store) InsertVoterRecord(ctx context.Context, rec models.VoterRecord) (bool, error) {
	remaining, err := encodeList(nonNil(rec.RemainingOptions))
	if err != nil {
		return false, err
	}
	sequence, err := encodeList(nonNil(rec.VotingSequence))
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO voter_records (ballot_id, user_id, votes_given, votes_available, remaining_options, voting_sequence, voted_channel_id, voted_message_id, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (ballot_id, user_id) DO NOTHING
	`, rec.BallotID, rec.UserID, rec.VotesGiven, rec.VotesAvailable, remaining, sequence,
		rec.VotedMessage.ChannelID, rec.VotedMessage.MessageID, toMillis(rec.StartedAt))
	if err != nil {
		return false, fmt.Errorf("failed to insert voter record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

// GetVoterRecord returns models.ErrNotFound when the user has not started
// voting on the ballot.
func (s *Store) GetVoterRecord(ctx context.Context, ballotID, userID string) (models.VoterRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+voterColumns+`
		FROM voter_records
		WHERE ballot_id = $1 AND user_id = $2
	`, ballotID, userID)
	rec, err := scanVoter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VoterRecord{}, models.ErrNotFound
	}
	if err != nil {
		return models.VoterRecord{}, fmt.Errorf("failed to query voter record: %w", err)
	}
	return rec, nil
}

// ListVoterRecords returns the ballot's voters in the order they started.
func (s *Store) ListVoterRecords(ctx context.Context, ballotID string) ([]models.VoterRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+voterColumns+`
		FROM voter_records
		WHERE ballot_id = $1
		ORDER BY started_at, user_id
	`, ballotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voter records: %w", err)
	}
	defer rows.Close()

	records := []models.VoterRecord{}
	for rows.Next() {
		rec, err := scanVoter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voter record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) SetVotedMessage(ctx context.Context, ballotID, userID string, ref models.MessageRef) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE voter_records
		SET voted_channel_id = $1, voted_message_id = $2
		WHERE ballot_id = $3 AND user_id = $4
	`, ref.ChannelID, ref.MessageID, ballotID, userID)
	if err != nil {
		return fmt.Errorf("failed to store voted message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ApplyVote runs decide against the current voter record and persists the
// outcome in one transaction: the voter row is written with a
// compare-and-set on votes_given and the option's tally grows by the returned
// points. When another vote of the same user committed first, the record is
// read again and decide runs against the new state.
func (s *Store) ApplyVote(ctx context.Context, ballotID, userID string, decide VoteFunc) (models.VoterRecord, error) {
	for attempt := 0; attempt < maxVoteAttempts; attempt++ {
		rec, applied, err := s.applyVoteOnce(ctx, ballotID, userID, decide)
		if err != nil {
			return models.VoterRecord{}, err
		}
		if applied {
			return rec, nil
		}
		s.logger.Debug("vote lost compare-and-set race, retrying",
			"ballot_id", ballotID, "user_id", userID, "attempt", attempt+1)
	}
	return models.VoterRecord{}, ErrVoteContention
}

func (s *Store) applyVoteOnce(ctx context.Context, ballotID, userID string, decide VoteFunc) (models.VoterRecord, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.VoterRecord{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+voterColumns+`
		FROM voter_records
		WHERE ballot_id = $1 AND user_id = $2
	`, ballotID, userID)
	rec, err := scanVoter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VoterRecord{}, false, models.ErrNotFound
	}
	if err != nil {
		return models.VoterRecord{}, false, fmt.Errorf("failed to query voter record: %w", err)
	}

	observedGiven := rec.VotesGiven
	optionID, points, err := decide(&rec)
	if err != nil {
		return models.VoterRecord{}, false, err
	}

	remaining, err := encodeList(nonNil(rec.RemainingOptions))
	if err != nil {
		return models.VoterRecord{}, false, err
	}
	sequence, err := encodeList(nonNil(rec.VotingSequence))
	if err != nil {
		return models.VoterRecord{}, false, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE voter_records
		SET votes_given = $1, remaining_options = $2, voting_sequence = $3
		WHERE ballot_id = $4 AND user_id = $5 AND votes_given = $6
	`, rec.VotesGiven, remaining, sequence, ballotID, userID, observedGiven)
	if err != nil {
		return models.VoterRecord{}, false, fmt.Errorf("failed to update voter record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.VoterRecord{}, false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return models.VoterRecord{}, false, nil
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE vote_tallies
		SET points = points + $1
		WHERE ballot_id = $2 AND option_id = $3
		  AND EXISTS (SELECT 1 FROM ballots WHERE id = $2 AND closed = 0)
	`, points, ballotID, optionID)
	if err != nil {
		return models.VoterRecord{}, false, fmt.Errorf("failed to add points: %w", err)
	}
	if n, err = res.RowsAffected(); err != nil {
		return models.VoterRecord{}, false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		var closed bool
		err := tx.QueryRowContext(ctx, `SELECT closed FROM ballots WHERE id = $1`, ballotID).Scan(&closed)
		if err == nil && closed {
			return models.VoterRecord{}, false, fmt.Errorf("ballot %s: %w", ballotID, models.ErrBallotClosed)
		}
		return models.VoterRecord{}, false, fmt.Errorf("no tally row for option %d of ballot %s", optionID, ballotID)
	}

	if err := tx.Commit(); err != nil {
		return models.VoterRecord{}, false, fmt.Errorf("failed to commit vote: %w", err)
	}
	return rec, true, nil
}

func scanVoter(row rowScanner) (models.VoterRecord, error) {
	var (
		rec                 models.VoterRecord
		remaining, sequence string
		startedAt           int64
	)
	err := row.Scan(&rec.BallotID, &rec.UserID, &rec.VotesGiven, &rec.VotesAvailable,
		&remaining, &sequence, &rec.VotedMessage.ChannelID, &rec.VotedMessage.MessageID, &startedAt)
	if err != nil {
		return models.VoterRecord{}, err
	}
	if rec.RemainingOptions, err = decodeIDs(remaining); err != nil {
		return models.VoterRecord{}, err
	}
	if rec.VotingSequence, err = decodeIDs(sequence); err != nil {
		return models.VoterRecord{}, err
	}
	rec.StartedAt = fromMillis(startedAt)
	return rec, nil
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return slices.Clone(ids)
}
