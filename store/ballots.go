// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/haris-hm/gorkminion-voting-machine/models"
)

const ballotColumns = `id, options, channel_id, message_id, created_at, ttl_ms, closed, warning_sent, winners`

// UpsertBallot inserts or overwrites a ballot and reinitializes everything
// that hangs off it: lifecycle flags and winners are reset, voter records
// are dropped and one zero tally is seeded per option.
func (s *Store) UpsertBallot(ctx context.Context, b models.Ballot) error {
	options, err := json.Marshal(b.Options)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ballots (id, options, channel_id, message_id, created_at, ttl_ms, closed, warning_sent, winners)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 0, '[]')
		ON CONFLICT (id) DO UPDATE SET
			options = excluded.options,
			channel_id = excluded.channel_id,
			message_id = excluded.message_id,
			created_at = excluded.created_at,
			ttl_ms = excluded.ttl_ms,
			closed = 0,
			warning_sent = 0,
			winners = '[]'
	`, b.ID, string(options), b.PostedLocation.ChannelID, b.PostedLocation.MessageID,
		toMillis(b.CreatedAt), b.TTL.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to upsert ballot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM vote_tallies WHERE ballot_id = $1`, b.ID); err != nil {
		return fmt.Errorf("failed to clear tallies: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM voter_records WHERE ballot_id = $1`, b.ID); err != nil {
		return fmt.Errorf("failed to clear voter records: %w", err)
	}

	for _, opt := range b.Options {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO vote_tallies (ballot_id, option_id, points)
			VALUES ($1, $2, 0)
		`, b.ID, opt.ID)
		if err != nil {
			return fmt.Errorf("failed to seed tally for option %d: %w", opt.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ballot: %w", err)
	}
	return nil
}

// GetBallot returns models.ErrNotFound for an unknown id.
func (s *Store) GetBallot(ctx context.Context, id string) (models.Ballot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+ballotColumns+` FROM ballots WHERE id = $1`, id)
	b, err := scanBallot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ballot{}, models.ErrNotFound
	}
	if err != nil {
		return models.Ballot{}, fmt.Errorf("failed to query ballot %s: %w", id, err)
	}
	return b, nil
}

func (s *Store) ListOpenBallots(ctx context.Context) ([]models.Ballot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ballotColumns+`
		FROM ballots
		WHERE closed = 0
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query open ballots: %w", err)
	}
	defer rows.Close()

	ballots := []models.Ballot{}
	for rows.Next() {
		b, err := scanBallot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}
		ballots = append(ballots, b)
	}
	return ballots, rows.Err()
}

// CloseBallot flips an open ballot to closed and stores its winners in one
// update. A ballot that is already closed keeps its winners and the call
// fails with models.ErrBallotClosed.
func (s *Store) CloseBallot(ctx context.Context, id string, winners []int) error {
	if winners == nil {
		winners = []int{}
	}
	encoded, err := encodeList(winners)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE ballots SET closed = 1, winners = $1 WHERE id = $2 AND closed = 0
	`, encoded, id)
	if err != nil {
		return fmt.Errorf("failed to close ballot %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		if _, err := s.GetBallot(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("ballot %s: %w", id, models.ErrBallotClosed)
	}
	return nil
}

func (s *Store) MarkWarningSent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE ballots SET warning_sent = 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark warning for ballot %s: %w", id, err)
	}
	return expectRow(res, id)
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("ballot %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func scanBallot(row rowScanner) (models.Ballot, error) {
	var (
		b                  models.Ballot
		options, winners   string
		createdAt, ttl     int64
		closed, warnedFlag bool
	)
	err := row.Scan(&b.ID, &options, &b.PostedLocation.ChannelID, &b.PostedLocation.MessageID,
		&createdAt, &ttl, &closed, &warnedFlag, &winners)
	if err != nil {
		return models.Ballot{}, err
	}

	if err := json.Unmarshal([]byte(options), &b.Options); err != nil {
		return models.Ballot{}, fmt.Errorf("failed to decode options of ballot %s: %w", b.ID, err)
	}
	if b.Winners, err = decodeIDs(winners); err != nil {
		return models.Ballot{}, err
	}

	b.CreatedAt = fromMillis(createdAt)
	b.TTL = time.Duration(ttl) * time.Millisecond
	b.Closed = closed
	b.WarningSent = warnedFlag
	return b, nil
}
