// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/haris-hm/gorkminion-voting-machine/models"
)

// ListTallies returns every tally of the ballot, highest points first and
// option id ascending within equal points.
func (s *Store) ListTallies(ctx context.Context, ballotID string) ([]models.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT option_id, points
		FROM vote_tallies
		WHERE ballot_id = $1
		ORDER BY points DESC, option_id ASC
	`, ballotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tallies: %w", err)
	}
	defer rows.Close()

	results := []models.Result{}
	for rows.Next() {
		var r models.Result
		if err := rows.Scan(&r.OptionID, &r.Points); err != nil {
			return nil, fmt.Errorf("failed to scan tally: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
