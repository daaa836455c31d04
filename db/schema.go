// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema sticks to types and syntax shared by SQLite and PostgreSQL.
// Timestamps and durations are unix milliseconds, flags are 0/1 integers and
// id lists are JSON text.
const schema = `
-- Ballots
CREATE TABLE IF NOT EXISTS ballots (
    id TEXT PRIMARY KEY,
    options TEXT NOT NULL DEFAULT '[]',
    channel_id TEXT NOT NULL DEFAULT '',
    message_id TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL,
    ttl_ms BIGINT NOT NULL,
    closed INTEGER NOT NULL DEFAULT 0,
    warning_sent INTEGER NOT NULL DEFAULT 0,
    winners TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_ballots_closed ON ballots(closed);

-- Voter records
CREATE TABLE IF NOT EXISTS voter_records (
    ballot_id TEXT NOT NULL REFERENCES ballots(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    votes_given INTEGER NOT NULL DEFAULT 0,
    votes_available INTEGER NOT NULL,
    remaining_options TEXT NOT NULL DEFAULT '[]',
    voting_sequence TEXT NOT NULL DEFAULT '[]',
    voted_channel_id TEXT NOT NULL DEFAULT '',
    voted_message_id TEXT NOT NULL DEFAULT '',
    started_at BIGINT NOT NULL,
    PRIMARY KEY (ballot_id, user_id),
    CHECK (votes_given >= 0 AND votes_given <= votes_available)
);

-- Vote tallies
CREATE TABLE IF NOT EXISTS vote_tallies (
    ballot_id TEXT NOT NULL REFERENCES ballots(id) ON DELETE CASCADE,
    option_id INTEGER NOT NULL,
    points INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
    PRIMARY KEY (ballot_id, option_id)
);
`
