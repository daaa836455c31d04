// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open selects the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

  - sqlite: modernc.org/sqlite, with WAL, foreign keys, a busy timeout and
    immediate write transactions
  - postgres: github.com/lib/pq

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same schema text runs on both databases.

# Tables

  - ballots: ballot row with its options as JSON
  - voter_records: one row per (ballot, user)
  - vote_tallies: one point counter per (ballot, option)

# Relationships

	ballots 1──* voter_records
	ballots 1──* vote_tallies

All foreign keys use ON DELETE CASCADE.
*/
package db
