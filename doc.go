// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the voting machine server.

The server runs monthly ranked-choice icon contests for a chat community.
A ballot is built from the month's forum submissions and announced in a
channel. Each voter ranks up to three quarters of the options: the first
choice earns the most points and every later choice one point less. Once the
ballot's time-to-live elapses the lifecycle scheduler closes it and posts the
winners.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	ADMIN_KEY_SALT=... DATABASE_URL=votes.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

A .env file in the working directory is loaded first when present.

The operator key that authorizes POST /ballots is derived from
ADMIN_KEY_SALT. Print it without starting the server:

	ADMIN_KEY_SALT=... go run . -operator-key

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin and operator key HMACs

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - SWEEP_INTERVAL (--sweep): Time between lifecycle sweeps (default: 5m)
  - WARNING_THRESHOLD_MINUTES: Closure warning window (default: 60)
  - DEFAULT_TTL_MINUTES: Ballot lifetime when none is requested (default: 1440)
  - SESSION_IDLE_TIMEOUT (--session-idle): Voting session idle limit (default: 24h)
  - SHOW_USER_VOTING_STATS: Include per-voter sequences in the closing stats
  - PARTICIPANT_ROLE_ID: Role mentioned in warnings and winner announcements
  - GUILD_ID: Chat guild the bot frontend serves, logged at startup

# Architecture

  - ballot: Ballot registry and announcement
  - ledger: Per-voter budgets and atomic vote recording
  - tally: Points ranking and rank groups
  - session: Interactive voting session state machine
  - scheduler: Warning and closure sweeps
  - chat: Messenger port, forum listing and message templates
  - gateway: WebSocket hub the bot frontend subscribes to
  - store, db: Persistence on SQLite or PostgreSQL
  - handlers, router, middleware: HTTP API
  - auth: Admin and operator keys
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
