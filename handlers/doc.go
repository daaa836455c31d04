// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the voting machine API.

# Handler Types

Each handler is a struct holding the domain services it drives:

  - BallotHandler: ballot creation, listing, results and voting sequences
  - VotingHandler: voting sessions opened from the ballot's vote button

Handlers are created via constructor functions:

	ballotHandler := handlers.NewBallotHandler(registry, creator, tabulator, ledger, cfg)
	votingHandler := handlers.NewVotingHandler(sessions)

# Ballot Lifecycle

	POST /ballots                  → CreateBallot (operator key, returns admin_key)
	GET  /ballots                  → ListBallots (open ballots)
	GET  /ballots/{id}             → GetBallot
	GET  /ballots/{id}/results     → GetResults (closed ballots only)
	GET  /ballots/{id}/sequences   → GetSequences (ballot admin key)

Ballots close on their own once their TTL has elapsed; see package scheduler.
Admin operations require the X-Admin-Key header.

# Voting Flow

	POST /ballots/{id}/vote        → BeginVoting (returns session_id)
	POST /sessions/{sid}/actions   → HandleAction (one button press)

Voter operations require the X-User-ID header. Action bodies carry the
button's custom_id, e.g. "vote:option:3".

# Errors

Domain errors map to status codes in StatusFor. Internal errors are logged
and reported as a bare 500.
*/
package handlers
