// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the voting machine API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{...}, cfg)

# Endpoints

Health:

	GET /health
	GET /        - API banner (exact path; other unknown paths are 404)

Ballots:

	POST /ballots                - Create and announce a ballot (operator key)
	GET  /ballots                - List open ballots
	GET  /ballots/{id}           - Ballot summary
	GET  /ballots/{id}/results   - Final results (closed only)
	GET  /ballots/{id}/sequences - Per-voter sequences (ballot admin key)

Voting:

	POST /ballots/{id}/vote       - Open a voting session
	POST /sessions/{sid}/actions  - Press a session button

Gateway:

	GET /gateway?channel={id} - WebSocket stream of chat messages to post

Every API route is wrapped in middleware.WithLogging.
*/
package router
