// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/haris-hm/gorkminion-voting-machine/ballot"
	"github.com/haris-hm/gorkminion-voting-machine/cliparse"
	"github.com/haris-hm/gorkminion-voting-machine/gateway"
	"github.com/haris-hm/gorkminion-voting-machine/handlers"
	"github.com/haris-hm/gorkminion-voting-machine/ledger"
	"github.com/haris-hm/gorkminion-voting-machine/middleware"
	"github.com/haris-hm/gorkminion-voting-machine/session"
	"github.com/haris-hm/gorkminion-voting-machine/tally"
)

// Deps are the services the routes are served from.
type Deps struct {
	Registry  *ballot.Registry
	Creator   *ballot.Creator
	Tabulator *tally.Tabulator
	Ledger    *ledger.Ledger
	Sessions  *session.Manager
	Gateway   *gateway.Hub
}

func NewRouter(deps Deps, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	ballotHandler := handlers.NewBallotHandler(deps.Registry, deps.Creator, deps.Tabulator, deps.Ledger, cfg)
	votingHandler := handlers.NewVotingHandler(deps.Sessions)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Ballot management
	mux.HandleFunc("POST /ballots", middleware.WithLogging(ballotHandler.CreateBallot))
	mux.HandleFunc("GET /ballots", middleware.WithLogging(ballotHandler.ListBallots))
	mux.HandleFunc("GET /ballots/{id}", middleware.WithLogging(ballotHandler.GetBallot))
	mux.HandleFunc("GET /ballots/{id}/results", middleware.WithLogging(ballotHandler.GetResults))
	mux.HandleFunc("GET /ballots/{id}/sequences", middleware.WithLogging(ballotHandler.GetSequences))

	// Voting sessions
	mux.HandleFunc("POST /ballots/{id}/vote", middleware.WithLogging(votingHandler.BeginVoting))
	mux.HandleFunc("POST /sessions/{sid}/actions", middleware.WithLogging(votingHandler.HandleAction))

	// Chat gateway for the bot frontend
	if deps.Gateway != nil {
		mux.HandleFunc("GET /gateway", middleware.WithLogging(deps.Gateway.ServeWS))
	}

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("gorkminion-voting-machine API v1"))
	})

	return mux
}
