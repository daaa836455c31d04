// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/haris-hm/gorkminion-voting-machine/auth"
	"github.com/haris-hm/gorkminion-voting-machine/ballot"
	"github.com/haris-hm/gorkminion-voting-machine/chat"
	"github.com/haris-hm/gorkminion-voting-machine/cliparse"
	"github.com/haris-hm/gorkminion-voting-machine/ledger"
	"github.com/haris-hm/gorkminion-voting-machine/middleware"
	"github.com/haris-hm/gorkminion-voting-machine/models"
	"github.com/haris-hm/gorkminion-voting-machine/tally"
)

type BallotHandler struct {
	registry  *ballot.Registry
	creator   *ballot.Creator
	tabulator *tally.Tabulator
	ledger    *ledger.Ledger
	cfg       cliparse.Config
}

func NewBallotHandler(registry *ballot.Registry, creator *ballot.Creator, tabulator *tally.Tabulator,
	l *ledger.Ledger, cfg cliparse.Config) *BallotHandler {
	return &BallotHandler{registry: registry, creator: creator, tabulator: tabulator, ledger: l, cfg: cfg}
}

// CreateBallot handles POST /ballots
func (h *BallotHandler) CreateBallot(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateOperatorKey(r.Header.Get("X-Admin-Key"), h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.CreateBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if strings.TrimSpace(req.Month) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "month is required")
		return
	}
	if req.Year <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "year must be positive")
		return
	}
	if req.ChannelID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "channel_id is required")
		return
	}
	if req.TTLMinutes < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ttl_minutes must not be negative")
		return
	}

	ttl := h.cfg.DefaultTTL
	if req.TTLMinutes > 0 {
		ttl = time.Duration(req.TTLMinutes) * time.Minute
	}

	forum := chat.ThreadList{AvailableTags: req.AvailableTags, All: req.Threads}
	b, err := h.creator.Create(r.Context(), forum, ballot.CreateParams{
		Month:     strings.TrimSpace(req.Month),
		Year:      req.Year,
		ChannelID: req.ChannelID,
		TTL:       ttl,
		Force:     req.Force,
	})
	if err != nil {
		writeError(w, err, "create ballot")
		return
	}

	slog.Info("ballot created", "ballot_id", b.ID, "options", len(b.Options), "force", req.Force)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateBallotResponse{
		BallotID:       b.ID,
		AdminKey:       auth.GenerateAdminKey(b.ID, h.cfg.AdminKeySalt),
		OptionCount:    len(b.Options),
		PostedLocation: b.PostedLocation,
	})
}

// ListBallots handles GET /ballots
func (h *BallotHandler) ListBallots(w http.ResponseWriter, r *http.Request) {
	open, err := h.registry.ListOpen(r.Context())
	if err != nil {
		writeError(w, err, "list ballots")
		return
	}

	summaries := make([]models.BallotSummary, 0, len(open))
	for _, b := range open {
		summaries = append(summaries, b.Summary())
	}
	middleware.JSONResponse(w, http.StatusOK, summaries)
}

// GetBallot handles GET /ballots/{id}
func (h *BallotHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	b, err := h.registry.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "get ballot")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, b.Summary())
}

// GetResults handles GET /ballots/{id}/results
// Results stay sealed while the ballot is open.
func (h *BallotHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	b, err := h.registry.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "get results")
		return
	}
	if !b.Closed {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are sealed until the ballot closes")
		return
	}

	results, err := h.tabulator.Results(r.Context(), b.ID)
	if err != nil {
		writeError(w, err, "get results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		BallotID:   b.ID,
		Results:    results,
		RankGroups: tally.RankByPoints(results),
		Winners:    b.Winners,
	})
}

// GetSequences handles GET /ballots/{id}/sequences
func (h *BallotHandler) GetSequences(w http.ResponseWriter, r *http.Request) {
	ballotID := r.PathValue("id")
	if err := auth.ValidateAdminKey(ballotID, r.Header.Get("X-Admin-Key"), h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	if _, err := h.registry.Get(r.Context(), ballotID); err != nil {
		writeError(w, err, "get sequences")
		return
	}

	records, err := h.ledger.Sequences(r.Context(), ballotID)
	if err != nil {
		writeError(w, err, "get sequences")
		return
	}

	resp := models.VotingSequencesResponse{BallotID: ballotID, Sequences: []models.VotingSequence{}}
	for _, rec := range records {
		resp.Sequences = append(resp.Sequences, models.VotingSequence{UserID: rec.UserID, Sequence: rec.VotingSequence})
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
