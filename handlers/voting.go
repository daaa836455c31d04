// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/haris-hm/gorkminion-voting-machine/middleware"
	"github.com/haris-hm/gorkminion-voting-machine/models"
	"github.com/haris-hm/gorkminion-voting-machine/session"
)

type VotingHandler struct {
	sessions *session.Manager
}

func NewVotingHandler(sessions *session.Manager) *VotingHandler {
	return &VotingHandler{sessions: sessions}
}

// BeginVoting handles POST /ballots/{id}/vote
func (h *VotingHandler) BeginVoting(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-User-ID header is required")
		return
	}

	view, err := h.sessions.Begin(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, err, "begin voting")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}

// HandleAction handles POST /sessions/{sid}/actions
func (h *VotingHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-User-ID header is required")
		return
	}

	var req models.SessionActionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CustomID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "custom_id is required")
		return
	}

	view, err := h.sessions.Handle(r.Context(), r.PathValue("sid"), userID, req.CustomID)
	if err != nil {
		writeError(w, err, "session action")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}
