// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/haris-hm/gorkminion-voting-machine/middleware"
	"github.com/haris-hm/gorkminion-voting-machine/models"
	"github.com/haris-hm/gorkminion-voting-machine/session"
)

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyExists),
		errors.Is(err, models.ErrBallotClosed),
		errors.Is(err, models.ErrBudgetExhausted):
		return http.StatusConflict
	case errors.Is(err, session.ErrSessionInactive):
		return http.StatusGone
	case errors.Is(err, session.ErrNotSessionOwner):
		return http.StatusForbidden
	case errors.Is(err, session.ErrUnknownAction),
		errors.Is(err, models.ErrInvalidOption):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrCollaborator):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs server-side failures and writes the mapped error response.
// Internal errors never leak their text to the client.
func writeError(w http.ResponseWriter, err error, op string) {
	status := StatusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		slog.Error(op+" failed", "status", status, "error", err)
		if status == http.StatusInternalServerError {
			msg = "Internal error"
		}
	}
	middleware.ErrorResponse(w, status, msg)
}
