// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

var (
	ErrAlreadyExists   = errors.New("ballot already exists")
	ErrNotFound        = errors.New("not found")
	ErrBudgetExhausted = errors.New("no votes remain")
	ErrInvalidOption   = errors.New("option is not available to this voter")
	ErrBallotClosed    = errors.New("ballot is closed")
	ErrCollaborator    = errors.New("chat platform error")
)
