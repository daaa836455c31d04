// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/haris-hm/gorkminion-voting-machine/clock"
	"github.com/haris-hm/gorkminion-voting-machine/models"
)

// Store is the persistence the registry needs. *store.Store implements it.
type Store interface {
	UpsertBallot(ctx context.Context, b models.Ballot) error
	GetBallot(ctx context.Context, id string) (models.Ballot, error)
	ListOpenBallots(ctx context.Context) ([]models.Ballot, error)
	CloseBallot(ctx context.Context, id string, winners []int) error
	MarkWarningSent(ctx context.Context, id string) error
}

// ID derives the ballot id of a contest period: "March", 2025 → "march-2025".
func ID(month string, year int) string {
	name := strings.TrimSpace(month) + " " + strconv.Itoa(year)
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

type Registry struct {
	store  Store
	clock  clock.Clock
	logger *slog.Logger
}

func NewRegistry(st Store, clk clock.Clock, logger *slog.Logger) *Registry {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{store: st, clock: clk, logger: logger}
}

// Exists reports whether a ballot with the id is stored, open or closed.
func (r *Registry) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.store.GetBallot(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateOrReplace stores a fresh ballot. An existing ballot with the same id
// is models.ErrAlreadyExists unless force is set, in which case it is replaced
// and its tallies and voter records start over.
func (r *Registry) CreateOrReplace(ctx context.Context, id string, options []models.Option, posted models.MessageRef, ttl time.Duration, force bool) (models.Ballot, error) {
	exists, err := r.Exists(ctx, id)
	if err != nil {
		return models.Ballot{}, err
	}
	if exists && !force {
		return models.Ballot{}, fmt.Errorf("ballot %s: %w", id, models.ErrAlreadyExists)
	}

	b := models.Ballot{
		ID:             id,
		Options:        options,
		PostedLocation: posted,
		CreatedAt:      r.clock.Now(),
		TTL:            ttl,
		Winners:        []int{},
	}
	if err := r.store.UpsertBallot(ctx, b); err != nil {
		return models.Ballot{}, err
	}

	r.logger.Info("ballot stored", "ballot_id", id, "options", len(options),
		"ttl", ttl, "replaced", exists)
	return b, nil
}

func (r *Registry) Get(ctx context.Context, id string) (models.Ballot, error) {
	return r.store.GetBallot(ctx, id)
}

func (r *Registry) ListOpen(ctx context.Context) ([]models.Ballot, error) {
	return r.store.ListOpenBallots(ctx)
}

// Options returns the ballot's options in ballot order.
func (r *Registry) Options(ctx context.Context, id string) ([]models.Option, error) {
	b, err := r.store.GetBallot(ctx, id)
	if err != nil {
		return nil, err
	}
	return b.Options, nil
}

func (r *Registry) Option(ctx context.Context, id string, optionID int) (models.Option, error) {
	options, err := r.Options(ctx, id)
	if err != nil {
		return models.Option{}, err
	}
	for _, opt := range options {
		if opt.ID == optionID {
			return opt, nil
		}
	}
	return models.Option{}, fmt.Errorf("option %d of ballot %s: %w", optionID, id, models.ErrNotFound)
}

// Close marks the ballot closed with its winners. A ballot closes once; a
// second Close fails with models.ErrBallotClosed.
func (r *Registry) Close(ctx context.Context, id string, winners []int) error {
	if err := r.store.CloseBallot(ctx, id, winners); err != nil {
		return err
	}
	r.logger.Info("ballot closed", "ballot_id", id, "winners", len(winners))
	return nil
}

func (r *Registry) MarkWarningSent(ctx context.Context, id string) error {
	return r.store.MarkWarningSent(ctx, id)
}
