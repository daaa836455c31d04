// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/haris-hm/gorkminion-voting-machine/chat"
	"github.com/haris-hm/gorkminion-voting-machine/models"
	"github.com/haris-hm/gorkminion-voting-machine/session"
)

// PostsPerMessage is how many option cards one announcement message holds.
const PostsPerMessage = 8

// CreateParams describes one ballot creation run.
type CreateParams struct {
	Month     string
	Year      int
	ChannelID string
	TTL       time.Duration
	Force     bool
}

// Creator compiles forum submissions into a ballot, announces it and stores
// it in the registry.
type Creator struct {
	registry  *Registry
	messenger chat.Messenger
	logger    *slog.Logger
}

func NewCreator(registry *Registry, messenger chat.Messenger, logger *slog.Logger) *Creator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Creator{registry: registry, messenger: messenger, logger: logger}
}

// Create builds the ballot for the period from the forum threads tagged
// "<Month> <Year>". Threads without an image are skipped. An existing ballot
// is refused before anything is posted unless p.Force is set.
func (c *Creator) Create(ctx context.Context, forum chat.Forum, p CreateParams) (models.Ballot, error) {
	id := ID(p.Month, p.Year)

	if !p.Force {
		exists, err := c.registry.Exists(ctx, id)
		if err != nil {
			return models.Ballot{}, err
		}
		if exists {
			return models.Ballot{}, fmt.Errorf("ballot %s: %w", id, models.ErrAlreadyExists)
		}
	}

	threads, err := forum.Threads(ctx, p.Month+" "+strconv.Itoa(p.Year))
	if err != nil {
		return models.Ballot{}, err
	}

	options := CompileOptions(threads)
	if len(options) == 0 {
		return models.Ballot{}, fmt.Errorf("no submissions with an image for %s: %w", id, models.ErrNotFound)
	}
	if skipped := len(threads) - len(options); skipped > 0 {
		c.logger.Warn("skipped submissions without an image", "ballot_id", id, "skipped", skipped)
	}

	posted, err := c.announce(ctx, id, p, options)
	if err != nil {
		return models.Ballot{}, err
	}

	return c.registry.CreateOrReplace(ctx, id, options, posted, p.TTL, p.Force)
}

// CompileOptions numbers the threads that carry a lead image from 1, in
// listing order.
func CompileOptions(threads []models.Thread) []models.Option {
	options := []models.Option{}
	for _, th := range threads {
		img, ok := chat.LeadImage(th)
		if !ok {
			continue
		}
		options = append(options, models.Option{
			ID:        len(options) + 1,
			Author:    th.OwnerID,
			Title:     th.Name,
			ThreadURL: th.URL,
			ImageURL:  img,
		})
	}
	return options
}

// announce posts the options in chunks; the last message carries the vote
// button and is returned as the ballot's location.
func (c *Creator) announce(ctx context.Context, id string, p CreateParams, options []models.Option) (models.MessageRef, error) {
	var last models.MessageRef
	for start := 0; start < len(options); start += PostsPerMessage {
		end := min(start+PostsPerMessage, len(options))

		msg := models.Message{
			Content: chat.BallotIntro(p.Month, p.Year, start > 0),
			Cards:   options[start:end],
		}
		if end == len(options) {
			msg.Buttons = []models.Button{{
				CustomID: session.Action{Domain: session.DomainVote, Kind: session.KindBallot, Arg: id}.String(),
				Label:    "Vote",
				Style:    models.StylePrimary,
			}}
		}

		ref, err := c.messenger.Send(ctx, p.ChannelID, msg)
		if err != nil {
			return models.MessageRef{}, fmt.Errorf("failed to post ballot %s: %w", id, err)
		}
		last = ref
	}
	return last, nil
}
