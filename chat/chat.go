// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chat

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/haris-hm/gorkminion-voting-machine/models"
)

// Messenger posts and edits messages on the chat platform. Implementations
// wrap their failures with models.ErrCollaborator.
type Messenger interface {
	Send(ctx context.Context, channelID string, msg models.Message) (models.MessageRef, error)
	Reply(ctx context.Context, to models.MessageRef, msg models.Message) (models.MessageRef, error)
	Edit(ctx context.Context, ref models.MessageRef, msg models.Message) error
	// DisableButtons greys out every button of the message and relabels it.
	DisableButtons(ctx context.Context, ref models.MessageRef, label string) error
}

// Forum enumerates the submission threads tagged for a contest period,
// active and archived alike. An unknown tag is models.ErrNotFound.
type Forum interface {
	Threads(ctx context.Context, tag string) ([]models.Thread, error)
}

// ThreadList is a Forum over a listing the bot frontend sent along with the
// request.
type ThreadList struct {
	AvailableTags []string
	All           []models.Thread
}

func (l ThreadList) Threads(_ context.Context, tag string) ([]models.Thread, error) {
	if !slices.Contains(l.AvailableTags, tag) {
		return nil, fmt.Errorf("tag %q: %w", tag, models.ErrNotFound)
	}

	var tagged []models.Thread
	for _, th := range l.All {
		if slices.Contains(th.Tags, tag) {
			tagged = append(tagged, th)
		}
	}
	return tagged, nil
}

// LeadImage returns the first image attachment of the thread's starter
// message.
func LeadImage(th models.Thread) (string, bool) {
	for _, att := range th.Attachments {
		if strings.HasPrefix(att.ContentType, "image/") {
			return att.URL, true
		}
	}
	return "", false
}

// CollaboratorError wraps a platform failure so callers can match it with
// errors.Is(err, models.ErrCollaborator).
func CollaboratorError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrCollaborator, err)
}
