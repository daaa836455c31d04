// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haris-hm/gorkminion-voting-machine/chat"
	"github.com/haris-hm/gorkminion-voting-machine/models"
)

// Event types sent to bot frontends
const (
	EventSend           = "message.send"
	EventReply          = "message.reply"
	EventEdit           = "message.edit"
	EventDisableButtons = "message.disable_buttons"
)

var (
	ErrNoSubscribers = errors.New("no frontend subscribed to channel")
	ErrHubStopped    = errors.New("gateway hub stopped")
)

// Event is one instruction for the bot frontend. MessageID is the id the
// service assigned to a new message, or the target of an edit.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	ChannelID string          `json:"channel_id"`
	MessageID string          `json:"message_id"`
	ReplyTo   string          `json:"reply_to,omitempty"`
	Label     string          `json:"label,omitempty"`
	Message   *models.Message `json:"message,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hub fans chat events out to the frontends subscribed to each channel. It
// implements chat.Messenger.
type Hub struct {
	clients    map[string]map[*Client]bool // channelID -> clients
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *slog.Logger
}

var _ chat.Messenger = (*Hub)(nil)

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations until ctx is done, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.channelID] == nil {
				h.clients[c.channelID] = make(map[*Client]bool)
			}
			h.clients[c.channelID][c] = true
			h.mu.Unlock()
			h.logger.Info("gateway client connected", "channel_id", c.channelID)

		case c := <-h.unregister:
			h.remove(c)

		case <-ctx.Done():
			h.mu.Lock()
			for channelID, clients := range h.clients {
				for c := range clients {
					close(c.send)
				}
				delete(h.clients, channelID)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[c.channelID]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.clients, c.channelID)
	}
	h.logger.Info("gateway client disconnected", "channel_id", c.channelID)
}

// Subscribers returns how many frontends listen on the channel.
func (h *Hub) Subscribers(channelID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[channelID])
}

// deliver queues the event for every subscriber of its channel. Clients whose
// queue is full are dropped; the event fails only if nobody received it.
func (h *Hub) deliver(ev Event) error {
	ev.ID = uuid.NewString()
	ev.Timestamp = time.Now()

	payload, err := json.Marshal(ev)
	if err != nil {
		return chat.CollaboratorError(ev.Type, err)
	}

	var slow []*Client
	delivered := 0

	h.mu.RLock()
	for c := range h.clients[ev.ChannelID] {
		select {
		case c.send <- payload:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow gateway client", "channel_id", c.channelID)
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}

	if delivered == 0 {
		return chat.CollaboratorError(ev.Type, ErrNoSubscribers)
	}
	return nil
}

func (h *Hub) Send(_ context.Context, channelID string, msg models.Message) (models.MessageRef, error) {
	ref := models.MessageRef{ChannelID: channelID, MessageID: uuid.NewString()}
	err := h.deliver(Event{Type: EventSend, ChannelID: channelID, MessageID: ref.MessageID, Message: &msg})
	if err != nil {
		return models.MessageRef{}, err
	}
	return ref, nil
}

func (h *Hub) Reply(_ context.Context, to models.MessageRef, msg models.Message) (models.MessageRef, error) {
	ref := models.MessageRef{ChannelID: to.ChannelID, MessageID: uuid.NewString()}
	err := h.deliver(Event{Type: EventReply, ChannelID: to.ChannelID, MessageID: ref.MessageID, ReplyTo: to.MessageID, Message: &msg})
	if err != nil {
		return models.MessageRef{}, err
	}
	return ref, nil
}

func (h *Hub) Edit(_ context.Context, ref models.MessageRef, msg models.Message) error {
	return h.deliver(Event{Type: EventEdit, ChannelID: ref.ChannelID, MessageID: ref.MessageID, Message: &msg})
}

func (h *Hub) DisableButtons(_ context.Context, ref models.MessageRef, label string) error {
	return h.deliver(Event{Type: EventDisableButtons, ChannelID: ref.ChannelID, MessageID: ref.MessageID, Label: label})
}
