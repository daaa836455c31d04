// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/haris-hm/gorkminion-voting-machine/models"
)

// Call is one recorded Messenger call.
type Call struct {
	Op      string // send, reply, edit, disable
	Target  models.MessageRef
	Message models.Message
	Label   string
	Ref     models.MessageRef // reference handed back to the caller
}

// Messenger records every chat call and hands out sequential message ids.
// Set FailOn to an op name to make that op fail.
type Messenger struct {
	mu     sync.Mutex
	calls  []Call
	nextID int
	FailOn map[string]bool
}

func NewMessenger() *Messenger {
	return &Messenger{FailOn: map[string]bool{}}
}

func (m *Messenger) record(op string, target models.MessageRef, msg models.Message, label string) (models.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailOn[op] {
		return models.MessageRef{}, fmt.Errorf("%s: %w", op, models.ErrCollaborator)
	}

	ref := target
	if op == "send" || op == "reply" {
		m.nextID++
		ref = models.MessageRef{ChannelID: target.ChannelID, MessageID: fmt.Sprintf("m%d", m.nextID)}
	}
	m.calls = append(m.calls, Call{Op: op, Target: target, Message: msg, Label: label, Ref: ref})
	return ref, nil
}

func (m *Messenger) Send(_ context.Context, channelID string, msg models.Message) (models.MessageRef, error) {
	return m.record("send", models.MessageRef{ChannelID: channelID}, msg, "")
}

func (m *Messenger) Reply(_ context.Context, to models.MessageRef, msg models.Message) (models.MessageRef, error) {
	return m.record("reply", to, msg, "")
}

func (m *Messenger) Edit(_ context.Context, ref models.MessageRef, msg models.Message) error {
	_, err := m.record("edit", ref, msg, "")
	return err
}

func (m *Messenger) DisableButtons(_ context.Context, ref models.MessageRef, label string) error {
	_, err := m.record("disable", ref, models.Message{}, label)
	return err
}

// SetFail toggles failure of one op.
func (m *Messenger) SetFail(op string, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailOn[op] = fail
}

// Calls returns a copy of the recorded calls, optionally filtered by op.
func (m *Messenger) Calls(op string) []Call {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Call
	for _, c := range m.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether any recorded message content contains text.
func (m *Messenger) Contains(text string) bool {
	for _, c := range m.Calls("") {
		if strings.Contains(c.Message.Content, text) {
			return true
		}
	}
	return false
}
