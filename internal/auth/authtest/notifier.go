// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package authtest

import (
	"context"
	"errors"
	"sync"

	"github.com/natours/identity/internal/auth"
)

// ErrDeliveryFailed is returned by a Notifier told to fail.
var ErrDeliveryFailed = errors.New("delivery failed")

// Message is one email captured by Notifier.
type Message struct {
	Kind string // "welcome" or "reset"
	To   auth.Recipient
	URL  string
}

// Notifier records outgoing mail instead of sending it.
type Notifier struct {
	mu       sync.Mutex
	messages []Message
	fail     bool
}

var _ auth.Notifier = (*Notifier)(nil)

// FailDelivery makes subsequent sends fail (or succeed again).
func (n *Notifier) FailDelivery(fail bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fail = fail
}

func (n *Notifier) record(kind string, to auth.Recipient, url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return ErrDeliveryFailed
	}
	n.messages = append(n.messages, Message{Kind: kind, To: to, URL: url})
	return nil
}

// SendWelcome records a welcome message.
func (n *Notifier) SendWelcome(_ context.Context, to auth.Recipient, accountURL string) error {
	return n.record("welcome", to, accountURL)
}

// SendPasswordReset records a reset message.
func (n *Notifier) SendPasswordReset(_ context.Context, to auth.Recipient, resetURL string) error {
	return n.record("reset", to, resetURL)
}

// Messages returns a copy of everything sent so far.
func (n *Notifier) Messages() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Message(nil), n.messages...)
}

// Last returns the most recent message of kind, if any.
func (n *Notifier) Last(kind string) (Message, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.messages) - 1; i >= 0; i-- {
		if n.messages[i].Kind == kind {
			return n.messages[i], true
		}
	}
	return Message{}, false
}
