// Package sms sends text messages through a pluggable provider.
package sms

import (
	"context"
	"errors"
)

// Provider delivers a single SMS.
type Provider interface {
	Send(ctx context.Context, msg *Message) (*Result, error)
}

type Message struct {
	To   string `json:"to"`
	From string `json:"from,omitempty"`
	Body string `json:"body"`
}

type Result struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

var ErrNoRecipient = errors.New("sms: recipient is required")

func (m *Message) validate() error {
	if m == nil || m.To == "" {
		return ErrNoRecipient
	}
	return nil
}
