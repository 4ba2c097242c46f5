// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/port"
)

// PublishedMessage is a message captured by MockMessagePublisher
type PublishedMessage struct {
	Type    string
	Subject string
	Message any
}

// MockMessagePublisher is a mock implementation of the MessagePublisher interface.
// It logs and records every message.
type MockMessagePublisher struct {
	mu       sync.Mutex
	messages []PublishedMessage
	err      error
}

// Ensure MockMessagePublisher implements the MessagePublisher interface
var _ port.MessagePublisher = (*MockMessagePublisher)(nil)

// NewMockMessagePublisher creates a new mock publisher for testing
func NewMockMessagePublisher() *MockMessagePublisher {
	return &MockMessagePublisher{}
}

// Indexer publishes indexer messages (mock implementation - logs only)
func (m *MockMessagePublisher) Indexer(ctx context.Context, subject string, message any) error {
	return m.record(ctx, "indexer", subject, message)
}

// Event publishes member change events (mock implementation - logs only)
func (m *MockMessagePublisher) Event(ctx context.Context, subject string, message any) error {
	return m.record(ctx, "event", subject, message)
}

// SetError makes every later publish fail with err
func (m *MockMessagePublisher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Messages returns a snapshot of the recorded messages
func (m *MockMessagePublisher) Messages() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

func (m *MockMessagePublisher) record(ctx context.Context, messageType, subject string, message any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.messages = append(m.messages, PublishedMessage{Type: messageType, Subject: subject, Message: message})
	slog.InfoContext(ctx, "mock message published",
		"subject", subject,
		"message_type", messageType,
	)
	return nil
}
