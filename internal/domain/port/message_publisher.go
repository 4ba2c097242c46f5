// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import "context"

// MessagePublisher defines the interface for publishing member messages
// This interface is implemented by the NATS messaging infrastructure to support
// indexing and change notification for downstream services
type MessagePublisher interface {
	// Indexer publishes indexer messages for search and discovery services
	Indexer(ctx context.Context, subject string, message any) error

	// Event publishes member change events for chat services
	Event(ctx context.Context, subject string, message any) error
}
