// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-member-service/pkg/constants"
)

// MessageAction is a type for the action of a member message
type MessageAction string

// MessageAction constants for the action of a member message
const (
	// ActionCreated is the action for a resource creation message
	ActionCreated MessageAction = "created"
	// ActionUpdated is the action for a resource update message
	ActionUpdated MessageAction = "updated"
	// ActionDeleted is the action for a resource deletion message
	ActionDeleted MessageAction = "deleted"
)

// IndexerMessage is a NATS message schema for sending messages related to member CRUD operations
// This message is consumed by indexing services to maintain search indexes
type IndexerMessage struct {
	Action  MessageAction     `json:"action"`
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data"`
	// Tags is a list of tags to be set on the indexed resource for search
	Tags []string `json:"tags"`
}

// Build constructs an indexer message with proper context extraction and data marshaling
func (g *IndexerMessage) Build(ctx context.Context, input any) (*IndexerMessage, error) {
	headers := make(map[string]string)
	if requestID, ok := ctx.Value(constants.RequestIDContextKey).(string); ok && requestID != "" {
		headers[constants.RequestIDHeader] = requestID
	}
	g.Headers = headers

	var payload any

	switch g.Action {
	case ActionCreated, ActionUpdated:
		// The indexer expects a generic object rather than the typed member
		data, err := json.Marshal(input)
		if err != nil {
			slog.ErrorContext(ctx, "error marshalling data into JSON", "error", err)
			return nil, err
		}
		var jsonData map[string]any
		if err := json.Unmarshal(data, &jsonData); err != nil {
			slog.ErrorContext(ctx, "error unmarshalling data into JSON", "error", err)
			return nil, err
		}
		payload = jsonData
	case ActionDeleted:
		// Deletions carry only the identifier
		payload = input
	}

	g.Data = payload
	return g, nil
}

// MemberEvent notifies chat services that a directory entry changed.
type MemberEvent struct {
	Action     MessageAction `json:"action"`
	MemberID   MemberID      `json:"member_id"`
	Member     *Member       `json:"member,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewMemberEvent builds an event for the given action. Deletions omit the member body.
func NewMemberEvent(action MessageAction, member *Member, now time.Time) *MemberEvent {
	event := &MemberEvent{
		Action:     action,
		OccurredAt: now.UTC(),
	}
	if member != nil {
		event.MemberID = member.MemberID
		if action != ActionDeleted {
			event.Member = member
		}
	}
	return event
}
