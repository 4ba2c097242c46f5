// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/constants"
	logging "github.com/linuxfoundation/lfx-v2-member-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/redaction"
)

// MemberWriter defines the interface for member write operations
type MemberWriter interface {
	port.MemberWriter
}

// memberWriterOrchestratorOption defines a function type for setting options on the writer orchestrator
type memberWriterOrchestratorOption func(*memberWriterOrchestrator)

// WithMemberWriter sets the storage writer
func WithMemberWriter(writer port.MemberWriter) memberWriterOrchestratorOption {
	return func(w *memberWriterOrchestrator) {
		w.memberWriter = writer
	}
}

// WithPublisher sets the message publisher. Without one, no messages are sent.
func WithPublisher(publisher port.MessagePublisher) memberWriterOrchestratorOption {
	return func(w *memberWriterOrchestrator) {
		w.publisher = publisher
	}
}

// WithWriterTracerProvider overrides the global tracer provider
func WithWriterTracerProvider(tp trace.TracerProvider) memberWriterOrchestratorOption {
	return func(w *memberWriterOrchestrator) {
		w.telemetry.tracerProvider = tp
	}
}

// WithWriterMeterProvider overrides the global meter provider
func WithWriterMeterProvider(mp metric.MeterProvider) memberWriterOrchestratorOption {
	return func(w *memberWriterOrchestrator) {
		w.telemetry.meterProvider = mp
	}
}

// memberWriterOrchestrator applies mutations and announces them to downstream services
type memberWriterOrchestrator struct {
	memberWriter port.MemberWriter
	publisher    port.MessagePublisher
	telemetry    telemetry
	now          func() time.Time
}

// NewMemberWriterOrchestrator creates a new writer orchestrator using the option pattern
func NewMemberWriterOrchestrator(opts ...memberWriterOrchestratorOption) MemberWriter {
	w := &memberWriterOrchestrator{now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	w.telemetry.init(context.Background())

	return w
}

// CreateMember stores a new member and publishes its messages
func (w *memberWriterOrchestrator) CreateMember(ctx context.Context, member *model.Member) (*model.Member, error) {
	if w.memberWriter == nil {
		panic("memberWriter dependency is required but was not provided")
	}

	var id model.MemberID
	if member != nil {
		id = member.MemberID
	}
	ctx, end := w.telemetry.start(ctx, "create", id)

	slog.DebugContext(ctx, "executing create member use case",
		"member_id", id,
		"email", redaction.RedactEmailPtr(memberEmail(member)),
	)

	created, err := w.memberWriter.CreateMember(ctx, member)
	end(err)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create member", "error", err, "member_id", id)
		return nil, err
	}

	w.publish(ctx, model.ActionCreated, created)

	slog.InfoContext(ctx, "member created successfully", "member_id", created.MemberID)
	return created, nil
}

// UpdateMember overwrites a member's mutable fields and publishes its messages
func (w *memberWriterOrchestrator) UpdateMember(ctx context.Context, id model.MemberID, fields model.MemberFields) (*model.Member, error) {
	if w.memberWriter == nil {
		panic("memberWriter dependency is required but was not provided")
	}

	ctx, end := w.telemetry.start(ctx, "update", id)

	slog.DebugContext(ctx, "executing update member use case",
		"member_id", id,
		"name", logging.LogOptionalString(fields.Name),
		"telephone", redaction.RedactPhone(fields.Telephone),
	)

	updated, err := w.memberWriter.UpdateMember(ctx, id, fields)
	end(err)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update member", "error", err, "member_id", id)
		return nil, err
	}

	w.publish(ctx, model.ActionUpdated, updated)

	slog.InfoContext(ctx, "member updated successfully", "member_id", id)
	return updated, nil
}

// DeleteMember removes a member and publishes its messages
func (w *memberWriterOrchestrator) DeleteMember(ctx context.Context, id model.MemberID) error {
	if w.memberWriter == nil {
		panic("memberWriter dependency is required but was not provided")
	}

	ctx, end := w.telemetry.start(ctx, "delete", id)

	slog.DebugContext(ctx, "executing delete member use case", "member_id", id)

	err := w.memberWriter.DeleteMember(ctx, id)
	end(err)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete member", "error", err, "member_id", id)
		return err
	}

	w.publish(ctx, model.ActionDeleted, &model.Member{MemberID: id})

	slog.InfoContext(ctx, "member deleted successfully", "member_id", id)
	return nil
}

// publish sends the indexer and event messages concurrently. The mutation is
// already persisted, so failures are logged and not returned.
func (w *memberWriterOrchestrator) publish(ctx context.Context, action model.MessageAction, member *model.Member) {
	if w.publisher == nil {
		slog.DebugContext(ctx, "publisher not available, skipping member message publishing")
		return
	}

	if err := w.publishMemberMessages(ctx, action, member); err != nil {
		slog.ErrorContext(ctx, "failed to publish member messages",
			"error", err,
			"action", action,
			"member_id", member.MemberID,
		)
	}
}

func (w *memberWriterOrchestrator) publishMemberMessages(ctx context.Context, action model.MessageAction, member *model.Member) error {
	indexerMessage, err := w.buildIndexerMessage(ctx, action, member)
	if err != nil {
		return fmt.Errorf("failed to build %s indexer message: %w", action, err)
	}
	event := model.NewMemberEvent(action, member, w.now())

	var g errgroup.Group
	g.Go(func() error {
		return w.publisher.Indexer(ctx, constants.IndexMemberSubject, indexerMessage)
	})
	g.Go(func() error {
		return w.publisher.Event(ctx, constants.MemberEventSubject, event)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	slog.DebugContext(ctx, "member messages published successfully",
		"action", action,
		"member_id", member.MemberID,
	)
	return nil
}

func (w *memberWriterOrchestrator) buildIndexerMessage(ctx context.Context, action model.MessageAction, member *model.Member) (*model.IndexerMessage, error) {
	message := &model.IndexerMessage{
		Action: action,
		Tags:   member.Tags(),
	}

	if action == model.ActionDeleted {
		return message.Build(ctx, member.MemberID.String())
	}
	return message.Build(ctx, member)
}

func memberEmail(member *model.Member) *string {
	if member == nil {
		return nil
	}
	return member.Email
}
