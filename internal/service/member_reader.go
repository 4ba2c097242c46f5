// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service holds the member use cases that sit between the HTTP layer and storage.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/port"
)

// MemberReader defines the interface for member read operations
type MemberReader interface {
	port.MemberReader
}

// memberReaderOrchestratorOption defines a function type for setting options on the reader orchestrator
type memberReaderOrchestratorOption func(*memberReaderOrchestrator)

// WithMemberReader sets the storage reader
func WithMemberReader(reader port.MemberReader) memberReaderOrchestratorOption {
	return func(r *memberReaderOrchestrator) {
		r.memberReader = reader
	}
}

// WithReaderTracerProvider overrides the global tracer provider
func WithReaderTracerProvider(tp trace.TracerProvider) memberReaderOrchestratorOption {
	return func(r *memberReaderOrchestrator) {
		r.telemetry.tracerProvider = tp
	}
}

// WithReaderMeterProvider overrides the global meter provider
func WithReaderMeterProvider(mp metric.MeterProvider) memberReaderOrchestratorOption {
	return func(r *memberReaderOrchestrator) {
		r.telemetry.meterProvider = mp
	}
}

// memberReaderOrchestrator delegates reads to storage with logging and telemetry
type memberReaderOrchestrator struct {
	memberReader port.MemberReader
	telemetry    telemetry
}

// NewMemberReaderOrchestrator creates a new reader orchestrator using the option pattern
func NewMemberReaderOrchestrator(opts ...memberReaderOrchestratorOption) MemberReader {
	r := &memberReaderOrchestrator{}
	for _, opt := range opts {
		opt(r)
	}
	r.telemetry.init(context.Background())

	return r
}

// ListMembers returns every member in stored order
func (r *memberReaderOrchestrator) ListMembers(ctx context.Context) (model.Collection, error) {
	if r.memberReader == nil {
		panic("memberReader dependency is required but was not provided")
	}

	ctx, end := r.telemetry.start(ctx, "list", 0)

	slog.DebugContext(ctx, "executing list members use case")

	members, err := r.memberReader.ListMembers(ctx)
	end(err)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list members", "error", err)
		return nil, err
	}

	slog.DebugContext(ctx, "members listed successfully", "count", len(members))
	return members, nil
}

// GetMember retrieves a member by id
func (r *memberReaderOrchestrator) GetMember(ctx context.Context, id model.MemberID) (*model.Member, error) {
	if r.memberReader == nil {
		panic("memberReader dependency is required but was not provided")
	}

	ctx, end := r.telemetry.start(ctx, "get", id)

	slog.DebugContext(ctx, "executing get member use case", "member_id", id)

	member, err := r.memberReader.GetMember(ctx, id)
	end(err)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get member", "error", err, "member_id", id)
		return nil, err
	}

	slog.DebugContext(ctx, "member retrieved successfully", "member_id", id)
	return member, nil
}
