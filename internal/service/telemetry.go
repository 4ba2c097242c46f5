// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-member-service/pkg/errors"
)

const (
	instrumentationName = "github.com/linuxfoundation/lfx-v2-member-service/internal/service"

	operationsMetric = "member.operations"
)

// Outcome values recorded on the operations counter
const (
	outcomeSuccess     = "success"
	outcomeNotFound    = "not_found"
	outcomeConflict    = "conflict"
	outcomeValidation  = "validation"
	outcomeUnavailable = "unavailable"
	outcomeError       = "error"
)

// telemetry bundles the tracer and the operations counter shared by the orchestrators
type telemetry struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	tracer     trace.Tracer
	operations metric.Int64Counter
}

// init resolves instruments from the configured providers, falling back to the globals
func (t *telemetry) init(ctx context.Context) {
	if t.tracerProvider == nil {
		t.tracerProvider = otel.GetTracerProvider()
	}
	if t.meterProvider == nil {
		t.meterProvider = otel.GetMeterProvider()
	}

	t.tracer = t.tracerProvider.Tracer(instrumentationName)

	counter, err := t.meterProvider.Meter(instrumentationName).Int64Counter(operationsMetric,
		metric.WithDescription("Member store operations by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		slog.WarnContext(ctx, "failed to create operations counter, metrics disabled", "error", err)
		counter = noop.Int64Counter{}
	}
	t.operations = counter
}

// start opens a span for an operation. The returned func ends it and records the outcome.
func (t *telemetry) start(ctx context.Context, operation string, id model.MemberID) (context.Context, func(error)) {
	attrs := []attribute.KeyValue{attribute.String("member.operation", operation)}
	if id.Valid() {
		attrs = append(attrs, attribute.Int64("member.id", int64(id)))
	}

	ctx, span := t.tracer.Start(ctx, "member."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)

	return ctx, func(err error) {
		outcome := outcomeOf(err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.String("member.outcome", outcome))
		span.End()

		t.operations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
			attribute.String("service", constants.ServiceName),
		))
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeSuccess
	}

	var (
		notFound    errs.NotFound
		conflict    errs.Conflict
		validation  errs.Validation
		unavailable errs.ServiceUnavailable
	)
	switch {
	case errors.As(err, &notFound):
		return outcomeNotFound
	case errors.As(err, &conflict):
		return outcomeConflict
	case errors.As(err, &validation):
		return outcomeValidation
	case errors.As(err, &unavailable):
		return outcomeUnavailable
	default:
		return outcomeError
	}
}
