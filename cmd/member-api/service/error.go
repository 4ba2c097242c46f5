// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	lfxerrors "github.com/linuxfoundation/lfx-v2-member-service/pkg/errors"
)

// ErrorBody is the JSON shape of every failed response
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// wrapError maps a typed error to its HTTP status and body. fallback is the
// message used for server-side failures.
func wrapError(ctx context.Context, err error, fallback string) (int, ErrorBody) {
	var (
		tooLarge    *http.MaxBytesError
		validation  lfxerrors.Validation
		notFound    lfxerrors.NotFound
		conflict    lfxerrors.Conflict
		unavailable lfxerrors.ServiceUnavailable
	)

	switch {
	case errors.As(err, &tooLarge):
		slog.WarnContext(ctx, "request body too large", "limit", tooLarge.Limit)
		return http.StatusRequestEntityTooLarge, ErrorBody{Message: "request body is too large", Error: err.Error()}
	case errors.As(err, &validation):
		slog.WarnContext(ctx, "request rejected", "error", err)
		return http.StatusBadRequest, ErrorBody{Message: validation.Message(), Error: err.Error()}
	case errors.As(err, &notFound):
		slog.DebugContext(ctx, "request target not found", "error", err)
		return http.StatusNotFound, ErrorBody{Message: messageNotFound, Error: err.Error()}
	case errors.As(err, &conflict):
		slog.WarnContext(ctx, "request conflicts with stored state", "error", err)
		return http.StatusConflict, ErrorBody{Message: conflict.Message(), Error: err.Error()}
	case errors.As(err, &unavailable):
		slog.ErrorContext(ctx, "storage unavailable", "error", err)
		return http.StatusInternalServerError, ErrorBody{Message: fallback, Error: err.Error()}
	default:
		slog.ErrorContext(ctx, "request failed", "error", err)
		return http.StatusInternalServerError, ErrorBody{Message: fallback, Error: err.Error()}
	}
}
