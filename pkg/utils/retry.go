// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package utils provides utility functions for the member service.
package utils

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryConfig holds retry configuration for operations
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// NewRetryConfig creates a RetryConfig with specified parameters
func NewRetryConfig(maxAttempts int, baseDelay, maxDelay time.Duration) RetryConfig {
	return RetryConfig{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
	}
}

// delay returns baseDelay * 2^(attempt-1), capped at MaxDelay
func (c RetryConfig) delay(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt-1)) * c.BaseDelay
	if d > c.MaxDelay || d <= 0 {
		d = c.MaxDelay
	}
	return d
}

// RetryWithExponentialBackoff executes fn until it succeeds, retrying every error.
func RetryWithExponentialBackoff(ctx context.Context, config RetryConfig, fn func() error) error {
	return RetryIf(ctx, config, func(error) bool { return true }, fn)
}

// RetryIf executes fn with exponential backoff while shouldRetry reports the
// returned error as transient. A non-retryable error is returned unwrapped so
// callers can still type-switch on it.
func RetryIf(ctx context.Context, config RetryConfig, shouldRetry func(error) bool, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := config.delay(attempt)

			slog.WarnContext(ctx, "retrying operation",
				"attempt", attempt+1,
				"total_attempts", config.MaxAttempts,
				"retry_delay_ms", delay.Milliseconds(),
			)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("retry cancelled: %w", ctx.Err())
			}
		}

		err := fn()
		if err == nil {
			if attempt > 0 {
				slog.InfoContext(ctx, "retry succeeded",
					"attempt", attempt+1,
					"total_attempts", config.MaxAttempts,
				)
			}
			return nil
		}

		if !shouldRetry(err) {
			return err
		}

		lastErr = err
		slog.DebugContext(ctx, "operation attempt failed",
			"attempt", attempt+1,
			"total_attempts", config.MaxAttempts,
			"error", err,
		)
	}

	return fmt.Errorf("failed after %d attempts: %w", config.MaxAttempts, lastErr)
}
