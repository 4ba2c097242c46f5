// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package errors provides the typed errors shared by the member store,
// the use-case layer and the HTTP surface.
package errors

import (
	"errors"
	"fmt"
)

// base holds the message and optional cause shared by every error type
type base struct {
	message string
	err     error
}

func newBase(message string, err ...error) base {
	return base{
		message: message,
		err:     errors.Join(err...),
	}
}

// error renders "message" or "message: cause"; all error types embed base
func (b base) error() string {
	if b.err == nil {
		return b.message
	}
	return fmt.Sprintf("%s: %v", b.message, b.err)
}

// Message returns the message without the wrapped cause.
func (b base) Message() string {
	return b.message
}

// Unwrap exposes the underlying error to support errors.Is / errors.As.
func (b base) Unwrap() error {
	return b.err
}
