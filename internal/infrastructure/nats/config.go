// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import "time"

// Config holds NATS connection settings
type Config struct {
	// URL is the NATS server URL
	URL string

	// Timeout bounds the initial connection
	Timeout time.Duration

	// MaxReconnect is the number of reconnect attempts, -1 for unlimited
	MaxReconnect int

	// ReconnectWait is the delay between reconnect attempts
	ReconnectWait time.Duration
}
