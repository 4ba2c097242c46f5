// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants defines global constants used throughout the member service.
package constants

// Service constants
const (
	// ServiceName is the name of this service
	ServiceName = "lfx-v2-member-service"
)

// HTTP header constants
const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-Id"
)

// Environment variables
const (
	// EnvPort is the HTTP listen port
	EnvPort = "PORT"
	// EnvRepositorySource selects the member store backend (file, bolt, nats, mock)
	EnvRepositorySource = "REPOSITORY_SOURCE"
	// EnvPublisherSource selects the member event publisher (nats, mock, none)
	EnvPublisherSource = "PUBLISHER_SOURCE"
	// EnvMembersFile is the path of the JSON collection file
	EnvMembersFile = "MEMBERS_FILE"
	// EnvMembersSeedFile is an optional YAML fixture used to create the collection file
	EnvMembersSeedFile = "MEMBERS_SEED_FILE"
	// EnvBoltFile is the path of the bbolt database file
	EnvBoltFile = "BOLT_FILE"
	// EnvNATSURL is the environment variable for NATS server URL
	EnvNATSURL = "NATS_URL"
	// EnvNATSTimeout is the NATS connection timeout
	EnvNATSTimeout = "NATS_TIMEOUT"
	// EnvNATSMaxReconnect is the NATS reconnect attempt limit
	EnvNATSMaxReconnect = "NATS_MAX_RECONNECT"
	// EnvNATSReconnectWait is the delay between NATS reconnect attempts
	EnvNATSReconnectWait = "NATS_RECONNECT_WAIT"
)

// Repository and publisher sources
const (
	SourceFile = "file"
	SourceBolt = "bolt"
	SourceNATS = "nats"
	SourceMock = "mock"
	SourceNone = "none"
)
