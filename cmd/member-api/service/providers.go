// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"goa.design/clue/health"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-member-service/internal/infrastructure/bolt"
	"github.com/linuxfoundation/lfx-v2-member-service/internal/infrastructure/file"
	infrastructure "github.com/linuxfoundation/lfx-v2-member-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-member-service/internal/infrastructure/nats"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/constants"
)

var (
	natsClient *nats.NATSClient
	natsDoOnce sync.Once
)

// natsInit connects once; the storage and the publisher share the connection.
func natsInit(ctx context.Context) *nats.NATSClient {
	natsDoOnce.Do(func() {
		natsURL := os.Getenv(constants.EnvNATSURL)
		if natsURL == "" {
			natsURL = "nats://localhost:4222"
		}

		natsTimeout := os.Getenv(constants.EnvNATSTimeout)
		if natsTimeout == "" {
			natsTimeout = "10s"
		}
		natsTimeoutDuration, err := time.ParseDuration(natsTimeout)
		if err != nil {
			log.Fatalf("invalid NATS timeout duration: %v", err)
		}

		natsMaxReconnect := os.Getenv(constants.EnvNATSMaxReconnect)
		if natsMaxReconnect == "" {
			natsMaxReconnect = "3"
		}
		natsMaxReconnectInt, err := strconv.Atoi(natsMaxReconnect)
		if err != nil {
			log.Fatalf("invalid NATS max reconnect value %s: %v", natsMaxReconnect, err)
		}

		natsReconnectWait := os.Getenv(constants.EnvNATSReconnectWait)
		if natsReconnectWait == "" {
			natsReconnectWait = "2s"
		}
		natsReconnectWaitDuration, err := time.ParseDuration(natsReconnectWait)
		if err != nil {
			log.Fatalf("invalid NATS reconnect wait duration %s : %v", natsReconnectWait, err)
		}

		config := nats.Config{
			URL:           natsURL,
			Timeout:       natsTimeoutDuration,
			MaxReconnect:  natsMaxReconnectInt,
			ReconnectWait: natsReconnectWaitDuration,
		}

		// Only the KV repository needs the bucket
		var buckets []string
		if repositorySource() == constants.SourceNATS {
			buckets = append(buckets, constants.KVBucketNameMembers)
		}

		client, errNewClient := nats.NewClient(ctx, config, buckets...)
		if errNewClient != nil {
			log.Fatalf("failed to create NATS client: %v", errNewClient)
		}
		natsClient = client
	})

	return natsClient
}

func repositorySource() string {
	source := os.Getenv(constants.EnvRepositorySource)
	if source == "" {
		source = constants.SourceFile
	}
	return source
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Repository bundles the configured store with what the server needs around it
type Repository struct {
	Store   port.MemberReaderWriter
	Pingers []health.Pinger
	Closers []io.Closer
}

// storePinger adapts IsReady to the health checker
type storePinger struct {
	name  string
	store port.MemberReaderWriter
}

func (p storePinger) Name() string                   { return p.name }
func (p storePinger) Ping(ctx context.Context) error { return p.store.IsReady(ctx) }

// MemberRepository initializes the member store selected by REPOSITORY_SOURCE
func MemberRepository(ctx context.Context) Repository {
	var repo Repository

	switch source := repositorySource(); source {
	case constants.SourceFile:
		path := envOrDefault(constants.EnvMembersFile, constants.DefaultMembersFile)
		slog.InfoContext(ctx, "initializing file member store", "path", path)

		store, err := file.NewStore(path)
		if err != nil {
			log.Fatalf("failed to initialize file member store: %v", err)
		}
		if err := store.Bootstrap(ctx, os.Getenv(constants.EnvMembersSeedFile)); err != nil {
			log.Fatalf("failed to bootstrap members file %s: %v", path, err)
		}
		repo.Store = store
		repo.Pingers = append(repo.Pingers, store)

	case constants.SourceBolt:
		path := envOrDefault(constants.EnvBoltFile, constants.DefaultBoltFile)
		slog.InfoContext(ctx, "initializing bolt member store", "path", path)

		store, err := bolt.Open(ctx, path)
		if err != nil {
			log.Fatalf("failed to initialize bolt member store: %v", err)
		}
		repo.Store = store
		repo.Pingers = append(repo.Pingers, store)
		repo.Closers = append(repo.Closers, store)

	case constants.SourceNATS:
		slog.InfoContext(ctx, "initializing NATS member store")

		client := natsInit(ctx)
		store, err := nats.NewStorage(client)
		if err != nil {
			log.Fatalf("failed to initialize NATS member store: %v", err)
		}
		repo.Store = store
		repo.Pingers = append(repo.Pingers, client)

	case constants.SourceMock:
		slog.InfoContext(ctx, "initializing mock member store")
		store := infrastructure.NewMockRepository()
		repo.Store = store
		repo.Pingers = append(repo.Pingers, storePinger{name: "members-mock", store: store})

	default:
		log.Fatalf("unsupported member repository implementation: %s", source)
	}

	return repo
}

// MessagePublisher initializes the publisher selected by PUBLISHER_SOURCE.
// It returns nil when publishing is disabled.
func MessagePublisher(ctx context.Context) port.MessagePublisher {
	source := os.Getenv(constants.EnvPublisherSource)
	if source == "" {
		source = constants.SourceNone
	}

	switch source {
	case constants.SourceNone:
		slog.InfoContext(ctx, "member message publishing disabled")
		return nil
	case constants.SourceMock:
		slog.InfoContext(ctx, "initializing mock message publisher")
		return infrastructure.NewMockMessagePublisher()
	case constants.SourceNATS:
		slog.InfoContext(ctx, "initializing NATS message publisher")
		return nats.NewMessagePublisher(natsInit(ctx))
	default:
		log.Fatalf("unsupported message publisher implementation: %s", source)
	}

	return nil
}

// CloseNATS closes the shared NATS connection if one was opened
func CloseNATS() {
	if natsClient != nil {
		_ = natsClient.Close()
	}
}
