// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-member-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/utils"
)

// keyValue is the part of jetstream.KeyValue the member storage relies on.
// Update with revision 0 only succeeds when the key has never been written.
type keyValue interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Update(ctx context.Context, key string, value []byte, revision uint64) (uint64, error)
}

// storage keeps the whole member collection under one KV key. Mutations are
// compare-and-set writes against the revision that was read, retried while
// another writer wins the race.
type storage struct {
	kv      keyValue
	key     string
	timeout time.Duration
	retry   utils.RetryConfig
	ready   func(ctx context.Context) error
}

// ListMembers returns the stored collection
func (s *storage) ListMembers(ctx context.Context) (model.Collection, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	members, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "nats storage: members listed", "count", len(members))
	return members, nil
}

// GetMember retrieves a member by id
func (s *storage) GetMember(ctx context.Context, id model.MemberID) (*model.Member, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	members, rev, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "nats storage: getting member", "member_id", id, "revision", rev)
	return members.Find(id)
}

// CreateMember appends a member to the collection
func (s *storage) CreateMember(ctx context.Context, member *model.Member) (*model.Member, error) {
	if err := member.Validate(); err != nil {
		return nil, err
	}

	var created *model.Member
	err := s.mutate(ctx, "create", func(members *model.Collection) error {
		if err := members.Insert(*member); err != nil {
			return err
		}
		var errFind error
		created, errFind = members.Find(member.MemberID)
		return errFind
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateMember overwrites the mutable fields of a member
func (s *storage) UpdateMember(ctx context.Context, id model.MemberID, fields model.MemberFields) (*model.Member, error) {
	var updated *model.Member
	err := s.mutate(ctx, "update", func(members *model.Collection) error {
		var errReplace error
		updated, errReplace = members.Replace(id, fields)
		return errReplace
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteMember removes a member from the collection
func (s *storage) DeleteMember(ctx context.Context, id model.MemberID) error {
	return s.mutate(ctx, "delete", func(members *model.Collection) error {
		_, err := members.Remove(id)
		return err
	})
}

// IsReady checks the connection
func (s *storage) IsReady(ctx context.Context) error {
	if s.ready == nil {
		return nil
	}
	return s.ready(ctx)
}

func (s *storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// mutate reads the collection, applies fn and writes it back only if nobody
// else wrote in between. fn may run more than once.
func (s *storage) mutate(ctx context.Context, operation string, fn func(*model.Collection) error) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := utils.RetryIf(ctx, s.retry, isRevisionMismatch, func() error {
		members, rev, err := s.load(ctx)
		if err != nil {
			return err
		}
		if err := fn(&members); err != nil {
			return err
		}
		return s.save(ctx, members, rev)
	})
	if err == nil {
		slog.DebugContext(ctx, "nats storage: collection updated", "operation", operation)
		return nil
	}

	if isRevisionMismatch(err) {
		slog.WarnContext(ctx, "member collection kept changing under concurrent writers",
			"error", err,
			"operation", operation,
		)
		return errs.NewServiceUnavailable("member storage is busy, try again", err)
	}
	return err
}

// load returns the collection and its revision. A missing key is an empty
// collection at revision 0.
func (s *storage) load(ctx context.Context) (model.Collection, uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	entry, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return model.Collection{}, 0, nil
		}
		slog.ErrorContext(ctx, "failed to get member collection", "error", err, "key", s.key)
		return nil, 0, errs.NewServiceUnavailable("member storage is unavailable", err)
	}

	members, err := decodeCollection(entry.Value())
	if err != nil {
		slog.ErrorContext(ctx, "member collection is malformed", "error", err, "revision", entry.Revision())
		return nil, 0, errs.NewServiceUnavailable("member storage is unavailable", err)
	}

	return members, entry.Revision(), nil
}

// save writes the collection with the expected revision. Revision mismatches
// are returned untouched so the caller can retry.
func (s *storage) save(ctx context.Context, members model.Collection, rev uint64) error {
	data, err := encodeCollection(members)
	if err != nil {
		return errs.NewUnexpected("failed to encode member collection", err)
	}

	newRev, err := s.kv.Update(ctx, s.key, data, rev)
	if err != nil {
		if isRevisionMismatch(err) {
			slog.DebugContext(ctx, "member collection revision changed", "expected_revision", rev)
			return err
		}
		slog.ErrorContext(ctx, "failed to write member collection", "error", err, "expected_revision", rev)
		return errs.NewServiceUnavailable("failed to persist members", err)
	}

	slog.DebugContext(ctx, "nats storage: member collection written",
		"revision", newRev,
		"count", len(members),
		"size", len(data),
	)
	return nil
}

// isRevisionMismatch reports a lost compare-and-set race
func isRevisionMismatch(err error) bool {
	if errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}
	var jsErr jetstream.JetStreamError
	if errors.As(err, &jsErr) && jsErr.APIError() != nil {
		return jsErr.APIError().ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
	}
	return false
}

// The collection is stored as msgpack, reusing the json field names.
func encodeCollection(members model.Collection) ([]byte, error) {
	if members == nil {
		members = model.Collection{}
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(members); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeCollection(data []byte) (model.Collection, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")

	var members model.Collection
	if err := dec.Decode(&members); err != nil {
		return nil, err
	}
	if members == nil {
		members = model.Collection{}
	}
	return members, nil
}

// NewStorage creates the NATS KV member repository. The client must have
// bound the members bucket.
func NewStorage(client *NATSClient) (port.MemberReaderWriter, error) {
	kv, err := client.KeyValue(constants.KVBucketNameMembers)
	if err != nil {
		return nil, err
	}
	return &storage{
		kv:      kv,
		key:     constants.KVKeyMemberCollection,
		timeout: client.timeout,
		retry:   utils.NewRetryConfig(5, 20*time.Millisecond, time.Second),
		ready:   client.IsReady,
	}, nil
}
