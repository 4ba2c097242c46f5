// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package bolt implements the member repository on a bbolt database.
// Members live in insertion order under a sequence key, with a secondary
// bucket mapping member_id to that key.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-member-service/pkg/errors"
)

var (
	membersBucket = []byte(constants.BoltBucketMembers)
	indexBucket   = []byte(constants.BoltBucketMemberIndex)
)

// Store is a bbolt backed member repository. bbolt allows a single writer
// transaction at a time, which serializes every mutation.
type Store struct {
	db *bolt.DB
}

// Ensure Store implements the repository interface
var _ port.MemberReaderWriter = (*Store)(nil)

// Open opens (or creates) the database at path and its buckets
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errs.NewValidation("bolt database path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errs.NewServiceUnavailable("failed to create bolt directory", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		slog.ErrorContext(ctx, "failed to open bolt database", "error", err, "path", path)
		return nil, errs.NewServiceUnavailable("failed to open bolt database", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{membersBucket, indexBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errs.NewServiceUnavailable("failed to create bolt buckets", err)
	}

	slog.InfoContext(ctx, "bolt member store opened", "path", path)
	return &Store{db: db}, nil
}

// Close releases the database file lock
func (s *Store) Close() error {
	return s.db.Close()
}

// ListMembers returns every member in insertion order
func (s *Store) ListMembers(ctx context.Context) (model.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	members := model.Collection{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(membersBucket).ForEach(func(_, v []byte) error {
			var m model.Member
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			members = append(members, m)
			return nil
		})
	})
	if err != nil {
		return nil, storageError(ctx, "list", err)
	}

	slog.DebugContext(ctx, "bolt storage: members listed", "count", len(members))
	return members, nil
}

// GetMember looks a member up through the id index
func (s *Store) GetMember(ctx context.Context, id model.MemberID) (*model.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var member *model.Member
	err := s.db.View(func(tx *bolt.Tx) error {
		_, m, err := lookup(tx, id)
		member = m
		return err
	})
	if err != nil {
		return nil, storageError(ctx, "get", err)
	}
	return member, nil
}

// CreateMember stores a new member, rejecting duplicate ids
func (s *Store) CreateMember(ctx context.Context, member *model.Member) (*model.Member, error) {
	if err := member.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		index := tx.Bucket(indexBucket)
		key := idKey(member.MemberID)
		if index.Get(key) != nil {
			return errs.NewConflict("member with member_id " + member.MemberID.String() + " already exists")
		}

		members := tx.Bucket(membersBucket)
		seq, err := members.NextSequence()
		if err != nil {
			return err
		}
		seqKey := uint64Key(seq)

		data, err := json.Marshal(member)
		if err != nil {
			return err
		}
		if err := members.Put(seqKey, data); err != nil {
			return err
		}
		return index.Put(key, seqKey)
	})
	if err != nil {
		return nil, storageError(ctx, "create", err)
	}

	slog.DebugContext(ctx, "bolt storage: member created", "member_id", member.MemberID)
	created := *member
	return &created, nil
}

// UpdateMember overwrites the mutable fields of a member in place
func (s *Store) UpdateMember(ctx context.Context, id model.MemberID, fields model.MemberFields) (*model.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var updated *model.Member
	err := s.db.Update(func(tx *bolt.Tx) error {
		seqKey, m, err := lookup(tx, id)
		if err != nil {
			return err
		}
		m.Apply(fields)

		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		updated = m
		return tx.Bucket(membersBucket).Put(seqKey, data)
	})
	if err != nil {
		return nil, storageError(ctx, "update", err)
	}

	slog.DebugContext(ctx, "bolt storage: member updated", "member_id", id)
	return updated, nil
}

// DeleteMember removes a member and its index entry
func (s *Store) DeleteMember(ctx context.Context, id model.MemberID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		seqKey, _, err := lookup(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Bucket(membersBucket).Delete(seqKey); err != nil {
			return err
		}
		return tx.Bucket(indexBucket).Delete(idKey(id))
	})
	if err != nil {
		return storageError(ctx, "delete", err)
	}

	slog.DebugContext(ctx, "bolt storage: member deleted", "member_id", id)
	return nil
}

// IsReady checks that the database is open and holds the member buckets
func (s *Store) IsReady(ctx context.Context) error {
	err := s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(membersBucket) == nil || tx.Bucket(indexBucket) == nil {
			return errors.New("member buckets are missing")
		}
		return nil
	})
	if err != nil {
		return storageError(ctx, "ready", err)
	}
	return nil
}

// Name identifies the store in health reports
func (s *Store) Name() string {
	return "members-bolt"
}

// Ping satisfies the health checker
func (s *Store) Ping(ctx context.Context) error {
	return s.IsReady(ctx)
}

func lookup(tx *bolt.Tx, id model.MemberID) ([]byte, *model.Member, error) {
	seqKey := tx.Bucket(indexBucket).Get(idKey(id))
	if seqKey == nil {
		return nil, nil, errs.NewNotFound("member with member_id " + id.String() + " not found")
	}
	// keys are only valid for the life of the transaction
	seqKey = append([]byte(nil), seqKey...)

	data := tx.Bucket(membersBucket).Get(seqKey)
	if data == nil {
		return nil, nil, errors.New("member index points at a missing record")
	}

	var m model.Member
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, err
	}
	return seqKey, &m, nil
}

// storageError keeps domain errors and turns everything else into ServiceUnavailable
func storageError(ctx context.Context, operation string, err error) error {
	var (
		notFound   errs.NotFound
		conflict   errs.Conflict
		validation errs.Validation
	)
	if errors.As(err, &notFound) || errors.As(err, &conflict) || errors.As(err, &validation) {
		return err
	}

	slog.ErrorContext(ctx, "bolt storage operation failed", "error", err, "operation", operation)
	return errs.NewServiceUnavailable("member storage is unavailable", err)
}

func idKey(id model.MemberID) []byte {
	return uint64Key(uint64(id))
}

// big-endian keys keep bbolt's byte ordering equal to numeric ordering
func uint64Key(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
