// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package file implements the member repository on top of a single
// pretty-printed JSON document.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/port"
	errs "github.com/linuxfoundation/lfx-v2-member-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/redaction"
)

const indent = "  "

// One lock per absolute path, shared by every Store in the process.
var (
	pathLocksMu sync.Mutex
	pathLocks   = map[string]*sync.RWMutex{}
)

func lockFor(path string) *sync.RWMutex {
	pathLocksMu.Lock()
	defer pathLocksMu.Unlock()

	mu, ok := pathLocks[path]
	if !ok {
		mu = &sync.RWMutex{}
		pathLocks[path] = mu
	}
	return mu
}

// Store persists the member collection as a JSON array.
// Reads take the path's read lock; each mutation holds the write lock for the
// whole read-modify-write cycle and replaces the file atomically.
type Store struct {
	path string
	mu   *sync.RWMutex
}

// Ensure Store implements the repository interface
var _ port.MemberReaderWriter = (*Store)(nil)

// NewStore creates a store for the collection file at path.
// The file itself is not touched; see Bootstrap.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errs.NewValidation("members file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errs.NewUnexpected("failed to resolve members file path", err)
	}
	return &Store{path: abs, mu: lockFor(abs)}, nil
}

// Path returns the absolute location of the collection file
func (s *Store) Path() string {
	return s.path
}

// ListMembers returns the full collection in stored order
func (s *Store) ListMembers(ctx context.Context) (model.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	members, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "file storage: members listed", "count", len(members))
	return members, nil
}

// GetMember returns the member with the given id
func (s *Store) GetMember(ctx context.Context, id model.MemberID) (*model.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	members, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	return members.Find(id)
}

// CreateMember appends a member and persists the collection
func (s *Store) CreateMember(ctx context.Context, member *model.Member) (*model.Member, error) {
	if err := member.Validate(); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "file storage: creating member",
		"member_id", member.MemberID,
		"email", redaction.RedactEmailPtr(member.Email),
	)

	var created *model.Member
	err := s.mutate(ctx, func(members *model.Collection) error {
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

// UpdateMember overwrites the mutable fields of a member and persists the collection
func (s *Store) UpdateMember(ctx context.Context, id model.MemberID, fields model.MemberFields) (*model.Member, error) {
	slog.DebugContext(ctx, "file storage: updating member", "member_id", id)

	var updated *model.Member
	err := s.mutate(ctx, func(members *model.Collection) error {
		var errReplace error
		updated, errReplace = members.Replace(id, fields)
		return errReplace
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteMember removes a member and persists the collection
func (s *Store) DeleteMember(ctx context.Context, id model.MemberID) error {
	slog.DebugContext(ctx, "file storage: deleting member", "member_id", id)

	return s.mutate(ctx, func(members *model.Collection) error {
		_, err := members.Remove(id)
		return err
	})
}

// IsReady checks that the collection file exists and parses
func (s *Store) IsReady(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.load(ctx)
	return err
}

// Name identifies the store in health reports
func (s *Store) Name() string {
	return "members-file"
}

// Ping satisfies the health checker
func (s *Store) Ping(ctx context.Context) error {
	return s.IsReady(ctx)
}

// mutate runs one read-modify-write cycle under the write lock.
// The file is rewritten only when fn succeeds.
func (s *Store) mutate(ctx context.Context, fn func(*model.Collection) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	members, err := s.load(ctx)
	if err != nil {
		return err
	}

	if err := fn(&members); err != nil {
		return err
	}

	return s.save(ctx, members)
}

// load reads and parses the collection. Callers hold the lock.
func (s *Store) load(ctx context.Context) (model.Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.ErrorContext(ctx, "members file does not exist", "path", s.path)
		} else {
			slog.ErrorContext(ctx, "failed to read members file", "error", err, "path", s.path)
		}
		return nil, errs.NewServiceUnavailable("member storage is unavailable", err)
	}

	members, err := decode(data)
	if err != nil {
		slog.ErrorContext(ctx, "members file is malformed", "error", err, "path", s.path)
		return nil, errs.NewServiceUnavailable("member storage is unavailable", err)
	}

	return members, nil
}

// save replaces the collection file with a temp file renamed into place.
// Callers hold the write lock.
func (s *Store) save(ctx context.Context, members model.Collection) error {
	data, err := encode(members)
	if err != nil {
		return errs.NewUnexpected("failed to encode members", err)
	}

	if err := writeAtomic(s.path, data); err != nil {
		slog.ErrorContext(ctx, "failed to write members file", "error", err, "path", s.path)
		return errs.NewServiceUnavailable("failed to persist members", err)
	}

	slog.DebugContext(ctx, "file storage: members persisted",
		"path", s.path,
		"count", len(members),
		"size", len(data),
	)
	return nil
}

func decode(data []byte) (model.Collection, error) {
	var members model.Collection
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	if members == nil {
		// a literal null document
		return nil, fmt.Errorf("collection is not an array")
	}
	return members, nil
}

func encode(members model.Collection) ([]byte, error) {
	if members == nil {
		members = model.Collection{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(members); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func(cause error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return cause
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, fs.FileMode(0o644)); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
