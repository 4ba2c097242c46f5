// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mock provides in-memory implementations of the member ports for
// local development and tests.
package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/redaction"
)

// Operation names accepted by SetError
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpReady  = "ready"
)

// Global mock repository instance shared by every caller of NewMockRepository
var (
	globalMockRepo     *MockRepository
	globalMockRepoOnce = &sync.Once{}
)

// MockRepository provides a mock implementation of the member repository for testing
type MockRepository struct {
	members model.Collection
	errors  map[string]error // operation -> simulated error
	mu      sync.RWMutex
}

// Ensure MockRepository implements the repository interface
var _ port.MemberReaderWriter = (*MockRepository)(nil)

// NewMockRepository returns the shared mock repository, seeded with sample members
func NewMockRepository() *MockRepository {
	globalMockRepoOnce.Do(func() {
		mock := NewEmptyMockRepository()

		name, email, code := "Sample Member", "sample@example.com", model.Code("1")
		mock.members = model.Collection{
			{
				MemberID: 1,
				MemberFields: model.MemberFields{
					Name:          &name,
					Email:         &email,
					EntryTypeCode: &code,
				},
			},
		}

		globalMockRepo = mock
	})

	return globalMockRepo
}

// NewEmptyMockRepository creates an isolated repository with no members
func NewEmptyMockRepository() *MockRepository {
	return &MockRepository{
		members: model.Collection{},
		errors:  make(map[string]error),
	}
}

// SetError makes every later call of the given operation fail with err.
// A nil err clears the simulation.
func (m *MockRepository) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errors, operation)
		return
	}
	m.errors[operation] = err
}

func (m *MockRepository) simulated(operation string) error {
	return m.errors[operation]
}

// ListMembers returns a copy of the collection
func (m *MockRepository) ListMembers(ctx context.Context) (model.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.simulated(OpList); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "mock: listing members", "count", len(m.members))
	return m.members.Clone(), nil
}

// GetMember retrieves a member by id
func (m *MockRepository) GetMember(ctx context.Context, id model.MemberID) (*model.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.simulated(OpGet); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "mock: getting member", "member_id", id)
	return m.members.Find(id)
}

// CreateMember appends a member, rejecting duplicates
func (m *MockRepository) CreateMember(ctx context.Context, member *model.Member) (*model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.simulated(OpCreate); err != nil {
		return nil, err
	}
	if err := member.Validate(); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "mock: creating member",
		"member_id", member.MemberID,
		"email", redaction.RedactEmailPtr(member.Email),
	)

	if err := m.members.Insert(*member); err != nil {
		return nil, err
	}
	return m.members.Find(member.MemberID)
}

// UpdateMember overwrites the mutable fields of a member
func (m *MockRepository) UpdateMember(ctx context.Context, id model.MemberID, fields model.MemberFields) (*model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.simulated(OpUpdate); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "mock: updating member", "member_id", id)
	return m.members.Replace(id, fields)
}

// DeleteMember removes a member
func (m *MockRepository) DeleteMember(ctx context.Context, id model.MemberID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.simulated(OpDelete); err != nil {
		return err
	}

	slog.DebugContext(ctx, "mock: deleting member", "member_id", id)
	_, err := m.members.Remove(id)
	return err
}

// IsReady always succeeds unless a readiness error is simulated
func (m *MockRepository) IsReady(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.simulated(OpReady)
}

// AddMember stores a member directly, bypassing validation (useful for testing)
func (m *MockRepository) AddMember(member model.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members = append(m.members, member)
}

// GetMemberCount returns the number of members in the mock repository
func (m *MockRepository) GetMemberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.members)
}

// ClearAll clears all mock data and simulated errors (useful for testing)
func (m *MockRepository) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members = model.Collection{}
	m.errors = make(map[string]error)
}
