// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
	errs "github.com/linuxfoundation/lfx-v2-member-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/utils"
)

type fakeEntry struct {
	jetstream.KeyValueEntry
	value    []byte
	revision uint64
}

func (e fakeEntry) Value() []byte    { return e.value }
func (e fakeEntry) Revision() uint64 { return e.revision }

// fakeKV mimics the revision semantics of a JetStream KV bucket for one key
type fakeKV struct {
	mu        sync.Mutex
	value     []byte
	revision  uint64
	getErr    error
	conflicts int // Update calls that report a lost race before applying
	updates   int
}

func (f *fakeKV) Get(_ context.Context, _ string) (jetstream.KeyValueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.revision == 0 {
		return nil, jetstream.ErrKeyNotFound
	}
	return fakeEntry{value: append([]byte(nil), f.value...), revision: f.revision}, nil
}

func (f *fakeKV) Update(_ context.Context, _ string, value []byte, revision uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.conflicts > 0 {
		// another writer got there first with an unchanged collection
		f.conflicts--
		if f.value == nil {
			f.value, _ = encodeCollection(nil)
		}
		f.revision++
		return 0, &jetstream.APIError{ErrorCode: jetstream.JSErrCodeStreamWrongLastSequence}
	}
	if revision != f.revision {
		return 0, jetstream.ErrKeyExists
	}
	f.value = append([]byte(nil), value...)
	f.revision++
	return f.revision, nil
}

func newTestStorage(kv *fakeKV) *storage {
	return &storage{
		kv:    kv,
		key:   "collection",
		retry: utils.NewRetryConfig(50, time.Millisecond, 5*time.Millisecond),
	}
}

func strPtr(s string) *string { return &s }

func TestStorage_Scenario(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(&fakeKV{})

	list, err := s.ListMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	created, err := s.CreateMember(ctx, &model.Member{MemberID: 1, MemberFields: model.MemberFields{Name: strPtr("Ann")}})
	require.NoError(t, err)
	assert.Equal(t, "Ann", *created.Name)

	updated, err := s.UpdateMember(ctx, 1, model.MemberFields{Name: strPtr("Anna")})
	require.NoError(t, err)
	assert.Equal(t, "Anna", *updated.Name)

	got, err := s.GetMember(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Anna", *got.Name)
	assert.Nil(t, got.Email)

	require.NoError(t, s.DeleteMember(ctx, 1))
	_, err = s.GetMember(ctx, 1)
	var notFound errs.NotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestStorage_RetriesLostRace(t *testing.T) {
	ctx := context.Background()
	kv := &fakeKV{conflicts: 2}
	s := newTestStorage(kv)

	_, err := s.CreateMember(ctx, &model.Member{MemberID: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, kv.updates)
}

func TestStorage_GivesUpWhenAlwaysBusy(t *testing.T) {
	ctx := context.Background()
	kv := &fakeKV{conflicts: 1000}
	s := newTestStorage(kv)
	s.retry = utils.NewRetryConfig(3, time.Millisecond, time.Millisecond)

	_, err := s.CreateMember(ctx, &model.Member{MemberID: 1})
	var unavailable errs.ServiceUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 3, kv.updates)
}

func TestStorage_DomainErrorsAreNotRetried(t *testing.T) {
	ctx := context.Background()
	kv := &fakeKV{}
	s := newTestStorage(kv)

	_, err := s.CreateMember(ctx, &model.Member{MemberID: 1})
	require.NoError(t, err)

	_, err = s.CreateMember(ctx, &model.Member{MemberID: 1})
	var conflict errs.Conflict
	assert.ErrorAs(t, err, &conflict)

	_, err = s.UpdateMember(ctx, 2, model.MemberFields{})
	var notFound errs.NotFound
	assert.ErrorAs(t, err, &notFound)

	assert.Equal(t, 1, kv.updates)
}

func TestStorage_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(&fakeKV{})

	const workers = 10
	var wg sync.WaitGroup
	for i := 1; i <= workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := s.CreateMember(ctx, &model.Member{MemberID: model.MemberID(id)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := s.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, workers)
}

func TestStorage_Unavailable(t *testing.T) {
	ctx := context.Background()
	var unavailable errs.ServiceUnavailable

	s := newTestStorage(&fakeKV{getErr: errors.New("connection closed")})
	_, err := s.ListMembers(ctx)
	assert.ErrorAs(t, err, &unavailable)

	s = newTestStorage(&fakeKV{value: []byte("not msgpack at all"), revision: 4})
	_, err = s.GetMember(ctx, 1)
	assert.ErrorAs(t, err, &unavailable)
}

func TestIsRevisionMismatch(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{jetstream.ErrKeyExists, true},
		{fmt.Errorf("wrapped: %w", jetstream.ErrKeyExists), true},
		{&jetstream.APIError{ErrorCode: jetstream.JSErrCodeStreamWrongLastSequence}, true},
		{&jetstream.APIError{ErrorCode: jetstream.JSErrCodeStreamNotFound}, false},
		{errors.New("timeout"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isRevisionMismatch(tt.err), tt.err.Error())
	}
}

func TestCollectionCodec(t *testing.T) {
	code := model.Code("7")
	in := model.Collection{
		{MemberID: 1, MemberFields: model.MemberFields{Name: strPtr("Ann"), EntryTypeCode: &code}},
		{MemberID: 2},
	}

	data, err := encodeCollection(in)
	require.NoError(t, err)

	out, err := decodeCollection(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	empty, err := encodeCollection(nil)
	require.NoError(t, err)
	decoded, err := decodeCollection(empty)
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)
}
