// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
	errs "github.com/linuxfoundation/lfx-v2-member-service/pkg/errors"
)

func strPtr(s string) *string { return &s }

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "DB", "members.json"))
	require.NoError(t, err)
	require.NoError(t, store.Bootstrap(context.Background(), ""))
	return store
}

func TestStore_Scenario(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	created, err := store.CreateMember(ctx, &model.Member{
		MemberID:     1,
		MemberFields: model.MemberFields{Name: strPtr("Ann")},
	})
	require.NoError(t, err)
	assert.Equal(t, model.MemberID(1), created.MemberID)
	assert.Equal(t, "Ann", *created.Name)
	assert.Nil(t, created.Email)

	list, err := store.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.MemberID(1), list[0].MemberID)

	updated, err := store.UpdateMember(ctx, 1, model.MemberFields{Name: strPtr("Anna")})
	require.NoError(t, err)
	assert.Equal(t, "Anna", *updated.Name)

	got, err := store.GetMember(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Anna", *got.Name)

	require.NoError(t, store.DeleteMember(ctx, 1))

	_, err = store.GetMember(ctx, 1)
	var notFound errs.NotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	code := model.Code("2")
	in := &model.Member{
		MemberID: 10,
		MemberFields: model.MemberFields{
			Email:          strPtr("ann@example.com"),
			Name:           strPtr("Ann"),
			ProfileImgPath: strPtr("/img/ann.png"),
			Telephone:      strPtr("010-1234-5678"),
			EntryTypeCode:  &code,
			UseStateCode:   &code,
			BirthDate:      strPtr("1990-01-01"),
			RegDate:        strPtr("2024-01-01 10:00:00"),
		},
	}

	_, err := store.CreateMember(ctx, in)
	require.NoError(t, err)

	got, err := store.GetMember(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, *in, *got)
}

func TestStore_IdempotentRead(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	for i := 1; i <= 3; i++ {
		_, err := store.CreateMember(ctx, &model.Member{MemberID: model.MemberID(i)})
		require.NoError(t, err)
	}

	first, err := store.ListMembers(ctx)
	require.NoError(t, err)
	second, err := store.ListMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, model.MemberID(1), first[0].MemberID)
	assert.Equal(t, model.MemberID(3), first[2].MemberID)
}

func TestStore_FailuresLeaveCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.CreateMember(ctx, &model.Member{MemberID: 1, MemberFields: model.MemberFields{Name: strPtr("Ann")}})
	require.NoError(t, err)

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	tests := []struct {
		name    string
		run     func() error
		checkAs any
	}{
		{
			name: "update missing member",
			run: func() error {
				_, err := store.UpdateMember(ctx, 2, model.MemberFields{Name: strPtr("Bob")})
				return err
			},
			checkAs: &errs.NotFound{},
		},
		{
			name:    "delete missing member",
			run:     func() error { return store.DeleteMember(ctx, 2) },
			checkAs: &errs.NotFound{},
		},
		{
			name: "duplicate create",
			run: func() error {
				_, err := store.CreateMember(ctx, &model.Member{MemberID: 1, MemberFields: model.MemberFields{Name: strPtr("dup")}})
				return err
			},
			checkAs: &errs.Conflict{},
		},
		{
			name: "create without id",
			run: func() error {
				_, err := store.CreateMember(ctx, &model.Member{})
				return err
			},
			checkAs: &errs.Validation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.ErrorAs(t, err, tt.checkAs)

			after, errRead := os.ReadFile(store.Path())
			require.NoError(t, errRead)
			assert.Equal(t, string(before), string(after))
		})
	}
}

func TestStore_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	// A second store on the same path shares the lock
	other, err := NewStore(store.Path())
	require.NoError(t, err)

	const workers = 40
	var wg sync.WaitGroup
	for i := 1; i <= workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			target := store
			if id%2 == 0 {
				target = other
			}
			_, err := target.CreateMember(ctx, &model.Member{MemberID: model.MemberID(id)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := store.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, workers, "no create is lost")
}

func TestStore_PrettyPrinted(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.CreateMember(ctx, &model.Member{MemberID: 1, MemberFields: model.MemberFields{Name: strPtr("Ann")}})
	require.NoError(t, err)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "[\n  {\n    \"member_id\": 1,\n"), text)
	assert.Contains(t, text, "\n    \"name\": \"Ann\",\n")
	assert.Contains(t, text, "\n    \"email\": null,\n")
}

func TestStore_StorageUnavailable(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file", content: nil},
		{name: "malformed json", content: strPtr("{not json")},
		{name: "object instead of array", content: strPtr(`{"member_id": 1}`)},
		{name: "null document", content: strPtr("null")},
		{name: "empty file", content: strPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "members.json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}
			store, err := NewStore(path)
			require.NoError(t, err)

			var unavailable errs.ServiceUnavailable

			_, err = store.ListMembers(ctx)
			assert.ErrorAs(t, err, &unavailable)

			_, err = store.CreateMember(ctx, &model.Member{MemberID: 1})
			assert.ErrorAs(t, err, &unavailable)

			assert.Error(t, store.IsReady(ctx))
		})
	}
}

func TestStore_CancelledContext(t *testing.T) {
	store := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.ListMembers(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = store.CreateMember(ctx, &model.Member{MemberID: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	for i := 1; i <= 5; i++ {
		_, err := store.CreateMember(ctx, &model.Member{MemberID: model.MemberID(i)})
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"members.json"}, names, fmt.Sprint(names))
}

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore("")
	var validation errs.Validation
	assert.ErrorAs(t, err, &validation)
}
