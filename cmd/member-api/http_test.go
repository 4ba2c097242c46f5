// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-member-service/cmd/member-api/service"
	"github.com/linuxfoundation/lfx-v2-member-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-member-service/internal/middleware"
	internalservice "github.com/linuxfoundation/lfx-v2-member-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/constants"
)

func newTestHandler() http.Handler {
	repo := mock.NewEmptyMockRepository()
	reader := internalservice.NewMemberReaderOrchestrator(internalservice.WithMemberReader(repo))
	writer := internalservice.NewMemberWriterOrchestrator(
		internalservice.WithMemberWriter(repo),
		internalservice.WithPublisher(mock.NewMockMessagePublisher()),
	)
	return newHandler(service.NewMemberService(reader, writer))
}

func TestNewHandler_RequestID(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		name     string
		incoming string
	}{
		{name: "generated", incoming: ""},
		{name: "propagated", incoming: "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/members", nil)
			if tt.incoming != "" {
				req.Header.Set(constants.RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			got := rec.Header().Get(constants.RequestIDHeader)
			require.NotEmpty(t, got)
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, got)
			}
		})
	}
}

func TestNewHandler_BodyLimit(t *testing.T) {
	handler := newTestHandler()

	name := strings.Repeat("a", middleware.DefaultMaxBodyBytes)
	req := httptest.NewRequest(http.MethodPost, "/members", strings.NewReader(`{"member_id":1,"name":"`+name+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "request body is too large")
	assert.NotEmpty(t, rec.Header().Get(constants.RequestIDHeader))
}
