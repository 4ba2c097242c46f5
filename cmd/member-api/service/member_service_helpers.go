// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"net/http"

	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
)

func (s *MemberService) create(ctx context.Context, r *http.Request) (*model.Member, error) {
	member, err := convertPayloadToMember(r)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "memberService.create-member", "member_id", member.MemberID)

	return s.writer.CreateMember(ctx, member)
}

func (s *MemberService) update(ctx context.Context, r *http.Request, pathID model.MemberID) (*model.Member, error) {
	id, fields, err := convertPayloadToUpdate(r, pathID)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "memberService.update-member", "member_id", id)

	return s.writer.UpdateMember(ctx, id, fields)
}

// writeJSON encodes v with goa's response encoder
func (s *MemberService) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := goahttp.ResponseEncoder(ctx, w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err, "status", status)
	}
}

func (s *MemberService) writeError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	s.writeErrorWithNotFound(ctx, w, err, fallback, messageNotFound)
}

// writeErrorWithNotFound is writeError with a route specific 404 message
func (s *MemberService) writeErrorWithNotFound(ctx context.Context, w http.ResponseWriter, err error, fallback, notFound string) {
	status, body := wrapError(ctx, err, fallback)
	if status == http.StatusNotFound {
		body.Message = notFound
	}
	s.writeJSON(ctx, w, status, body)
}
