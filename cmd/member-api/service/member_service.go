// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service implements the member HTTP endpoints.
package service

import (
	"log/slog"
	"net/http"

	"goa.design/clue/health"
	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/service"
)

const memberIDParam = "member_id"

// MemberService serves the member directory over HTTP
type MemberService struct {
	reader service.MemberReader
	writer service.MemberWriter
	health http.Handler
	vars   func(*http.Request) map[string]string
}

// NewMemberService returns the HTTP member service. The pingers back /readyz.
func NewMemberService(reader service.MemberReader, writer service.MemberWriter, pingers ...health.Pinger) *MemberService {
	return &MemberService{
		reader: reader,
		writer: writer,
		health: health.Handler(health.NewChecker(pingers...)),
	}
}

// Mount registers every route on the goa muxer
func (s *MemberService) Mount(mux goahttp.Muxer) {
	s.vars = mux.Vars

	mux.Handle(http.MethodGet, "/livez", s.Livez)
	mux.Handle(http.MethodGet, "/readyz", s.Readyz)

	mux.Handle(http.MethodGet, "/members", s.ListMembers)
	mux.Handle(http.MethodPost, "/members", s.CreateMember)
	mux.Handle(http.MethodGet, "/members/{member_id}", s.GetMember)
	mux.Handle(http.MethodPut, "/members/{member_id}", s.UpdateMember)
	mux.Handle(http.MethodDelete, "/members/{member_id}", s.DeleteMember)

	// Legacy route shapes still used by the chat clients
	mux.Handle(http.MethodGet, "/members/all", s.ListMembers)
	mux.Handle(http.MethodPost, "/members/create", s.LegacyCreateMember)
	mux.Handle(http.MethodPost, "/members/modify", s.LegacyModifyMember)
	mux.Handle(http.MethodPost, "/members/delete", s.LegacyDeleteMember)
}

// Livez implements the livez endpoint for liveness probes.
func (s *MemberService) Livez(w http.ResponseWriter, r *http.Request) {
	slog.DebugContext(r.Context(), "liveness check completed successfully")
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Readyz implements the readyz endpoint for readiness probes.
func (s *MemberService) Readyz(w http.ResponseWriter, r *http.Request) {
	s.health.ServeHTTP(w, r)
}

// ListMembers returns the whole directory
func (s *MemberService) ListMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slog.DebugContext(ctx, "memberService.list-members")

	members, err := s.reader.ListMembers(ctx)
	if err != nil {
		s.writeError(ctx, w, err, messageListFailed)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, convertMembersToResponse(members))
}

// GetMember returns a single member
func (s *MemberService) GetMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := memberIDFromPath(s.vars(r))
	if err != nil {
		s.writeError(ctx, w, err, messageGetFailed)
		return
	}
	slog.DebugContext(ctx, "memberService.get-member", "member_id", id)

	member, err := s.reader.GetMember(ctx, id)
	if err != nil {
		s.writeError(ctx, w, err, messageGetFailed)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, member)
}

// CreateMember stores a new member and returns it
func (s *MemberService) CreateMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	member, err := s.create(ctx, r)
	if err != nil {
		s.writeError(ctx, w, err, messageSaveFailed)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, member)
}

// UpdateMember overwrites the mutable fields of the member named in the path
func (s *MemberService) UpdateMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pathID, err := memberIDFromPath(s.vars(r))
	if err != nil {
		s.writeError(ctx, w, err, messageSaveFailed)
		return
	}

	member, err := s.update(ctx, r, pathID)
	if err != nil {
		s.writeError(ctx, w, err, messageSaveFailed)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, member)
}

// DeleteMember removes the member named in the path
func (s *MemberService) DeleteMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := memberIDFromPath(s.vars(r))
	if err != nil {
		s.writeError(ctx, w, err, messageDeleteFailed)
		return
	}
	slog.DebugContext(ctx, "memberService.delete-member", "member_id", id)

	if err := s.writer.DeleteMember(ctx, id); err != nil {
		s.writeError(ctx, w, err, messageDeleteFailed)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, convertMemberToEnvelope(messageDeleted, nil))
}

// LegacyCreateMember is POST /members/create
func (s *MemberService) LegacyCreateMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	member, err := s.create(ctx, r)
	if err != nil {
		s.writeError(ctx, w, err, messageSaveFailed)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, convertMemberToEnvelope(messageCreated, member))
}

// LegacyModifyMember is POST /members/modify; the body names the member
func (s *MemberService) LegacyModifyMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	member, err := s.update(ctx, r, 0)
	if err != nil {
		s.writeErrorWithNotFound(ctx, w, err, messageSaveFailed, messageModifyNotFound)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, convertMemberToEnvelope(messageModified, member))
}

// LegacyDeleteMember is POST /members/delete
func (s *MemberService) LegacyDeleteMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := convertPayloadToDeleteID(r)
	if err != nil {
		s.writeError(ctx, w, err, messageDeleteFailed)
		return
	}
	slog.DebugContext(ctx, "memberService.legacy-delete-member", "member_id", id)

	if err := s.writer.DeleteMember(ctx, id); err != nil {
		s.writeError(ctx, w, err, messageDeleteFailed)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, convertMemberToEnvelope(messageDeleted, nil))
}
