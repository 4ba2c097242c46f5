// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"errors"
	"io"
	"net/http"

	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
	lfxerrors "github.com/linuxfoundation/lfx-v2-member-service/pkg/errors"
)

// memberUpdatePayload is the body of an update. member_id is optional on the
// REST route (the path carries it) and required on the legacy modify route.
type memberUpdatePayload struct {
	MemberID *model.MemberID `json:"member_id"`
	model.MemberFields
}

// memberDeletePayload is the body of the legacy delete route
type memberDeletePayload struct {
	MemberID *model.MemberID `json:"member_id"`
}

// decodeBody decodes the request body with goa's content-type aware decoder
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return lfxerrors.NewValidation("request body is required")
	}

	if err := goahttp.RequestDecoder(r).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return lfxerrors.NewValidation("request body is required")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		var validation lfxerrors.Validation
		if errors.As(err, &validation) {
			return validation
		}
		return lfxerrors.NewValidation("request body is not a valid member", err)
	}
	return nil
}

// convertPayloadToMember decodes a create body into a validated member
func convertPayloadToMember(r *http.Request) (*model.Member, error) {
	var member model.Member
	if err := decodeBody(r, &member); err != nil {
		return nil, err
	}
	if err := member.Validate(); err != nil {
		return nil, err
	}
	return &member, nil
}

// convertPayloadToUpdate decodes an update body. pathID is zero on the legacy
// route, where the body must name the member.
func convertPayloadToUpdate(r *http.Request, pathID model.MemberID) (model.MemberID, model.MemberFields, error) {
	var payload memberUpdatePayload
	if err := decodeBody(r, &payload); err != nil {
		return 0, model.MemberFields{}, err
	}

	id, err := resolveMemberID(pathID, payload.MemberID)
	if err != nil {
		return 0, model.MemberFields{}, err
	}
	return id, payload.MemberFields, nil
}

// convertPayloadToDeleteID decodes the legacy delete body
func convertPayloadToDeleteID(r *http.Request) (model.MemberID, error) {
	var payload memberDeletePayload
	if err := decodeBody(r, &payload); err != nil {
		return 0, err
	}
	return resolveMemberID(0, payload.MemberID)
}
