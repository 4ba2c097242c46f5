// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-member-service/pkg/errors"
)

// memberIDFromPath validates the {member_id} path parameter
func memberIDFromPath(vars map[string]string) (model.MemberID, error) {
	return model.ParseMemberID(vars[memberIDParam])
}

// resolveMemberID reconciles the path id with an optional body id.
// member_id is immutable, so a body naming a different member is rejected.
func resolveMemberID(pathID model.MemberID, bodyID *model.MemberID) (model.MemberID, error) {
	switch {
	case pathID == 0 && bodyID == nil:
		return 0, errors.NewValidation("member_id is required")
	case pathID == 0:
		if !bodyID.Valid() {
			return 0, errors.NewValidation("member_id must be a positive integer")
		}
		return *bodyID, nil
	case bodyID != nil && *bodyID != pathID:
		return 0, errors.NewValidation("member_id cannot be changed")
	default:
		return pathID, nil
	}
}
