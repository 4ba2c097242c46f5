// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
)

// MemberWriter defines the interface for writing member data
type MemberWriter interface {
	// CreateMember stores a new member
	// Returns Validation for a missing id and Conflict for a duplicate one
	CreateMember(ctx context.Context, member *model.Member) (*model.Member, error)

	// UpdateMember overwrites the mutable fields of an existing member
	UpdateMember(ctx context.Context, id model.MemberID, fields model.MemberFields) (*model.Member, error)

	// DeleteMember removes a member
	DeleteMember(ctx context.Context, id model.MemberID) error
}
