// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package port defines the interfaces for external dependencies and adapters.
package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
)

// MemberReader defines the interface for reading member data
type MemberReader interface {
	// ListMembers returns the whole directory in stored order
	ListMembers(ctx context.Context) (model.Collection, error)

	// GetMember retrieves a member by its member_id
	// Returns NotFound if no member has this id
	GetMember(ctx context.Context, id model.MemberID) (*model.Member, error)
}
