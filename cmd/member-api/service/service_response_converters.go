// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"github.com/linuxfoundation/lfx-v2-member-service/internal/domain/model"
)

// Messages returned by the mutation routes
const (
	messageCreated  = "Member created successfully"
	messageModified = "Member modified successfully"
	messageDeleted  = "Member deleted successfully"
)

// Messages returned with server-side failures
const (
	messageListFailed   = "Error retrieving members"
	messageGetFailed    = "Error retrieving the member"
	messageSaveFailed   = "Error saving the member"
	messageDeleteFailed = "Error deleting the Member"
)

// Messages returned with 404 responses
const (
	messageNotFound       = "Member not found"
	messageModifyNotFound = "member not found"
)

// MemberEnvelope wraps a member with a confirmation message
type MemberEnvelope struct {
	Message string        `json:"message"`
	Member  *model.Member `json:"member,omitempty"`
}

// convertMembersToResponse never returns nil so an empty directory encodes as []
func convertMembersToResponse(members model.Collection) model.Collection {
	if members == nil {
		return model.Collection{}
	}
	return members
}

func convertMemberToEnvelope(message string, member *model.Member) *MemberEnvelope {
	return &MemberEnvelope{Message: message, Member: member}
}
