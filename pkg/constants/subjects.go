// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// NATS subject constants for message publishing
const (
	// IndexMemberSubject carries indexer messages for search and discovery
	IndexMemberSubject = "lfx.index.member"

	// MemberEventSubject carries member change events for chat services
	MemberEventSubject = "lfx.member-api.member_changed"
)
