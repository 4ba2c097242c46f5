// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// DefaultMembersFile is where the member collection lives when MEMBERS_FILE is unset
	DefaultMembersFile = "DB/members.json"

	// DefaultBoltFile is where the bbolt database lives when BOLT_FILE is unset
	DefaultBoltFile = "DB/members.db"

	// KVBucketNameMembers is the name of the KV bucket holding the member collection.
	KVBucketNameMembers = "members"

	// KVKeyMemberCollection is the single key under which the collection is stored
	KVKeyMemberCollection = "collection"

	// BoltBucketMembers holds sequence -> member documents, in insertion order
	BoltBucketMembers = "members"

	// BoltBucketMemberIndex holds member_id -> sequence lookups
	BoltBucketMemberIndex = "members_by_id"
)
