// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"fmt"

	"github.com/linuxfoundation/lfx-v2-member-service/pkg/errors"
)

// Collection is the ordered member directory. Stores that persist the whole
// collection as one document load it, apply a single change and write it back.
type Collection []Member

// Index returns the position of the member with the given id, or -1.
func (c Collection) Index(id MemberID) int {
	for i := range c {
		if c[i].MemberID == id {
			return i
		}
	}
	return -1
}

// Find returns a copy of the member with the given id.
func (c Collection) Find(id MemberID) (*Member, error) {
	i := c.Index(id)
	if i < 0 {
		return nil, notFound(id)
	}
	m := c[i]
	return &m, nil
}

// Insert appends a new member. Duplicate ids are rejected and leave the collection unchanged.
func (c *Collection) Insert(m Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if c.Index(m.MemberID) >= 0 {
		return errors.NewConflict(fmt.Sprintf("member with member_id %s already exists", m.MemberID))
	}
	*c = append(*c, m)
	return nil
}

// Replace overwrites the mutable fields of an existing member in place.
func (c Collection) Replace(id MemberID, fields MemberFields) (*Member, error) {
	i := c.Index(id)
	if i < 0 {
		return nil, notFound(id)
	}
	c[i].Apply(fields)
	m := c[i]
	return &m, nil
}

// Remove deletes the member with the given id, keeping the order of the rest.
func (c *Collection) Remove(id MemberID) (*Member, error) {
	i := c.Index(id)
	if i < 0 {
		return nil, notFound(id)
	}
	removed := (*c)[i]
	*c = append((*c)[:i:i], (*c)[i+1:]...)
	return &removed, nil
}

// Clone returns a copy that can be mutated without touching the receiver.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

func notFound(id MemberID) error {
	return errors.NewNotFound(fmt.Sprintf("member with member_id %s not found", id))
}
