// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package model defines the domain models and entities for the member service.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-member-service/pkg/errors"
)

// MemberID is the canonical member identifier.
// JSON input may be a number or a numeric string; output is always a number.
type MemberID int64

// ParseMemberID converts path or body text into a MemberID.
func ParseMemberID(s string) (MemberID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.NewValidation("member_id is required")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.NewValidation(fmt.Sprintf("member_id %q is not an integer", s), err)
	}
	id := MemberID(v)
	if !id.Valid() {
		return 0, errors.NewValidation("member_id must be a positive integer")
	}
	return id, nil
}

// Valid reports whether the id can identify a stored member.
func (id MemberID) Valid() bool {
	return id > 0
}

func (id MemberID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UnmarshalJSON accepts 1, "1" and null. Range checks are left to Validate.
func (id *MemberID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	text := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
	}

	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return errors.NewValidation(fmt.Sprintf("member_id %s is not an integer", string(b)), err)
	}
	*id = MemberID(v)
	return nil
}

// Code is an opaque enumeration value such as an entry type or usage state.
// It is stored as text whether the client sent a string or a number.
type Code string

// UnmarshalJSON accepts a JSON string or number.
func (c *Code) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errors.NewValidation("empty code")
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	case 'n':
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.NewValidation(fmt.Sprintf("code %s must be a string or number", string(b)), err)
	}
	*c = Code(n.String())
	return nil
}

// MemberFields are the mutable attributes of a member. Every field is nullable.
type MemberFields struct {
	Email          *string `json:"email"`
	Name           *string `json:"name"`
	ProfileImgPath *string `json:"profile_img_path"`
	Telephone      *string `json:"telephone"`
	EntryTypeCode  *Code   `json:"entry_type_code"`
	UseStateCode   *Code   `json:"use_state_code"`

	// Date-like values are opaque and never parsed
	BirthDate *string `json:"birth_date"`
	RegDate   *string `json:"reg_date"`
	EditDate  *string `json:"edit_date"`
}

// Member is one entry of the member directory.
type Member struct {
	MemberID MemberID `json:"member_id"`
	MemberFields
}

// Validate checks the attributes the store relies on.
func (m *Member) Validate() error {
	if m == nil {
		return errors.NewValidation("member is required")
	}
	if m.MemberID == 0 {
		return errors.NewValidation("member_id is required")
	}
	if !m.MemberID.Valid() {
		return errors.NewValidation("member_id must be a positive integer")
	}
	return nil
}

// Apply overwrites every mutable field. Absent values become null.
func (m *Member) Apply(fields MemberFields) {
	m.MemberFields = fields
}

// Tags generates a consistent set of tags for the member.
func (m *Member) Tags() []string {
	if m == nil {
		return nil
	}

	var tags []string

	if m.MemberID.Valid() {
		tags = append(tags, m.MemberID.String())
		tags = append(tags, fmt.Sprintf("member_id:%s", m.MemberID))
	}

	if m.Name != nil && *m.Name != "" {
		tags = append(tags, fmt.Sprintf("name:%s", *m.Name))
	}

	if m.Email != nil && *m.Email != "" {
		tags = append(tags, fmt.Sprintf("email:%s", *m.Email))
	}

	if m.UseStateCode != nil && *m.UseStateCode != "" {
		tags = append(tags, fmt.Sprintf("use_state_code:%s", *m.UseStateCode))
	}

	return tags
}
