// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/linuxfoundation/lfx-v2-member-service/pkg/errors"
)

func strPtr(s string) *string { return &s }

func codePtr(c string) *Code {
	code := Code(c)
	return &code
}

func TestParseMemberID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    MemberID
		wantErr bool
	}{
		{name: "plain integer", input: "42", want: 42},
		{name: "surrounding spaces", input: " 7 ", want: 7},
		{name: "empty", input: "", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "fraction", input: "1.5", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMemberID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var validation errs.Validation
				assert.ErrorAs(t, err, &validation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemberID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    MemberID
		wantErr bool
	}{
		{name: "number", body: `{"member_id": 1}`, want: 1},
		{name: "numeric string", body: `{"member_id": "12"}`, want: 12},
		{name: "null", body: `{"member_id": null}`, want: 0},
		{name: "absent", body: `{}`, want: 0},
		{name: "word", body: `{"member_id": "one"}`, wantErr: true},
		{name: "float", body: `{"member_id": 1.25}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Member
			err := json.Unmarshal([]byte(tt.body), &m)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.MemberID)
		})
	}
}

func TestMember_JSONShape(t *testing.T) {
	var m Member
	require.NoError(t, json.Unmarshal([]byte(`{
		"member_id": "1",
		"name": "Ann",
		"entry_type_code": 1,
		"use_state_code": "A",
		"birth_date": "1990-01-01"
	}`), &m))

	assert.Equal(t, MemberID(1), m.MemberID)
	require.NotNil(t, m.EntryTypeCode)
	assert.Equal(t, Code("1"), *m.EntryTypeCode)
	assert.Equal(t, Code("A"), *m.UseStateCode)
	assert.Nil(t, m.Email)

	out, err := json.Marshal(m)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(out, &generic))
	assert.Equal(t, float64(1), generic["member_id"], "ids are always emitted as numbers")
	assert.Equal(t, "Ann", generic["name"])
	assert.Equal(t, "1", generic["entry_type_code"])
	assert.Contains(t, generic, "email")
	assert.Nil(t, generic["email"])
	assert.Len(t, generic, 10)
}

func TestCode_UnmarshalJSON_Rejects(t *testing.T) {
	var c Code
	assert.Error(t, json.Unmarshal([]byte(`true`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &c))
}

func TestMember_Validate(t *testing.T) {
	var nilMember *Member
	assert.Error(t, nilMember.Validate())
	assert.Error(t, (&Member{}).Validate())
	assert.Error(t, (&Member{MemberID: -1}).Validate())
	assert.NoError(t, (&Member{MemberID: 1}).Validate())
}

func TestMember_Apply(t *testing.T) {
	m := Member{
		MemberID: 1,
		MemberFields: MemberFields{
			Name:  strPtr("Ann"),
			Email: strPtr("ann@example.com"),
		},
	}

	m.Apply(MemberFields{Name: strPtr("Anna")})

	assert.Equal(t, MemberID(1), m.MemberID)
	assert.Equal(t, "Anna", *m.Name)
	assert.Nil(t, m.Email, "fields left out of an update are cleared")
}

func TestMember_Tags(t *testing.T) {
	var nilMember *Member
	assert.Nil(t, nilMember.Tags())

	m := &Member{
		MemberID: 5,
		MemberFields: MemberFields{
			Name:         strPtr("Ann"),
			Email:        strPtr("ann@example.com"),
			UseStateCode: codePtr("A"),
		},
	}
	assert.Equal(t, []string{
		"5",
		"member_id:5",
		"name:Ann",
		"email:ann@example.com",
		"use_state_code:A",
	}, m.Tags())
}

func TestCode_NumericInputIsStoredAsText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "integer", input: `{"member_id":1,"entry_type_code":7}`, want: `"entry_type_code":"7"`},
		{name: "string", input: `{"member_id":1,"entry_type_code":"7"}`, want: `"entry_type_code":"7"`},
		{name: "null", input: `{"member_id":1,"entry_type_code":null}`, want: `"entry_type_code":null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Member
			require.NoError(t, json.Unmarshal([]byte(tt.input), &m))

			out, err := json.Marshal(m)
			require.NoError(t, err)
			assert.Contains(t, string(out), tt.want)

			var again Member
			require.NoError(t, json.Unmarshal(out, &again))
			assert.Equal(t, m, again, "a stored member survives another round trip unchanged")
		})
	}
}
