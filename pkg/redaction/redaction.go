// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package redaction masks personal data before it reaches the logs.
package redaction

import "strings"

// RedactEmail keeps the first character of the local part and the domain:
// "ann@example.com" becomes "a***@example.com".
func RedactEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}

	return email[:1] + "***" + email[at:]
}

// RedactEmailPtr is RedactEmail for nullable fields; nil stays empty.
func RedactEmailPtr(email *string) string {
	if email == nil {
		return ""
	}
	return RedactEmail(*email)
}

// RedactPhone keeps only the last two digits of a telephone number.
func RedactPhone(phone *string) string {
	if phone == nil || *phone == "" {
		return ""
	}
	p := strings.TrimSpace(*phone)
	if len(p) <= 2 {
		return "**"
	}
	return strings.Repeat("*", len(p)-2) + p[len(p)-2:]
}
