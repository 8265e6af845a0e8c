package models

import (
	"strings"
)

// DAEntry is one dedicated-account (id, amount) pair extracted from a
// delimited composite field.
type DAEntry struct {
	AccountID string
	Amount    string
}

// SplitDAList splits a colon-delimited SDP list field ("7:8") into its
// elements. Returns an empty slice for an empty field so callers never
// re-parse delimited strings downstream.
func SplitDAList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ":")
}

// ParseDASField parses the CCN "das" composite field into typed entries.
// Entries are tilde-separated; within an entry the account id and amount
// are hash-separated ("7#100~8#250"). Malformed entries are skipped.
func ParseDASField(s string) []DAEntry {
	if s == "" {
		return nil
	}
	var entries []DAEntry
	for _, part := range strings.Split(s, "~") {
		id, amount, ok := strings.Cut(part, "#")
		if !ok || id == "" {
			continue
		}
		entries = append(entries, DAEntry{AccountID: id, Amount: amount})
	}
	return entries
}
