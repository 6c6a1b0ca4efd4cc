// Package investors resolves which funding records involve a given investor.
//
// The investors field of a record is a comma separated list. Membership is
// decided on the split and trimmed names by default (MatchExact). MatchSubstring
// checks whether the raw field contains the name anywhere; it also matches
// "Accel Partners" when asked for "Accel" and is kept for callers that want
// the loose behaviour explicitly.
package investors

import (
	"fmt"
	"slices"
	"strings"

	"fundboard/internal/core"
)

// MatchMode selects how an investor name is compared to a record.
type MatchMode string

const (
	MatchExact     MatchMode = "exact"
	MatchSubstring MatchMode = "substring"
)

// ParseMatchMode parses "exact" or "substring". Empty means MatchExact.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchExact:
		return MatchExact, nil
	case MatchSubstring:
		return MatchSubstring, nil
	}
	return "", fmt.Errorf("unknown investor match mode %q (want %s or %s)", s, MatchExact, MatchSubstring)
}

// Split returns the trimmed, non-empty investor names of a field.
func Split(field string) []string {
	return core.SplitInvestors(field)
}

// AllNames returns every distinct investor name across the records, sorted.
func AllNames(rs []core.FundingRecord) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range rs {
		for _, name := range Split(r.Investors) {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Involves reports whether the record lists the investor under mode.
func Involves(r core.FundingRecord, name string, mode MatchMode) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if mode == MatchSubstring {
		return strings.Contains(r.Investors, name)
	}
	return slices.Contains(Split(r.Investors), name)
}

// RecordsInvolving returns the records that involve the investor, in record order.
func RecordsInvolving(rs []core.FundingRecord, name string, mode MatchMode) []core.FundingRecord {
	var out []core.FundingRecord
	for _, r := range rs {
		if Involves(r, name, mode) {
			out = append(out, r)
		}
	}
	return out
}
