// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/profile-engine/pkg/types"
)

// Extract-with-default helpers. Adapters route every optional field through
// one of these so absent data always becomes the same sentinel.

// stringOr returns s trimmed, or def when s is blank.
func stringOr(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// firstOr returns the first non-blank element of ss, or def.
func firstOr(ss []string, def string) string {
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return def
}

// yearOf parses a four-digit year. Anything else yields 0 (unknown).
func yearOf(s string) int {
	s = strings.TrimSpace(s)
	if len(s) > 4 {
		s = s[:4]
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1000 || y > 9999 {
		return 0
	}
	return y
}

// yearFromParts reads the year out of a Crossref date-parts array.
func yearFromParts(parts [][]int) int {
	if len(parts) == 0 || len(parts[0]) == 0 {
		return 0
	}
	if y := parts[0][0]; y >= 1000 && y <= 9999 {
		return y
	}
	return 0
}

// personName joins given and family names, or returns the sentinel when
// both are blank.
func personName(given, family string) string {
	return stringOr(strings.TrimSpace(strings.TrimSpace(given)+" "+strings.TrimSpace(family)), types.NameNotProvided)
}

// affiliation renders an employment or education as "<organization>: <role>".
func affiliation(org, role string) string {
	return stringOr(org, types.UnknownOrg) + ": " + stringOr(role, types.RoleNotProvided)
}

// dateFromMillis renders a Unix-millisecond timestamp as YYYY-MM-DD in UTC.
// Zero or negative input yields "".
func dateFromMillis(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}

// countOrNil returns a copy of n, or nil when n is nil or negative.
func countOrNil(n *int) *int {
	if n == nil || *n < 0 {
		return nil
	}
	c := *n
	return &c
}

// orcidSet normalizes candidate iDs, dropping invalid ones, and returns the
// sorted unique set. The result is nil when nothing survives.
func orcidSet(candidates []string) []string {
	seen := make(map[string]bool, len(candidates))
	var out []string
	for _, c := range candidates {
		id, ok := NormalizeORCID(c)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// doiOr normalizes s, returning "" when it is not a DOI.
func doiOr(s string) string {
	d, _ := NormalizeDOI(s)
	return d
}
