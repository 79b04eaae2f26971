// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"regexp"
	"strings"
)

// orcidPattern matches a bare ORCID iD: four groups of four digits, the last
// character of the final group may be X.
var orcidPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// doiPattern matches DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

var orcidPrefixes = []string{
	"https://orcid.org/",
	"http://orcid.org/",
	"https://sandbox.orcid.org/",
	"orcid.org/",
}

var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi.org/",
	"doi:",
}

// NormalizeORCID returns the bare iD for an ORCID URL or iD, uppercasing
// the checksum character. ok is false when the input is not an iD.
func NormalizeORCID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, p := range orcidPrefixes {
		if strings.HasPrefix(lower, p) {
			s = s[len(p):]
			break
		}
	}
	s = strings.ToUpper(strings.TrimSuffix(s, "/"))
	if !orcidPattern.MatchString(s) {
		return "", false
	}
	return s, true
}

// NormalizeDOI returns the lowercase bare DOI for a DOI, doi: URI or
// resolver URL. ok is false when the input is not a DOI.
func NormalizeDOI(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range doiPrefixes {
		if strings.HasPrefix(s, p) {
			s = s[len(p):]
			break
		}
	}
	if !doiPattern.MatchString(s) {
		return "", false
	}
	return s, true
}
