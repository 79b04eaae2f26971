// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared records of the profile aggregation core:
// researcher profiles, their works, cache entries, query results, and the
// analytics bundle computed over a profile collection.
package types

import (
	"encoding/json"
	"strings"
	"time"
)

// Sentinels rendered when a source omits an optional field.
const (
	NameNotProvided = "Name not provided"
	UnknownTitle    = "Unknown"
	UnknownOrg      = "Unknown"
	RoleNotProvided = "N/A"
)

// WorkType is the enumerated category of a Work. Values follow the
// lowercase hyphenated vocabulary shared by ORCID and Crossref.
type WorkType string

const (
	WorkJournalArticle     WorkType = "journal-article"
	WorkBook               WorkType = "book"
	WorkBookChapter        WorkType = "book-chapter"
	WorkConferencePaper    WorkType = "conference-paper"
	WorkDataset            WorkType = "dataset"
	WorkPreprint           WorkType = "preprint"
	WorkReport             WorkType = "report"
	WorkSoftware           WorkType = "software"
	WorkDissertationThesis WorkType = "dissertation-thesis"
	WorkOther              WorkType = "other"
	WorkUnknown            WorkType = "unknown"
)

var workTypeAliases = map[string]WorkType{
	"journal-article":     WorkJournalArticle,
	"article":             WorkJournalArticle,
	"journalarticle":      WorkJournalArticle,
	"article-journal":     WorkJournalArticle,
	"book":                WorkBook,
	"monograph":           WorkBook,
	"book-chapter":        WorkBookChapter,
	"bookchapter":         WorkBookChapter,
	"conference-paper":    WorkConferencePaper,
	"proceedings-article": WorkConferencePaper,
	"conferencepaper":     WorkConferencePaper,
	"paper-conference":    WorkConferencePaper,
	"dataset":             WorkDataset,
	"data-set":            WorkDataset,
	"preprint":            WorkPreprint,
	"posted-content":      WorkPreprint,
	"report":              WorkReport,
	"software":            WorkSoftware,
	"dissertation":        WorkDissertationThesis,
	"dissertation-thesis": WorkDissertationThesis,

	"supervised-student-publication": WorkDissertationThesis,
}

// ParseWorkType maps a source-specific type label onto the enumerated set.
// Blank input yields WorkUnknown; unrecognized labels yield WorkOther.
func ParseWorkType(s string) WorkType {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return WorkUnknown
	}
	s = strings.ReplaceAll(s, "_", "-")
	if t, ok := workTypeAliases[s]; ok {
		return t
	}
	return WorkOther
}

// Work is one authored output owned by exactly one Profile.
type Work struct {
	Title string
	Type  WorkType

	// Year is the publication year; 0 means unknown.
	Year int

	// DOI is the normalized bare DOI used as the cross-source join key.
	// Empty means the work has no external identifier.
	DOI string

	CitationCount int

	// Collaborators is the deduplicated set of collaborator iDs, kept sorted.
	Collaborators []string
}

// workJSON is the wire form of Work: unknown year and absent DOI are null.
type workJSON struct {
	Title         string   `json:"title" yaml:"title"`
	Type          WorkType `json:"type" yaml:"type"`
	Year          *int     `json:"year" yaml:"year"`
	DOI           *string  `json:"doi" yaml:"doi"`
	CitationCount int      `json:"citationCount" yaml:"citationCount"`
	Collaborators []string `json:"collaborators" yaml:"collaborators"`
}

func (w Work) wire() workJSON {
	out := workJSON{
		Title:         w.Title,
		Type:          w.Type,
		CitationCount: w.CitationCount,
		Collaborators: w.Collaborators,
	}
	if out.Collaborators == nil {
		out.Collaborators = []string{}
	}
	if w.Year > 0 {
		y := w.Year
		out.Year = &y
	}
	if w.DOI != "" {
		d := w.DOI
		out.DOI = &d
	}
	return out
}

// MarshalJSON encodes the Work in the output schema.
func (w Work) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.wire())
}

// UnmarshalJSON decodes the output schema back into a Work.
func (w *Work) UnmarshalJSON(data []byte) error {
	var in workJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*w = Work{
		Title:         in.Title,
		Type:          in.Type,
		CitationCount: in.CitationCount,
		Collaborators: in.Collaborators,
	}
	if len(w.Collaborators) == 0 {
		w.Collaborators = nil
	}
	if in.Year != nil {
		w.Year = *in.Year
	}
	if in.DOI != nil {
		w.DOI = *in.DOI
	}
	return nil
}

// MarshalYAML encodes the Work with the same field names as the JSON form.
func (w Work) MarshalYAML() (any, error) {
	return w.wire(), nil
}

// Profile is the unified researcher record produced by one aggregation.
// WorkCount, TotalCitations and HIndex are derived from Works and are
// recomputed by analytics.Summarize; they are never authoritative on their own.
type Profile struct {
	Identifier  string   `json:"identifier" yaml:"identifier"`
	Name        string   `json:"name" yaml:"name"`
	LastUpdated string   `json:"lastUpdated" yaml:"lastUpdated"`
	Employments []string `json:"employments" yaml:"employments"`
	Educations  []string `json:"educations" yaml:"educations"`
	Works       []Work   `json:"works" yaml:"works"`

	WorkCount      int `json:"workCount" yaml:"workCount"`
	TotalCitations int `json:"totalCitations" yaml:"totalCitations"`
	HIndex         int `json:"hIndex" yaml:"hIndex"`
}

// IdentifierError records an identifier that could not be assembled.
type IdentifierError struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Error      string `json:"error" yaml:"error"`
}

// CacheEntry is one stored aggregation keyed by the canonical query string.
type CacheEntry struct {
	Key       string    `json:"key" yaml:"key"`
	Profiles  []Profile `json:"profiles" yaml:"profiles"`
	WrittenAt time.Time `json:"writtenAt" yaml:"writtenAt"`
}

// Stale reports whether the entry is older than ttl at now.
func (e CacheEntry) Stale(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.WrittenAt) > ttl
}

// QueryResult is the outcome of one aggregation: assembled profiles plus a
// parallel list of identifiers that failed.
type QueryResult struct {
	Query    string            `json:"query" yaml:"query"`
	Profiles []Profile         `json:"profiles" yaml:"profiles"`
	Errors   []IdentifierError `json:"errors" yaml:"errors"`
	Cached   bool              `json:"cached" yaml:"cached"`
}

// Organization is a research organization resolved through ROR.
type Organization struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Country  string   `json:"country,omitempty" yaml:"country,omitempty"`
	GRID     string   `json:"grid,omitempty" yaml:"grid,omitempty"`
	Aliases  []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Homepage string   `json:"homepage,omitempty" yaml:"homepage,omitempty"`
}
