// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/url"
	"strings"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/internal/httputil"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// crossrefAPIBase is the Crossref REST API root. Declared as a var so tests
// can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org"

// CrossrefClient is a WorkMetadataSource backed by the Crossref works API.
type CrossrefClient struct {
	Fetcher Fetcher

	// BaseURL overrides crossrefAPIBase when set.
	BaseURL string

	// Mailto is sent for polite pool access.
	Mailto string
}

// Name returns the source identifier.
func (c *CrossrefClient) Name() string { return "crossref" }

// FetchWorkMetadata retrieves the Crossref record for doi.
func (c *CrossrefClient) FetchWorkMetadata(ctx context.Context, doi string) (*WorkMetadata, error) {
	base := crossrefAPIBase
	if c.BaseURL != "" {
		base = strings.TrimSuffix(c.BaseURL, "/")
	}
	reqURL := base + "/works/" + escapeDOI(doi)
	if c.Mailto != "" {
		reqURL += "?mailto=" + url.QueryEscape(c.Mailto)
	}

	var resp crossrefResponse
	if err := c.Fetcher.FetchJSON(ctx, reqURL, httputil.Options{}, &resp); err != nil {
		return nil, err
	}
	if resp.Message == nil {
		return nil, &errors.AdapterError{Source: c.Name(), Field: "message"}
	}
	return resp.Message.toMetadata(c.Name(), doi), nil
}

// escapeDOI path-escapes each segment of a DOI, keeping the slashes.
func escapeDOI(doi string) string {
	parts := strings.Split(doi, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// Crossref API JSON structures.
type crossrefResponse struct {
	Status  string        `json:"status"`
	Message *crossrefWork `json:"message"`
}

type crossrefWork struct {
	DOI                 string           `json:"DOI"`
	Title               []string         `json:"title"`
	Type                string           `json:"type"`
	IsReferencedByCount *int             `json:"is-referenced-by-count"`
	Author              []crossrefAuthor `json:"author"`
	Issued              crossrefDate     `json:"issued"`
	PublishedPrint      crossrefDate     `json:"published-print"`
	PublishedOnline     crossrefDate     `json:"published-online"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	ORCID  string `json:"ORCID"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

func (w *crossrefWork) toMetadata(source, doi string) *WorkMetadata {
	m := &WorkMetadata{
		Source:        source,
		DOI:           doi,
		Title:         firstOr(w.Title, types.UnknownTitle),
		Type:          types.ParseWorkType(w.Type),
		CitationCount: countOrNil(w.IsReferencedByCount),
	}
	if d := doiOr(w.DOI); d != "" {
		m.DOI = d
	}
	for _, date := range []crossrefDate{w.Issued, w.PublishedPrint, w.PublishedOnline} {
		if y := yearFromParts(date.DateParts); y != 0 {
			m.Year = y
			break
		}
	}
	ids := make([]string, 0, len(w.Author))
	for _, a := range w.Author {
		ids = append(ids, a.ORCID)
	}
	m.Collaborators = orcidSet(ids)
	return m
}
