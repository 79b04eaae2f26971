// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/internal/httputil"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// openAlexAPIBase is the default repository API root. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org"

const (
	repositoryPerPage  = 200
	repositoryMaxPages = 10
)

// RepositoryClient is the institutional-repository source. It speaks the
// OpenAlex works API, so any OpenAlex-compatible repository endpoint works.
// It serves both as a WorkLister (works attributed to an iD) and as a
// WorkMetadataSource (one work by DOI).
type RepositoryClient struct {
	Fetcher Fetcher

	// BaseURL overrides openAlexAPIBase when set.
	BaseURL string

	// Email is sent as the mailto parameter for polite pool access.
	Email string
}

// Name returns the source identifier.
func (c *RepositoryClient) Name() string { return "repository" }

func (c *RepositoryClient) base() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return openAlexAPIBase
}

// ListWorks returns the works the repository attributes to id, following
// pagination up to repositoryMaxPages pages.
func (c *RepositoryClient) ListWorks(ctx context.Context, id string) ([]WorkMetadata, error) {
	norm, ok := NormalizeORCID(id)
	if !ok {
		return nil, errors.Newf("invalid ORCID iD %q", id)
	}

	var out []WorkMetadata
	for page := 1; page <= repositoryMaxPages; page++ {
		params := url.Values{
			"filter":   {"author.orcid:https://orcid.org/" + norm},
			"per_page": {fmt.Sprintf("%d", repositoryPerPage)},
			"page":     {fmt.Sprintf("%d", page)},
		}
		if c.Email != "" {
			params.Set("mailto", c.Email)
		}

		var resp openAlexResponse
		if err := c.Fetcher.FetchJSON(ctx, c.base()+"/works?"+params.Encode(), httputil.Options{}, &resp); err != nil {
			return nil, err
		}
		for _, w := range resp.Results {
			out = append(out, *w.toMetadata(c.Name()))
		}
		if len(resp.Results) < repositoryPerPage || page*repositoryPerPage >= resp.Meta.Count {
			break
		}
	}
	return out, nil
}

// FetchWorkMetadata retrieves the repository record for doi.
func (c *RepositoryClient) FetchWorkMetadata(ctx context.Context, doi string) (*WorkMetadata, error) {
	reqURL := c.base() + "/works/doi:" + escapeDOI(doi)
	if c.Email != "" {
		reqURL += "?mailto=" + url.QueryEscape(c.Email)
	}

	var w openAlexWork
	if err := c.Fetcher.FetchJSON(ctx, reqURL, httputil.Options{}, &w); err != nil {
		return nil, err
	}
	if w.ID == "" {
		return nil, &errors.AdapterError{Source: c.Name(), Field: "id"}
	}
	m := w.toMetadata(c.Name())
	if m.DOI == "" {
		m.DOI = doi
	}
	return m, nil
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID              string               `json:"id"`
	DOI             string               `json:"doi"`
	Title           string               `json:"title"`
	DisplayName     string               `json:"display_name"`
	Type            string               `json:"type"`
	PublicationYear int                  `json:"publication_year"`
	CitedByCount    *int                 `json:"cited_by_count"`
	Authorships     []openAlexAuthorship `json:"authorships"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ORCID       string `json:"orcid"`
}

func (w *openAlexWork) toMetadata(source string) *WorkMetadata {
	m := &WorkMetadata{
		Source:        source,
		DOI:           doiOr(w.DOI),
		Title:         firstOr([]string{w.Title, w.DisplayName}, types.UnknownTitle),
		Type:          types.ParseWorkType(w.Type),
		Year:          yearOf(fmt.Sprintf("%d", w.PublicationYear)),
		CitationCount: countOrNil(w.CitedByCount),
	}
	ids := make([]string, 0, len(w.Authorships))
	for _, a := range w.Authorships {
		ids = append(ids, a.Author.ORCID)
	}
	m.Collaborators = orcidSet(ids)
	return m
}
