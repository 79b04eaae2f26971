// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"strconv"
	"strings"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/internal/httputil"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// dataCiteAPIBase is the DataCite REST API root. Declared as a var so tests
// can substitute an httptest server.
var dataCiteAPIBase = "https://api.datacite.org"

// DataCiteClient is a WorkMetadataSource backed by the DataCite DOIs API.
type DataCiteClient struct {
	Fetcher Fetcher

	// BaseURL overrides dataCiteAPIBase when set.
	BaseURL string
}

// Name returns the source identifier.
func (c *DataCiteClient) Name() string { return "datacite" }

// FetchWorkMetadata retrieves the DataCite record for doi.
func (c *DataCiteClient) FetchWorkMetadata(ctx context.Context, doi string) (*WorkMetadata, error) {
	base := dataCiteAPIBase
	if c.BaseURL != "" {
		base = strings.TrimSuffix(c.BaseURL, "/")
	}

	var resp dataCiteResponse
	opts := httputil.Options{Accept: "application/vnd.api+json"}
	if err := c.Fetcher.FetchJSON(ctx, base+"/dois/"+escapeDOI(doi), opts, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &errors.AdapterError{Source: c.Name(), Field: "data"}
	}
	if resp.Data.Attributes == nil {
		return nil, &errors.AdapterError{Source: c.Name(), Field: "data.attributes"}
	}
	return resp.Data.Attributes.toMetadata(c.Name(), doi), nil
}

// DataCite API JSON structures.
type dataCiteResponse struct {
	Data *dataCiteRecord `json:"data"`
}

type dataCiteRecord struct {
	ID         string              `json:"id"`
	Attributes *dataCiteAttributes `json:"attributes"`
}

type dataCiteAttributes struct {
	DOI             string            `json:"doi"`
	Titles          []dataCiteTitle   `json:"titles"`
	Types           dataCiteTypes     `json:"types"`
	PublicationYear any               `json:"publicationYear"`
	CitationCount   *int              `json:"citationCount"`
	Creators        []dataCiteCreator `json:"creators"`
}

type dataCiteTitle struct {
	Title string `json:"title"`
}

type dataCiteTypes struct {
	ResourceTypeGeneral string `json:"resourceTypeGeneral"`
	Citeproc            string `json:"citeproc"`
}

type dataCiteCreator struct {
	Name            string                   `json:"name"`
	NameIdentifiers []dataCiteNameIdentifier `json:"nameIdentifiers"`
}

type dataCiteNameIdentifier struct {
	NameIdentifier       string `json:"nameIdentifier"`
	NameIdentifierScheme string `json:"nameIdentifierScheme"`
}

func (a *dataCiteAttributes) toMetadata(source, doi string) *WorkMetadata {
	titles := make([]string, 0, len(a.Titles))
	for _, t := range a.Titles {
		titles = append(titles, t.Title)
	}

	typ := types.ParseWorkType(a.Types.ResourceTypeGeneral)
	if typ == types.WorkOther || typ == types.WorkUnknown {
		if alt := types.ParseWorkType(a.Types.Citeproc); alt != types.WorkUnknown {
			typ = alt
		}
	}

	m := &WorkMetadata{
		Source:        source,
		DOI:           doi,
		Title:         firstOr(titles, types.UnknownTitle),
		Type:          typ,
		Year:          publicationYear(a.PublicationYear),
		CitationCount: countOrNil(a.CitationCount),
	}
	if d := doiOr(a.DOI); d != "" {
		m.DOI = d
	}

	var ids []string
	for _, c := range a.Creators {
		for _, ni := range c.NameIdentifiers {
			if strings.EqualFold(ni.NameIdentifierScheme, "ORCID") {
				ids = append(ids, ni.NameIdentifier)
			}
		}
	}
	m.Collaborators = orcidSet(ids)
	return m
}

// publicationYear accepts the number or string form DataCite emits.
func publicationYear(v any) int {
	switch y := v.(type) {
	case float64:
		return yearOf(strconv.Itoa(int(y)))
	case string:
		return yearOf(y)
	}
	return 0
}
