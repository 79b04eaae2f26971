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

// rorAPIBase is the ROR API root. Declared as a var so tests can substitute
// an httptest server.
var rorAPIBase = "https://api.ror.org"

// RORClient is the OrganizationResolver backed by the ROR registry.
type RORClient struct {
	Fetcher Fetcher

	// BaseURL overrides rorAPIBase when set.
	BaseURL string
}

// LookupOrganization returns the best ROR match for name. A query with no
// match yields a *errors.NotFoundError.
func (c *RORClient) LookupOrganization(ctx context.Context, name string) (*types.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("organization name is empty")
	}
	base := rorAPIBase
	if c.BaseURL != "" {
		base = strings.TrimSuffix(c.BaseURL, "/")
	}

	var resp rorResponse
	if err := c.Fetcher.FetchJSON(ctx, base+"/organizations?query="+url.QueryEscape(name), httputil.Options{}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, &errors.NotFoundError{Query: name}
	}
	return resp.Items[0].toOrganization(), nil
}

// ROR API JSON structures (v1 schema).
type rorResponse struct {
	NumberOfResults int       `json:"number_of_results"`
	Items           []rorItem `json:"items"`
}

type rorItem struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Aliases     []string       `json:"aliases"`
	Acronyms    []string       `json:"acronyms"`
	Links       []string       `json:"links"`
	Country     rorCountry     `json:"country"`
	ExternalIDs rorExternalIDs `json:"external_ids"`
}

type rorCountry struct {
	CountryName string `json:"country_name"`
	CountryCode string `json:"country_code"`
}

type rorExternalIDs struct {
	GRID *rorExternalID `json:"GRID"`
}

type rorExternalID struct {
	Preferred string `json:"preferred"`
	All       any    `json:"all"`
}

func (i rorItem) toOrganization() *types.Organization {
	org := &types.Organization{
		ID:      i.ID,
		Name:    stringOr(i.Name, types.UnknownOrg),
		Country: i.Country.CountryName,
	}
	org.Aliases = append(org.Aliases, i.Aliases...)
	org.Aliases = append(org.Aliases, i.Acronyms...)
	if len(i.Links) > 0 {
		org.Homepage = i.Links[0]
	}
	if i.ExternalIDs.GRID != nil {
		org.GRID = i.ExternalIDs.GRID.Preferred
	}
	return org
}
