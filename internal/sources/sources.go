// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources implements the adapters that talk to the external
// scholarly-metadata services: the ORCID registry, the Crossref and DataCite
// citation sources, an OpenAlex-compatible institutional repository, and the
// ROR organization registry.
//
// Each adapter decodes its service's response into private, source-specific
// structs and immediately collapses them into the common RawProfile and
// WorkMetadata shapes, so nothing downstream sees a source-specific field.
package sources

import (
	"context"

	"github.com/pdiddy/profile-engine/internal/httputil"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// Fetcher is the subset of *httputil.Fetcher the adapters use.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string, opts httputil.Options, out any) error
}

// RawProfile is a registry record normalized at the adapter boundary.
// Derived metrics are not part of it; the assembler computes them.
type RawProfile struct {
	Identifier  string
	Name        string
	LastUpdated string
	Employments []string
	Educations  []string
	Works       []types.Work
}

// WorkMetadata is what one source knows about one work.
type WorkMetadata struct {
	Source string
	DOI    string
	Title  string
	Type   types.WorkType
	Year   int

	// CitationCount is nil when the source reports no count.
	CitationCount *int

	// Collaborators are normalized ORCID iDs; names without an iD are dropped.
	Collaborators []string
}

// Registry searches the researcher registry and retrieves records.
type Registry interface {
	// Search returns the identifiers matching a canonical query key.
	Search(ctx context.Context, queryKey string) ([]string, error)

	// FetchProfile retrieves and normalizes one researcher record.
	FetchProfile(ctx context.Context, id string) (*RawProfile, error)
}

// WorkMetadataSource enriches a work by DOI.
type WorkMetadataSource interface {
	Name() string
	FetchWorkMetadata(ctx context.Context, doi string) (*WorkMetadata, error)
}

// WorkLister lists the works a source attributes to a researcher.
type WorkLister interface {
	Name() string
	ListWorks(ctx context.Context, id string) ([]WorkMetadata, error)
}

// OrganizationResolver looks up research organizations by name.
type OrganizationResolver interface {
	LookupOrganization(ctx context.Context, name string) (*types.Organization, error)
}
