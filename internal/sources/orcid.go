// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/internal/httputil"
	"github.com/pdiddy/profile-engine/internal/logger"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// orcidAPIBase is the ORCID public API root. Declared as a var so tests can
// substitute an httptest server.
var orcidAPIBase = "https://pub.orcid.org/v3.0"

const (
	orcidAccept            = "application/vnd.orcid+json"
	defaultOrcidPageSize   = 1000
	defaultOrcidMaxRecords = 11000
)

// ORCIDClient is the Registry backed by the ORCID public API.
type ORCIDClient struct {
	Fetcher Fetcher

	// BaseURL overrides orcidAPIBase when set.
	BaseURL string

	// PageSize is the number of search rows per request.
	PageSize int

	// MaxRecords caps the identifiers collected for one query. ORCID refuses
	// to page past this depth.
	MaxRecords int

	// Token is an optional bearer token.
	Token string

	Log *zap.SugaredLogger
}

// NewORCIDClient builds a client from cfg.
func NewORCIDClient(f Fetcher, cfg types.RegistryConfig, log *zap.SugaredLogger) *ORCIDClient {
	return &ORCIDClient{
		Fetcher:    f,
		BaseURL:    cfg.BaseURL,
		PageSize:   cfg.PageSize,
		MaxRecords: cfg.MaxRecords,
		Token:      cfg.Token,
		Log:        log,
	}
}

// Name returns the source identifier.
func (c *ORCIDClient) Name() string { return "orcid" }

func (c *ORCIDClient) base() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return orcidAPIBase
}

func (c *ORCIDClient) options() httputil.Options {
	opts := httputil.Options{Accept: orcidAccept}
	if c.Token != "" {
		opts.Headers = map[string]string{"Authorization": "Bearer " + c.Token}
	}
	return opts
}

// Search pages through the ORCID search endpoint and returns the matching
// iDs in result order. queryKey is a canonical key and is sent verbatim as
// the q parameter. When the total exceeds MaxRecords the result is truncated
// and a warning is logged.
func (c *ORCIDClient) Search(ctx context.Context, queryKey string) ([]string, error) {
	log := logger.Or(c.Log)
	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = defaultOrcidPageSize
	}
	maxRecords := c.MaxRecords
	if maxRecords <= 0 {
		maxRecords = defaultOrcidMaxRecords
	}

	seen := make(map[string]bool)
	var ids []string
	for start := 0; ; start += pageSize {
		rows := pageSize
		if start+rows > maxRecords {
			rows = maxRecords - start
		}
		reqURL := fmt.Sprintf("%s/search/?q=%s&start=%d&rows=%d", c.base(), queryKey, start, rows)

		var page orcidSearchResponse
		if err := c.Fetcher.FetchJSON(ctx, reqURL, c.options(), &page); err != nil {
			return nil, err
		}

		for _, r := range page.Result {
			if r.OrcidIdentifier == nil {
				log.Warnw("search result without orcid-identifier", logger.FieldQuery, queryKey)
				continue
			}
			id, ok := NormalizeORCID(r.OrcidIdentifier.Path)
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}

		next := start + pageSize
		if len(page.Result) == 0 || next >= page.NumFound {
			break
		}
		if next >= maxRecords {
			log.Warnw("search truncated at record cap",
				logger.FieldQuery, queryKey,
				"num_found", page.NumFound,
				logger.FieldCount, len(ids),
			)
			break
		}
	}
	return ids, nil
}

// FetchProfile retrieves the full record for id and normalizes it.
func (c *ORCIDClient) FetchProfile(ctx context.Context, id string) (*RawProfile, error) {
	norm, ok := NormalizeORCID(id)
	if !ok {
		return nil, errors.Newf("invalid ORCID iD %q", id)
	}

	var rec orcidRecord
	if err := c.Fetcher.FetchJSON(ctx, c.base()+"/"+norm+"/record", c.options(), &rec); err != nil {
		return nil, err
	}
	if rec.OrcidIdentifier == nil {
		return nil, &errors.AdapterError{Source: c.Name(), Field: "orcid-identifier"}
	}
	return rec.toRawProfile(norm), nil
}

// ORCID API JSON structures. Only the fields the engine reads are declared.

type orcidSearchResponse struct {
	Result   []orcidSearchResult `json:"result"`
	NumFound int                 `json:"num-found"`
}

type orcidSearchResult struct {
	OrcidIdentifier *orcidIdentifier `json:"orcid-identifier"`
}

type orcidIdentifier struct {
	URI  string `json:"uri"`
	Path string `json:"path"`
}

type orcidValue struct {
	Value string `json:"value"`
}

// str returns the value, or "" for a nil field.
func (v *orcidValue) str() string {
	if v == nil {
		return ""
	}
	return v.Value
}

type orcidMillis struct {
	Value int64 `json:"value"`
}

type orcidRecord struct {
	OrcidIdentifier   *orcidIdentifier `json:"orcid-identifier"`
	Person            *orcidPerson     `json:"person"`
	ActivitiesSummary *orcidActivities `json:"activities-summary"`
	History           *orcidHistory    `json:"history"`
}

type orcidPerson struct {
	Name *orcidName `json:"name"`
}

type orcidName struct {
	GivenNames *orcidValue `json:"given-names"`
	FamilyName *orcidValue `json:"family-name"`
	CreditName *orcidValue `json:"credit-name"`
}

type orcidHistory struct {
	LastModifiedDate *orcidMillis `json:"last-modified-date"`
}

type orcidActivities struct {
	LastModifiedDate *orcidMillis       `json:"last-modified-date"`
	Employments      *orcidAffiliations `json:"employments"`
	Educations       *orcidAffiliations `json:"educations"`
	Works            *orcidWorks        `json:"works"`
}

type orcidAffiliations struct {
	Groups []orcidAffiliationGroup `json:"affiliation-group"`
}

type orcidAffiliationGroup struct {
	Summaries []orcidAffiliationSummaryWrapper `json:"summaries"`
}

type orcidAffiliationSummaryWrapper struct {
	Employment *orcidAffiliationSummary `json:"employment-summary"`
	Education  *orcidAffiliationSummary `json:"education-summary"`
}

type orcidAffiliationSummary struct {
	RoleTitle    string             `json:"role-title"`
	Organization *orcidOrganization `json:"organization"`
}

type orcidOrganization struct {
	Name string `json:"name"`
}

type orcidWorks struct {
	Groups []orcidWorkGroup `json:"group"`
}

type orcidWorkGroup struct {
	Summaries []orcidWorkSummary `json:"work-summary"`
}

type orcidWorkSummary struct {
	Title           *orcidTitle       `json:"title"`
	Type            string            `json:"type"`
	PublicationDate *orcidDate        `json:"publication-date"`
	ExternalIDs     *orcidExternalIDs `json:"external-ids"`
}

type orcidTitle struct {
	Title *orcidValue `json:"title"`
}

type orcidDate struct {
	Year *orcidValue `json:"year"`
}

type orcidExternalIDs struct {
	IDs []orcidExternalID `json:"external-id"`
}

type orcidExternalID struct {
	Type       string      `json:"external-id-type"`
	Value      string      `json:"external-id-value"`
	Normalized *orcidValue `json:"external-id-normalized"`
}

// toRawProfile collapses the record into the common shape.
func (r *orcidRecord) toRawProfile(id string) *RawProfile {
	p := &RawProfile{
		Identifier: id,
		Name:       types.NameNotProvided,
	}
	if r.Person != nil && r.Person.Name != nil {
		n := r.Person.Name
		p.Name = personName(n.GivenNames.str(), n.FamilyName.str())
		if p.Name == types.NameNotProvided {
			p.Name = stringOr(n.CreditName.str(), types.NameNotProvided)
		}
	}

	switch {
	case r.History != nil && r.History.LastModifiedDate != nil:
		p.LastUpdated = dateFromMillis(r.History.LastModifiedDate.Value)
	case r.ActivitiesSummary != nil && r.ActivitiesSummary.LastModifiedDate != nil:
		p.LastUpdated = dateFromMillis(r.ActivitiesSummary.LastModifiedDate.Value)
	}

	a := r.ActivitiesSummary
	if a == nil {
		return p
	}
	p.Employments = affiliations(a.Employments, func(w orcidAffiliationSummaryWrapper) *orcidAffiliationSummary { return w.Employment })
	p.Educations = affiliations(a.Educations, func(w orcidAffiliationSummaryWrapper) *orcidAffiliationSummary { return w.Education })

	if a.Works != nil {
		for _, g := range a.Works.Groups {
			if len(g.Summaries) == 0 {
				continue
			}
			p.Works = append(p.Works, g.Summaries[0].toWork())
		}
	}
	return p
}

func affiliations(a *orcidAffiliations, pick func(orcidAffiliationSummaryWrapper) *orcidAffiliationSummary) []string {
	if a == nil {
		return nil
	}
	var out []string
	for _, g := range a.Groups {
		if len(g.Summaries) == 0 {
			continue
		}
		s := pick(g.Summaries[0])
		if s == nil {
			continue
		}
		org := ""
		if s.Organization != nil {
			org = s.Organization.Name
		}
		out = append(out, affiliation(org, s.RoleTitle))
	}
	return out
}

func (s orcidWorkSummary) toWork() types.Work {
	w := types.Work{
		Title: types.UnknownTitle,
		Type:  types.ParseWorkType(s.Type),
	}
	if s.Title != nil {
		w.Title = stringOr(s.Title.Title.str(), types.UnknownTitle)
	}
	if s.PublicationDate != nil {
		w.Year = yearOf(s.PublicationDate.Year.str())
	}
	if s.ExternalIDs != nil {
		for _, ext := range s.ExternalIDs.IDs {
			if !strings.EqualFold(ext.Type, "doi") {
				continue
			}
			if d := doiOr(ext.Normalized.str()); d != "" {
				w.DOI = d
				break
			}
			if d := doiOr(ext.Value); d != "" {
				w.DOI = d
				break
			}
		}
	}
	return w
}
