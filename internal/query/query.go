// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query parses profile search filters and renders them as the
// canonical key used both as the cache key and as the ORCID search q
// parameter.
package query

import (
	"net/url"
	"strings"

	"github.com/pdiddy/profile-engine/internal/errors"
)

// Kind is a filter clause type.
type Kind string

const (
	InstitutionID    Kind = "institutionId"
	GridID           Kind = "gridId"
	EmailDomain      Kind = "emailDomain"
	OrganizationName Kind = "organizationName"
)

// Kinds lists clause types in canonical key order.
var Kinds = []Kind{InstitutionID, GridID, EmailDomain, OrganizationName}

// aliases maps accepted parameter names to clause types.
var aliases = map[string]Kind{
	"institutionId":    InstitutionID,
	"ringgold":         InstitutionID,
	"gridId":           GridID,
	"grid":             GridID,
	"emailDomain":      EmailDomain,
	"emaildomain":      EmailDomain,
	"organizationName": OrganizationName,
	"orgname":          OrganizationName,
}

// Query is a conjunction of clauses; values within one clause are OR'd.
type Query struct {
	clauses map[Kind][]string
}

// KindOf resolves a parameter name to its clause type.
func KindOf(name string) (Kind, bool) {
	k, ok := aliases[name]
	return k, ok
}

// Add appends the pipe-separated values in raw to the clause of kind k,
// keeping input order and dropping blanks.
func (q *Query) Add(k Kind, raw string) {
	if q.clauses == nil {
		q.clauses = make(map[Kind][]string)
	}
	for _, v := range strings.Split(raw, "|") {
		if v = strings.TrimSpace(v); v != "" {
			q.clauses[k] = append(q.clauses[k], v)
		}
	}
}

// Values returns the values of the clause of kind k.
func (q Query) Values(k Kind) []string {
	return q.clauses[k]
}

// IsEmpty reports whether the query has no values in any clause.
func (q Query) IsEmpty() bool {
	for _, vs := range q.clauses {
		if len(vs) > 0 {
			return false
		}
	}
	return true
}

// FromValues builds a query from URL parameters. Unrecognized parameters
// are ignored. Within one clause type, values from the canonical name come
// before values from its alias, each in the order given.
func FromValues(v url.Values) (Query, error) {
	var q Query
	for _, name := range paramOrder {
		k := aliases[name]
		for _, raw := range v[name] {
			q.Add(k, raw)
		}
	}
	if q.IsEmpty() {
		return q, errors.WithHint(errors.New("query is empty"),
			"provide at least one of institutionId, gridId, emailDomain, organizationName")
	}
	return q, nil
}

// Parse builds a query from an encoded parameter string such as
// "ringgold=5678&orgname=Brown%20University".
func Parse(raw string) (Query, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return Query{}, errors.Wrap(err, "parsing query")
	}
	return FromValues(v)
}

// paramOrder fixes the order parameter names are read in FromValues.
var paramOrder = []string{
	"institutionId", "ringgold",
	"gridId", "grid",
	"emailDomain", "emaildomain",
	"organizationName", "orgname",
}

// Key renders the canonical key. Clause types appear in Kinds order
// regardless of input order; values keep their input order. Each value
// becomes an ORCID search term, terms within a clause are joined with OR
// (parenthesized when there is more than one) and clauses with AND.
func (q Query) Key() string {
	var groups []string
	for _, k := range Kinds {
		vs := q.clauses[k]
		if len(vs) == 0 {
			continue
		}
		terms := make([]string, len(vs))
		for i, v := range vs {
			terms[i] = term(k, v)
		}
		g := strings.Join(terms, "%20OR%20")
		if len(terms) > 1 {
			g = "(" + g + ")"
		}
		groups = append(groups, g)
	}
	return strings.Join(groups, "%20AND%20")
}

// String returns the canonical key.
func (q Query) String() string { return q.Key() }

func term(k Kind, v string) string {
	e := escape(v)
	switch k {
	case InstitutionID:
		return "ringgold-org-id:" + e
	case GridID:
		return "grid-org-id:" + e
	case EmailDomain:
		return "email:*@" + strings.TrimPrefix(e, "%40")
	default:
		return "affiliation-org-name:%22" + e + "%22"
	}
}

// escape query-escapes v with spaces as %20.
func escape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
