// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// Output formats accepted by Write.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Write renders v in format. Table rendering is defined for query results,
// analytics and organizations; any other value falls back to JSON.
func Write(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	case FormatTable:
		switch t := v.(type) {
		case *types.QueryResult:
			WriteResultTable(w, *t)
		case *types.Analytics:
			WriteAnalyticsTable(w, *t)
		case *types.Organization:
			WriteOrganization(w, *t)
		default:
			return WriteJSON(w, v)
		}
		return nil
	default:
		return errors.WithHint(errors.Newf("unknown output format %q", format), "use table, json or yaml")
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WriteResultTable writes one line per profile followed by any failures.
func WriteResultTable(w io.Writer, res types.QueryResult) {
	if len(res.Profiles) == 0 && len(res.Errors) == 0 {
		fmt.Fprintln(w, "No profiles found.")
		return
	}

	fmt.Fprintf(w, "%-19s  %-30s  %-30s  %5s  %9s  %7s\n",
		"ORCID iD", "Name", "Employment", "Works", "Citations", "h-index")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, p := range res.Profiles {
		employment := ""
		if len(p.Employments) > 0 {
			employment = p.Employments[0]
		}
		fmt.Fprintf(w, "%-19s  %-30s  %-30s  %5d  %9d  %7d\n",
			p.Identifier, truncate(p.Name, 30), truncate(employment, 30),
			p.WorkCount, p.TotalCitations, p.HIndex)
	}

	fmt.Fprintf(w, "\n%d profiles", len(res.Profiles))
	if res.Cached {
		fmt.Fprint(w, " (cached)")
	}
	fmt.Fprintln(w)

	if len(res.Errors) > 0 {
		fmt.Fprintf(w, "\n%d identifiers failed:\n", len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.Identifier, e.Error)
		}
	}
}

// WriteAnalyticsTable writes the headline sections of an analytics bundle.
func WriteAnalyticsTable(w io.Writer, a types.Analytics) {
	fmt.Fprintf(w, "Query: %s\n", a.Query)
	fmt.Fprintf(w, "Graph: %d nodes, %d edges\n\n", len(a.Graph.Nodes), len(a.Graph.Edges))

	fmt.Fprintln(w, "Key researchers")
	fmt.Fprintf(w, "  %-19s  %-30s  %6s  %6s  %6s\n", "ORCID iD", "Name", "Collab", "Unique", "Score")
	for _, s := range a.KeyResearchers {
		fmt.Fprintf(w, "  %-19s  %-30s  %6d  %6d  %6d\n",
			s.Identifier, truncate(s.Name, 30), s.Collaborations, s.UniqueCollaborators, s.CentralityScore)
	}

	fmt.Fprintln(w, "\nWorks by type")
	for _, tc := range a.WorkDistribution {
		fmt.Fprintf(w, "  %-24s  %d\n", tc.Type, tc.Count)
	}

	fmt.Fprintln(w, "\nCollaboration by year")
	for _, yp := range a.CollaborationPatterns {
		fmt.Fprintf(w, "  %-8s  internal %-5d  external %d\n", yp.Year, yp.Internal, yp.External)
	}

	if n := len(a.Enrichment.MissingDOIs); n > 0 {
		fmt.Fprintf(w, "\n%d profiles have works without a DOI\n", n)
	}
	if n := len(a.Enrichment.IncompleteProfiles); n > 0 {
		fmt.Fprintf(w, "%d profiles lack employment or education\n", n)
	}
}

// WriteOrganization writes one organization record.
func WriteOrganization(w io.Writer, o types.Organization) {
	fmt.Fprintf(w, "%s\n  ROR:      %s\n", o.Name, o.ID)
	if o.GRID != "" {
		fmt.Fprintf(w, "  GRID:     %s\n", o.GRID)
	}
	if o.Country != "" {
		fmt.Fprintf(w, "  Country:  %s\n", o.Country)
	}
	if o.Homepage != "" {
		fmt.Fprintf(w, "  Homepage: %s\n", o.Homepage)
	}
	if len(o.Aliases) > 0 {
		fmt.Fprintf(w, "  Aliases:  %s\n", strings.Join(o.Aliases, ", "))
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
