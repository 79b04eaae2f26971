// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analytics

import (
	"sort"
	"strconv"

	"github.com/pdiddy/profile-engine/pkg/types"
)

// UnknownYear labels works without a publication year.
const UnknownYear = "unknown"

// DefaultTopResearchers is the size of the TopResearchers list in Compute.
const DefaultTopResearchers = 10

// CollaborationPatterns counts, per publication year, collaborator
// occurrences inside the queried set (internal) and outside it (external).
// The owner's own entry is internal. Years are ascending with the unknown
// bucket last.
func CollaborationPatterns(profiles []types.Profile) []types.YearPattern {
	queried := identifierSet(profiles)
	byYear := make(map[int]*types.YearPattern)

	for _, p := range profiles {
		for _, w := range p.Works {
			yp, ok := byYear[w.Year]
			if !ok {
				label := UnknownYear
				if w.Year > 0 {
					label = strconv.Itoa(w.Year)
				}
				yp = &types.YearPattern{Year: label}
				byYear[w.Year] = yp
			}
			for _, c := range w.Collaborators {
				if queried[c] {
					yp.Internal++
				} else {
					yp.External++
				}
			}
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]types.YearPattern, 0, len(years))
	for _, y := range years {
		if y > 0 {
			out = append(out, *byYear[y])
		}
	}
	if yp, ok := byYear[0]; ok {
		out = append(out, *yp)
	}
	return out
}

// WorkDistribution counts works by type, most common first, ties by type.
func WorkDistribution(profiles []types.Profile) []types.TypeCount {
	counts := make(map[types.WorkType]int)
	for _, p := range profiles {
		for _, w := range p.Works {
			counts[w.Type]++
		}
	}

	out := make([]types.TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, types.TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// TopResearchers returns up to limit profiles ordered by work count, then
// citations, then identifier. A limit of zero or less returns them all.
func TopResearchers(profiles []types.Profile, limit int) []types.TopResearcher {
	out := make([]types.TopResearcher, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, types.TopResearcher{
			Identifier: p.Identifier,
			Name:       p.Name,
			Works:      len(p.Works),
			Citations:  TotalCitations(p.Works),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Works != b.Works {
			return a.Works > b.Works
		}
		if a.Citations != b.Citations {
			return a.Citations > b.Citations
		}
		return a.Identifier < b.Identifier
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SharedWorkLinks links pairs of profiles that list the same DOI, weighted
// by the number of DOIs they share. Source sorts before Target in each pair.
func SharedWorkLinks(profiles []types.Profile) []types.SharedWorkLink {
	owners := make(map[string][]string)
	for _, p := range profiles {
		seen := make(map[string]bool)
		for _, w := range p.Works {
			if w.DOI == "" || seen[w.DOI] {
				continue
			}
			seen[w.DOI] = true
			owners[w.DOI] = append(owners[w.DOI], p.Identifier)
		}
	}

	type pair struct{ a, b string }
	shared := make(map[pair]int)
	for _, ids := range owners {
		ids = MergeCollaborators(ids)
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				shared[pair{ids[i], ids[j]}]++
			}
		}
	}

	out := make([]types.SharedWorkLink, 0, len(shared))
	for k, n := range shared {
		out = append(out, types.SharedWorkLink{Source: k.a, Target: k.b, SharedWorks: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SharedWorks != out[j].SharedWorks {
			return out[i].SharedWorks > out[j].SharedWorks
		}
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// Enrichment lists profiles with works lacking a DOI (most first) and
// profiles missing employment or education records (by identifier).
func Enrichment(profiles []types.Profile) types.EnrichmentReport {
	r := types.EnrichmentReport{
		MissingDOIs:        []types.MissingDOIs{},
		IncompleteProfiles: []types.IncompleteProfile{},
	}
	for _, p := range profiles {
		missing := 0
		for _, w := range p.Works {
			if w.DOI == "" {
				missing++
			}
		}
		if missing > 0 {
			r.MissingDOIs = append(r.MissingDOIs, types.MissingDOIs{Identifier: p.Identifier, Name: p.Name, Count: missing})
		}
		if len(p.Employments) == 0 || len(p.Educations) == 0 {
			r.IncompleteProfiles = append(r.IncompleteProfiles, types.IncompleteProfile{
				Identifier:        p.Identifier,
				Name:              p.Name,
				MissingEmployment: len(p.Employments) == 0,
				MissingEducation:  len(p.Educations) == 0,
			})
		}
	}

	sort.Slice(r.MissingDOIs, func(i, j int) bool {
		if r.MissingDOIs[i].Count != r.MissingDOIs[j].Count {
			return r.MissingDOIs[i].Count > r.MissingDOIs[j].Count
		}
		return r.MissingDOIs[i].Identifier < r.MissingDOIs[j].Identifier
	})
	sort.Slice(r.IncompleteProfiles, func(i, j int) bool {
		return r.IncompleteProfiles[i].Identifier < r.IncompleteProfiles[j].Identifier
	})
	return r
}

// Compute builds the full analytics bundle for one query result.
func Compute(res types.QueryResult) types.Analytics {
	errs := res.Errors
	if errs == nil {
		errs = []types.IdentifierError{}
	}
	return types.Analytics{
		Query:                 res.Query,
		Graph:                 BuildGraph(res.Profiles),
		KeyResearchers:        KeyResearchers(res.Profiles),
		CollaborationPatterns: CollaborationPatterns(res.Profiles),
		WorkDistribution:      WorkDistribution(res.Profiles),
		TopResearchers:        TopResearchers(res.Profiles, DefaultTopResearchers),
		SharedWorkLinks:       SharedWorkLinks(res.Profiles),
		Enrichment:            Enrichment(res.Profiles),
		Errors:                errs,
	}
}
