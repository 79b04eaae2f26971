// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analytics deduplicates collaborator identities and computes the
// derived metrics and views over an assembled profile collection: citation
// totals, h-index, the collaboration graph, centrality ranking, and the
// dashboard reports (patterns by year, type distribution, top researchers,
// shared-work links, enrichment gaps).
//
// Every function here is pure: it reads profiles and returns new values.
package analytics

import (
	"sort"

	"github.com/pdiddy/profile-engine/pkg/types"
)

// MergeCollaborators returns the sorted union of the given identifier sets.
// Blank identifiers are dropped; the result is nil when nothing remains.
func MergeCollaborators(sets ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, set := range sets {
		for _, id := range set {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// HIndex returns the largest h such that at least h of the counts are >= h.
func HIndex(citations []int) int {
	sorted := make([]int, len(citations))
	copy(sorted, citations)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	h := 0
	for i, c := range sorted {
		if c < i+1 {
			break
		}
		h = i + 1
	}
	return h
}

// TotalCitations sums the citation counts of works.
func TotalCitations(works []types.Work) int {
	total := 0
	for _, w := range works {
		total += w.CitationCount
	}
	return total
}

// Summarize recomputes the derived fields of p from its works.
func Summarize(p *types.Profile) {
	counts := make([]int, len(p.Works))
	for i, w := range p.Works {
		counts[i] = w.CitationCount
	}
	p.WorkCount = len(p.Works)
	p.TotalCitations = TotalCitations(p.Works)
	p.HIndex = HIndex(counts)
}

// SummarizeAll recomputes the derived fields of every profile in place.
func SummarizeAll(profiles []types.Profile) {
	for i := range profiles {
		Summarize(&profiles[i])
	}
}

// collaboratorsOf returns every collaborator occurrence across p's works.
// The owner's own identifier counts like any other entry.
func collaboratorsOf(p types.Profile) []string {
	var out []string
	for _, w := range p.Works {
		for _, c := range w.Collaborators {
			if c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

// identifierSet returns the identifiers of profiles as a set.
func identifierSet(profiles []types.Profile) map[string]bool {
	set := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		set[p.Identifier] = true
	}
	return set
}
