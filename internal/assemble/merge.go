// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"strings"
	"unicode"

	"github.com/pdiddy/profile-engine/internal/analytics"
	"github.com/pdiddy/profile-engine/internal/sources"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// dedupeWorks merges works that share a DOI into the first occurrence.
// Works without a DOI are kept as they are. It returns the deduplicated
// list and the number of works merged away.
func dedupeWorks(works []types.Work) ([]types.Work, int) {
	seen := make(map[string]int) // DOI → index in out
	out := make([]types.Work, 0, len(works))
	merged := 0
	for _, w := range works {
		if w.DOI != "" {
			if idx, ok := seen[w.DOI]; ok {
				mergeWork(&out[idx], w)
				merged++
				continue
			}
			seen[w.DOI] = len(out)
		}
		w.Collaborators = analytics.MergeCollaborators(w.Collaborators)
		out = append(out, w)
	}
	return out, merged
}

// mergeWork folds src into dst: known values replace unknown ones, the
// larger citation count wins, collaborators are unioned.
func mergeWork(dst *types.Work, src types.Work) {
	if dst.Title == types.UnknownTitle || dst.Title == "" {
		if src.Title != "" {
			dst.Title = src.Title
		}
	}
	if dst.Type == types.WorkUnknown || dst.Type == "" {
		if src.Type != "" {
			dst.Type = src.Type
		}
	}
	if dst.Year == 0 {
		dst.Year = src.Year
	}
	if dst.DOI == "" {
		dst.DOI = src.DOI
	}
	if src.CitationCount > dst.CitationCount {
		dst.CitationCount = src.CitationCount
	}
	dst.Collaborators = analytics.MergeCollaborators(dst.Collaborators, src.Collaborators)
}

// mergeMetadata folds one source's view of a work into w.
func mergeMetadata(w *types.Work, m *sources.WorkMetadata) {
	mergeWork(w, workFromMetadata(*m))
}

// workFromMetadata converts a source record into a Work.
func workFromMetadata(m sources.WorkMetadata) types.Work {
	w := types.Work{
		Title:         m.Title,
		Type:          m.Type,
		Year:          m.Year,
		DOI:           m.DOI,
		Collaborators: analytics.MergeCollaborators(m.Collaborators),
	}
	if w.Title == "" {
		w.Title = types.UnknownTitle
	}
	if w.Type == "" {
		w.Type = types.WorkUnknown
	}
	if m.CitationCount != nil {
		w.CitationCount = *m.CitationCount
	}
	return w
}

// appendListed folds repository works into works. A listed work whose DOI
// matches an existing work is merged into it. A listed work without a DOI
// is merged into an existing work with the same normalized title. Anything
// else is appended.
func appendListed(works []types.Work, listed []sources.WorkMetadata) []types.Work {
	if len(listed) == 0 {
		return works
	}

	byDOI := make(map[string]int)
	byTitle := make(map[string]int)
	index := func(i int) {
		if works[i].DOI != "" {
			byDOI[works[i].DOI] = i
		}
		if key := titleKey(works[i].Title); key != "" {
			if _, ok := byTitle[key]; !ok {
				byTitle[key] = i
			}
		}
	}
	for i := range works {
		index(i)
	}

	for _, m := range listed {
		w := workFromMetadata(m)
		if w.DOI != "" {
			if idx, ok := byDOI[w.DOI]; ok {
				mergeWork(&works[idx], w)
				continue
			}
		} else if key := titleKey(w.Title); key != "" {
			if idx, ok := byTitle[key]; ok {
				mergeWork(&works[idx], w)
				continue
			}
		}
		works = append(works, w)
		index(len(works) - 1)
	}
	return works
}

// titleKey is the dedup key for a title; untitled works have none.
func titleKey(title string) string {
	if title == types.UnknownTitle {
		return ""
	}
	return normalizeTitle(title)
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
