// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analytics

import (
	"sort"

	"github.com/pdiddy/profile-engine/pkg/types"
)

// KeyResearchers scores every profile by collaboration engagement: the
// total number of collaborator occurrences across its works multiplied by
// the number of distinct collaborators. Every collaborator entry counts,
// including the profile's own identifier when a source lists it. Results
// are sorted by score descending, then by identifier.
func KeyResearchers(profiles []types.Profile) []types.ResearcherScore {
	scores := make([]types.ResearcherScore, 0, len(profiles))
	for _, p := range profiles {
		occurrences := collaboratorsOf(p)
		unique := len(MergeCollaborators(occurrences))
		scores = append(scores, types.ResearcherScore{
			Identifier:          p.Identifier,
			Name:                p.Name,
			Collaborations:      len(occurrences),
			UniqueCollaborators: unique,
			CentralityScore:     len(occurrences) * unique,
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].CentralityScore != scores[j].CentralityScore {
			return scores[i].CentralityScore > scores[j].CentralityScore
		}
		return scores[i].Identifier < scores[j].Identifier
	})
	return scores
}
