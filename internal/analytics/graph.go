// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analytics

import (
	"sort"

	"github.com/pdiddy/profile-engine/pkg/types"
)

// ExternalNodePrefix prefixes the aggregate node that stands for all of a
// profile's collaborators outside the queried set.
const ExternalNodePrefix = "external:"

// BuildGraph returns the collaboration graph over profiles. Each profile is
// a researcher node. A collaborator that is itself in the collection gets
// an edge from the profile weighted by how many times it occurs across the
// profile's works. All other collaborators collapse into one external node
// per profile, joined by a single edge carrying their total occurrences.
// A profile's own identifier never produces an edge.
func BuildGraph(profiles []types.Profile) types.Graph {
	queried := identifierSet(profiles)
	g := types.Graph{
		Nodes: make([]types.GraphNode, 0, len(profiles)),
		Edges: []types.GraphEdge{},
	}

	var externals []types.GraphNode
	for _, p := range profiles {
		g.Nodes = append(g.Nodes, types.GraphNode{
			ID:    p.Identifier,
			Name:  p.Name,
			Kind:  types.NodeResearcher,
			Works: len(p.Works),
		})

		internal := make(map[string]int)
		external := 0
		for _, c := range collaboratorsOf(p) {
			if c == p.Identifier {
				continue
			}
			if queried[c] {
				internal[c]++
			} else {
				external++
			}
		}

		for target, weight := range internal {
			g.Edges = append(g.Edges, types.GraphEdge{Source: p.Identifier, Target: target, Weight: weight})
		}
		if external > 0 {
			id := ExternalNodePrefix + p.Identifier
			externals = append(externals, types.GraphNode{
				ID:   id,
				Name: "External collaborators of " + p.Name,
				Kind: types.NodeExternal,
			})
			g.Edges = append(g.Edges, types.GraphEdge{Source: p.Identifier, Target: id, Weight: external})
		}
	}
	g.Nodes = append(g.Nodes, externals...)

	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].Source != g.Edges[j].Source {
			return g.Edges[i].Source < g.Edges[j].Source
		}
		return g.Edges[i].Target < g.Edges[j].Target
	})
	return g
}
