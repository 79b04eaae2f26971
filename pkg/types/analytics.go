// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NodeKind distinguishes queried researchers from aggregate external nodes.
type NodeKind string

const (
	NodeResearcher NodeKind = "researcher"
	NodeExternal   NodeKind = "external"
)

// GraphNode is a vertex of the collaboration graph.
type GraphNode struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Kind  NodeKind `json:"kind" yaml:"kind"`
	Works int      `json:"works" yaml:"works"`
}

// GraphEdge links a profile to a collaborator node. Weight is the number of
// times the collaborator occurs across the profile's works.
type GraphEdge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Weight int    `json:"weight" yaml:"weight"`
}

// Graph is the collaboration graph over a queried profile collection.
type Graph struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes"`
	Edges []GraphEdge `json:"edges" yaml:"edges"`
}

// ResearcherScore ranks a researcher by collaboration engagement.
type ResearcherScore struct {
	Identifier          string `json:"identifier" yaml:"identifier"`
	Name                string `json:"name" yaml:"name"`
	Collaborations      int    `json:"collaborations" yaml:"collaborations"`
	UniqueCollaborators int    `json:"uniqueCollaborators" yaml:"uniqueCollaborators"`
	CentralityScore     int    `json:"centralityScore" yaml:"centralityScore"`
}

// YearPattern counts collaborator occurrences inside and outside the
// queried set for one publication year.
type YearPattern struct {
	Year     string `json:"year" yaml:"year"`
	Internal int    `json:"internal" yaml:"internal"`
	External int    `json:"external" yaml:"external"`
}

// TypeCount is the number of works of one type across the collection.
type TypeCount struct {
	Type  WorkType `json:"type" yaml:"type"`
	Count int      `json:"count" yaml:"count"`
}

// TopResearcher summarizes output volume for one profile.
type TopResearcher struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Name       string `json:"name" yaml:"name"`
	Works      int    `json:"works" yaml:"works"`
	Citations  int    `json:"citations" yaml:"citations"`
}

// SharedWorkLink connects two queried profiles that share at least one DOI.
type SharedWorkLink struct {
	Source      string `json:"source" yaml:"source"`
	Target      string `json:"target" yaml:"target"`
	SharedWorks int    `json:"sharedWorks" yaml:"sharedWorks"`
}

// MissingDOIs counts the works of one profile that lack a DOI.
type MissingDOIs struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Name       string `json:"name" yaml:"name"`
	Count      int    `json:"count" yaml:"count"`
}

// IncompleteProfile names a profile missing employment or education records.
type IncompleteProfile struct {
	Identifier        string `json:"identifier" yaml:"identifier"`
	Name              string `json:"name" yaml:"name"`
	MissingEmployment bool   `json:"missingEmployment" yaml:"missingEmployment"`
	MissingEducation  bool   `json:"missingEducation" yaml:"missingEducation"`
}

// EnrichmentReport lists gaps a curator could fill in the source records.
type EnrichmentReport struct {
	MissingDOIs        []MissingDOIs       `json:"missingDois" yaml:"missingDois"`
	IncompleteProfiles []IncompleteProfile `json:"incompleteProfiles" yaml:"incompleteProfiles"`
}

// Analytics is the bundle of derived views over one query's profiles.
type Analytics struct {
	Query                 string            `json:"query" yaml:"query"`
	Graph                 Graph             `json:"graph" yaml:"graph"`
	KeyResearchers        []ResearcherScore `json:"keyResearchers" yaml:"keyResearchers"`
	CollaborationPatterns []YearPattern     `json:"collaborationPatterns" yaml:"collaborationPatterns"`
	WorkDistribution      []TypeCount       `json:"workDistribution" yaml:"workDistribution"`
	TopResearchers        []TopResearcher   `json:"topResearchers" yaml:"topResearchers"`
	SharedWorkLinks       []SharedWorkLink  `json:"sharedWorkLinks" yaml:"sharedWorkLinks"`
	Enrichment            EnrichmentReport  `json:"enrichment" yaml:"enrichment"`
	Errors                []IdentifierError `json:"errors" yaml:"errors"`
}
