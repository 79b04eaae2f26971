// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/profile-engine/pkg/types"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Attention Is All You Need", "attention is all you need"},
		{"  Deep   Learning: A Review! ", "deep learning a review"},
		{"Über-Analyse (2nd ed.)", "überanalyse 2nd ed"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeTitle(tt.in), "input %q", tt.in)
	}
}

func TestTitleKey_UnknownHasNoKey(t *testing.T) {
	assert.Equal(t, "", titleKey(types.UnknownTitle))
	assert.Equal(t, "paper", titleKey("Paper."))
}

func TestDedupeWorks(t *testing.T) {
	works, merged := dedupeWorks([]types.Work{
		{Title: "One", DOI: "10.1/a", CitationCount: 1, Collaborators: []string{"B", "A"}},
		{Title: "No DOI"},
		{Title: "One again", DOI: "10.1/a", CitationCount: 5, Collaborators: []string{"C"}},
		{Title: "No DOI"},
	})
	assert.Equal(t, 1, merged)
	assert.Len(t, works, 3)
	assert.Equal(t, "One", works[0].Title)
	assert.Equal(t, 5, works[0].CitationCount)
	assert.Equal(t, []string{"A", "B", "C"}, works[0].Collaborators)
}

func TestMergeWork_KeepsKnownValues(t *testing.T) {
	dst := types.Work{Title: "Kept", Type: types.WorkBook, Year: 2001, DOI: "10.1/k", CitationCount: 9}
	mergeWork(&dst, types.Work{Title: "Other", Type: types.WorkDataset, Year: 1999, DOI: "10.1/z", CitationCount: 2})
	assert.Equal(t, types.Work{Title: "Kept", Type: types.WorkBook, Year: 2001, DOI: "10.1/k", CitationCount: 9}, dst)
}
