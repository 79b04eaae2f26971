// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/internal/sources"
	"github.com/pdiddy/profile-engine/internal/telemetry"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// fakeRegistry serves canned records; ids in fail return a FetchError.
type fakeRegistry struct {
	records map[string]*sources.RawProfile
	fail    map[string]bool
	delay   time.Duration

	inFlight    int32
	maxInFlight int32
}

func (r *fakeRegistry) Search(context.Context, string) ([]string, error) {
	var ids []string
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *fakeRegistry) FetchProfile(_ context.Context, id string) (*sources.RawProfile, error) {
	n := atomic.AddInt32(&r.inFlight, 1)
	defer atomic.AddInt32(&r.inFlight, -1)
	for {
		m := atomic.LoadInt32(&r.maxInFlight)
		if n <= m || atomic.CompareAndSwapInt32(&r.maxInFlight, m, n) {
			break
		}
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}

	if r.fail[id] {
		return nil, &errors.FetchError{URL: "https://registry.test/" + id, Attempts: 6, Transient: true, Cause: errors.New("connection reset")}
	}
	rec, ok := r.records[id]
	if !ok {
		return nil, &errors.FetchError{URL: "https://registry.test/" + id, StatusCode: 404, Attempts: 1}
	}
	cp := *rec
	cp.Works = append([]types.Work(nil), rec.Works...)
	return &cp, nil
}

// fakeSource returns canned metadata by DOI; unknown DOIs fail.
type fakeSource struct {
	name  string
	byDOI map[string]*sources.WorkMetadata
	calls int32
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) FetchWorkMetadata(_ context.Context, doi string) (*sources.WorkMetadata, error) {
	atomic.AddInt32(&s.calls, 1)
	if m, ok := s.byDOI[doi]; ok {
		return m, nil
	}
	return nil, &errors.FetchError{URL: s.name + "/" + doi, StatusCode: 404, Attempts: 1}
}

type fakeLister struct {
	works []sources.WorkMetadata
	err   error
}

func (l *fakeLister) Name() string { return "repository" }

func (l *fakeLister) ListWorks(context.Context, string) ([]sources.WorkMetadata, error) {
	return l.works, l.err
}

func intp(n int) *int { return &n }

func record(id string, works ...types.Work) *sources.RawProfile {
	return &sources.RawProfile{Identifier: id, Name: "Researcher " + id, Works: works}
}

func TestAssembleAll_PartialFailure(t *testing.T) {
	reg := &fakeRegistry{
		records: map[string]*sources.RawProfile{
			"0000-0000-0000-0001": record("0000-0000-0000-0001"),
			"0000-0000-0000-0003": record("0000-0000-0000-0003"),
		},
		fail: map[string]bool{"0000-0000-0000-0002": true},
	}
	a := New(reg, types.AssemblyConfig{ProfileConcurrency: 2})
	a.Metrics = telemetry.New(prometheus.NewRegistry())

	profiles, failures := a.AssembleAll(context.Background(), []string{
		"0000-0000-0000-0001", "0000-0000-0000-0002", "0000-0000-0000-0003",
	})

	require.Len(t, profiles, 2)
	require.Len(t, failures, 1)
	assert.Equal(t, "0000-0000-0000-0002", failures[0].Identifier)
	assert.Contains(t, failures[0].Error, "connection reset")

	var got []string
	for _, p := range profiles {
		got = append(got, p.Identifier)
	}
	assert.ElementsMatch(t, []string{"0000-0000-0000-0001", "0000-0000-0000-0003"}, got)
}

func TestAssembleAll_BoundedConcurrency(t *testing.T) {
	reg := &fakeRegistry{records: map[string]*sources.RawProfile{}, delay: 10 * time.Millisecond}
	var ids []string
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		reg.records[id] = record(id)
		ids = append(ids, id)
	}

	a := New(reg, types.AssemblyConfig{ProfileConcurrency: 3})
	profiles, failures := a.AssembleAll(context.Background(), ids)

	assert.Len(t, profiles, 8)
	assert.Empty(t, failures)
	assert.LessOrEqual(t, atomic.LoadInt32(&reg.maxInFlight), int32(3))
}

func TestAssemble_MergesCollaboratorsAcrossSources(t *testing.T) {
	reg := &fakeRegistry{records: map[string]*sources.RawProfile{
		"A": record("A", types.Work{Title: "Shared", Type: types.WorkJournalArticle, DOI: "10.1/x"}),
	}}
	crossref := &fakeSource{name: "crossref", byDOI: map[string]*sources.WorkMetadata{
		"10.1/x": {Source: "crossref", DOI: "10.1/x", CitationCount: intp(12), Collaborators: []string{"A", "B"}},
	}}
	datacite := &fakeSource{name: "datacite", byDOI: map[string]*sources.WorkMetadata{
		"10.1/x": {Source: "datacite", DOI: "10.1/x", CitationCount: intp(7), Collaborators: []string{"B", "C"}},
	}}

	a := New(reg, types.AssemblyConfig{})
	a.Sources = []sources.WorkMetadataSource{crossref, datacite}

	p, err := a.Assemble(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, p.Works, 1)
	assert.Equal(t, []string{"A", "B", "C"}, p.Works[0].Collaborators)
	assert.Equal(t, 12, p.Works[0].CitationCount)
	assert.Equal(t, 12, p.TotalCitations)
	assert.Equal(t, 1, p.HIndex)
	assert.Equal(t, 1, p.WorkCount)
}

func TestAssemble_SourceFailureKeepsWork(t *testing.T) {
	reg := &fakeRegistry{records: map[string]*sources.RawProfile{
		"A": record("A",
			types.Work{Title: "Known", Type: types.WorkBook, DOI: "10.1/known"},
			types.Work{Title: "Orphan", Type: types.WorkReport, DOI: "10.1/missing"},
			types.Work{Title: "No DOI", Type: types.WorkOther},
		),
	}}
	crossref := &fakeSource{name: "crossref", byDOI: map[string]*sources.WorkMetadata{
		"10.1/known": {DOI: "10.1/known", CitationCount: intp(4)},
	}}
	metrics := telemetry.New(prometheus.NewRegistry())

	a := New(reg, types.AssemblyConfig{})
	a.Sources = []sources.WorkMetadataSource{crossref}
	a.Metrics = metrics

	p, err := a.Assemble(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, p.Works, 3)
	assert.Equal(t, 4, p.Works[0].CitationCount)
	assert.Equal(t, "Orphan", p.Works[1].Title)
	assert.Equal(t, 0, p.Works[1].CitationCount)
	// Works without a DOI are never sent to sources.
	assert.Equal(t, int32(2), atomic.LoadInt32(&crossref.calls))
}

func TestAssemble_RegistryDuplicatesMerged(t *testing.T) {
	reg := &fakeRegistry{records: map[string]*sources.RawProfile{
		"A": record("A",
			types.Work{Title: types.UnknownTitle, Type: types.WorkUnknown, DOI: "10.1/dup"},
			types.Work{Title: "Real Title", Type: types.WorkJournalArticle, Year: 2020, DOI: "10.1/dup"},
		),
	}}
	p, err := New(reg, types.AssemblyConfig{}).Assemble(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, p.Works, 1)
	assert.Equal(t, "Real Title", p.Works[0].Title)
	assert.Equal(t, types.WorkJournalArticle, p.Works[0].Type)
	assert.Equal(t, 2020, p.Works[0].Year)
}

func TestAssemble_RepositoryWorks(t *testing.T) {
	reg := &fakeRegistry{records: map[string]*sources.RawProfile{
		"A": record("A",
			types.Work{Title: "Registry Paper", Type: types.WorkJournalArticle, DOI: "10.1/reg"},
			types.Work{Title: "Conference Talk", Type: types.WorkConferencePaper},
		),
	}}
	lister := &fakeLister{works: []sources.WorkMetadata{
		{DOI: "10.1/reg", Title: "Registry Paper", CitationCount: intp(3), Collaborators: []string{"B"}},
		{Title: "Conference talk!", Year: 2019},
		{DOI: "10.1/new", Title: "Repository Only", Type: types.WorkDataset, CitationCount: intp(2)},
		{Title: "Thesis Chapter", Type: types.WorkDissertationThesis},
		{Title: "thesis chapter"},
	}}

	a := New(reg, types.AssemblyConfig{})
	a.Lister = lister

	p, err := a.Assemble(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, p.Works, 4)

	assert.Equal(t, 3, p.Works[0].CitationCount)
	assert.Equal(t, []string{"B"}, p.Works[0].Collaborators)
	assert.Equal(t, 2019, p.Works[1].Year)
	assert.Equal(t, "10.1/new", p.Works[2].DOI)
	assert.Equal(t, types.WorkDataset, p.Works[2].Type)
	assert.Equal(t, "Thesis Chapter", p.Works[3].Title)
	assert.Equal(t, 5, p.TotalCitations)
}

func TestAssemble_RepositoryFailureIgnored(t *testing.T) {
	reg := &fakeRegistry{records: map[string]*sources.RawProfile{
		"A": record("A", types.Work{Title: "Only", Type: types.WorkBook}),
	}}
	a := New(reg, types.AssemblyConfig{})
	a.Lister = &fakeLister{err: errors.New("repository down")}

	p, err := a.Assemble(context.Background(), "A")
	require.NoError(t, err)
	assert.Len(t, p.Works, 1)
}

func TestAssemble_RegistryFailure(t *testing.T) {
	reg := &fakeRegistry{records: map[string]*sources.RawProfile{}}
	_, err := New(reg, types.AssemblyConfig{}).Assemble(context.Background(), "missing")

	var fe *errors.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 404, fe.StatusCode)
}

func TestAssemble_ConcurrentSourcesAreSafe(t *testing.T) {
	var works []types.Work
	byDOI := map[string]*sources.WorkMetadata{}
	for i := 0; i < 50; i++ {
		doi := "10.1/" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		works = append(works, types.Work{Title: doi, Type: types.WorkJournalArticle, DOI: doi})
		byDOI[doi] = &sources.WorkMetadata{DOI: doi, CitationCount: intp(i)}
	}
	reg := &fakeRegistry{records: map[string]*sources.RawProfile{"A": record("A", works...)}}

	a := New(reg, types.AssemblyConfig{WorkConcurrency: 4})
	a.Sources = []sources.WorkMetadataSource{
		&fakeSource{name: "one", byDOI: byDOI},
		&fakeSource{name: "two", byDOI: byDOI},
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := a.Assemble(context.Background(), "A")
			assert.NoError(t, err)
			assert.Equal(t, 50*49/2, p.TotalCitations)
		}()
	}
	wg.Wait()
}
