// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/internal/httputil"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// testFetcher returns an unpaced fetcher with near-zero backoff.
func testFetcher() *httputil.Fetcher {
	return httputil.NewFetcher(types.FetcherConfig{
		HTTPConfig:     types.HTTPConfig{Timeout: 5 * time.Second},
		RetryBaseDelay: time.Millisecond,
		MaxRetries:     1,
	})
}

const sampleRecord = `{
  "orcid-identifier": {"uri": "https://orcid.org/0000-0002-1825-0097", "path": "0000-0002-1825-0097"},
  "person": {"name": {"given-names": {"value": "Josiah"}, "family-name": {"value": "Carberry"}}},
  "history": {"last-modified-date": {"value": 1700000000000}},
  "activities-summary": {
    "employments": {"affiliation-group": [
      {"summaries": [{"employment-summary": {"role-title": "Professor", "organization": {"name": "Brown University"}}}]},
      {"summaries": [{"employment-summary": {"organization": {"name": "Wesleyan University"}}}]}
    ]},
    "educations": {"affiliation-group": [
      {"summaries": [{"education-summary": {"role-title": "PhD", "organization": {}}}]}
    ]},
    "works": {"group": [
      {"work-summary": [{
        "title": {"title": {"value": "Psychoceramics"}},
        "type": "journal-article",
        "publication-date": {"year": {"value": "2012"}},
        "external-ids": {"external-id": [
          {"external-id-type": "issn", "external-id-value": "1234-5678"},
          {"external-id-type": "doi", "external-id-value": "10.5555/12345678", "external-id-normalized": {"value": "10.5555/12345678"}}
        ]}
      }]},
      {"work-summary": [{"type": "BOOK"}]},
      {"work-summary": []}
    ]}
  }
}`

func TestORCIDClient_FetchProfile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/0000-0002-1825-0097/record", r.URL.Path)
		assert.Equal(t, orcidAccept, r.Header.Get("Accept"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, sampleRecord)
	}))
	defer ts.Close()

	c := &ORCIDClient{Fetcher: testFetcher(), BaseURL: ts.URL, Token: "secret"}
	p, err := c.FetchProfile(context.Background(), "https://orcid.org/0000-0002-1825-0097")
	require.NoError(t, err)

	assert.Equal(t, "0000-0002-1825-0097", p.Identifier)
	assert.Equal(t, "Josiah Carberry", p.Name)
	assert.Equal(t, "2023-11-14", p.LastUpdated)
	assert.Equal(t, []string{"Brown University: Professor", "Wesleyan University: N/A"}, p.Employments)
	assert.Equal(t, []string{"Unknown: PhD"}, p.Educations)

	require.Len(t, p.Works, 2)
	assert.Equal(t, types.Work{
		Title: "Psychoceramics",
		Type:  types.WorkJournalArticle,
		Year:  2012,
		DOI:   "10.5555/12345678",
	}, p.Works[0])
	assert.Equal(t, types.Work{Title: types.UnknownTitle, Type: types.WorkBook}, p.Works[1])
}

func TestORCIDClient_FetchProfile_Sentinels(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"orcid-identifier": {"path": "0000-0001-5109-3700"}}`)
	}))
	defer ts.Close()

	c := &ORCIDClient{Fetcher: testFetcher(), BaseURL: ts.URL}
	p, err := c.FetchProfile(context.Background(), "0000-0001-5109-3700")
	require.NoError(t, err)
	assert.Equal(t, types.NameNotProvided, p.Name)
	assert.Empty(t, p.LastUpdated)
	assert.Empty(t, p.Works)
}

func TestORCIDClient_FetchProfile_MissingIdentifier(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"person": {}}`)
	}))
	defer ts.Close()

	c := &ORCIDClient{Fetcher: testFetcher(), BaseURL: ts.URL}
	_, err := c.FetchProfile(context.Background(), "0000-0001-5109-3700")

	var ae *errors.AdapterError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "orcid-identifier", ae.Field)
}

func TestORCIDClient_FetchProfile_InvalidID(t *testing.T) {
	c := &ORCIDClient{Fetcher: testFetcher(), BaseURL: "http://unused.invalid"}
	_, err := c.FetchProfile(context.Background(), "not-an-id")
	require.Error(t, err)
}

func TestORCIDClient_Search_SinglePage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/", r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "q=ringgold-org-id:5678")
		fmt.Fprint(w, `{"num-found": 3, "result": [
			{"orcid-identifier": {"path": "0000-0002-1825-0097"}},
			{"orcid-identifier": {"path": "0000-0001-5109-3700"}},
			{"orcid-identifier": {"path": "0000-0002-1825-0097"}},
			{}
		]}`)
	}))
	defer ts.Close()

	c := &ORCIDClient{Fetcher: testFetcher(), BaseURL: ts.URL}
	ids, err := c.Search(context.Background(), "ringgold-org-id:5678")
	require.NoError(t, err)
	assert.Equal(t, []string{"0000-0002-1825-0097", "0000-0001-5109-3700"}, ids)
}

// pagedServer serves numFound synthetic iDs, pageSize rows per request.
func pagedServer(t *testing.T, numFound int, calls *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		rows, _ := strconv.Atoi(r.URL.Query().Get("rows"))
		var results []string
		for i := start; i < start+rows && i < numFound; i++ {
			results = append(results, fmt.Sprintf(`{"orcid-identifier": {"path": "0000-0000-%04d-%04d"}}`, i/10000, i%10000))
		}
		fmt.Fprintf(w, `{"num-found": %d, "result": [%s]}`, numFound, strings.Join(results, ","))
	}))
}

func TestORCIDClient_Search_Paginates(t *testing.T) {
	var calls int32
	ts := pagedServer(t, 25, &calls)
	defer ts.Close()

	c := &ORCIDClient{Fetcher: testFetcher(), BaseURL: ts.URL, PageSize: 10, MaxRecords: 100}
	ids, err := c.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, ids, 25)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestORCIDClient_Search_StopsAtCap(t *testing.T) {
	var calls int32
	ts := pagedServer(t, 50, &calls)
	defer ts.Close()

	c := &ORCIDClient{Fetcher: testFetcher(), BaseURL: ts.URL, PageSize: 10, MaxRecords: 25}
	ids, err := c.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, ids, 25)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestORCIDClient_Search_FetchError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := &ORCIDClient{Fetcher: testFetcher(), BaseURL: ts.URL}
	_, err := c.Search(context.Background(), "q")
	assert.True(t, errors.IsRetryable(err))
}
