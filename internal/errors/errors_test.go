// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestFetchError_Message(t *testing.T) {
	withStatus := &FetchError{URL: "https://api.example.org/x", StatusCode: 503, Attempts: 6}
	assert.Equal(t, "fetch https://api.example.org/x: HTTP 503 after 6 attempt(s)", withStatus.Error())

	withCause := &FetchError{URL: "https://api.example.org/x", Attempts: 1, Cause: New("connection reset")}
	assert.Contains(t, withCause.Error(), "connection reset")
}

func TestFetchError_Unwrap(t *testing.T) {
	cause := New("dial tcp: refused")
	err := Wrap(&FetchError{URL: "u", Cause: cause}, "fetching work")

	assert.True(t, Is(err, cause))
	var fe *FetchError
	require.True(t, As(err, &fe))
	assert.Equal(t, "u", fe.URL)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&FetchError{StatusCode: 503, Transient: true}))
	assert.True(t, IsRetryable(fmt.Errorf("outer: %w", &FetchError{Transient: true})))
	assert.False(t, IsRetryable(&FetchError{StatusCode: 404}))
	assert.False(t, IsRetryable(&ParseError{URL: "u"}))
	assert.False(t, IsRetryable(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&NotFoundError{Query: "q"}))
	assert.True(t, IsNotFound(Wrap(&NotFoundError{Query: "q"}, "searching")))
	assert.False(t, IsNotFound(New("not found")))
	assert.False(t, IsNotFound(nil))
}

func TestIsTransientStatus(t *testing.T) {
	for _, code := range []int{http.StatusServiceUnavailable, http.StatusTooManyRequests, http.StatusBadGateway, http.StatusGatewayTimeout} {
		assert.True(t, IsTransientStatus(code), "status %d", code)
	}
	for _, code := range []int{http.StatusOK, http.StatusNotFound, http.StatusBadRequest, http.StatusInternalServerError} {
		assert.False(t, IsTransientStatus(code), "status %d", code)
	}
}

func TestParseError_KeepsRaw(t *testing.T) {
	err := &ParseError{URL: "u", Raw: []byte("<html>"), Cause: New("invalid character '<'")}
	assert.Contains(t, err.Error(), "invalid character")
	assert.Equal(t, []byte("<html>"), err.Raw)
}

func TestAdapterError_Message(t *testing.T) {
	err := &AdapterError{Source: "crossref", Field: "message"}
	assert.Equal(t, `crossref response missing required field "message"`, err.Error())
}
