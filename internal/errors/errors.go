// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package errors provides error handling for the profile engine.
//
// This package re-exports github.com/cockroachdb/errors (stack traces,
// wrapping, hints) and defines the failure taxonomy shared by the fetcher,
// the source adapters and the aggregation engine:
//
//	FetchError    a request failed (retryable when the cause was transient)
//	ParseError    a response body could not be decoded
//	AdapterError  a decoded response lacked a required field
//	NotFoundError a registry search matched nothing
//
// Usage:
//
//	if err := fetch(); err != nil {
//	    return errors.Wrap(err, "fetching profile")
//	}
//	if errors.IsRetryable(err) {
//	    // the fetcher already spent its retries
//	}
package errors

import (
	"fmt"
	"net/http"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
	Join      = crdb.Join
)

// FetchError reports a request that did not produce a usable response.
// StatusCode is 0 when the failure happened below HTTP (DNS, connection
// reset, timeout). Attempts counts every request made, including retries.
type FetchError struct {
	URL        string
	StatusCode int
	Attempts   int
	Cause      error

	// Transient is true when the failure was of a retryable kind and the
	// retry budget was exhausted.
	Transient bool
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d after %d attempt(s)", e.URL, e.StatusCode, e.Attempts)
	}
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %v after %d attempt(s)", e.URL, e.Cause, e.Attempts)
	}
	return fmt.Sprintf("fetch %s failed after %d attempt(s)", e.URL, e.Attempts)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// ParseError reports a response body that could not be decoded. Raw holds
// the payload as received.
type ParseError struct {
	URL   string
	Raw   []byte
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response from %s: %v", e.URL, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// AdapterError reports a decoded response that is missing a field the
// adapter cannot default.
type AdapterError struct {
	Source string
	Field  string
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s response missing required field %q", e.Source, e.Field)
}

// NotFoundError reports a query that resolved to no identifiers.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no profiles found for query %q", e.Query)
}

// IsTransientStatus reports whether an HTTP status signals a condition worth
// retrying: unavailability, rate limiting, or a gateway failure.
func IsTransientStatus(code int) bool {
	switch code {
	case http.StatusServiceUnavailable,
		http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsRetryable reports whether err is, or wraps, a FetchError whose cause
// was transient.
func IsRetryable(err error) bool {
	var fe *FetchError
	return err != nil && As(err, &fe) && fe.Transient
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return err != nil && As(err, &nf)
}

// IsFetch reports whether err is, or wraps, a FetchError.
func IsFetch(err error) bool {
	var fe *FetchError
	return err != nil && As(err, &fe)
}
