// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the rate-limited, retrying fetcher shared by
// every source adapter.
package httputil

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/pdiddy/profile-engine/internal/errors"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// transient failures. Tests override this to avoid real sleeps.
var RetryBaseDelay = 300 * time.Millisecond

const defaultMaxRetries = 5

// Backoff returns the wait before retry number attempt (0-based). The delay
// starts at base and doubles each attempt: 300 ms, 600 ms, 1.2 s, 2.4 s, 4.8 s.
func Backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = RetryBaseDelay
	}
	return time.Duration(math.Pow(2, float64(attempt))) * base
}

// transientResponse reports whether a response status should be retried.
func transientResponse(resp *http.Response) bool {
	return errors.IsTransientStatus(resp.StatusCode)
}

// sleep waits for d or until ctx is cancelled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
