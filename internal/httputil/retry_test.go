// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

func TestBackoff_Doubles(t *testing.T) {
	base := 300 * time.Millisecond
	assert.Equal(t, 300*time.Millisecond, Backoff(base, 0))
	assert.Equal(t, 600*time.Millisecond, Backoff(base, 1))
	assert.Equal(t, 1200*time.Millisecond, Backoff(base, 2))
	assert.Equal(t, 4800*time.Millisecond, Backoff(base, 4))
}

func TestBackoff_DefaultBase(t *testing.T) {
	assert.Equal(t, RetryBaseDelay, Backoff(0, 0))
	assert.Equal(t, 2*RetryBaseDelay, Backoff(0, 1))
}

func TestSleep_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := sleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
