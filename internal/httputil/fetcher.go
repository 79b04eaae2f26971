// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/internal/logger"
	"github.com/pdiddy/profile-engine/internal/telemetry"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// Options are per-request settings.
type Options struct {
	// Accept overrides the Accept header (default application/json).
	Accept string

	// Headers are added to the request as given.
	Headers map[string]string
}

// Fetcher performs GET requests paced by a single limiter. Every attempt,
// retries included, waits for a limiter token, so all adapters sharing one
// Fetcher are throttled together.
type Fetcher struct {
	client     *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	baseDelay  time.Duration
	log        *zap.SugaredLogger
	metrics    *telemetry.Metrics
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) FetcherOption {
	return func(f *Fetcher) { f.log = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *telemetry.Metrics) FetcherOption {
	return func(f *Fetcher) { f.metrics = m }
}

// NewFetcher builds a Fetcher from cfg. A zero MinInterval disables pacing;
// zero MaxRetries and RetryBaseDelay select the defaults.
func NewFetcher(cfg types.FetcherConfig, opts ...FetcherOption) *Fetcher {
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	f := &Fetcher{
		client:     &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		userAgent:  cfg.UserAgent,
		maxRetries: maxRetries,
		baseDelay:  cfg.RetryBaseDelay,
	}
	for _, o := range opts {
		o(f)
	}
	f.log = logger.Or(f.log)
	return f
}

// Fetch GETs url and returns the response body of a 2xx response.
//
// Transport errors and transient statuses (503, 429, 502, 504) are retried
// with exponential backoff up to the retry budget; exhaustion returns a
// *errors.FetchError marked Transient. Any other non-2xx status returns a
// non-transient *errors.FetchError without retrying, as does a ctx deadline
// that falls before the next limiter slot. Cancelling ctx aborts limiter and
// backoff waits.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts Options) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// The deadline falls before the next limiter slot.
			f.metrics.ObserveFetch(url, telemetry.OutcomeFailed)
			return nil, &errors.FetchError{URL: url, Attempts: attempt, Cause: err}
		}

		body, status, err := f.do(ctx, url, opts)
		switch {
		case err == nil && status >= 200 && status < 300:
			f.metrics.ObserveFetch(url, telemetry.OutcomeOK)
			return body, nil

		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()

		case err == nil && !errors.IsTransientStatus(status):
			f.metrics.ObserveFetch(url, telemetry.OutcomeFailed)
			return nil, &errors.FetchError{URL: url, StatusCode: status, Attempts: attempt + 1}
		}

		// Transient: transport error or retryable status.
		f.metrics.ObserveFetch(url, telemetry.OutcomeTransient)
		if attempt >= f.maxRetries {
			return nil, &errors.FetchError{
				URL:        url,
				StatusCode: status,
				Attempts:   attempt + 1,
				Cause:      err,
				Transient:  true,
			}
		}

		backoff := Backoff(f.baseDelay, attempt)
		f.log.Debugw("transient fetch failure, retrying",
			logger.FieldURL, url,
			logger.FieldStatus, status,
			logger.FieldAttempt, attempt+1,
			"backoff", backoff,
		)
		f.metrics.IncrementRetries(url)
		if err := sleep(ctx, backoff); err != nil {
			return nil, err
		}
	}
}

// FetchJSON fetches url and decodes the body into out. A body that is not
// valid JSON for out yields a *errors.ParseError holding the raw payload.
func (f *Fetcher) FetchJSON(ctx context.Context, url string, opts Options, out any) error {
	body, err := f.Fetch(ctx, url, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &errors.ParseError{URL: url, Raw: body, Cause: err}
	}
	return nil
}

// do performs one request. status is 0 when err is non-nil.
func (f *Fetcher) do(ctx context.Context, url string, opts Options) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	accept := opts.Accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	if transientResponse(resp) {
		return nil, resp.StatusCode, nil
	}
	return body, resp.StatusCode, nil
}
