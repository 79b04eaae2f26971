// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package telemetry holds the Prometheus collectors and the OpenTelemetry
// tracer used across the engine. A nil *Metrics is valid and records nothing.
package telemetry

import (
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const namespace = "profile_engine"

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Fetch outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeTransient = "transient"
	OutcomeFailed    = "failed"
)

// Metrics groups the engine's collectors.
type Metrics struct {
	FetchRequests     *prometheus.CounterVec
	FetchRetries      *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
	AdapterFailures   *prometheus.CounterVec
	AssemblyDuration  prometheus.Histogram
	ProfilesAssembled prometheus.Counter
	ProfilesFailed    prometheus.Counter
	QueriesTotal      *prometheus.CounterVec
}

// New registers the collectors on reg. Passing prometheus.DefaultRegisterer
// exposes them through promhttp.Handler; tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FetchRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Outbound HTTP requests by host and outcome",
		}, []string{"host", "outcome"}),
		FetchRetries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_retries_total",
			Help:      "Outbound HTTP retries by host",
		}, []string{"host"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by result",
		}, []string{"result"}),
		AdapterFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_failures_total",
			Help:      "Per-work enrichment failures by source",
		}, []string{"source"}),
		AssemblyDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "profile_assembly_seconds",
			Help:      "Time to assemble one profile",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		ProfilesAssembled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profiles_assembled_total",
			Help:      "Profiles assembled successfully",
		}),
		ProfilesFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profiles_failed_total",
			Help:      "Identifiers that could not be assembled",
		}),
		QueriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Aggregation queries by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveFetch(rawURL, outcome string) {
	if m == nil {
		return
	}
	m.FetchRequests.WithLabelValues(host(rawURL), outcome).Inc()
}

func (m *Metrics) IncrementRetries(rawURL string) {
	if m == nil {
		return
	}
	m.FetchRetries.WithLabelValues(host(rawURL)).Inc()
}

func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementAdapterFailures(source string) {
	if m == nil {
		return
	}
	m.AdapterFailures.WithLabelValues(source).Inc()
}

// ObserveAssembly records one assembly attempt.
func (m *Metrics) ObserveAssembly(d time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.AssemblyDuration.Observe(d.Seconds())
	if ok {
		m.ProfilesAssembled.Inc()
	} else {
		m.ProfilesFailed.Inc()
	}
}

func (m *Metrics) ObserveQuery(outcome string) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(outcome).Inc()
}

func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}

// Tracer returns the engine tracer from the global provider. Without an
// installed SDK the provider is a no-op.
func Tracer() trace.Tracer {
	return otel.Tracer("github.com/pdiddy/profile-engine")
}
