// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the aggregation engine over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdiddy/profile-engine/internal/logger"
	"github.com/pdiddy/profile-engine/internal/query"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// Service is the engine surface the handlers call.
type Service interface {
	Run(ctx context.Context, q query.Query) (*types.QueryResult, error)
	Analyze(ctx context.Context, q query.Query) (*types.Analytics, error)
	LookupOrganization(ctx context.Context, name string) (*types.Organization, error)
}

// NewRouter mounts the API routes. /metrics is served from gatherer when it
// is not nil.
func NewRouter(svc Service, gatherer prometheus.Gatherer, log *zap.SugaredLogger) chi.Router {
	h := NewHandler(svc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/analytics", h.Analytics)
		r.Get("/organizations", h.Organizations)
	})

	return r
}

// requestLogger logs one line per request at debug level.
func requestLogger(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, ww.Status(),
				logger.FieldRequestID, middleware.GetReqID(r.Context()),
				logger.FieldDurationMS, time.Since(start).Milliseconds(),
			)
		})
	}
}
