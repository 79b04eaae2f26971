// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate runs one aggregation end to end: cache lookup, registry
// search, profile assembly, metric summary and cache write.
package aggregate

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/pdiddy/profile-engine/internal/analytics"
	"github.com/pdiddy/profile-engine/internal/assemble"
	"github.com/pdiddy/profile-engine/internal/cache"
	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/internal/logger"
	"github.com/pdiddy/profile-engine/internal/query"
	"github.com/pdiddy/profile-engine/internal/sources"
	"github.com/pdiddy/profile-engine/internal/telemetry"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// Engine answers organization queries with assembled profiles.
type Engine struct {
	Registry      sources.Registry
	Assembler     *assemble.Assembler
	Cache         cache.Cache
	Organizations sources.OrganizationResolver

	Log     *zap.SugaredLogger
	Metrics *telemetry.Metrics

	closer func() error
}

// Close releases the cache backend when the engine owns it.
func (e *Engine) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer()
}

// Run aggregates the profiles matching q. A fresh cache entry is returned
// without touching the network. Otherwise the registry is searched, every
// match is assembled, and the result is cached when at least one profile
// was built. A registry search failure is the only error that fails the
// query; identifiers that cannot be assembled are reported in Errors.
func (e *Engine) Run(ctx context.Context, q query.Query) (*types.QueryResult, error) {
	if q.IsEmpty() {
		return nil, errors.WithHint(errors.New("query is empty"),
			"provide at least one of institutionId, gridId, emailDomain, organizationName")
	}
	key := q.Key()
	requestID := uuid.NewString()
	log := logger.Or(e.Log).With(logger.FieldRequestID, requestID, logger.FieldQuery, key)

	ctx, span := telemetry.Tracer().Start(ctx, "aggregate.Run")
	span.SetAttributes(
		attribute.String(logger.FieldQuery, key),
		attribute.String(logger.FieldRequestID, requestID),
	)
	defer span.End()

	start := time.Now()
	res, err := e.run(ctx, key, log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.Metrics.ObserveQuery(telemetry.OutcomeFailed)
		log.Warnw("query failed", logger.FieldError, err)
		return nil, err
	}
	e.Metrics.ObserveQuery(telemetry.OutcomeOK)
	log.Infow("query complete",
		logger.FieldCount, len(res.Profiles),
		"failed", len(res.Errors),
		"cached", res.Cached,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (e *Engine) run(ctx context.Context, key string, log *zap.SugaredLogger) (*types.QueryResult, error) {
	if hit := e.lookup(ctx, key, log); hit != nil {
		profiles := append([]types.Profile(nil), hit.Profiles...)
		analytics.SummarizeAll(profiles)
		return &types.QueryResult{
			Query:    key,
			Profiles: profiles,
			Errors:   []types.IdentifierError{},
			Cached:   true,
		}, nil
	}

	ids, err := e.Registry.Search(ctx, key)
	if err != nil {
		return nil, errors.Wrap(err, "searching registry")
	}
	if len(ids) == 0 {
		return nil, &errors.NotFoundError{Query: key}
	}
	log.Debugw("registry search complete", logger.FieldCount, len(ids))

	profiles, failures := e.Assembler.AssembleAll(ctx, ids)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Identifier < profiles[j].Identifier })
	sort.Slice(failures, func(i, j int) bool { return failures[i].Identifier < failures[j].Identifier })
	if failures == nil {
		failures = []types.IdentifierError{}
	}
	analytics.SummarizeAll(profiles)

	if len(profiles) > 0 && e.Cache != nil {
		if err := e.Cache.Put(ctx, key, profiles); err != nil {
			log.Warnw("cache write failed", logger.FieldError, err)
		}
	}

	return &types.QueryResult{Query: key, Profiles: profiles, Errors: failures}, nil
}

// lookup consults the cache. Cache faults are logged and read as a miss.
func (e *Engine) lookup(ctx context.Context, key string, log *zap.SugaredLogger) *types.CacheEntry {
	if e.Cache == nil {
		return nil
	}
	entry, err := e.Cache.Get(ctx, key)
	switch {
	case err != nil:
		log.Warnw("cache read failed", logger.FieldError, err)
		e.Metrics.ObserveCache(telemetry.CacheError)
		return nil
	case entry == nil:
		e.Metrics.ObserveCache(telemetry.CacheMiss)
		return nil
	default:
		e.Metrics.ObserveCache(telemetry.CacheHit)
		return entry
	}
}

// Analyze runs q and computes the analytics bundle over the result.
func (e *Engine) Analyze(ctx context.Context, q query.Query) (*types.Analytics, error) {
	res, err := e.Run(ctx, q)
	if err != nil {
		return nil, err
	}
	a := analytics.Compute(*res)
	return &a, nil
}

// LookupOrganization resolves name through the organization registry.
func (e *Engine) LookupOrganization(ctx context.Context, name string) (*types.Organization, error) {
	if e.Organizations == nil {
		return nil, errors.New("organization lookup is not configured")
	}
	return e.Organizations.LookupOrganization(ctx, name)
}
