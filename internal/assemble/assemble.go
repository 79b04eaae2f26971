// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble builds unified researcher profiles. For one identifier
// it fetches the registry record, enriches every work that has a DOI from
// each configured metadata source, folds in works known only to the
// institutional repository, and recomputes the derived metrics.
package assemble

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/profile-engine/internal/analytics"
	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/internal/logger"
	"github.com/pdiddy/profile-engine/internal/sources"
	"github.com/pdiddy/profile-engine/internal/telemetry"
	"github.com/pdiddy/profile-engine/pkg/types"
)

const (
	defaultProfileConcurrency = 4
	defaultWorkConcurrency    = 8
)

// Assembler turns identifiers into profiles.
type Assembler struct {
	Registry sources.Registry

	// Sources enrich each work by DOI. A failure on one source for one work
	// is logged and counted; the work is kept.
	Sources []sources.WorkMetadataSource

	// Lister, when set, contributes works the registry does not list.
	Lister sources.WorkLister

	ProfileConcurrency int
	WorkConcurrency    int

	Log     *zap.SugaredLogger
	Metrics *telemetry.Metrics
}

// New returns an Assembler over registry with the concurrency limits of cfg.
func New(registry sources.Registry, cfg types.AssemblyConfig) *Assembler {
	return &Assembler{
		Registry:           registry,
		ProfileConcurrency: cfg.ProfileConcurrency,
		WorkConcurrency:    cfg.WorkConcurrency,
	}
}

// Assemble builds the profile for id. Only a registry failure is returned;
// enrichment and repository failures degrade to a less enriched profile.
func (a *Assembler) Assemble(ctx context.Context, id string) (*types.Profile, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "assemble.Assemble")
	span.SetAttributes(attribute.String(logger.FieldIdentifier, id))
	defer span.End()

	start := time.Now()
	p, err := a.assemble(ctx, id)
	a.Metrics.ObserveAssembly(time.Since(start), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return p, err
}

func (a *Assembler) assemble(ctx context.Context, id string) (*types.Profile, error) {
	log := logger.Or(a.Log)

	raw, err := a.Registry.FetchProfile(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching registry profile %s", id)
	}

	works, merged := dedupeWorks(raw.Works)
	if merged > 0 {
		log.Debugw("merged duplicate registry works", logger.FieldIdentifier, raw.Identifier, logger.FieldCount, merged)
	}

	slots, listed := a.enrich(ctx, raw.Identifier, works)

	// Single-goroutine merge of everything the fan-out collected.
	for i := range works {
		for _, m := range slots[i] {
			if m != nil {
				mergeMetadata(&works[i], m)
			}
		}
	}
	works = appendListed(works, listed)

	p := &types.Profile{
		Identifier:  raw.Identifier,
		Name:        raw.Name,
		LastUpdated: raw.LastUpdated,
		Employments: raw.Employments,
		Educations:  raw.Educations,
		Works:       works,
	}
	analytics.Summarize(p)
	return p, nil
}

// enrich runs every metadata source over every work with a DOI, plus the
// repository listing, under one concurrency limit. slots[i][j] holds the
// result of source j for work i, or nil on failure.
func (a *Assembler) enrich(ctx context.Context, id string, works []types.Work) ([][]*sources.WorkMetadata, []sources.WorkMetadata) {
	log := logger.Or(a.Log)
	limit := a.WorkConcurrency
	if limit <= 0 {
		limit = defaultWorkConcurrency
	}

	slots := make([][]*sources.WorkMetadata, len(works))
	var listed []sources.WorkMetadata

	var g errgroup.Group
	g.SetLimit(limit)

	if a.Lister != nil {
		g.Go(func() error {
			ws, err := a.Lister.ListWorks(ctx, id)
			if err != nil {
				log.Warnw("repository listing failed",
					logger.FieldIdentifier, id,
					logger.FieldSource, a.Lister.Name(),
					logger.FieldError, err,
				)
				a.Metrics.IncrementAdapterFailures(a.Lister.Name())
				return nil
			}
			listed = ws
			return nil
		})
	}

	for i, w := range works {
		if w.DOI == "" {
			continue
		}
		slots[i] = make([]*sources.WorkMetadata, len(a.Sources))
		for j, src := range a.Sources {
			g.Go(func() error {
				m, err := src.FetchWorkMetadata(ctx, w.DOI)
				if err != nil {
					log.Warnw("work enrichment failed",
						logger.FieldIdentifier, id,
						logger.FieldDOI, w.DOI,
						logger.FieldSource, src.Name(),
						logger.FieldError, err,
					)
					a.Metrics.IncrementAdapterFailures(src.Name())
					return nil
				}
				slots[i][j] = m
				return nil
			})
		}
	}

	_ = g.Wait()
	return slots, listed
}

// AssembleAll assembles ids with at most ProfileConcurrency in flight.
// Failures are returned as identifier errors alongside the profiles that
// succeeded. Result order is not tied to input order.
func (a *Assembler) AssembleAll(ctx context.Context, ids []string) ([]types.Profile, []types.IdentifierError) {
	log := logger.Or(a.Log)
	limit := a.ProfileConcurrency
	if limit <= 0 {
		limit = defaultProfileConcurrency
	}

	var (
		mu       sync.Mutex
		profiles = make([]types.Profile, 0, len(ids))
		failures []types.IdentifierError
	)

	var g errgroup.Group
	g.SetLimit(limit)
	for _, id := range ids {
		g.Go(func() error {
			p, err := a.Assemble(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warnw("profile assembly failed", logger.FieldIdentifier, id, logger.FieldError, err)
				failures = append(failures, types.IdentifierError{Identifier: id, Error: err.Error()})
				return nil
			}
			profiles = append(profiles, *p)
			return nil
		})
	}
	_ = g.Wait()

	return profiles, failures
}
