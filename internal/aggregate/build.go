// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/pdiddy/profile-engine/internal/assemble"
	"github.com/pdiddy/profile-engine/internal/cache"
	"github.com/pdiddy/profile-engine/internal/httputil"
	"github.com/pdiddy/profile-engine/internal/logger"
	"github.com/pdiddy/profile-engine/internal/sources"
	"github.com/pdiddy/profile-engine/internal/telemetry"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// New wires an Engine from cfg: one shared Fetcher for every outbound call,
// the ORCID registry, the enabled metadata sources, the repository and the
// configured cache backend. A cache that cannot be opened is replaced by
// cache.Nop. Metrics are registered on reg when it is not nil.
func New(cfg types.EngineConfig, reg prometheus.Registerer, log *zap.SugaredLogger) (*Engine, error) {
	var metrics *telemetry.Metrics
	if reg != nil {
		metrics = telemetry.New(reg)
	}

	fetcher := httputil.NewFetcher(cfg.Fetcher,
		httputil.WithLogger(log),
		httputil.WithMetrics(metrics),
	)

	registry := sources.NewORCIDClient(fetcher, cfg.Registry, log)

	asm := assemble.New(registry, cfg.Assembly)
	asm.Log = log
	asm.Metrics = metrics
	asm.Sources = metadataSources(fetcher, cfg)
	if cfg.Repository.Enabled {
		repo := &sources.RepositoryClient{Fetcher: fetcher, BaseURL: cfg.Repository.BaseURL, Email: cfg.Repository.Email}
		asm.Lister = repo
		asm.Sources = append(asm.Sources, repo)
	}

	store, err := cache.Open(cfg.Cache)
	if err != nil {
		logger.Or(log).Warnw("cache unavailable, every query will refetch",
			"backend", cfg.Cache.Backend,
			logger.FieldError, err,
		)
		metrics.ObserveCache(telemetry.CacheError)
		store = cache.Nop{}
	}

	return &Engine{
		Registry:      registry,
		Assembler:     asm,
		Cache:         store,
		Organizations: &sources.RORClient{Fetcher: fetcher, BaseURL: cfg.Organization.BaseURL},
		Log:           log,
		Metrics:       metrics,
		closer:        store.Close,
	}, nil
}

func metadataSources(f sources.Fetcher, cfg types.EngineConfig) []sources.WorkMetadataSource {
	var out []sources.WorkMetadataSource
	if cfg.Citations.EnableCrossref {
		out = append(out, &sources.CrossrefClient{
			Fetcher: f,
			BaseURL: cfg.Citations.CrossrefBaseURL,
			Mailto:  cfg.Citations.Mailto,
		})
	}
	if cfg.Citations.EnableDataCite {
		out = append(out, &sources.DataCiteClient{Fetcher: f, BaseURL: cfg.Citations.DataCiteBaseURL})
	}
	return out
}
