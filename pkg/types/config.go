// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every outbound source.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "profile-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// FetcherConfig controls pacing and retries of the shared fetcher.
type FetcherConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MinInterval is the minimum gap between two outbound requests (default 1s).
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval" mapstructure:"min_interval"`

	// RetryBaseDelay is the first backoff delay; it doubles each attempt (default 300ms).
	RetryBaseDelay time.Duration `json:"retry_base_delay" yaml:"retry_base_delay" mapstructure:"retry_base_delay"`

	// MaxRetries is the retry budget for transient failures (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// RegistryConfig holds settings for the ORCID registry adapters.
type RegistryConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// PageSize is the number of search rows requested per page (default 1000).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// MaxRecords caps the identifiers collected for one query (default 11000).
	MaxRecords int `json:"max_records" yaml:"max_records" mapstructure:"max_records"`

	// Token is an optional bearer token for the ORCID API.
	Token string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`
}

// CitationSourcesConfig selects the citation-metadata sources.
type CitationSourcesConfig struct {
	EnableCrossref  bool   `json:"enable_crossref" yaml:"enable_crossref" mapstructure:"enable_crossref"`
	CrossrefBaseURL string `json:"crossref_base_url" yaml:"crossref_base_url" mapstructure:"crossref_base_url"`

	EnableDataCite  bool   `json:"enable_datacite" yaml:"enable_datacite" mapstructure:"enable_datacite"`
	DataCiteBaseURL string `json:"datacite_base_url" yaml:"datacite_base_url" mapstructure:"datacite_base_url"`

	// Mailto is sent to Crossref for polite pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty" mapstructure:"mailto"`
}

// RepositoryConfig holds settings for the institutional-repository source.
// The source speaks the OpenAlex works API.
type RepositoryConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`
}

// OrganizationConfig holds settings for ROR organization lookups.
type OrganizationConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
}

// AssemblyConfig bounds the assembler's fan-out.
type AssemblyConfig struct {
	// ProfileConcurrency is the number of profiles assembled at once (default 4).
	ProfileConcurrency int `json:"profile_concurrency" yaml:"profile_concurrency" mapstructure:"profile_concurrency"`

	// WorkConcurrency is the number of per-work enrichment calls in flight
	// for one profile (default 8).
	WorkConcurrency int `json:"work_concurrency" yaml:"work_concurrency" mapstructure:"work_concurrency"`
}

// CacheBackend selects the cache implementation.
type CacheBackend string

const (
	CacheSQLite CacheBackend = "sqlite"
	CacheRedis  CacheBackend = "redis"
	CacheMemory CacheBackend = "memory"
	CacheNone   CacheBackend = "none"
)

// CacheConfig holds settings for the freshness cache.
type CacheConfig struct {
	Backend CacheBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// TTL is the freshness window evaluated at read time (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`

	// Path is the SQLite database file (default data/profile-cache.db).
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// RedisURL is the redis:// URL used by the redis backend.
	RedisURL string `json:"redis_url,omitempty" yaml:"redis_url,omitempty" mapstructure:"redis_url"`

	// Retention is how long stale entries are kept by backends that expire
	// keys on their own (redis, memory). It does not affect freshness.
	Retention time.Duration `json:"retention" yaml:"retention" mapstructure:"retention"`

	// MemoryFront places an in-process cache in front of the backend.
	MemoryFront bool `json:"memory_front" yaml:"memory_front" mapstructure:"memory_front"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	JSON  bool   `json:"json" yaml:"json" mapstructure:"json"`
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// ServerConfig holds settings for the HTTP routes.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// EngineConfig groups every component configuration.
type EngineConfig struct {
	Fetcher      FetcherConfig         `json:"fetcher" yaml:"fetcher" mapstructure:"fetcher"`
	Registry     RegistryConfig        `json:"registry" yaml:"registry" mapstructure:"registry"`
	Citations    CitationSourcesConfig `json:"citations" yaml:"citations" mapstructure:"citations"`
	Repository   RepositoryConfig      `json:"repository" yaml:"repository" mapstructure:"repository"`
	Organization OrganizationConfig    `json:"organization" yaml:"organization" mapstructure:"organization"`
	Assembly     AssemblyConfig        `json:"assembly" yaml:"assembly" mapstructure:"assembly"`
	Cache        CacheConfig           `json:"cache" yaml:"cache" mapstructure:"cache"`
	Log          LogConfig             `json:"log" yaml:"log" mapstructure:"log"`
	Server       ServerConfig          `json:"server" yaml:"server" mapstructure:"server"`
}

// DefaultEngineConfig returns the configuration used when nothing is set.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Fetcher: FetcherConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "profile-engine/0.1",
			},
			MinInterval:    time.Second,
			RetryBaseDelay: 300 * time.Millisecond,
			MaxRetries:     5,
		},
		Registry: RegistryConfig{
			BaseURL:    "https://pub.orcid.org/v3.0",
			PageSize:   1000,
			MaxRecords: 11000,
		},
		Citations: CitationSourcesConfig{
			EnableCrossref:  true,
			CrossrefBaseURL: "https://api.crossref.org",
			EnableDataCite:  true,
			DataCiteBaseURL: "https://api.datacite.org",
		},
		Repository: RepositoryConfig{
			Enabled: false,
			BaseURL: "https://api.openalex.org",
		},
		Organization: OrganizationConfig{
			BaseURL: "https://api.ror.org",
		},
		Assembly: AssemblyConfig{
			ProfileConcurrency: 4,
			WorkConcurrency:    8,
		},
		Cache: CacheConfig{
			Backend:   CacheSQLite,
			TTL:       24 * time.Hour,
			Path:      "data/profile-cache.db",
			Retention: 7 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: ":4000",
		},
	}
}
