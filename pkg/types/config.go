package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "prospector/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// DomainSearchConfig holds settings for the domain email search provider.
type DomainSearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the domain search API. When empty the
	// provider reports itself as not configured and is skipped.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults caps the number of emails requested per domain (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PageScrapeConfig holds settings for the company-website scrape provider.
type PageScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxContacts caps the number of contacts extracted per entity (default 5).
	MaxContacts int `json:"max_contacts" yaml:"max_contacts"`

	// RequestsPerSecond limits how fast the scraper probes paths on the
	// target site (default 1). The scraper hits someone else's server.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// PeopleSearchConfig holds settings for the paid people-search provider.
type PeopleSearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the people search API. When empty the
	// paid path is unavailable.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// PageSize caps candidates per search call (default 25).
	PageSize int `json:"page_size" yaml:"page_size"`
}

// EnrichConfig holds settings for the enrichment orchestrator.
type EnrichConfig struct {
	// MaxRoster is the roster size cap applied after an automated merge
	// (default 5). Manual single-contact additions bypass it.
	MaxRoster int `json:"max_roster" yaml:"max_roster"`

	// FocusRegion names the region used to bias relevance scoring
	// (default "ch-dach").
	FocusRegion string `json:"focus_region" yaml:"focus_region"`

	// StageTimeout bounds each provider call (default 90s; the scrape
	// stage probes several pages within this budget).
	StageTimeout time.Duration `json:"stage_timeout" yaml:"stage_timeout"`
}

// StoreConfig holds settings for the entity store.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "prospector.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// SnapshotDir, when set, receives a YAML roster snapshot per entity
	// after every replace.
	SnapshotDir string `json:"snapshot_dir,omitempty" yaml:"snapshot_dir,omitempty"`
}

// ServeConfig holds settings for the HTTP API server.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	DomainSearch DomainSearchConfig `json:"domain_search" yaml:"domain_search"`
	PageScrape   PageScrapeConfig   `json:"page_scrape" yaml:"page_scrape"`
	PeopleSearch PeopleSearchConfig `json:"people_search" yaml:"people_search"`
	Enrich       EnrichConfig       `json:"enrich" yaml:"enrich"`
	Store        StoreConfig        `json:"store" yaml:"store"`
	Serve        ServeConfig        `json:"serve" yaml:"serve"`
}
