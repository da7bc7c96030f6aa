// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/credits"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/enrich"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/providers"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/store"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "prospector/0.1"
)

// pipelineConfig assembles the typed configuration from viper values,
// falling back to loaded secrets for API keys and to built-in defaults.
func pipelineConfig() types.PipelineConfig {
	httpCfg := func() types.HTTPConfig {
		timeout := viper.GetDuration("http.timeout")
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		ua := viper.GetString("http.user_agent")
		if ua == "" {
			ua = defaultUserAgent
		}
		return types.HTTPConfig{Timeout: timeout, UserAgent: ua}
	}

	cfg := types.PipelineConfig{
		DomainSearch: types.DomainSearchConfig{
			HTTPConfig: httpCfg(),
			APIKey:     secretDefault("domain-search-api-key", viper.GetString("domain_search.api_key")),
			MaxResults: viper.GetInt("domain_search.max_results"),
		},
		PageScrape: types.PageScrapeConfig{
			HTTPConfig:        httpCfg(),
			MaxContacts:       viper.GetInt("page_scrape.max_contacts"),
			RequestsPerSecond: viper.GetFloat64("page_scrape.requests_per_second"),
		},
		PeopleSearch: types.PeopleSearchConfig{
			HTTPConfig: httpCfg(),
			APIKey:     secretDefault("people-search-api-key", viper.GetString("people_search.api_key")),
			PageSize:   viper.GetInt("people_search.page_size"),
		},
		Enrich: types.EnrichConfig{
			MaxRoster:    viper.GetInt("enrich.max_roster"),
			FocusRegion:  viper.GetString("enrich.focus_region"),
			StageTimeout: viper.GetDuration("enrich.stage_timeout"),
		},
		Store: types.StoreConfig{
			DBPath:      viper.GetString("store.db_path"),
			SnapshotDir: viper.GetString("store.snapshot_dir"),
		},
		Serve: types.ServeConfig{
			Addr: viper.GetString("serve.addr"),
		},
	}

	if dbFlag, _ := rootCmd.PersistentFlags().GetString("db"); dbFlag != "" {
		cfg.Store.DBPath = dbFlag
	}
	if cfg.Enrich.MaxRoster <= 0 {
		cfg.Enrich.MaxRoster = 5
	}
	if cfg.Enrich.FocusRegion == "" {
		cfg.Enrich.FocusRegion = enrich.DefaultRegion
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = ":8080"
	}
	return cfg
}

func newHTTPClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

func openStore(cfg types.PipelineConfig) (*store.Store, error) {
	return store.Open(cfg.Store)
}

func peopleClient(cfg types.PipelineConfig) *providers.PeopleClient {
	return &providers.PeopleClient{
		Client: newHTTPClient(cfg.PeopleSearch.HTTPConfig),
		Config: cfg.PeopleSearch,
	}
}

// buildPipeline wires the provider cascade in increasing-cost order:
// AI-extraction pass-through, domain search, page scrape, paid search.
func buildPipeline(cfg types.PipelineConfig, region enrich.Region, aiContacts []types.ContactRecord, ledger *credits.Ledger) *enrich.Pipeline {
	people := &providers.PaidPeopleSearch{
		Client: peopleClient(cfg),
		Ledger: ledger,
	}

	return &enrich.Pipeline{
		Stages: []enrich.Stage{
			{Provider: &providers.AIExtraction{Contacts: aiContacts}},
			{Provider: &providers.DomainSearch{
				Client: newHTTPClient(cfg.DomainSearch.HTTPConfig),
				Config: cfg.DomainSearch,
			}},
			{Provider: &providers.PageScrape{
				Client: newHTTPClient(cfg.PageScrape.HTTPConfig),
				Config: cfg.PageScrape,
			}},
			{Provider: people, Paid: true},
		},
		Merger: enrich.Merger{
			Region:    region,
			MaxRoster: cfg.Enrich.MaxRoster,
		},
		Ledger:       ledger,
		StageTimeout: cfg.Enrich.StageTimeout,
	}
}
