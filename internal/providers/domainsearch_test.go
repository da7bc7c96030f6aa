// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/httputil"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

func withDomainSearchServer(t *testing.T, handler http.HandlerFunc) *DomainSearch {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	prev := domainSearchAPIBase
	domainSearchAPIBase = srv.URL
	t.Cleanup(func() { domainSearchAPIBase = prev })

	return &DomainSearch{
		Client: srv.Client(),
		Config: types.DomainSearchConfig{APIKey: "test-key", MaxResults: 10},
	}
}

func TestDomainSearchConfigured(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		domain   string
		expected bool
	}{
		{"key and domain", "k", "example.com", true},
		{"missing key", "", "example.com", false},
		{"missing domain", "k", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &DomainSearch{Config: types.DomainSearchConfig{APIKey: tt.apiKey}}
			assert.Equal(t, tt.expected, p.Configured(Criteria{Domain: tt.domain}))
		})
	}
}

func TestDomainSearchFiltersNonCommercialPositions(t *testing.T) {
	p := withDomainSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "example.com", r.URL.Query().Get("domain"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{
			"data": {
				"domain": "example.com",
				"country": "CH",
				"emails": [
					{"value": "anna@example.com", "confidence": 92, "first_name": "Anna", "last_name": "Keller", "position": "Sales Director", "linkedin": "https://linkedin.com/in/annakeller"},
					{"value": "dev@example.com", "confidence": 95, "position": "Software Engineer"},
					{"value": "noreply@example.com", "confidence": 80, "position": ""}
				]
			}
		}`))
	})

	results, err := p.Search(context.Background(), Criteria{Domain: "example.com"}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1, "non-commercial and positionless results are dropped")

	c := results[0]
	assert.Equal(t, "Anna Keller", c.Name)
	assert.Equal(t, "anna@example.com", c.Email)
	assert.Equal(t, "Sales Director", c.Title)
	assert.Equal(t, "CH", c.Location)
	assert.Equal(t, "https://linkedin.com/in/annakeller", c.LinkedInURL)
	assert.Equal(t, types.SourceDomainSearch, c.Source)
	assert.InDelta(t, 0.92, c.Confidence, 0.001, "native 0-100 confidence is rescaled")
}

func TestDomainSearchHonorsLimit(t *testing.T) {
	p := withDomainSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {
				"emails": [
					{"value": "a@x.com", "confidence": 90, "position": "Sales Manager"},
					{"value": "b@x.com", "confidence": 85, "position": "Export Manager"},
					{"value": "c@x.com", "confidence": 80, "position": "Key Account Manager"}
				]
			}
		}`))
	})

	results, err := p.Search(context.Background(), Criteria{Domain: "x.com"}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestDomainSearchErrorMapping(t *testing.T) {
	prev := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	t.Cleanup(func() { httputil.RetryBaseDelay = prev })

	tests := []struct {
		name   string
		status int
		kind   Kind
	}{
		{"rate limited", http.StatusTooManyRequests, KindRateLimited},
		{"bad request", http.StatusBadRequest, KindMalformedQuery},
		{"unauthorized", http.StatusUnauthorized, KindMalformedQuery},
		{"server error", http.StatusInternalServerError, KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := withDomainSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			results, err := p.Search(context.Background(), Criteria{Domain: "x.com"}, 5)
			assert.Nil(t, results)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestDomainSearchNotConfiguredError(t *testing.T) {
	p := &DomainSearch{Config: types.DomainSearchConfig{}}
	_, err := p.Search(context.Background(), Criteria{}, 5)
	require.Error(t, err)
	assert.Equal(t, KindNotConfigured, KindOf(err))
	assert.True(t, IsSkip(err))
}

func TestMatchesCommercialKeyword(t *testing.T) {
	tests := []struct {
		position string
		want     bool
	}{
		{"Sales Director", true},
		{"VP Business Development", true},
		{"Head of Export", true},
		{"Software Engineer", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := matchesCommercialKeyword(tt.position); got != tt.want {
			t.Errorf("matchesCommercialKeyword(%q) = %v, want %v", tt.position, got, tt.want)
		}
	}
}

func TestRescaleConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{92, 0.92},
		{0.5, 0.5},
		{150, 1},
		{-3, 0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := rescaleConfidence(tt.in); got != tt.want {
			t.Errorf("rescaleConfidence(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDomainFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.example.com/shop", "example.com"},
		{"http://example.ch", "example.ch"},
		{"example.com", "example.com"},
		{"www.example.com", "example.com"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := DomainFromURL(tt.in); got != tt.want {
			t.Errorf("DomainFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
