// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/httputil"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

// domainSearchAPIBase is the domain email lookup endpoint. Declared as a
// var so tests can substitute an httptest server.
var domainSearchAPIBase = "https://api.hunter.io/v2/domain-search"

// commercialKeywords gate domain-search results on role relevance. A
// result whose position matches none of these is dropped before scoring:
// a bare email with no role context is too noisy to rank usefully.
var commercialKeywords = []string{
	"sales",
	"business development",
	"key account",
	"account",
	"commercial",
	"export",
	"director",
	"manager",
	"head of",
	"ceo",
	"founder",
	"owner",
	"vp",
	"vice president",
}

// DomainSearch looks up published email addresses for a company domain.
// The provider reports a native 0-100 confidence per address, rescaled
// here to 0-1.
type DomainSearch struct {
	Client *http.Client
	Config types.DomainSearchConfig
}

// Name returns the provider identifier.
func (p *DomainSearch) Name() string { return "domain_search" }

// Configured requires an API key and a domain to search.
func (p *DomainSearch) Configured(criteria Criteria) bool {
	return p.Config.APIKey != "" && criteria.Domain != ""
}

// Search queries the domain search API and returns role-relevant contacts.
func (p *DomainSearch) Search(ctx context.Context, criteria Criteria, limit int) ([]types.ContactRecord, error) {
	if !p.Configured(criteria) {
		return nil, errOf(KindNotConfigured, p.Name(), "missing API key or domain")
	}

	maxResults := p.Config.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{
		"domain":  {criteria.Domain},
		"limit":   {fmt.Sprintf("%d", maxResults)},
		"api_key": {p.Config.APIKey},
	}
	reqURL := domainSearchAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return nil, errOf(KindUnavailable, p.Name(), "domain search request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errOf(KindRateLimited, p.Name(), "rate limited, retry after a short cool-down")
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, errOf(KindMalformedQuery, p.Name(), "domain search returned HTTP %d", resp.StatusCode)
	default:
		return nil, errOf(KindUnavailable, p.Name(), "domain search returned HTTP %d", resp.StatusCode)
	}

	var dr domainSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, errOf(KindUnavailable, p.Name(), "parsing domain search response: %w", err)
	}

	var results []types.ContactRecord
	for _, e := range dr.Data.Emails {
		if e.Value == "" {
			continue
		}
		if !matchesCommercialKeyword(e.Position) {
			continue
		}
		if limit > 0 && len(results) >= limit {
			break
		}

		c := types.ContactRecord{
			Name:       joinName(e.FirstName, e.LastName),
			Title:      e.Position,
			Email:      strings.ToLower(e.Value),
			Phone:      e.PhoneNumber,
			Location:   dr.Data.Country,
			Source:     types.SourceDomainSearch,
			Confidence: rescaleConfidence(e.Confidence),
		}
		if e.LinkedIn != "" && strings.Contains(e.LinkedIn, "linkedin.com") {
			c.LinkedInURL = e.LinkedIn
		}
		results = append(results, c)
	}
	return results, nil
}

// matchesCommercialKeyword reports whether the position contains at least
// one commercial-relevance keyword, case-insensitively.
func matchesCommercialKeyword(position string) bool {
	pos := strings.ToLower(position)
	if pos == "" {
		return false
	}
	for _, kw := range commercialKeywords {
		if strings.Contains(pos, kw) {
			return true
		}
	}
	return false
}

// rescaleConfidence maps the provider's native 0-100 scale to 0-1.
// Values already within 0-1 are passed through.
func rescaleConfidence(v float64) float64 {
	if v > 1 {
		v = v / 100
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// Domain search API JSON structures.
type domainSearchResponse struct {
	Data struct {
		Domain  string              `json:"domain"`
		Country string              `json:"country"`
		Emails  []domainSearchEmail `json:"emails"`
	} `json:"data"`
}

type domainSearchEmail struct {
	Value       string  `json:"value"`
	Confidence  float64 `json:"confidence"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Position    string  `json:"position"`
	PhoneNumber string  `json:"phone_number"`
	LinkedIn    string  `json:"linkedin"`
}
