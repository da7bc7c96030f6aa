// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package providers wraps the external contact data sources behind a
// uniform adapter contract. Each provider accepts the entity's
// identifying attributes and returns candidate contacts or a typed
// failure; a provider error never aborts the other providers.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

// Criteria holds the entity attributes a provider searches with. Any
// field may be empty; each provider uses what it can and reports itself
// not configured when it has nothing to work with.
type Criteria struct {
	// Domain is the company's root domain (e.g. "example.com").
	Domain string

	// Website is the company's root URL, for providers that fetch pages.
	Website string

	// CompanyName is the company name as stored on the entity.
	CompanyName string

	// Location optionally narrows people search to a country (ISO code
	// or name). Providers treat it as a hint, never a hard requirement.
	Location string
}

// Provider is the uniform adapter contract. Implementations are the
// Strategy pattern over heterogeneous data sources: AI extraction
// pass-through, domain email search, page scraping, and paid people
// search.
type Provider interface {
	Name() string

	// Configured reports whether the provider has what it needs to run
	// (credential present, input attributes usable). Unconfigured
	// providers are skipped without a network call.
	Configured(criteria Criteria) bool

	// Search returns up to limit candidate contacts. It may return
	// partial results alongside an error; callers keep the records and
	// report the error.
	Search(ctx context.Context, criteria Criteria, limit int) ([]types.ContactRecord, error)
}

// Kind classifies provider failures for the orchestrator and the caller.
type Kind string

const (
	// KindNotConfigured means the credential or required input is absent.
	// The stage is skipped, not failed.
	KindNotConfigured Kind = "not_configured"

	// KindUnavailable covers network errors, timeouts and 5xx responses.
	KindUnavailable Kind = "provider_unavailable"

	// KindRateLimited is a provider-imposed 429. It is transient and
	// user-actionable: retry after a short cool-down.
	KindRateLimited Kind = "rate_limited"

	// KindMalformedQuery is a 400-class rejection of the structured
	// query. Providers retry once with a simplified query before
	// surfacing it.
	KindMalformedQuery Kind = "malformed_query"

	// KindInsufficientCredits means the pre-flight balance check refused
	// a paid call before it was made.
	KindInsufficientCredits Kind = "insufficient_credits"

	// KindRevealFailed means a paid reveal failed after a successful
	// search; the masked candidates are kept with degraded confidence.
	KindRevealFailed Kind = "reveal_failed"
)

// Error is a classified provider failure.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// errOf builds a classified provider error.
func errOf(kind Kind, provider string, format string, args ...any) *Error {
	return &Error{Kind: kind, Provider: provider, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the classification of err, or "" when err carries none.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsSkip reports whether err means the stage should be skipped silently
// rather than reported as a failure.
func IsSkip(err error) bool {
	return KindOf(err) == KindNotConfigured
}

// DomainFromURL extracts the bare registrable host from a website URL:
// "https://www.example.com/shop" → "example.com". It accepts bare hosts
// without a scheme and returns "" when nothing usable remains.
func DomainFromURL(website string) string {
	s := strings.TrimSpace(website)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
