// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/credits"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

// People search API endpoints. Declared as vars so tests can substitute
// an httptest server.
var (
	peopleSearchURL  = "https://api.prospectpipe.io/v1/people/search"
	peopleRevealURL  = "https://api.prospectpipe.io/v1/people/reveal"
	peopleCreditsURL = "https://api.prospectpipe.io/v1/credits"
)

// DataPoint is one independently priced reveal target. Revealing one
// data point for one contact consumes one credit.
type DataPoint string

const (
	PointEmail DataPoint = "email"
	PointPhone DataPoint = "phone"
)

// Candidate is a masked result from the free search phase: identity and
// role are visible, email and phone are only advertised as present or
// absent until revealed.
type Candidate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	City        string `json:"city"`
	Country     string `json:"country"`
	LinkedInURL string `json:"linkedin_url"`
	HasEmail    bool   `json:"has_email"`
	HasPhone    bool   `json:"has_phone"`
}

// Location returns the candidate's location as free text, "City, Country"
// when both are known.
func (c Candidate) Location() string {
	switch {
	case c.City != "" && c.Country != "":
		return c.City + ", " + c.Country
	case c.Country != "":
		return c.Country
	default:
		return c.City
	}
}

// maskedConfidence is the trust assigned to a candidate whose contact
// data was never revealed (or whose reveal failed).
const maskedConfidence = 0.4

// revealedConfidence is the trust assigned once the provider has handed
// over the actual email or phone.
const revealedConfidence = 0.9

// Record converts a masked candidate into a roster record.
func (c Candidate) Record() types.ContactRecord {
	r := types.ContactRecord{
		Name:       c.Name,
		Title:      c.Title,
		Location:   c.Location(),
		Source:     types.SourcePaidPeopleSearch,
		Confidence: maskedConfidence,
	}
	if strings.Contains(c.LinkedInURL, "linkedin.com") {
		r.LinkedInURL = c.LinkedInURL
	}
	return r
}

// RevealOutcome is the result of a paid reveal call.
type RevealOutcome struct {
	// Revealed maps candidate ID to the uncovered values.
	Revealed map[string]RevealedValues

	// CreditsUsed is what the provider billed for this call.
	CreditsUsed int

	// CreditsRemaining is the balance the provider reported with the
	// response, or -1 when it reported none.
	CreditsRemaining int
}

// RevealedValues holds the uncovered data points for one candidate.
type RevealedValues struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PeopleClient speaks the paid provider's two-phase search-then-reveal
// protocol. The search phase is free; every revealed contact × data
// point combination consumes one credit.
type PeopleClient struct {
	Client *http.Client
	Config types.PeopleSearchConfig
}

const clientName = "paid_people_search"

// Configured requires an API key.
func (c *PeopleClient) Configured() bool { return c.Config.APIKey != "" }

// SearchCandidates runs the free search phase. Two fallbacks apply
// before an error surfaces: a location-filtered search that returns zero
// candidates is retried once without the filter (the region is a
// narrowing heuristic, not a requirement), and a query the provider
// rejects as malformed is retried once in its minimal shape (domain and
// name only, no role, seniority, or location filters).
func (c *PeopleClient) SearchCandidates(ctx context.Context, criteria Criteria, limit int) ([]Candidate, error) {
	if !c.Configured() {
		return nil, errOf(KindNotConfigured, clientName, "missing API key")
	}
	if criteria.Domain == "" && criteria.CompanyName == "" {
		return nil, errOf(KindNotConfigured, clientName, "no company domain or name to search")
	}

	pageSize := c.Config.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}
	if limit > 0 && limit < pageSize {
		pageSize = limit
	}

	query := peopleSearchRequest{
		OrganizationDomain: criteria.Domain,
		OrganizationName:   criteria.CompanyName,
		PerPage:            pageSize,
		Departments:        []string{"sales", "business_development", "management"},
		Seniorities:        []string{"manager", "director", "vp", "c_suite", "owner"},
	}
	if criteria.Location != "" {
		query.Locations = []string{criteria.Location}
	}

	cands, err := c.doSearch(ctx, query)
	if err != nil {
		if KindOf(err) != KindMalformedQuery {
			return nil, err
		}
		// Simplified retry: minimal query shape before surfacing.
		minimal := peopleSearchRequest{
			OrganizationDomain: criteria.Domain,
			OrganizationName:   criteria.CompanyName,
			PerPage:            pageSize,
		}
		return c.doSearch(ctx, minimal)
	}

	// Filtered retry: better unfiltered candidates than none.
	if len(cands) == 0 && len(query.Locations) > 0 {
		query.Locations = nil
		return c.doSearch(ctx, query)
	}
	return cands, nil
}

func (c *PeopleClient) doSearch(ctx context.Context, query peopleSearchRequest) ([]Candidate, error) {
	var sr peopleSearchResponse
	if err := c.post(ctx, peopleSearchURL, query, &sr); err != nil {
		return nil, err
	}
	return sr.People, nil
}

// Reveal runs the paid phase for the chosen candidate IDs and data
// points. Callers are expected to have passed the credit pre-flight
// check first; the provider may still reject on insufficient balance.
func (c *PeopleClient) Reveal(ctx context.Context, ids []string, points []DataPoint) (RevealOutcome, error) {
	if !c.Configured() {
		return RevealOutcome{}, errOf(KindNotConfigured, clientName, "missing API key")
	}
	if len(ids) == 0 || len(points) == 0 {
		return RevealOutcome{}, errOf(KindMalformedQuery, clientName, "nothing selected to reveal")
	}

	req := peopleRevealRequest{IDs: ids, Reveal: points}
	var rr peopleRevealResponse
	if err := c.post(ctx, peopleRevealURL, req, &rr); err != nil {
		return RevealOutcome{}, err
	}

	out := RevealOutcome{
		Revealed:         make(map[string]RevealedValues, len(rr.Contacts)),
		CreditsUsed:      rr.CreditsUsed,
		CreditsRemaining: -1,
	}
	if rr.CreditsRemaining != nil {
		out.CreditsRemaining = *rr.CreditsRemaining
	}
	for _, rc := range rr.Contacts {
		out.Revealed[rc.ID] = RevealedValues{
			Email: strings.ToLower(rc.Email),
			Phone: rc.Phone,
		}
	}
	return out, nil
}

// Balance queries the remaining credit balance.
func (c *PeopleClient) Balance(ctx context.Context) (int, error) {
	if !c.Configured() {
		return 0, errOf(KindNotConfigured, clientName, "missing API key")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, peopleCreditsURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, errOf(KindUnavailable, clientName, "credit query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, c.statusError(resp.StatusCode, "credit query")
	}

	var cr struct {
		Remaining int `json:"remaining"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return 0, errOf(KindUnavailable, clientName, "parsing credit response: %w", err)
	}
	return cr.Remaining, nil
}

// post sends a JSON request and decodes a JSON response, mapping HTTP
// status classes onto the provider error taxonomy.
func (c *PeopleClient) post(ctx context.Context, apiURL string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return errOf(KindUnavailable, clientName, "people search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp.StatusCode, "people search")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errOf(KindUnavailable, clientName, "parsing people search response: %w", err)
	}
	return nil
}

func (c *PeopleClient) setHeaders(req *http.Request) {
	req.Header.Set("X-Api-Key", c.Config.APIKey)
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}
}

// statusError maps a non-200 status onto the error taxonomy. The paid
// provider's 429 surfaces as a distinct rate-limit condition instead of
// being silently retried: it is transient and provider-imposed, and the
// caller should cool down before spending again.
func (c *PeopleClient) statusError(status int, op string) error {
	switch {
	case status == http.StatusTooManyRequests:
		return errOf(KindRateLimited, clientName, "%s rate limited, retry after a short cool-down", op)
	case status >= 400 && status < 500:
		return errOf(KindMalformedQuery, clientName, "%s returned HTTP %d", op, status)
	default:
		return errOf(KindUnavailable, clientName, "%s returned HTTP %d", op, status)
	}
}

// People search API JSON structures.
type peopleSearchRequest struct {
	OrganizationDomain string   `json:"organization_domain,omitempty"`
	OrganizationName   string   `json:"organization_name,omitempty"`
	Locations          []string `json:"locations,omitempty"`
	Departments        []string `json:"departments,omitempty"`
	Seniorities        []string `json:"seniorities,omitempty"`
	PerPage            int      `json:"per_page"`
}

type peopleSearchResponse struct {
	People []Candidate `json:"people"`
}

type peopleRevealRequest struct {
	IDs    []string    `json:"ids"`
	Reveal []DataPoint `json:"reveal"`
}

type peopleRevealResponse struct {
	Contacts []struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"contacts"`
	CreditsUsed      int  `json:"credits_used"`
	CreditsRemaining *int `json:"credits_remaining"`
}

// PaidPeopleSearch adapts the two-phase client to the uniform provider
// contract for automated enrichment: it searches, auto-selects the top
// candidates, and reveals their email addresses, gated by the credit
// ledger's pre-flight check. The interactive flow drives PeopleClient
// directly instead, with a human choosing the candidates.
type PaidPeopleSearch struct {
	Client *PeopleClient
	Ledger *credits.Ledger

	// Points selects which data points the automated path reveals
	// (default: email only).
	Points []DataPoint
}

// Name returns the provider identifier.
func (p *PaidPeopleSearch) Name() string { return clientName }

// Configured requires the client credential.
func (p *PaidPeopleSearch) Configured(criteria Criteria) bool {
	return p.Client != nil && p.Client.Configured() &&
		(criteria.Domain != "" || criteria.CompanyName != "")
}

// Search runs search-then-reveal. It degrades rather than failing: on
// insufficient credits or a failed reveal the masked candidates are
// still returned (lower confidence) together with the classified error.
func (p *PaidPeopleSearch) Search(ctx context.Context, criteria Criteria, limit int) ([]types.ContactRecord, error) {
	cands, err := p.Client.SearchCandidates(ctx, criteria, limit)
	if err != nil {
		return nil, err
	}
	if len(cands) == 0 {
		return nil, nil
	}
	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}

	records := make([]types.ContactRecord, len(cands))
	ids := make([]string, len(cands))
	for i, cand := range cands {
		records[i] = cand.Record()
		ids[i] = cand.ID
	}

	points := p.Points
	if len(points) == 0 {
		points = []DataPoint{PointEmail}
	}

	// Balance reads are stale by default: refresh right before spending.
	if bal, balErr := p.Client.Balance(ctx); balErr == nil {
		p.Ledger.Observe(bal)
	}

	cost := credits.EstimateCost(len(ids), len(points))
	release, err := p.Ledger.Reserve(cost)
	if err != nil {
		return records, errOf(KindInsufficientCredits, p.Name(),
			"reveal of %d contacts × %d data points needs %d credits: %w",
			len(ids), len(points), cost, err)
	}
	defer release()

	outcome, err := p.Client.Reveal(ctx, ids, points)
	if err != nil {
		// Degrade gracefully: keep the masked candidates, re-check the
		// balance after the failed attempt.
		if bal, balErr := p.Client.Balance(ctx); balErr == nil {
			p.Ledger.Observe(bal)
		}
		return records, &Error{Kind: KindRevealFailed, Provider: p.Name(), Err: err}
	}

	used := outcome.CreditsUsed
	if used == 0 {
		used = cost
	}
	p.Ledger.AddUsed(used)
	if outcome.CreditsRemaining >= 0 {
		p.Ledger.Observe(outcome.CreditsRemaining)
	} else if bal, balErr := p.Client.Balance(ctx); balErr == nil {
		p.Ledger.Observe(bal)
	}

	for i, id := range ids {
		vals, ok := outcome.Revealed[id]
		if !ok {
			continue
		}
		if vals.Email != "" {
			records[i].Email = vals.Email
		}
		if vals.Phone != "" {
			records[i].Phone = vals.Phone
		}
		if vals.Email != "" || vals.Phone != "" {
			records[i].Confidence = revealedConfidence
		}
	}
	return records, nil
}
