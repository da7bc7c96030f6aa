// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/time/rate"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

// scrapePaths are the conventional path suffixes probed on a company
// site, in order. Scraping stops at the first page that yields at least
// one contact (first-success, not exhaustive).
var scrapePaths = []string{
	"contact",
	"contact-us",
	"kontakt",
	"about",
	"about-us",
	"ueber-uns",
	"business",
	"wholesale",
	"partner",
	"b2b",
	"impressum",
	"legal-notice",
	"mentions-legales",
}

// maxScrapeBody caps how much of a page is read for extraction.
const maxScrapeBody = 512 * 1024

// roleEmailPattern matches departmental addresses whose local part starts
// with a commercially relevant prefix. Binding the prefix keeps random
// personal addresses in page footers out of the roster.
var roleEmailPattern = regexp.MustCompile(`(?i)\b(sales|vertrieb|verkauf|export|order|bestellung|b2b|business|wholesale|partner|distribution|commercial|info|contact|kontakt|office)[a-z0-9._%+-]*@[a-z0-9][a-z0-9.-]*\.[a-z]{2,}\b`)

// phonePattern matches international phone numbers loosely; candidates
// are then checked for a 7-15 digit count so timestamps and order numbers
// in page text do not pass as phone numbers.
var phonePattern = regexp.MustCompile(`\+?\(?\d[\d\s().\/-]{5,18}\d`)

// namedContactPattern pairs a known title phrase with an adjacent
// capitalized two-word name, recovering named contacts that appear on
// team or imprint pages without an email.
var namedContactPattern = regexp.MustCompile(`(?:Sales Director|Sales Manager|Export Manager|Country Manager|Managing Director|Head of Sales|Geschäftsführer|Geschäftsführerin|CEO|Founder|Inhaber)[:\s,–-]{1,4}([A-ZÄÖÜ][a-zäöüßéè]+ [A-ZÄÖÜ][a-zäöüßéè]+)`)

// namedContactTitle extracts the title phrase back out of a
// namedContactPattern match.
var namedContactTitle = regexp.MustCompile(`^(Sales Director|Sales Manager|Export Manager|Country Manager|Managing Director|Head of Sales|Geschäftsführer|Geschäftsführerin|CEO|Founder|Inhaber)`)

// roleTitles maps email prefixes to the display title assigned to the
// resulting contact.
var roleTitles = []struct {
	prefixes []string
	title    string
}{
	{[]string{"export"}, "Export & International Contact"},
	{[]string{"sales", "vertrieb", "verkauf", "commercial"}, "Sales Contact"},
	{[]string{"order", "bestellung"}, "Orders & Purchasing Contact"},
	{[]string{"b2b", "business", "wholesale", "partner", "distribution"}, "Business & Partnerships Contact"},
	{[]string{"info", "contact", "kontakt", "office"}, "General Contact"},
}

// scrapedConfidence is the trust assigned to contacts extracted from the
// company's own pages: authoritative source, crude extraction.
const scrapedConfidence = 0.75

// PageScrape probes a company website's conventional contact pages and
// extracts generic departmental addresses, phone numbers, and named
// contacts. It needs no credential, only a website URL.
type PageScrape struct {
	Client  *http.Client
	Config  types.PageScrapeConfig
	limiter *rate.Limiter
}

// Name returns the provider identifier.
func (p *PageScrape) Name() string { return "page_scrape" }

// Configured requires a website to probe.
func (p *PageScrape) Configured(criteria Criteria) bool {
	return criteria.Website != "" || criteria.Domain != ""
}

// Search probes the conventional paths in order and returns the contacts
// extracted from the first page that yields any. Individual page fetch
// failures (timeouts, 404s) just move probing to the next path.
func (p *PageScrape) Search(ctx context.Context, criteria Criteria, limit int) ([]types.ContactRecord, error) {
	if !p.Configured(criteria) {
		return nil, errOf(KindNotConfigured, p.Name(), "no company website known")
	}

	base := strings.TrimSuffix(criteria.Website, "/")
	if base == "" {
		base = "https://" + criteria.Domain
	}
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}

	maxContacts := p.Config.MaxContacts
	if maxContacts <= 0 {
		maxContacts = 5
	}
	if limit > 0 && limit < maxContacts {
		maxContacts = limit
	}

	for _, path := range scrapePaths {
		if err := p.wait(ctx); err != nil {
			return nil, err
		}

		body, err := p.fetch(ctx, base+"/"+path)
		if err != nil {
			continue
		}
		if !hasContactSignal(body) {
			continue
		}

		if contacts := extractContacts(body, maxContacts); len(contacts) > 0 {
			return contacts, nil
		}
	}
	return nil, nil
}

// wait applies the politeness limiter before each request to the target
// site.
func (p *PageScrape) wait(ctx context.Context) error {
	if p.limiter == nil {
		rps := p.Config.RequestsPerSecond
		if rps <= 0 {
			rps = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return p.limiter.Wait(ctx)
}

// fetch downloads up to maxScrapeBody bytes of the page.
func (p *PageScrape) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", p.Config.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScrapeBody))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// hasContactSignal reports whether the page plausibly contains contact
// information and is worth running extraction on.
func hasContactSignal(body string) bool {
	if strings.Contains(body, "@") {
		return true
	}
	lower := strings.ToLower(body)
	for _, kw := range []string{"contact", "kontakt", "email", "e-mail", "phone", "telefon", "sales", "business"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// extractContacts runs the extraction patterns over one page.
func extractContacts(body string, maxContacts int) []types.ContactRecord {
	var contacts []types.ContactRecord
	seen := make(map[string]bool)

	for _, email := range roleEmailPattern.FindAllString(body, -1) {
		email = strings.ToLower(email)
		if seen[email] {
			continue
		}
		seen[email] = true
		contacts = append(contacts, types.ContactRecord{
			Title:      roleTitleFor(email),
			Email:      email,
			Source:     types.SourcePageScrape,
			Confidence: scrapedConfidence,
		})
		if len(contacts) >= maxContacts {
			return contacts
		}
	}

	for _, m := range namedContactPattern.FindAllStringSubmatch(body, -1) {
		name := m[1]
		if seen["name:"+name] {
			continue
		}
		seen["name:"+name] = true
		contacts = append(contacts, types.ContactRecord{
			Name:       name,
			Title:      namedContactTitle.FindString(m[0]),
			Source:     types.SourcePageScrape,
			Confidence: 0.6,
		})
		if len(contacts) >= maxContacts {
			return contacts
		}
	}

	// A page-level phone number is attached to the first contact that
	// lacks one; a phone with no email or name is not actionable on its
	// own.
	if phone := firstPhone(body); phone != "" {
		for i := range contacts {
			if contacts[i].Phone == "" {
				contacts[i].Phone = phone
				break
			}
		}
	}

	return contacts
}

// roleTitleFor maps the email's local-part prefix to a display title.
func roleTitleFor(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	for _, rt := range roleTitles {
		for _, prefix := range rt.prefixes {
			if strings.HasPrefix(local, prefix) {
				return rt.title
			}
		}
	}
	return "General Contact"
}

// firstPhone returns the first candidate with a sane digit count (7-15),
// rejecting false positives such as timestamps and order numbers.
func firstPhone(body string) string {
	for _, cand := range phonePattern.FindAllString(body, 10) {
		digits := 0
		for _, r := range cand {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 7 && digits <= 15 {
			return strings.TrimSpace(cand)
		}
	}
	return ""
}
