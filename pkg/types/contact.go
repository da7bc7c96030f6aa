// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the prospection pipeline.
package types

import "strings"

// ContactSource identifies which provider produced a contact. It is set
// once at creation and never overwritten by later pipeline stages.
type ContactSource string

const (
	SourceAIExtraction     ContactSource = "ai_extraction"
	SourceDomainSearch     ContactSource = "domain_search"
	SourcePageScrape       ContactSource = "page_scrape"
	SourcePaidPeopleSearch ContactSource = "paid_people_search"
	SourceManual           ContactSource = "manual"
)

// ContactRecord is one candidate decision-maker contact for a business
// entity. Any field except Source and Confidence may be empty: a generic
// departmental mailbox has no name, a scraped name has no email.
type ContactRecord struct {
	// Name is the person's full name, when known.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Title is the free-text job title or function.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Email is the contact address, lower-cased for comparison.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Phone is the contact phone number in whatever format the source had.
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`

	// LinkedInURL is the profile URL; must contain "linkedin.com" when set.
	LinkedInURL string `json:"linkedin_url,omitempty" yaml:"linkedin_url,omitempty"`

	// Location is free-text "City, Country" or country only.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Source identifies the provider that produced this record.
	Source ContactSource `json:"source" yaml:"source"`

	// Confidence is the provider-reported or heuristically assigned trust,
	// between 0.0 and 1.0.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// NormalizedEmail returns the email trimmed and lower-cased, the form used
// for duplicate comparison.
func (c ContactRecord) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(c.Email))
}

// Actionable reports whether the record can actually be contacted: it has
// an email or a LinkedIn profile, or it was entered manually with a name.
// Non-actionable records may still be stored but do not count as found.
func (c ContactRecord) Actionable() bool {
	if c.Email != "" || c.LinkedInURL != "" {
		return true
	}
	return c.Source == SourceManual && c.Name != ""
}

// EntityType distinguishes the two kinds of business entity that own a
// contact roster.
type EntityType string

const (
	EntityProduct EntityType = "product"
	EntityBrand   EntityType = "brand"
)

// EntityInfo holds the identifying attributes of an entity that providers
// search with, as returned by the entity store.
type EntityInfo struct {
	// Type is "product" or "brand".
	Type EntityType `json:"type" yaml:"type"`

	// ID is the store-assigned entity identifier.
	ID string `json:"id" yaml:"id"`

	// CompanyName is the name of the company behind the entity.
	CompanyName string `json:"company_name" yaml:"company_name"`

	// CompanyWebsite is the company's root URL, when known.
	CompanyWebsite string `json:"company_website,omitempty" yaml:"company_website,omitempty"`

	// ParentCompany is the owning company for brands sold under a group.
	ParentCompany string `json:"parent_company,omitempty" yaml:"parent_company,omitempty"`

	// Contacts is the roster currently attached to the entity.
	Contacts []ContactRecord `json:"contacts" yaml:"contacts"`
}

// StageStats records how one provider stage fared during an enrichment run.
type StageStats struct {
	// Provider is the stage identifier (e.g. "domain_search").
	Provider string `json:"provider" yaml:"provider"`

	// Found is the number of actionable contacts the stage returned.
	Found int `json:"found" yaml:"found"`

	// Skipped is true when the stage had no credential and was not called.
	Skipped bool `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// Err is the stage error message, empty on success. Stage errors never
	// abort the pipeline; they are reported here.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// EnrichStats summarizes an enrichment run for the caller.
type EnrichStats struct {
	Before   int          `json:"before" yaml:"before"`
	Stages   []StageStats `json:"stages" yaml:"stages"`
	After    int          `json:"after" yaml:"after"`
	NewAdded int          `json:"new_added" yaml:"new_added"`
}

// CreditReport describes paid-provider credit movement during a run.
type CreditReport struct {
	Used      int `json:"used" yaml:"used"`
	Remaining int `json:"remaining" yaml:"remaining"`
}
