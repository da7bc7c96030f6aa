// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich orchestrates the contact acquisition pipeline: it runs
// the providers in increasing-cost order, scores and merges their output
// against the existing roster, and reports per-stage statistics.
package enrich

import (
	"sort"
	"strings"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/providers"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

// Region is the geographic and commercial priority used to bias contact
// scoring: one primary country, the secondary countries of the same
// cultural and economic bloc, and a broader membership list. Regions are
// data; adding one needs no code change.
type Region struct {
	Name      string
	Primary   string
	Secondary []string
	Broad     []string
}

// europeanCountries is the broad membership list shared by the built-in
// European regions.
var europeanCountries = []string{
	"Switzerland", "Germany", "Austria", "France", "Italy", "Spain",
	"Portugal", "Netherlands", "Belgium", "Luxembourg", "Denmark",
	"Sweden", "Norway", "Finland", "Poland", "Czech", "Slovakia",
	"Hungary", "Slovenia", "Croatia", "Ireland", "United Kingdom",
	"Liechtenstein", "Europe",
}

// regions is the built-in focus-region catalog.
var regions = map[string]Region{
	"ch-dach": {
		Name:      "ch-dach",
		Primary:   "Switzerland",
		Secondary: []string{"Germany", "Austria", "Liechtenstein"},
		Broad:     europeanCountries,
	},
	"de-dach": {
		Name:      "de-dach",
		Primary:   "Germany",
		Secondary: []string{"Switzerland", "Austria"},
		Broad:     europeanCountries,
	},
	"fr-europe": {
		Name:      "fr-europe",
		Primary:   "France",
		Secondary: []string{"Belgium", "Switzerland", "Luxembourg"},
		Broad:     europeanCountries,
	},
}

// DefaultRegion is used when no focus region is configured.
const DefaultRegion = "ch-dach"

// RegionByName looks up a built-in focus region.
func RegionByName(name string) (Region, bool) {
	r, ok := regions[name]
	return r, ok
}

// Score bonuses. All additive: a contact matching several signals stacks
// them, which is what pushes "Export Manager DACH, Zürich, on LinkedIn"
// above a bare "Sales" mailbox.
const (
	scorePrimaryCountry   = 30
	scoreSecondaryCountry = 20
	scoreBroadRegion      = 10
	scoreLinkedInPresence = 5

	// scoreFloor keeps unmatched-but-present contacts sortable below
	// matched ones instead of discarding them outright.
	scoreFloor = 1
)

// titleRules are checked as independent case-insensitive substring tests,
// not mutually exclusive, ordered by commercial priority. A title that
// hits several rules collects every bonus.
var titleRules = []struct {
	keywords []string
	bonus    int
}{
	{[]string{"export", "dach", "international"}, 25},
	{[]string{"country manager", "region manager", "area manager"}, 22},
	{[]string{"sales director", "commercial director", "director of sales"}, 20},
	{[]string{"business development", "key account"}, 18},
	{[]string{"sales manager", "regional sales"}, 15},
	{[]string{"sales", "commercial", "account"}, 12},
	{[]string{"marketing", "partnership"}, 8},
	{[]string{"ceo", "founder", "owner", "director", "managing", "geschäftsführer", "inhaber"}, 6},
}

// Score rates a single contact against the focus region. It is pure and
// deterministic: the same record always scores the same, so the UI can
// re-rank paid-search candidates repeatedly without side effects.
func Score(c types.ContactRecord, region Region) int {
	score := 0

	location := strings.ToLower(c.Location)
	if location != "" {
		switch {
		case containsCountry(location, region.Primary):
			score += scorePrimaryCountry
		case anyCountry(location, region.Secondary):
			score += scoreSecondaryCountry
		case anyCountry(location, region.Broad):
			score += scoreBroadRegion
		}
	}

	title := strings.ToLower(c.Title)
	if title != "" {
		for _, rule := range titleRules {
			for _, kw := range rule.keywords {
				if strings.Contains(title, kw) {
					score += rule.bonus
					break
				}
			}
		}
		// A title naming the primary country is a regional-focus signal
		// ("Sales Manager Switzerland").
		if containsCountry(title, region.Primary) {
			score += 25
		}
	}

	if c.LinkedInURL != "" {
		score += scoreLinkedInPresence
	}

	if score == 0 {
		return scoreFloor
	}
	return score
}

// RankCandidates returns the candidates sorted descending by score,
// leaving the input untouched. Used to order paid-search candidates
// before the user chooses which to reveal; Score being deterministic
// means repeated ranking of the same input never changes.
func RankCandidates(cands []providers.Candidate, region Region) []providers.Candidate {
	ranked := make([]providers.Candidate, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(ranked[i].Record(), region) > Score(ranked[j].Record(), region)
	})
	return ranked
}

func containsCountry(text, country string) bool {
	return country != "" && strings.Contains(text, strings.ToLower(country))
}

func anyCountry(text string, countries []string) bool {
	for _, country := range countries {
		if containsCountry(text, country) {
			return true
		}
	}
	return false
}
