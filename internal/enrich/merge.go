// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"sort"
	"strings"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

// SameContact is the best-effort duplicate test without a universal
// identity key: two records are the same contact when their emails match
// case-insensitively, or their names do. A record missing both fields
// can never be proven a duplicate and is treated as distinct.
func SameContact(a, b types.ContactRecord) bool {
	if a.Email != "" && b.Email != "" &&
		a.NormalizedEmail() == b.NormalizedEmail() {
		return true
	}
	if a.Name != "" && b.Name != "" &&
		strings.EqualFold(strings.TrimSpace(a.Name), strings.TrimSpace(b.Name)) {
		return true
	}
	return false
}

// Merger combines an existing roster with newly acquired records. It is
// a pure function over its inputs: the caller hands the merged roster to
// the store for an atomic replace, nothing is mutated in place.
type Merger struct {
	Region Region

	// MaxRoster truncates the merged roster after ranking. Zero means
	// uncapped (the manual-addition path).
	MaxRoster int

	// Match is the duplicate test, SameContact unless replaced. It is a
	// swap point for a stronger matcher (fuzzy name + company context)
	// without touching the orchestrator.
	Match func(a, b types.ContactRecord) bool
}

// Merge returns existing ∪ incoming with duplicates removed, ranked by
// relevance score, truncated to MaxRoster or the existing roster size,
// whichever is larger: the cap limits automated growth, it never sheds
// persisted records. On a duplicate the earlier, already-persisted record
// wins and the incoming one is discarded whole.
func (m Merger) Merge(existing, incoming []types.ContactRecord) []types.ContactRecord {
	match := m.Match
	if match == nil {
		match = SameContact
	}

	merged := make([]types.ContactRecord, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)

	for _, c := range incoming {
		c.Email = c.NormalizedEmail()
		duplicate := false
		for _, have := range merged {
			if match(have, c) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			merged = append(merged, c)
		}
	}

	// Stable sort keeps the existing order among equal scores.
	sort.SliceStable(merged, func(i, j int) bool {
		return Score(merged[i], m.Region) > Score(merged[j], m.Region)
	})

	// Manual additions may have grown the roster past the cap.
	if m.MaxRoster > 0 {
		limit := m.MaxRoster
		if len(existing) > limit {
			limit = len(existing)
		}
		if len(merged) > limit {
			merged = merged[:limit]
		}
	}
	return merged
}

// Add appends a single contact to the roster if it is not a duplicate,
// bypassing the roster cap. This is the manual-addition path.
func (m Merger) Add(existing []types.ContactRecord, c types.ContactRecord) ([]types.ContactRecord, bool) {
	match := m.Match
	if match == nil {
		match = SameContact
	}
	for _, have := range existing {
		if match(have, c) {
			return existing, false
		}
	}
	c.Email = c.NormalizedEmail()
	out := make([]types.ContactRecord, 0, len(existing)+1)
	out = append(out, existing...)
	out = append(out, c)
	return out, true
}

// CountNew reports how many records of merged are not present in
// existing, per the duplicate test. Used for the new-contacts statistic.
func (m Merger) CountNew(existing, merged []types.ContactRecord) int {
	match := m.Match
	if match == nil {
		match = SameContact
	}
	n := 0
	for _, c := range merged {
		found := false
		for _, have := range existing {
			if match(have, c) {
				found = true
				break
			}
		}
		if !found {
			n++
		}
	}
	return n
}
