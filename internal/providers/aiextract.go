// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

// AIExtraction passes through contacts already produced by the upstream
// content-analysis collaborator. It makes no network call of its own; it
// exists so opportunistic extraction results flow through the same
// scoring and merge path as every other source.
type AIExtraction struct {
	// Contacts is the collaborator's structured output for this entity.
	Contacts []types.ContactRecord
}

// Name returns the provider identifier.
func (p *AIExtraction) Name() string { return "ai_extraction" }

// Configured reports whether the upstream output carried any contacts.
func (p *AIExtraction) Configured(Criteria) bool { return len(p.Contacts) > 0 }

// Search returns the pass-through contacts, stamped with their provenance
// and normalized for comparison.
func (p *AIExtraction) Search(_ context.Context, _ Criteria, limit int) ([]types.ContactRecord, error) {
	out := make([]types.ContactRecord, 0, len(p.Contacts))
	for _, c := range p.Contacts {
		if limit > 0 && len(out) >= limit {
			break
		}
		c.Email = c.NormalizedEmail()
		if c.Source == "" {
			c.Source = types.SourceAIExtraction
		}
		if c.Confidence <= 0 || c.Confidence > 1 {
			// Opportunistic extraction results without a usable score get
			// a middling default.
			c.Confidence = 0.5
		}
		out = append(out, c)
	}
	return out, nil
}
