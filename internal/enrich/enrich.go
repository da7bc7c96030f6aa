// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/credits"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/providers"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

// Stage is one provider in the cascade. Stages are an ordered list, not
// nested control flow: adding or reordering providers is a data change.
type Stage struct {
	Provider providers.Provider

	// Paid marks the stage as credit-consuming. Paid stages only run
	// when the caller explicitly opted in, and never concurrently with
	// another paid call (the ledger gate enforces that).
	Paid bool
}

// Output is the result of one enrichment run.
type Output struct {
	// Contacts is the next roster value: old roster ∪ new records,
	// deduplicated and ranked. The caller hands it to the entity store
	// for an atomic replace.
	Contacts []types.ContactRecord

	// Stats describes what each stage contributed.
	Stats types.EnrichStats

	// Credits reports paid-provider credit movement, nil when the paid
	// stage did not run.
	Credits *types.CreditReport
}

// Pipeline sequences the provider stages in increasing-cost order so the
// run can stop cheap: free sources are exhausted before any paid call.
type Pipeline struct {
	Stages []Stage
	Merger Merger
	Ledger *credits.Ledger

	// StageTimeout bounds each provider call; an expired stage is a
	// stage failure, not a pipeline failure. Default 90s.
	StageTimeout time.Duration
}

// CriteriaFor derives the provider search criteria from the entity's
// stored attributes.
func CriteriaFor(entity types.EntityInfo, location string) providers.Criteria {
	name := entity.CompanyName
	if name == "" {
		name = entity.ParentCompany
	}
	return providers.Criteria{
		Domain:      providers.DomainFromURL(entity.CompanyWebsite),
		Website:     entity.CompanyWebsite,
		CompanyName: name,
		Location:    location,
	}
}

// Enrich runs the cascade for one entity and returns the merged roster
// with per-stage statistics. Stage failures are isolated: each failing
// stage is logged to w and contributes nothing, and the run still
// returns a populated Output. Only cancellation of ctx itself aborts.
func (p *Pipeline) Enrich(ctx context.Context, entity types.EntityInfo, usePaid bool, w io.Writer) (Output, error) {
	if p.Ledger == nil {
		p.Ledger = credits.NewLedger()
	}
	criteria := CriteriaFor(entity, p.Merger.Region.Primary)

	stats := types.EnrichStats{Before: len(entity.Contacts)}
	usedBefore, _, _ := p.Ledger.Snapshot()
	paidRan := false

	var incoming []types.ContactRecord
	for _, stage := range p.Stages {
		if err := ctx.Err(); err != nil {
			return Output{}, err
		}

		name := stage.Provider.Name()
		if stage.Paid && !usePaid {
			stats.Stages = append(stats.Stages, types.StageStats{Provider: name, Skipped: true})
			continue
		}
		if !stage.Provider.Configured(criteria) {
			stats.Stages = append(stats.Stages, types.StageStats{Provider: name, Skipped: true})
			continue
		}
		if stage.Paid {
			paidRan = true
		}

		records, err := p.runStage(ctx, stage, criteria)
		ss := types.StageStats{Provider: name}
		for _, c := range records {
			if c.Actionable() {
				ss.Found++
			}
		}
		if err != nil {
			if providers.IsSkip(err) {
				ss.Skipped = true
			} else {
				ss.Err = err.Error()
				fmt.Fprintf(w, "warning: provider %s failed: %v\n", name, err)
			}
		}
		stats.Stages = append(stats.Stages, ss)

		// Partial results accompanying an error are kept: a failed
		// reveal still yields masked candidates worth ranking.
		incoming = append(incoming, records...)
	}

	merged := p.Merger.Merge(entity.Contacts, incoming)
	stats.After = len(merged)
	stats.NewAdded = p.Merger.CountNew(entity.Contacts, merged)

	out := Output{Contacts: merged, Stats: stats}
	if paidRan {
		usedAfter, remaining, known := p.Ledger.Snapshot()
		report := types.CreditReport{Used: usedAfter - usedBefore}
		if known {
			report.Remaining = remaining
		}
		out.Credits = &report
	}
	return out, nil
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage, criteria providers.Criteria) ([]types.ContactRecord, error) {
	timeout := p.StageTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return stage.Provider.Search(stageCtx, criteria, p.Merger.MaxRoster)
}
