// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/credits"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/providers"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

// fakeProvider is a scripted stage for orchestrator tests.
type fakeProvider struct {
	name       string
	configured bool
	records    []types.ContactRecord
	err        error
	calls      int
	onSearch   func()
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Configured(providers.Criteria) bool { return f.configured }

func (f *fakeProvider) Search(ctx context.Context, _ providers.Criteria, _ int) ([]types.ContactRecord, error) {
	f.calls++
	if f.onSearch != nil {
		f.onSearch()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.records, f.err
}

func testPipeline(t *testing.T, stages ...Stage) *Pipeline {
	t.Helper()
	return &Pipeline{
		Stages: stages,
		Merger: Merger{Region: dachRegion(t), MaxRoster: 5},
		Ledger: credits.NewLedger(),
	}
}

func TestEnrichMergesAcrossStages(t *testing.T) {
	first := &fakeProvider{
		name:       "ai_extraction",
		configured: true,
		records:    []types.ContactRecord{{Name: "Anna Keller", Email: "anna@x.com", Source: types.SourceAIExtraction}},
	}
	second := &fakeProvider{
		name:       "domain_search",
		configured: true,
		records:    []types.ContactRecord{{Email: "sales@x.com", Title: "Sales Contact", Source: types.SourceDomainSearch}},
	}
	p := testPipeline(t, Stage{Provider: first}, Stage{Provider: second})

	var warnings bytes.Buffer
	out, err := p.Enrich(context.Background(), types.EntityInfo{CompanyName: "X AG"}, false, &warnings)
	require.NoError(t, err)

	assert.Len(t, out.Contacts, 2)
	assert.Equal(t, 0, out.Stats.Before)
	assert.Equal(t, 2, out.Stats.After)
	assert.Equal(t, 2, out.Stats.NewAdded)
	assert.Empty(t, warnings.String())
	assert.Nil(t, out.Credits, "no paid stage ran")
}

func TestEnrichIsolatesStageFailure(t *testing.T) {
	failing := &fakeProvider{
		name:       "domain_search",
		configured: true,
		err:        errors.New("connection refused"),
	}
	healthy := &fakeProvider{
		name:       "page_scrape",
		configured: true,
		records:    []types.ContactRecord{{Email: "export@x.com", Title: "Export & International Contact", Source: types.SourcePageScrape}},
	}
	p := testPipeline(t, Stage{Provider: failing}, Stage{Provider: healthy})

	var warnings bytes.Buffer
	out, err := p.Enrich(context.Background(), types.EntityInfo{CompanyName: "X AG"}, false, &warnings)
	require.NoError(t, err, "a stage failure must not fail the run")

	require.Len(t, out.Contacts, 1)
	assert.Equal(t, "export@x.com", out.Contacts[0].Email)
	assert.Contains(t, warnings.String(), "domain_search")
	assert.Contains(t, warnings.String(), "connection refused")

	require.Len(t, out.Stats.Stages, 2)
	assert.NotEmpty(t, out.Stats.Stages[0].Err)
	assert.Equal(t, 1, out.Stats.Stages[1].Found)
}

func TestEnrichSkipsUnconfiguredProvider(t *testing.T) {
	unconfigured := &fakeProvider{name: "domain_search", configured: false}
	p := testPipeline(t, Stage{Provider: unconfigured})

	out, err := p.Enrich(context.Background(), types.EntityInfo{}, false, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Zero(t, unconfigured.calls, "unconfigured providers never run")
	require.Len(t, out.Stats.Stages, 1)
	assert.True(t, out.Stats.Stages[0].Skipped)
}

func TestEnrichGatesPaidStage(t *testing.T) {
	paid := &fakeProvider{
		name:       "paid_people_search",
		configured: true,
		records:    []types.ContactRecord{{Name: "P Person", LinkedInURL: "https://linkedin.com/in/p"}},
	}
	p := testPipeline(t, Stage{Provider: paid, Paid: true})

	out, err := p.Enrich(context.Background(), types.EntityInfo{}, false, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Zero(t, paid.calls, "paid stage must not run without opt-in")
	assert.Nil(t, out.Credits)

	out, err = p.Enrich(context.Background(), types.EntityInfo{}, true, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, paid.calls)
	require.NotNil(t, out.Credits, "a paid run reports credit movement")
}

func TestEnrichReportsPaidCreditUsage(t *testing.T) {
	ledger := credits.NewLedger()
	ledger.Observe(10)
	paid := &fakeProvider{
		name:       "paid_people_search",
		configured: true,
		records:    []types.ContactRecord{{Name: "P Person", Email: "p@x.com"}},
		onSearch: func() {
			ledger.AddUsed(2)
			ledger.Observe(8)
		},
	}
	p := testPipeline(t, Stage{Provider: paid, Paid: true})
	p.Ledger = ledger

	out, err := p.Enrich(context.Background(), types.EntityInfo{}, true, &bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, out.Credits)
	assert.Equal(t, 2, out.Credits.Used)
	assert.Equal(t, 8, out.Credits.Remaining)
}

func TestEnrichKeepsPartialResultsOnError(t *testing.T) {
	// A failed reveal still returns masked candidates; they must reach
	// the roster.
	degraded := &fakeProvider{
		name:       "paid_people_search",
		configured: true,
		records:    []types.ContactRecord{{Name: "Masked Person", LinkedInURL: "https://linkedin.com/in/m", Confidence: 0.4}},
		err:        &providers.Error{Kind: providers.KindRevealFailed, Provider: "paid_people_search", Err: errors.New("reveal timed out")},
	}
	p := testPipeline(t, Stage{Provider: degraded, Paid: true})

	var warnings bytes.Buffer
	out, err := p.Enrich(context.Background(), types.EntityInfo{}, true, &warnings)
	require.NoError(t, err)

	require.Len(t, out.Contacts, 1)
	assert.Equal(t, "Masked Person", out.Contacts[0].Name)
	assert.InDelta(t, 0.4, out.Contacts[0].Confidence, 0.001)
	assert.Contains(t, warnings.String(), "reveal_failed")
}

func TestEnrichCountsActionableOnly(t *testing.T) {
	p := testPipeline(t, Stage{Provider: &fakeProvider{
		name:       "domain_search",
		configured: true,
		records: []types.ContactRecord{
			{Email: "a@x.com", Source: types.SourceDomainSearch},
			{Name: "No Handle Person", Source: types.SourceDomainSearch}, // not actionable
		},
	}})

	out, err := p.Enrich(context.Background(), types.EntityInfo{}, false, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, out.Stats.Stages, 1)
	assert.Equal(t, 1, out.Stats.Stages[0].Found)
}

func TestEnrichAbortsOnCancelledContext(t *testing.T) {
	p := testPipeline(t, Stage{Provider: &fakeProvider{name: "domain_search", configured: true}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Enrich(ctx, types.EntityInfo{}, false, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCriteriaFor(t *testing.T) {
	entity := types.EntityInfo{
		CompanyWebsite: "https://www.example.com/shop",
		ParentCompany:  "Example Holding AG",
	}
	c := CriteriaFor(entity, "Switzerland")

	assert.Equal(t, "example.com", c.Domain)
	assert.Equal(t, "Example Holding AG", c.CompanyName, "parent company backfills a missing company name")
	assert.Equal(t, "Switzerland", c.Location)
}
