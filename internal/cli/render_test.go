package cli

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/castellan/tesoro/internal/model"
	"github.com/castellan/tesoro/internal/storage"
)

func renderPayload() *model.Payload {
	asOf := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	return &model.Payload{
		Config: model.Config{
			AsOf:            asOf,
			StartingBalance: decimal.NewFromInt(5000),
			Horizon:         3,
			Granularity:     model.GranularityMonthly,
		},
		Base: []model.PeriodBucket{
			{
				PeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				PeriodEnd:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
				Granularity: model.GranularityMonthly,
				InflowTotal: decimal.NewFromInt(100), OutflowTotal: decimal.Zero,
				Net: decimal.NewFromInt(100), BalanceEnd: decimal.NewFromInt(5100),
			},
		},
		KPIs: model.SurvivalKPIs{
			MinimumBalance:     decimal.NewFromInt(5100),
			MinimumBalanceDate: asOf,
			RunwayPeriods:      3,
			RiskTier:           model.RiskLow,
			EndingBalance:      decimal.NewFromInt(5100),
		},
		Quality: model.QualityAssessment{CoverageMonths: 4.0, ConfidenceTier: model.TierMedium},
		Scenarios: []model.Scenario{
			{Name: model.ScenarioBase, Description: "Projection with current data"},
		},
	}
}

func TestRenderPayloadSmoke(t *testing.T) {
	out := RenderPayload(renderPayload())

	assert.Contains(t, out, "Cash runway analysis")
	assert.Contains(t, out, "2026-03-15")
	assert.Contains(t, out, "Projected balance")
	assert.Contains(t, out, "No alerts.")
	assert.NotContains(t, out, "Credit bridge", "no bridge section without a credit line")
}

func TestRenderSnapshotIncludesReport(t *testing.T) {
	snap := &storage.Snapshot{
		ID:        "20260315_100000.000000000",
		CreatedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		Revision:  2,
		Report:    "Stable quarter ahead.",
		Payload:   *renderPayload(),
	}

	out := RenderSnapshot(snap)

	assert.Contains(t, out, snap.ID)
	assert.Contains(t, out, "revision 2")
	assert.Contains(t, out, "Stable quarter ahead.")
}

func TestRenderHistory(t *testing.T) {
	assert.Contains(t, RenderHistory(nil), "No snapshots found.")

	out := RenderHistory([]storage.SnapshotSummary{
		{
			ID: "20260315_100000.000000000", CreatedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
			Revision: 1, RiskTier: "LOW", ConfidenceTier: "MEDIUM",
			MinimumBalance: "5100", RunwayPeriods: 3, AlertCount: 0,
		},
	})

	assert.Contains(t, out, "20260315_100000.000000000")
	assert.Contains(t, out, "MEDIUM")
}
