package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castellan/tesoro/internal/model"
)

func TestGenerateScenariosShiftsCollections(t *testing.T) {
	cfg := testConfig()
	cfg.AsOf = date(2026, 1, 10)
	events := []model.CashEvent{
		bankEvent(date(2026, 1, 5), 2000),
		// Collection near the period boundary so a 15-day delay moves it.
		forecastEvent(date(2026, 1, 25), 1000, model.SourceInvoiceSale),
	}

	scenarios := GenerateScenarios(cfg, events)

	require.Len(t, scenarios, 3)
	base := scenarios[0]
	conservative := scenarios[1]
	optimistic := scenarios[2]

	assert.Equal(t, model.ScenarioBase, base.Name)
	assert.Equal(t, model.ScenarioConservative, conservative.Name)
	assert.Equal(t, model.ScenarioOptimistic, optimistic.Name)
	assert.Equal(t, 0, base.ShiftDays)
	assert.Equal(t, 15, conservative.ShiftDays)
	assert.Equal(t, -7, optimistic.ShiftDays)

	// Base collects in January; the conservative shift pushes it to February.
	assert.True(t, base.Buckets[0].InflowTotal.Equal(money(3000)))
	assert.True(t, conservative.Buckets[0].InflowTotal.Equal(money(2000)))
	assert.True(t, conservative.Buckets[1].InflowTotal.Equal(money(1000)))

	// The optimistic shift keeps it inside January.
	assert.True(t, optimistic.Buckets[0].InflowTotal.Equal(money(3000)))

	for _, s := range scenarios {
		assert.False(t, s.Limited)
		assert.Contains(t, s.Description, "invoices")
	}
}

func TestGenerateScenariosEndingBalanceUnchangedByShiftWithinHorizon(t *testing.T) {
	cfg := testConfig()
	cfg.AsOf = date(2026, 1, 10)
	events := []model.CashEvent{
		bankEvent(date(2026, 1, 5), 2000),
		forecastEvent(date(2026, 1, 25), 1000, model.SourceInvoiceSale),
	}

	scenarios := GenerateScenarios(cfg, events)

	// Shifting timing inside the horizon moves money between periods but
	// never changes the total.
	ending := scenarios[0].Buckets[len(scenarios[0].Buckets)-1].BalanceEnd
	for _, s := range scenarios[1:] {
		assert.True(t, s.Buckets[len(s.Buckets)-1].BalanceEnd.Equal(ending), "scenario %s", s.Name)
	}
}

func TestGenerateScenariosLimitedWithoutForecasts(t *testing.T) {
	cfg := testConfig()
	events := []model.CashEvent{
		bankEvent(date(2026, 3, 1), 2000),
		bankEvent(date(2026, 3, 10), -500),
	}

	scenarios := GenerateScenarios(cfg, events)

	require.Len(t, scenarios, 3)
	assert.False(t, scenarios[0].Limited)
	for _, s := range scenarios[1:] {
		assert.True(t, s.Limited, "scenario %s must be tagged limited", s.Name)
		assert.Equal(t, scenarios[0].Buckets, s.Buckets, "limited scenarios fall back to the base series")
		assert.Contains(t, s.Description, "historical data only")
	}
}

func TestGenerateScenariosKPIsMatchBuckets(t *testing.T) {
	cfg := testConfig()
	cfg.AsOf = date(2026, 1, 10)
	events := []model.CashEvent{
		bankEvent(date(2026, 1, 5), 2000),
		forecastEvent(date(2026, 2, 20), 1000, model.SourceInvoiceSale),
	}

	for _, s := range GenerateScenarios(cfg, events) {
		want := CalculateKPIs(cfg, s.Buckets)
		assert.Equal(t, want, s.KPIs, "scenario %s", s.Name)
	}
}
