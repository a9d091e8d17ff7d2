package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castellan/tesoro/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func money(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func testConfig() model.Config {
	return model.Config{
		AsOf:            date(2026, 3, 15),
		StartingBalance: money(500),
		Horizon:         3,
		Granularity:     model.GranularityMonthly,
		SafetyThreshold: money(0),
	}
}

func bankEvent(d time.Time, amount int64) model.CashEvent {
	a := money(amount)
	return model.CashEvent{
		Date:     d,
		Amount:   a,
		Category: model.CategoryForAmount(a),
		Source:   model.SourceBank,
	}
}

func forecastEvent(d time.Time, amount int64, source model.EventSource) model.CashEvent {
	a := money(amount)
	return model.CashEvent{
		Date:       d,
		Amount:     a,
		Category:   model.CategoryForAmount(a),
		Source:     source,
		IsForecast: true,
	}
}

func TestProjectBucketLayout(t *testing.T) {
	cfg := testConfig()

	buckets := Project(cfg, nil)

	require.Len(t, buckets, cfg.Horizon)
	assert.Equal(t, date(2026, 3, 1), buckets[0].PeriodStart)
	assert.Equal(t, date(2026, 4, 1), buckets[0].PeriodEnd)
	assert.Equal(t, date(2026, 5, 1), buckets[2].PeriodStart)
	assert.Equal(t, date(2026, 6, 1), buckets[2].PeriodEnd)

	// Empty periods carry the balance forward.
	for i := range buckets {
		assert.True(t, buckets[i].BalanceEnd.Equal(cfg.StartingBalance), "bucket %d", i)
	}
}

func TestProjectBucketsEventsAndRunsBalance(t *testing.T) {
	cfg := testConfig()
	events := []model.CashEvent{
		bankEvent(date(2026, 2, 10), 1000), // before the horizon, folds into bucket 0
		bankEvent(date(2026, 3, 20), -200),
		forecastEvent(date(2026, 4, 5), 300, model.SourceInvoiceSale),
		bankEvent(date(2026, 6, 1), 9999), // past the horizon, ignored
	}

	buckets := Project(cfg, events)

	require.Len(t, buckets, 3)
	assert.True(t, buckets[0].InflowTotal.Equal(money(1000)))
	assert.True(t, buckets[0].OutflowTotal.Equal(money(200)))
	assert.True(t, buckets[0].BalanceEnd.Equal(money(1300)))
	assert.True(t, buckets[1].InflowTotal.Equal(money(300)))
	assert.True(t, buckets[1].BalanceEnd.Equal(money(1600)))
	assert.True(t, buckets[2].Net.IsZero())
	assert.True(t, buckets[2].BalanceEnd.Equal(money(1600)))

	require.NoError(t, model.ValidateSeries(cfg.StartingBalance, buckets))
}

func TestProjectIsDeterministic(t *testing.T) {
	cfg := testConfig()
	events := []model.CashEvent{
		bankEvent(date(2026, 3, 1), 750),
		bankEvent(date(2026, 3, 1), -125),
		forecastEvent(date(2026, 4, 20), 90, model.SourceInvoiceSale),
	}

	first := Project(cfg, events)
	second := Project(cfg, events)

	assert.Equal(t, first, second)
}

func TestProjectWeeklyGranularity(t *testing.T) {
	cfg := testConfig()
	cfg.Granularity = model.GranularityWeekly
	// 2026-03-15 is a Sunday; its ISO week starts Monday 2026-03-09.
	events := []model.CashEvent{
		bankEvent(date(2026, 3, 9), 100),
		bankEvent(date(2026, 3, 16), -40),
	}

	buckets := Project(cfg, events)

	require.Len(t, buckets, 3)
	assert.Equal(t, date(2026, 3, 9), buckets[0].PeriodStart)
	assert.True(t, buckets[0].InflowTotal.Equal(money(100)))
	assert.True(t, buckets[1].OutflowTotal.Equal(money(40)))
}

func TestShiftForecastInflows(t *testing.T) {
	events := []model.CashEvent{
		bankEvent(date(2026, 3, 10), 500),
		forecastEvent(date(2026, 3, 20), 1000, model.SourceInvoiceSale),
		forecastEvent(date(2026, 3, 25), -400, model.SourceInvoicePurchase),
	}

	shifted := ShiftForecastInflows(events, 15)

	// Only the forecast inflow moves.
	assert.Equal(t, date(2026, 3, 10), shifted[0].Date)
	assert.Equal(t, date(2026, 4, 4), shifted[1].Date)
	assert.Equal(t, date(2026, 3, 25), shifted[2].Date)

	// The original slice is untouched.
	assert.Equal(t, date(2026, 3, 20), events[1].Date)
}

func TestShiftForecastInflowsNegativeOffset(t *testing.T) {
	events := []model.CashEvent{
		forecastEvent(date(2026, 3, 20), 1000, model.SourceInvoiceSale),
	}

	shifted := ShiftForecastInflows(events, -7)

	assert.Equal(t, date(2026, 3, 13), shifted[0].Date)
}
