// Package engine implements the deterministic cash-projection pipeline:
// projection, quality assessment, survival KPIs, credit-bridge
// simulation, scenario generation and alert evaluation.
package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/castellan/tesoro/internal/model"
)

// Project buckets the event stream into the configured granularity and
// produces the running-balance series. The sequence always has exactly
// cfg.Horizon buckets, starting with the period containing the as-of
// date; periods without events carry the balance forward.
//
// Events dated before the first period are folded into the opening
// bucket: history is already settled and rolls into the balance there.
// Events past the last period fall outside the horizon and contribute
// nothing. Identical events and configuration always produce an
// identical series; nothing here reads the clock.
func Project(cfg model.Config, events []model.CashEvent) []model.PeriodBucket {
	starts := model.PeriodStarts(cfg.AsOf, cfg.Granularity, cfg.Horizon)
	horizonEnd := model.NextPeriodStart(starts[len(starts)-1], cfg.Granularity)

	buckets := make([]model.PeriodBucket, len(starts))
	for i, start := range starts {
		end := horizonEnd
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		buckets[i] = model.PeriodBucket{
			PeriodStart:  start,
			PeriodEnd:    end,
			Granularity:  cfg.Granularity,
			InflowTotal:  decimal.Zero,
			OutflowTotal: decimal.Zero,
			Net:          decimal.Zero,
			BalanceEnd:   decimal.Zero,
		}
	}

	for _, ev := range events {
		idx, ok := bucketIndex(ev.Date, starts, horizonEnd)
		if !ok {
			continue
		}
		if ev.Amount.IsNegative() {
			buckets[idx].OutflowTotal = buckets[idx].OutflowTotal.Add(ev.Amount.Abs())
		} else {
			buckets[idx].InflowTotal = buckets[idx].InflowTotal.Add(ev.Amount)
		}
	}

	balance := cfg.StartingBalance
	for i := range buckets {
		buckets[i].Net = buckets[i].InflowTotal.Sub(buckets[i].OutflowTotal)
		balance = balance.Add(buckets[i].Net)
		buckets[i].BalanceEnd = balance
	}

	return buckets
}

// bucketIndex finds which period a date falls into. Dates before the
// first period map to the opening bucket; dates at or past the horizon
// end map to none.
func bucketIndex(date time.Time, starts []time.Time, horizonEnd time.Time) (int, bool) {
	if !date.Before(horizonEnd) {
		return 0, false
	}
	if date.Before(starts[0]) {
		return 0, true
	}
	for i := len(starts) - 1; i >= 0; i-- {
		if !date.Before(starts[i]) {
			return i, true
		}
	}
	return 0, true
}

// ShiftForecastInflows returns a copy of the event list with every
// forecast inflow shifted by the signed day offset. Outflows and settled
// history never move; the original slice is left untouched.
func ShiftForecastInflows(events []model.CashEvent, days int) []model.CashEvent {
	shifted := make([]model.CashEvent, len(events))
	copy(shifted, events)
	if days == 0 {
		return shifted
	}
	for i := range shifted {
		if shifted[i].IsForecast && shifted[i].Category == model.CategoryInflow {
			shifted[i].Date = shifted[i].Date.AddDate(0, 0, days)
		}
	}
	return shifted
}
