package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Granularity selects the calendar alignment of projection periods.
type Granularity string

const (
	// GranularityDaily buckets events by calendar day.
	GranularityDaily Granularity = "daily"
	// GranularityWeekly buckets events by ISO week (Monday start).
	GranularityWeekly Granularity = "weekly"
	// GranularityMonthly buckets events by calendar month.
	GranularityMonthly Granularity = "monthly"
)

// Validate checks that the granularity is one of the supported values.
func (g Granularity) Validate() error {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return nil
	default:
		return fmt.Errorf("granularity must be daily, weekly or monthly, got %q", g)
	}
}

// PeriodsPerYear returns how many periods of this granularity fit in a
// year, used by the credit bridge interest estimate.
func (g Granularity) PeriodsPerYear() int64 {
	switch g {
	case GranularityDaily:
		return 365
	case GranularityWeekly:
		return 52
	default:
		return 12
	}
}

// PeriodBucket is one period of the projected balance series. Buckets are
// produced fresh per projection run and never mutated afterwards.
type PeriodBucket struct {
	PeriodStart  time.Time       `json:"period_start"`
	PeriodEnd    time.Time       `json:"period_end"`
	Granularity  Granularity     `json:"granularity"`
	InflowTotal  decimal.Decimal `json:"inflow_total"`
	OutflowTotal decimal.Decimal `json:"outflow_total"`
	Net          decimal.Decimal `json:"net"`
	BalanceEnd   decimal.Decimal `json:"balance_end"`
}

// Validate ensures the bucket's internal sums agree.
func (b *PeriodBucket) Validate() error {
	if !b.PeriodEnd.After(b.PeriodStart) {
		return fmt.Errorf("period end %s must be after period start %s",
			b.PeriodEnd.Format("2006-01-02"), b.PeriodStart.Format("2006-01-02"))
	}
	if err := b.Granularity.Validate(); err != nil {
		return err
	}
	if !b.Net.Equal(b.InflowTotal.Sub(b.OutflowTotal)) {
		return fmt.Errorf("bucket net %s does not equal inflows %s minus outflows %s",
			b.Net, b.InflowTotal, b.OutflowTotal)
	}
	return nil
}

// ValidateSeries checks the running-balance invariant over a bucket
// sequence: balance_end[i] = balance_end[i-1] + net[i], anchored at the
// starting balance.
func ValidateSeries(startingBalance decimal.Decimal, buckets []PeriodBucket) error {
	prev := startingBalance
	for i := range buckets {
		if err := buckets[i].Validate(); err != nil {
			return fmt.Errorf("bucket %d: %w", i, err)
		}
		want := prev.Add(buckets[i].Net)
		if !buckets[i].BalanceEnd.Equal(want) {
			return fmt.Errorf("bucket %d: balance_end %s, want %s",
				i, buckets[i].BalanceEnd, want)
		}
		prev = buckets[i].BalanceEnd
	}
	return nil
}
