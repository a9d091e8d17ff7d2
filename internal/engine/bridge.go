package engine

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/castellan/tesoro/internal/model"
)

// SimulateCreditBridge walks the projected series and simulates drawing
// the credit line in every period where the balance ends below the
// safety threshold. The required draw is the amount that would lift the
// balance back to the threshold, capped at the unused limit. The bucket
// sequence itself is read-only; the simulation is a parallel result.
//
// Returns nil when no credit line is configured.
func SimulateCreditBridge(cfg model.Config, buckets []model.PeriodBucket) *model.CreditBridgeResult {
	line := cfg.CreditLine
	if line == nil {
		return nil
	}

	available := line.TotalLimit.Sub(line.AlreadyUsed)
	if available.IsNegative() {
		available = decimal.Zero
	}

	ppy := decimal.NewFromInt(cfg.Granularity.PeriodsPerYear())

	res := &model.CreditBridgeResult{
		PeakUsage:             decimal.Zero,
		EstimatedInterestCost: decimal.Zero,
	}
	var worstGap decimal.Decimal

	for i := range buckets {
		shortfall := cfg.SafetyThreshold.Sub(buckets[i].BalanceEnd)
		if !shortfall.IsPositive() {
			continue
		}

		draw := shortfall
		if draw.GreaterThan(available) {
			gap := shortfall.Sub(available)
			if gap.GreaterThan(worstGap) {
				worstGap = gap
			}
			draw = available
		}
		if !draw.IsPositive() {
			continue
		}

		res.PeriodsInUse++
		if draw.GreaterThan(res.PeakUsage) {
			res.PeakUsage = draw
			res.PeakUsagePeriod = i
		}
		res.EstimatedInterestCost = res.EstimatedInterestCost.
			Add(draw.Mul(line.AnnualRate).Div(ppy))
	}

	res.EstimatedInterestCost = res.EstimatedInterestCost.Round(2)
	if worstGap.IsPositive() {
		res.FundingGap = &worstGap
	}

	slog.Info("simulated credit bridge",
		"peak_usage", res.PeakUsage,
		"periods_in_use", res.PeriodsInUse,
		"estimated_interest", res.EstimatedInterestCost,
		"funding_gap", res.FundingGap != nil)

	return res
}
