package engine

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/castellan/tesoro/internal/model"
)

// CalculateKPIs scans a bucket sequence once and derives the survival
// metrics. It is a pure function of the sequence and the configuration.
func CalculateKPIs(cfg model.Config, buckets []model.PeriodBucket) model.SurvivalKPIs {
	kpis := model.SurvivalKPIs{
		MinimumBalance: cfg.StartingBalance,
		RunwayPeriods:  len(buckets),
		RiskTier:       model.RiskLow,
		TotalInflows:   decimal.Zero,
		TotalOutflows:  decimal.Zero,
		EndingBalance:  cfg.StartingBalance,
	}
	if len(buckets) == 0 {
		kpis.NetPosition = decimal.Zero
		kpis.AvgPeriodOutflow = decimal.Zero
		return kpis
	}

	kpis.MinimumBalance = buckets[0].BalanceEnd
	kpis.MinimumBalanceDate = buckets[0].PeriodStart
	breached := false

	for i := range buckets {
		b := &buckets[i]
		kpis.TotalInflows = kpis.TotalInflows.Add(b.InflowTotal)
		kpis.TotalOutflows = kpis.TotalOutflows.Add(b.OutflowTotal)

		if b.BalanceEnd.LessThan(kpis.MinimumBalance) {
			kpis.MinimumBalance = b.BalanceEnd
			kpis.MinimumBalancePeriod = i
			kpis.MinimumBalanceDate = b.PeriodStart
		}
		if b.BalanceEnd.LessThan(cfg.SafetyThreshold) {
			kpis.PeriodsBelowSafety++
			if !breached {
				kpis.RunwayPeriods = i
				breached = true
			}
		}
	}

	kpis.NetPosition = kpis.TotalInflows.Sub(kpis.TotalOutflows)
	kpis.EndingBalance = buckets[len(buckets)-1].BalanceEnd
	kpis.AvgPeriodOutflow = kpis.TotalOutflows.
		Div(decimal.NewFromInt(int64(len(buckets)))).Round(2)

	switch {
	case kpis.MinimumBalance.IsNegative():
		kpis.RiskTier = model.RiskHigh
	case kpis.MinimumBalance.LessThan(cfg.SafetyThreshold):
		kpis.RiskTier = model.RiskMedium
	default:
		kpis.RiskTier = model.RiskLow
	}

	slog.Info("calculated survival KPIs",
		"minimum_balance", kpis.MinimumBalance,
		"minimum_balance_period", kpis.MinimumBalancePeriod,
		"runway_periods", kpis.RunwayPeriods,
		"risk_tier", kpis.RiskTier)

	return kpis
}

// periodsPerMonth converts one month of burn into the structural-buffer
// multiplier for each granularity.
func periodsPerMonth(g model.Granularity) int64 {
	switch g {
	case model.GranularityDaily:
		return 30
	case model.GranularityWeekly:
		return 4
	default:
		return 1
	}
}

// CalculateSurvival breaks down the capital the business needs to get
// through the horizon: the deficit against the safety threshold plus a
// structural buffer of one month of average burn, and how much of the
// deficit the credit line could bridge.
func CalculateSurvival(cfg model.Config, kpis model.SurvivalKPIs) model.SurvivalCapital {
	deficit := decimal.Zero
	switch {
	case kpis.MinimumBalance.IsNegative():
		deficit = kpis.MinimumBalance.Abs()
	case kpis.MinimumBalance.LessThan(cfg.SafetyThreshold):
		deficit = cfg.SafetyThreshold.Sub(kpis.MinimumBalance)
	}

	buffer := kpis.AvgPeriodOutflow.Mul(decimal.NewFromInt(periodsPerMonth(cfg.Granularity)))

	sc := model.SurvivalCapital{
		Deficit:           deficit,
		StructuralBuffer:  buffer,
		CapitalNeeded:     deficit.Add(buffer),
		OwnCapitalAdvised: buffer,
		BridgeFinancing:   deficit,
		CreditAvailable:   decimal.Zero,
		CreditGap:         decimal.Zero,
	}

	if cfg.CreditLine != nil {
		available := cfg.CreditLine.TotalLimit.Sub(cfg.CreditLine.AlreadyUsed)
		if available.IsNegative() {
			available = decimal.Zero
		}
		sc.CreditAvailable = available
	}
	sc.CreditSufficient = !sc.CreditAvailable.LessThan(sc.BridgeFinancing)
	if !sc.CreditSufficient {
		sc.CreditGap = sc.BridgeFinancing.Sub(sc.CreditAvailable)
	}

	return sc
}
