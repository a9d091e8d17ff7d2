package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/castellan/tesoro/internal/model"
)

// DefaultShortRunwayFraction flags a short runway when fewer than this
// fraction of the horizon's periods remain safe.
const DefaultShortRunwayFraction = 0.5

// AlertInputs gathers everything the rules may cite as evidence.
type AlertInputs struct {
	Config    model.Config
	Quality   model.QualityAssessment
	KPIs      model.SurvivalKPIs
	Survival  model.SurvivalCapital
	Bridge    *model.CreditBridgeResult
	Base      []model.PeriodBucket
	Scenarios []model.Scenario
}

// alertRule is one independent predicate/formatter pair. A rule returns
// nil when it has nothing to report; rules share no state, so new rules
// can be registered without altering existing outputs.
type alertRule func(in AlertInputs, cfg AlertEngineConfig) *model.Alert

// AlertEngineConfig tunes the threshold rules.
type AlertEngineConfig struct {
	// ShortRunwayFraction of the horizon below which runway is flagged.
	ShortRunwayFraction float64
}

// DefaultAlertEngineConfig returns the standard rule thresholds.
func DefaultAlertEngineConfig() AlertEngineConfig {
	return AlertEngineConfig{ShortRunwayFraction: DefaultShortRunwayFraction}
}

// rules run in registration order; ties within a severity keep this order.
var rules = []alertRule{
	negativeMinimumBalanceRule,
	creditInsufficientRule,
	creditDependencyRule,
	lowCoverageRule,
	safetyThresholdBreachRule,
	shortRunwayRule,
	paymentConcentrationRule,
	missingForecastDataRule,
}

// EvaluateAlerts runs every registered rule and returns the alerts
// ordered by descending severity, then by registration order.
func EvaluateAlerts(in AlertInputs, cfg AlertEngineConfig) []model.Alert {
	alerts := make([]model.Alert, 0, len(rules))
	for _, rule := range rules {
		if a := rule(in, cfg); a != nil {
			alerts = append(alerts, *a)
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Order() < alerts[j].Severity.Order()
	})

	high := 0
	for i := range alerts {
		if alerts[i].Severity == model.SeverityHigh {
			high++
		}
	}
	slog.Info("evaluated alerts", "total", len(alerts), "high", high)

	return alerts
}

func negativeMinimumBalanceRule(in AlertInputs, _ AlertEngineConfig) *model.Alert {
	if !in.KPIs.MinimumBalance.IsNegative() {
		return nil
	}
	return &model.Alert{
		Code:     "negative-minimum-balance",
		Severity: model.SeverityHigh,
		Title:    "Projected negative balance",
		Message: fmt.Sprintf("The balance is projected to fall below zero, reaching %s around %s.",
			in.KPIs.MinimumBalance, in.KPIs.MinimumBalanceDate.Format("2006-01-02")),
		Evidence: fmt.Sprintf("minimum_balance = %s in period %d (%s)",
			in.KPIs.MinimumBalance, in.KPIs.MinimumBalancePeriod, in.KPIs.MinimumBalanceDate.Format("2006-01-02")),
		RecommendedAction: "Secure financing now or defer large payments",
	}
}

func creditInsufficientRule(in AlertInputs, _ AlertEngineConfig) *model.Alert {
	if in.Bridge == nil || in.Bridge.FundingGap == nil {
		return nil
	}
	return &model.Alert{
		Code:     "credit-insufficient",
		Severity: model.SeverityHigh,
		Title:    "Credit line cannot cover the shortfall",
		Message: fmt.Sprintf("Even drawing the full credit line leaves a funding gap of %s.",
			in.Bridge.FundingGap),
		Evidence: fmt.Sprintf("funding_gap = %s, peak_usage = %s in period %d",
			in.Bridge.FundingGap, in.Bridge.PeakUsage, in.Bridge.PeakUsagePeriod),
		RecommendedAction: "Seek additional capital: investors, a loan, or renegotiated payment terms",
	}
}

func creditDependencyRule(in AlertInputs, _ AlertEngineConfig) *model.Alert {
	line := in.Config.CreditLine
	if line == nil || !line.TotalLimit.IsPositive() {
		return nil
	}
	pct := in.Survival.BridgeFinancing.
		Div(line.TotalLimit).
		Mul(decimal.NewFromInt(100)).Round(1)

	switch {
	case pct.GreaterThan(decimal.NewFromInt(80)):
		return &model.Alert{
			Code:     "credit-dependency",
			Severity: model.SeverityHigh,
			Title:    "Critical dependency on the credit line",
			Message:  fmt.Sprintf("Covering the projected deficit would consume %s%% of the credit line.", pct),
			Evidence: fmt.Sprintf("bridge_financing = %s, credit_available = %s",
				in.Survival.BridgeFinancing, in.Survival.CreditAvailable),
			RecommendedAction: "Diversify funding sources to reduce single-line dependency",
		}
	case pct.GreaterThan(decimal.NewFromInt(50)):
		return &model.Alert{
			Code:     "credit-dependency",
			Severity: model.SeverityMedium,
			Title:    "Significant credit-line usage expected",
			Message:  fmt.Sprintf("Around %s%% of the credit line would be used.", pct),
			Evidence: fmt.Sprintf("bridge_financing = %s of total_limit = %s",
				in.Survival.BridgeFinancing, line.TotalLimit),
			RecommendedAction: "Monitor usage and prepare a fallback if the line proves insufficient",
		}
	default:
		return nil
	}
}

func lowCoverageRule(in AlertInputs, _ AlertEngineConfig) *model.Alert {
	if in.Quality.CoverageMonths >= 3 {
		return nil
	}
	return &model.Alert{
		Code:     "low-coverage",
		Severity: model.SeverityMedium,
		Title:    "Limited data coverage",
		Message: fmt.Sprintf("Only %.1f months of bank history; patterns inferred from it are unreliable.",
			in.Quality.CoverageMonths),
		Evidence:          fmt.Sprintf("coverage_months = %.1f (recommended: 6+)", in.Quality.CoverageMonths),
		RecommendedAction: "Upload bank statements covering more months to improve accuracy",
	}
}

func safetyThresholdBreachRule(in AlertInputs, _ AlertEngineConfig) *model.Alert {
	if in.KPIs.MinimumBalance.IsNegative() ||
		!in.KPIs.MinimumBalance.LessThan(in.Config.SafetyThreshold) {
		return nil
	}
	return &model.Alert{
		Code:     "safety-threshold-breach",
		Severity: model.SeverityMedium,
		Title:    "Balance dips below the safety threshold",
		Message: fmt.Sprintf("The balance is projected to fall to %s, below the safety threshold of %s.",
			in.KPIs.MinimumBalance, in.Config.SafetyThreshold),
		Evidence: fmt.Sprintf("minimum_balance = %s, safety_threshold = %s",
			in.KPIs.MinimumBalance, in.Config.SafetyThreshold),
		RecommendedAction: "Review non-critical spending and prioritize collections",
	}
}

func shortRunwayRule(in AlertInputs, cfg AlertEngineConfig) *model.Alert {
	limit := int(float64(in.Config.Horizon) * cfg.ShortRunwayFraction)
	if in.KPIs.RunwayPeriods >= limit {
		return nil
	}
	return &model.Alert{
		Code:     "short-runway",
		Severity: model.SeverityMedium,
		Title:    "Short runway",
		Message: fmt.Sprintf("Only %d of %d projected periods before the balance breaches the safety threshold.",
			in.KPIs.RunwayPeriods, in.Config.Horizon),
		Evidence: fmt.Sprintf("runway_periods = %d, horizon = %d",
			in.KPIs.RunwayPeriods, in.Config.Horizon),
		RecommendedAction: "Accelerate pending collections and cut non-essential spending",
	}
}

func paymentConcentrationRule(in AlertInputs, _ AlertEngineConfig) *model.Alert {
	if len(in.Base) == 0 {
		return nil
	}
	maxOutflow := in.Base[0].OutflowTotal
	maxPeriod := 0
	total := decimal.Zero
	for i := range in.Base {
		total = total.Add(in.Base[i].OutflowTotal)
		if in.Base[i].OutflowTotal.GreaterThan(maxOutflow) {
			maxOutflow = in.Base[i].OutflowTotal
			maxPeriod = i
		}
	}
	avg := total.Div(decimal.NewFromInt(int64(len(in.Base)))).Round(2)
	if !maxOutflow.GreaterThan(avg.Mul(decimal.NewFromInt(2))) {
		return nil
	}
	return &model.Alert{
		Code:     "payment-concentration",
		Severity: model.SeverityMedium,
		Title:    "Payments concentrated in one period",
		Message: fmt.Sprintf("Outflows peak at %s in the period starting %s, more than double the average of %s.",
			maxOutflow, in.Base[maxPeriod].PeriodStart.Format("2006-01-02"), avg),
		Evidence: fmt.Sprintf("max_outflow = %s in period %d, avg_outflow = %s",
			maxOutflow, maxPeriod, avg),
		RecommendedAction: "Negotiate staggering of large payments or line up temporary liquidity",
	}
}

func missingForecastDataRule(in AlertInputs, _ AlertEngineConfig) *model.Alert {
	if in.Quality.HasForecastData {
		return nil
	}
	return &model.Alert{
		Code:     "missing-forecast-data",
		Severity: model.SeverityLow,
		Title:    "No pending invoices",
		Message:  "Conservative and optimistic scenarios are limited: no known future collections or payments.",
		Evidence: fmt.Sprintf("has_forecast_data = false (sales rows: %d, purchase rows: %d)",
			in.Quality.SalesRows, in.Quality.PurchaseRows),
		RecommendedAction: "Upload issued and received invoice files to improve forward scenarios",
	}
}
