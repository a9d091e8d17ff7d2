package engine

import (
	"log/slog"

	"github.com/castellan/tesoro/internal/ingest"
	"github.com/castellan/tesoro/internal/model"
)

// daysPerMonth is the average Gregorian month length used to express the
// historical coverage span in months.
const daysPerMonth = 30.44

// AssessQuality derives the coverage score and confidence tier from the
// normalized event set and row statistics. It is recomputed per analysis
// and never cached across inputs.
func AssessQuality(res *ingest.Result) model.QualityAssessment {
	qa := model.QualityAssessment{
		SalesRows:    res.SalesRows,
		PurchaseRows: res.PurchaseRows,
		WarningCount: len(res.Warnings),
	}

	var earliest, latest *model.CashEvent
	for i := range res.Events {
		ev := &res.Events[i]
		if ev.IsForecast || ev.Source != model.SourceBank {
			continue
		}
		qa.BankEvents++
		if earliest == nil || ev.Date.Before(earliest.Date) {
			earliest = ev
		}
		if latest == nil || ev.Date.After(latest.Date) {
			latest = ev
		}
	}
	if earliest != nil && latest != nil {
		span := latest.Date.Sub(earliest.Date).Hours() / 24
		qa.CoverageMonths = span / daysPerMonth
	}

	for i := range res.Events {
		if res.Events[i].IsForecast {
			qa.HasForecastData = true
			break
		}
	}

	if res.TotalRows > 0 {
		qa.ParseFailureRate = float64(res.SkippedRows) / float64(res.TotalRows)
	}

	qa.ConfidenceTier = confidenceTier(qa)

	slog.Info("assessed data quality",
		"coverage_months", qa.CoverageMonths,
		"parse_failure_rate", qa.ParseFailureRate,
		"has_forecast_data", qa.HasForecastData,
		"tier", qa.ConfidenceTier)

	return qa
}

// confidenceTier applies the tier thresholds. The LOW conditions are
// checked first so boundary cases resolve toward the lower tier.
func confidenceTier(qa model.QualityAssessment) model.ConfidenceTier {
	if qa.CoverageMonths < 3 {
		return model.TierLow
	}
	if !qa.HasForecastData && qa.ParseFailureRate >= 0.3 {
		return model.TierLow
	}
	bothDirections := qa.SalesRows > 0 && qa.PurchaseRows > 0
	if qa.CoverageMonths >= 6 && bothDirections && qa.ParseFailureRate < 0.1 {
		return model.TierHigh
	}
	return model.TierMedium
}
