package engine

import (
	"log/slog"

	"github.com/castellan/tesoro/internal/model"
)

// Shift offsets applied to forecast inflows, in days.
const (
	conservativeShiftDays = 15
	optimisticShiftDays   = -7
)

// GenerateScenarios re-runs the projector under shifted assumptions and
// returns the base, conservative and optimistic series. When no forecast
// events exist the shifted scenarios degrade to the historical-only base
// projection and are tagged limited; they never silently pretend to have
// forward-looking data.
func GenerateScenarios(cfg model.Config, events []model.CashEvent) []model.Scenario {
	hasForecast := false
	for i := range events {
		if events[i].IsForecast {
			hasForecast = true
			break
		}
	}

	base := Project(cfg, events)
	scenarios := []model.Scenario{
		{
			Name:        model.ScenarioBase,
			Description: "Projection with current data",
			ShiftDays:   0,
			Limited:     false,
			Buckets:     base,
			KPIs:        CalculateKPIs(cfg, base),
		},
		buildShifted(cfg, events, model.ScenarioConservative, conservativeShiftDays, hasForecast,
			"Collections delayed 15 days (based on pending invoices)"),
		buildShifted(cfg, events, model.ScenarioOptimistic, optimisticShiftDays, hasForecast,
			"Collections accelerated 7 days (based on pending invoices)"),
	}

	slog.Info("generated scenarios", "count", len(scenarios), "limited", !hasForecast)
	return scenarios
}

// buildShifted projects one shifted scenario. The shift applies to
// forecast inflows only; outflow dates never move.
func buildShifted(cfg model.Config, events []model.CashEvent, name model.ScenarioName, days int, hasForecast bool, description string) model.Scenario {
	if !hasForecast {
		buckets := Project(cfg, events)
		return model.Scenario{
			Name:        name,
			Description: "Based on historical data only (no pending invoices)",
			ShiftDays:   days,
			Limited:     true,
			Buckets:     buckets,
			KPIs:        CalculateKPIs(cfg, buckets),
		}
	}

	shifted := ShiftForecastInflows(events, days)
	buckets := Project(cfg, shifted)
	return model.Scenario{
		Name:        name,
		Description: description,
		ShiftDays:   days,
		Limited:     false,
		Buckets:     buckets,
		KPIs:        CalculateKPIs(cfg, buckets),
	}
}
