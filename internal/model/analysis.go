package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ConfidenceTier grades how much the projection can be trusted given the
// quality of the underlying data.
type ConfidenceTier string

const (
	// TierLow indicates thin or unreliable source data.
	TierLow ConfidenceTier = "LOW"
	// TierMedium indicates usable data with known gaps.
	TierMedium ConfidenceTier = "MEDIUM"
	// TierHigh indicates broad history plus forward-looking invoices.
	TierHigh ConfidenceTier = "HIGH"
)

// RiskTier grades the projected liquidity risk.
type RiskTier string

const (
	// RiskLow means the projected balance stays above the safety threshold.
	RiskLow RiskTier = "LOW"
	// RiskMedium means the balance dips below the threshold but stays positive.
	RiskMedium RiskTier = "MEDIUM"
	// RiskHigh means the projected balance goes negative.
	RiskHigh RiskTier = "HIGH"
)

// Severity ranks an alert.
type Severity string

const (
	// SeverityHigh requires immediate attention.
	SeverityHigh Severity = "high"
	// SeverityMedium should be addressed soon.
	SeverityMedium Severity = "medium"
	// SeverityLow is informational.
	SeverityLow Severity = "low"
)

// Order returns the numeric priority of a severity (lower is more severe).
func (s Severity) Order() int {
	switch s {
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// RowWarning records a row-level ingestion problem. Row warnings never
// stop the pipeline; they are collected and surfaced with the result.
type RowWarning struct {
	Source EventSource `json:"source"`
	Row    int         `json:"row"`
	Reason string      `json:"reason"`
}

func (w RowWarning) String() string {
	return fmt.Sprintf("%s row %d: %s", w.Source, w.Row, w.Reason)
}

// QualityAssessment summarizes coverage and reliability of the input data.
// It is derived purely from the event set and row statistics of one run.
type QualityAssessment struct {
	CoverageMonths   float64        `json:"coverage_months"`
	HasForecastData  bool           `json:"has_forecast_data"`
	ParseFailureRate float64        `json:"parse_failure_rate"`
	ConfidenceTier   ConfidenceTier `json:"confidence_tier"`
	BankEvents       int            `json:"bank_events"`
	SalesRows        int            `json:"sales_rows"`
	PurchaseRows     int            `json:"purchase_rows"`
	WarningCount     int            `json:"warning_count"`
}

// SurvivalKPIs are the headline metrics derived from the base projection.
type SurvivalKPIs struct {
	MinimumBalance       decimal.Decimal `json:"minimum_balance"`
	MinimumBalancePeriod int             `json:"minimum_balance_period"`
	MinimumBalanceDate   time.Time       `json:"minimum_balance_date"`
	RunwayPeriods        int             `json:"runway_periods"`
	RiskTier             RiskTier        `json:"risk_tier"`

	TotalInflows       decimal.Decimal `json:"total_inflows"`
	TotalOutflows      decimal.Decimal `json:"total_outflows"`
	NetPosition        decimal.Decimal `json:"net_position"`
	EndingBalance      decimal.Decimal `json:"ending_balance"`
	AvgPeriodOutflow   decimal.Decimal `json:"avg_period_outflow"`
	PeriodsBelowSafety int             `json:"periods_below_safety"`
}

// SurvivalCapital breaks down how much capital the business needs to
// survive the horizon and how much of it a credit line could cover.
type SurvivalCapital struct {
	Deficit           decimal.Decimal `json:"deficit"`
	StructuralBuffer  decimal.Decimal `json:"structural_buffer"`
	CapitalNeeded     decimal.Decimal `json:"capital_needed"`
	OwnCapitalAdvised decimal.Decimal `json:"own_capital_advised"`
	BridgeFinancing   decimal.Decimal `json:"bridge_financing"`
	CreditAvailable   decimal.Decimal `json:"credit_available"`
	CreditSufficient  bool            `json:"credit_sufficient"`
	CreditGap         decimal.Decimal `json:"credit_gap"`
}

// CreditBridgeResult is the outcome of simulating credit-line draws
// against the projected series. The series itself is never modified.
type CreditBridgeResult struct {
	PeakUsage             decimal.Decimal `json:"peak_usage"`
	PeakUsagePeriod       int             `json:"peak_usage_period"`
	PeriodsInUse          int             `json:"periods_in_use"`
	EstimatedInterestCost decimal.Decimal `json:"estimated_interest_cost"`
	// FundingGap is the worst shortfall the line cannot cover; nil when
	// the line is always sufficient.
	FundingGap *decimal.Decimal `json:"funding_gap,omitempty"`
}

// ScenarioName identifies one of the three generated scenarios.
type ScenarioName string

const (
	// ScenarioBase is the unmodified projection.
	ScenarioBase ScenarioName = "base"
	// ScenarioConservative delays forecast collections by 15 days.
	ScenarioConservative ScenarioName = "conservative"
	// ScenarioOptimistic accelerates forecast collections by 7 days.
	ScenarioOptimistic ScenarioName = "optimistic"
)

// Scenario is one comparative projection run.
type Scenario struct {
	Name        ScenarioName `json:"name"`
	Description string       `json:"description"`
	ShiftDays   int          `json:"shift_days"`
	// Limited is true when the scenario depends on forecast events and
	// none exist; the buckets then fall back to the historical-only base.
	Limited bool           `json:"limited"`
	Buckets []PeriodBucket `json:"buckets"`
	KPIs    SurvivalKPIs   `json:"kpis"`
}

// Alert is one evidence-backed warning produced by the alert engine.
type Alert struct {
	Code              string   `json:"code"`
	Severity          Severity `json:"severity"`
	Title             string   `json:"title"`
	Message           string   `json:"message"`
	Evidence          string   `json:"evidence"`
	RecommendedAction string   `json:"recommended_action"`
}

// Validate ensures an alert always carries citable evidence.
func (a *Alert) Validate() error {
	if a.Code == "" {
		return fmt.Errorf("alert code is required")
	}
	switch a.Severity {
	case SeverityHigh, SeverityMedium, SeverityLow:
	default:
		return fmt.Errorf("unknown alert severity %q", a.Severity)
	}
	if a.Title == "" {
		return fmt.Errorf("alert title is required")
	}
	if a.Evidence == "" {
		return fmt.Errorf("alert %s must cite evidence", a.Code)
	}
	return nil
}

// Payload is the engine's sole output: the complete, immutable result of
// one analysis run. Downstream consumers (exports, CLI rendering,
// interpretive text) read it without recomputation.
type Payload struct {
	Config   Config            `json:"config"`
	Events   []CashEvent       `json:"events"`
	Warnings []RowWarning      `json:"warnings"`
	Base     []PeriodBucket    `json:"base"`
	KPIs     SurvivalKPIs      `json:"kpis"`
	Quality  QualityAssessment `json:"quality"`
	Survival SurvivalCapital   `json:"survival"`
	// Bridge is nil when no credit line was configured.
	Bridge    *CreditBridgeResult `json:"bridge,omitempty"`
	Scenarios []Scenario          `json:"scenarios"`
	Alerts    []Alert             `json:"alerts"`
}

// ScenarioByName returns the named scenario, or nil if absent.
func (p *Payload) ScenarioByName(name ScenarioName) *Scenario {
	for i := range p.Scenarios {
		if p.Scenarios[i].Name == name {
			return &p.Scenarios[i]
		}
	}
	return nil
}
