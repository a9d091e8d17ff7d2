package engine

import (
	"log/slog"

	"github.com/castellan/tesoro/internal/common"
	"github.com/castellan/tesoro/internal/ingest"
	"github.com/castellan/tesoro/internal/model"
)

// Engine runs the full analysis pipeline. Every stage is a pure,
// blocking transformation over immutable inputs, executed in dependency
// order; independent analyses share no mutable state and can run
// concurrently.
type Engine struct {
	normalizer *ingest.Normalizer
	alertCfg   AlertEngineConfig
}

// Option configures an Engine.
type Option func(*Engine)

// WithAlertConfig overrides the default alert thresholds.
func WithAlertConfig(cfg AlertEngineConfig) Option {
	return func(e *Engine) { e.alertCfg = cfg }
}

// New creates an analysis engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		normalizer: ingest.NewNormalizer(),
		alertCfg:   DefaultAlertEngineConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze executes the pipeline: normalize -> project -> assess quality
// -> KPIs -> credit bridge -> scenarios -> alerts. The returned payload
// is the engine's sole output; downstream consumers read it without
// recomputation and must never alter it.
//
// Fatal conditions (invalid configuration, zero usable bank rows)
// propagate immediately with no partial payload; row-level problems
// surface as warnings inside the payload.
func (e *Engine) Analyze(cfg model.Config, in ingest.Inputs) (*model.Payload, error) {
	if err := cfg.Validate(); err != nil {
		return nil, common.NewConfigurationError("analysis", err.Error())
	}

	norm, err := e.normalizer.Build(cfg, in)
	if err != nil {
		return nil, err
	}

	base := Project(cfg, norm.Events)
	quality := AssessQuality(norm)
	kpis := CalculateKPIs(cfg, base)
	survival := CalculateSurvival(cfg, kpis)
	bridge := SimulateCreditBridge(cfg, base)
	scenarios := GenerateScenarios(cfg, norm.Events)

	alerts := EvaluateAlerts(AlertInputs{
		Config:    cfg,
		Quality:   quality,
		KPIs:      kpis,
		Survival:  survival,
		Bridge:    bridge,
		Base:      base,
		Scenarios: scenarios,
	}, e.alertCfg)

	payload := &model.Payload{
		Config:    cfg,
		Events:    norm.Events,
		Warnings:  norm.Warnings,
		Base:      base,
		KPIs:      kpis,
		Quality:   quality,
		Survival:  survival,
		Bridge:    bridge,
		Scenarios: scenarios,
		Alerts:    alerts,
	}

	slog.Info("analysis complete",
		"events", len(payload.Events),
		"periods", len(payload.Base),
		"risk_tier", kpis.RiskTier,
		"confidence_tier", quality.ConfidenceTier,
		"alerts", len(payload.Alerts))

	return payload, nil
}
