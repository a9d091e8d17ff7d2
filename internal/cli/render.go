package cli

import (
	"fmt"
	"strings"

	"github.com/castellan/tesoro/internal/model"
	"github.com/castellan/tesoro/internal/storage"
)

// RenderPayload renders a full analysis for the terminal.
func RenderPayload(p *model.Payload) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("Cash runway analysis (as of %s)", p.Config.AsOf.Format("2006-01-02"))))
	b.WriteString("\n\n")

	b.WriteString(renderHeadline(p))
	b.WriteString(renderBuckets(p.Base))
	if p.Bridge != nil {
		b.WriteString(renderBridge(p.Bridge))
	}
	b.WriteString(renderSurvival(&p.Survival))
	b.WriteString(renderScenarios(p.Scenarios))
	b.WriteString(renderAlerts(p.Alerts))
	b.WriteString(renderWarnings(p.Warnings))

	return b.String()
}

// RenderSnapshot renders a reopened snapshot with its persistence header.
func RenderSnapshot(snap *storage.Snapshot) string {
	var b strings.Builder

	b.WriteString(SubtleStyle.Render(fmt.Sprintf("Snapshot %s (created %s, revision %d)",
		snap.ID, snap.CreatedAt.Format("2006-01-02 15:04:05"), snap.Revision)))
	b.WriteString("\n\n")
	b.WriteString(RenderPayload(&snap.Payload))

	if snap.Report != "" {
		b.WriteString("\n")
		b.WriteString(TitleStyle.Render("Report"))
		b.WriteString("\n")
		b.WriteString(snap.Report)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHistory renders snapshot summaries as a table, newest first.
func RenderHistory(summaries []storage.SnapshotSummary) string {
	if len(summaries) == 0 {
		return SubtleStyle.Render("No snapshots found.") + "\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Analysis history"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%-28s %-20s %-8s %-10s %-14s %-8s %s\n",
		"ID", "Created", "Risk", "Confidence", "Min balance", "Runway", "Alerts")

	for i := range summaries {
		s := &summaries[i]
		risk := RiskStyle(model.RiskTier(s.RiskTier)).Render(fmt.Sprintf("%-8s", s.RiskTier))
		fmt.Fprintf(&b, "%-28s %-20s %s %-10s %-14s %-8d %d\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), risk,
			s.ConfidenceTier, s.MinimumBalance, s.RunwayPeriods, s.AlertCount)
	}

	return b.String()
}

func renderHeadline(p *model.Payload) string {
	var b strings.Builder

	risk := RiskStyle(p.KPIs.RiskTier).Render(string(p.KPIs.RiskTier))
	fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render("Risk tier:       "), risk)
	fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render("Minimum balance: "),
		ValueStyle.Render(fmt.Sprintf("%s (period %d, %s)",
			p.KPIs.MinimumBalance, p.KPIs.MinimumBalancePeriod,
			p.KPIs.MinimumBalanceDate.Format("2006-01-02"))))
	fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render("Runway:          "),
		ValueStyle.Render(fmt.Sprintf("%d of %d periods", p.KPIs.RunwayPeriods, p.Config.Horizon)))
	fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render("Ending balance:  "),
		ValueStyle.Render(p.KPIs.EndingBalance.String()))
	fmt.Fprintf(&b, "%s %s\n\n", LabelStyle.Render("Confidence:      "),
		fmt.Sprintf("%s (%.1f months of history, %d warnings)",
			p.Quality.ConfidenceTier, p.Quality.CoverageMonths, p.Quality.WarningCount))

	return b.String()
}

func renderBuckets(buckets []model.PeriodBucket) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Projected balance"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-4s %-12s %12s %12s %12s %14s\n",
		"#", "Start", "Inflows", "Outflows", "Net", "Balance")

	for i := range buckets {
		bk := &buckets[i]
		balance := bk.BalanceEnd.String()
		if bk.BalanceEnd.IsNegative() {
			balance = DangerStyle.Render(balance)
		}
		fmt.Fprintf(&b, "%-4d %-12s %12s %12s %12s %14s\n",
			i, bk.PeriodStart.Format("2006-01-02"),
			bk.InflowTotal, bk.OutflowTotal, bk.Net, balance)
	}
	b.WriteString("\n")

	return b.String()
}

func renderBridge(br *model.CreditBridgeResult) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Credit bridge"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Peak usage %s (period %d), %d periods in use, est. interest %s\n",
		br.PeakUsage, br.PeakUsagePeriod, br.PeriodsInUse, br.EstimatedInterestCost)
	if br.FundingGap != nil {
		fmt.Fprintf(&b, "%s\n", DangerStyle.Render(fmt.Sprintf("Funding gap: %s", br.FundingGap)))
	}
	b.WriteString("\n")

	return b.String()
}

func renderSurvival(sc *model.SurvivalCapital) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Survival capital"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Capital needed %s (deficit %s + buffer %s)\n",
		sc.CapitalNeeded, sc.Deficit, sc.StructuralBuffer)
	fmt.Fprintf(&b, "Own capital advised %s, bridge financing %s\n",
		sc.OwnCapitalAdvised, sc.BridgeFinancing)
	if sc.CreditAvailable.IsPositive() {
		if sc.CreditSufficient {
			fmt.Fprintf(&b, "%s\n", GoodStyle.Render(
				fmt.Sprintf("Credit line of %s covers the bridge financing", sc.CreditAvailable)))
		} else {
			fmt.Fprintf(&b, "%s\n", WarnStyle.Render(
				fmt.Sprintf("Credit line of %s falls short by %s", sc.CreditAvailable, sc.CreditGap)))
		}
	}
	b.WriteString("\n")

	return b.String()
}

func renderScenarios(scenarios []model.Scenario) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Scenarios"))
	b.WriteString("\n")
	for i := range scenarios {
		s := &scenarios[i]
		fmt.Fprintf(&b, "%-14s min balance %s, runway %d\n    %s\n",
			s.Name, RiskStyle(s.KPIs.RiskTier).Render(s.KPIs.MinimumBalance.String()),
			s.KPIs.RunwayPeriods, SubtleStyle.Render(s.Description))
	}
	b.WriteString("\n")

	return b.String()
}

func renderAlerts(alerts []model.Alert) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Alerts"))
	b.WriteString("\n")
	if len(alerts) == 0 {
		b.WriteString(GoodStyle.Render("No alerts."))
		b.WriteString("\n")
		return b.String()
	}

	for i := range alerts {
		a := &alerts[i]
		badge := SeverityStyle(a.Severity).Render(fmt.Sprintf("[%s]", strings.ToUpper(string(a.Severity))))
		fmt.Fprintf(&b, "%s %s\n    %s\n    %s\n    %s\n",
			badge, ValueStyle.Render(a.Title), a.Message,
			SubtleStyle.Render("Evidence: "+a.Evidence),
			SubtleStyle.Render("Action: "+a.RecommendedAction))
	}

	return b.String()
}

func renderWarnings(warnings []model.RowWarning) string {
	if len(warnings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(WarnStyle.Render(fmt.Sprintf("%d rows produced warnings:", len(warnings))))
	b.WriteString("\n")
	for _, w := range warnings {
		fmt.Fprintf(&b, "  - %s\n", SubtleStyle.Render(w.String()))
	}

	return b.String()
}
