package export

import (
	"fmt"
	"strings"

	"github.com/castellan/tesoro/internal/model"
)

// RenderMarkdown renders a payload as a structured Markdown document.
func RenderMarkdown(p *model.Payload) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Cash runway analysis (as of %s)\n\n", p.Config.AsOf.Format("2006-01-02"))

	b.WriteString("## Key metrics\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Risk tier | %s |\n", p.KPIs.RiskTier)
	fmt.Fprintf(&b, "| Minimum balance | %s (period %d) |\n", p.KPIs.MinimumBalance, p.KPIs.MinimumBalancePeriod)
	fmt.Fprintf(&b, "| Runway | %d / %d periods |\n", p.KPIs.RunwayPeriods, p.Config.Horizon)
	fmt.Fprintf(&b, "| Total inflows | %s |\n", p.KPIs.TotalInflows)
	fmt.Fprintf(&b, "| Total outflows | %s |\n", p.KPIs.TotalOutflows)
	fmt.Fprintf(&b, "| Ending balance | %s |\n", p.KPIs.EndingBalance)
	fmt.Fprintf(&b, "| Confidence | %s |\n", p.Quality.ConfidenceTier)
	fmt.Fprintf(&b, "| Coverage | %.1f months |\n\n", p.Quality.CoverageMonths)

	b.WriteString("## Projected balance\n\n")
	b.WriteString("| Period | Start | Inflows | Outflows | Net | Balance |\n|---|---|---|---|---|---|\n")
	for i := range p.Base {
		bk := &p.Base[i]
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			i, bk.PeriodStart.Format("2006-01-02"), bk.InflowTotal, bk.OutflowTotal, bk.Net, bk.BalanceEnd)
	}
	b.WriteString("\n")

	b.WriteString("## Scenarios\n\n")
	b.WriteString("| Scenario | Min balance | Runway | Basis |\n|---|---|---|---|\n")
	for i := range p.Scenarios {
		s := &p.Scenarios[i]
		basis := "pending invoices"
		if s.Limited {
			basis = "historical data only"
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", s.Name, s.KPIs.MinimumBalance, s.KPIs.RunwayPeriods, basis)
	}
	b.WriteString("\n")

	if p.Bridge != nil {
		b.WriteString("## Credit bridge\n\n")
		fmt.Fprintf(&b, "- Peak usage: %s (period %d)\n", p.Bridge.PeakUsage, p.Bridge.PeakUsagePeriod)
		fmt.Fprintf(&b, "- Periods in use: %d\n", p.Bridge.PeriodsInUse)
		fmt.Fprintf(&b, "- Estimated interest: %s\n", p.Bridge.EstimatedInterestCost)
		if p.Bridge.FundingGap != nil {
			fmt.Fprintf(&b, "- **Funding gap: %s**\n", p.Bridge.FundingGap)
		}
		b.WriteString("\n")
	}

	if len(p.Alerts) > 0 {
		b.WriteString("## Alerts\n\n")
		for i := range p.Alerts {
			a := &p.Alerts[i]
			fmt.Fprintf(&b, "### [%s] %s\n\n%s\n\n- Evidence: %s\n- Recommended action: %s\n\n",
				strings.ToUpper(string(a.Severity)), a.Title, a.Message, a.Evidence, a.RecommendedAction)
		}
	}

	return b.String()
}
