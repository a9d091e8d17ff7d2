// Package export renders stored analysis payloads as plain text,
// Markdown, or CSV. Exporters read the payload as-is: nothing here
// recomputes a single figure.
package export

import (
	"fmt"
	"strings"

	"github.com/castellan/tesoro/internal/model"
)

// RenderText renders a payload as a plain-text report.
func RenderText(p *model.Payload) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Cash runway analysis (as of %s)\n", p.Config.AsOf.Format("2006-01-02"))
	fmt.Fprintf(&b, "Horizon: %d %s periods, starting balance %s\n\n",
		p.Config.Horizon, p.Config.Granularity, p.Config.StartingBalance)

	fmt.Fprintf(&b, "Risk tier:        %s\n", p.KPIs.RiskTier)
	fmt.Fprintf(&b, "Minimum balance:  %s (period %d, %s)\n",
		p.KPIs.MinimumBalance, p.KPIs.MinimumBalancePeriod, p.KPIs.MinimumBalanceDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Runway:           %d of %d periods\n", p.KPIs.RunwayPeriods, p.Config.Horizon)
	fmt.Fprintf(&b, "Ending balance:   %s\n", p.KPIs.EndingBalance)
	fmt.Fprintf(&b, "Confidence:       %s (%.1f months of history)\n\n",
		p.Quality.ConfidenceTier, p.Quality.CoverageMonths)

	if p.Bridge != nil {
		fmt.Fprintf(&b, "Credit bridge: peak usage %s over %d periods, est. interest %s\n",
			p.Bridge.PeakUsage, p.Bridge.PeriodsInUse, p.Bridge.EstimatedInterestCost)
		if p.Bridge.FundingGap != nil {
			fmt.Fprintf(&b, "Funding gap:   %s\n", p.Bridge.FundingGap)
		}
		b.WriteString("\n")
	}

	b.WriteString("Scenarios:\n")
	for i := range p.Scenarios {
		s := &p.Scenarios[i]
		fmt.Fprintf(&b, "  %-12s min balance %s, runway %d: %s\n",
			s.Name, s.KPIs.MinimumBalance, s.KPIs.RunwayPeriods, s.Description)
	}
	b.WriteString("\n")

	if len(p.Alerts) > 0 {
		b.WriteString("Alerts:\n")
		for i := range p.Alerts {
			a := &p.Alerts[i]
			fmt.Fprintf(&b, "  [%s] %s\n    %s\n    Evidence: %s\n    Action: %s\n",
				strings.ToUpper(string(a.Severity)), a.Title, a.Message, a.Evidence, a.RecommendedAction)
		}
	} else {
		b.WriteString("No alerts.\n")
	}

	if len(p.Warnings) > 0 {
		fmt.Fprintf(&b, "\n%d ingestion warnings:\n", len(p.Warnings))
		for _, w := range p.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	return b.String()
}
