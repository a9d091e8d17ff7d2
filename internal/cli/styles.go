// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/castellan/tesoro/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#5FAFD7")
	// SuccessColor indicates healthy metrics.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates caution.
	WarningColor = lipgloss.Color("#FFE66D")
	// DangerColor indicates critical conditions.
	DangerColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// LabelStyle formats metric labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// ValueStyle formats metric values.
	ValueStyle = lipgloss.NewStyle().
			Bold(true)

	// GoodStyle formats healthy values.
	GoodStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarnStyle formats cautionary values.
	WarnStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// DangerStyle formats critical values.
	DangerStyle = lipgloss.NewStyle().
			Foreground(DangerColor).
			Bold(true)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)
)

// SeverityStyle returns the style for an alert severity.
func SeverityStyle(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeverityHigh:
		return DangerStyle
	case model.SeverityMedium:
		return WarnStyle
	default:
		return SubtleStyle
	}
}

// RiskStyle returns the style for a risk tier.
func RiskStyle(t model.RiskTier) lipgloss.Style {
	switch t {
	case model.RiskHigh:
		return DangerStyle
	case model.RiskMedium:
		return WarnStyle
	default:
		return GoodStyle
	}
}
