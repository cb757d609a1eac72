package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorNeonGreen  = lipgloss.Color("#00FF99") // Success / Clean
	colorNeonPurple = lipgloss.Color("#874BFD") // Header / Border
	colorTextMain   = lipgloss.Color("#E2E8F0") // Main Text
	colorTextSub    = lipgloss.Color("#64748B") // Subtext
	colorDanger     = lipgloss.Color("#FF0055") // Privileged drift
	colorWarning    = lipgloss.Color("#F59E0B") // Ordinary drift

	subtle    = lipgloss.NewStyle().Foreground(colorTextSub)
	dimStyle  = lipgloss.NewStyle().Foreground(colorTextSub)
	highlight = lipgloss.NewStyle().Foreground(colorNeonPurple).Bold(true)
	special   = lipgloss.NewStyle().Foreground(colorNeonGreen).Bold(true)
	danger    = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	warning   = lipgloss.NewStyle().Foreground(colorWarning)

	// HUD Styles
	hudStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorNeonPurple).
			Padding(0, 1).
			Foreground(colorTextMain)

	hudLabelStyle = lipgloss.NewStyle().
			Foreground(colorTextSub).
			Bold(true).
			MarginRight(1)

	hudValueStyle = lipgloss.NewStyle().
			Foreground(colorNeonGreen).
			Bold(true)

	// List Styles
	listSelectedStyle = lipgloss.NewStyle().
				Foreground(colorTextMain).
				Background(lipgloss.Color("#331832")).
				Bold(true)

	listNormalStyle = lipgloss.NewStyle().
			Foreground(colorTextSub)

	// Icon Styles (Text Based - No Emojis)
	iconCritical = lipgloss.NewStyle().Foreground(colorDanger).SetString("[CRITICAL]")
	iconWarn     = lipgloss.NewStyle().Foreground(colorWarning).SetString("[WARN]")
	iconSafe     = lipgloss.NewStyle().Foreground(colorNeonGreen).SetString("[SAFE]")
	iconInfo     = lipgloss.NewStyle().Foreground(colorNeonPurple).SetString("[INFO]")

	// Details Pane
	detailsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorNeonGreen).
			Padding(1, 2).
			MarginTop(1)

	detailsHeaderStyle = lipgloss.NewStyle().
				Foreground(colorNeonPurple).
				Bold(true).
				Underline(true).
				MarginBottom(1)
)
