package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/DrSkyle/drifthound/pkg/version"
)

func (m Model) viewHUD() string {
	segTitle := highlight.Render(fmt.Sprintf("DRIFTHOUND v%s", version.Current))

	driftLabel := hudLabelStyle.Render("DRIFT:")
	driftValue := hudValueStyle.Render("0")
	if len(m.rows) > 0 {
		driftValue = danger.Render(fmt.Sprintf("%d", len(m.rows)))
	}

	coverage := special.Render("FULL")
	if len(m.failed) > 0 {
		coverage = danger.Render(fmt.Sprintf("%d CHECK(S) FAILED", len(m.failed)))
	}

	runSeg := dimStyle.Render(fmt.Sprintf("run %s • %ds", shortID(m.runner.RunID()), int(m.elapsed.Seconds())))

	left := lipgloss.JoinHorizontal(lipgloss.Center, segTitle, "  ", runSeg)
	right := lipgloss.JoinHorizontal(lipgloss.Center,
		driftLabel, driftValue,
		"  |  ",
		hudLabelStyle.Render("COVERAGE:"), coverage,
	)

	width := m.width - 4
	if width < 0 {
		width = 0
	}
	spacer := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacer < 2 {
		spacer = 2
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		left,
		lipgloss.NewStyle().Width(spacer).Render(""),
		right,
	)

	if m.width > 4 {
		return hudStyle.Width(m.width - 2).Render(content)
	}
	return hudStyle.Render(content)
}

// shortID trims a UUID to its first group for display.
func shortID(id string) string {
	for i := 0; i < len(id); i++ {
		if id[i] == '-' {
			return id[:i]
		}
	}
	return id
}
