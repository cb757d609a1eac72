package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DrSkyle/drifthound/pkg/drift"
)

func (m Model) viewDetails() string {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return "No finding selected"
	}
	f := m.rows[m.cursor].finding

	header := detailsHeaderStyle.Render(fmt.Sprintf("%s : %s", f.Check, m.rows[m.cursor].label))

	sevLine := "SEVERITY:  info"
	sevStyle := dimStyle
	switch severityFor(f) {
	case sevCritical:
		sevLine = "SEVERITY:  CRITICAL"
		sevStyle = danger
	case sevWarn:
		sevLine = "SEVERITY:  warning"
		sevStyle = warning
	}

	var props []string
	add := func(label, val string) {
		if val != "" {
			props = append(props, fmt.Sprintf("%-14s : %s", label, val))
		}
	}

	add("Scope", f.Scope)
	switch f.Kind {
	case drift.KindOrgIAMMember, drift.KindFolderIAMMember:
		add("Member", f.Member)
		add("Role", f.Role)
	case drift.KindFolder:
		add("Display name", f.DisplayName)
		add("Folder", f.Name)
	case drift.KindDNSRecordSet:
		add("Project", f.Project)
		add("Managed zone", f.Zone)
		add("Record", f.Name)
		add("Type", f.RecordType)
	}

	hint := iconInfo.Render() + subtle.Render("  Not declared in terraform. Re-run with --adopt-dir to generate import stanzas.")
	if f.Warned {
		hint = iconWarn.Render() + warning.Render("  Flagged by a warn rule in the policy file.")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		sevStyle.Render(sevLine),
		"",
		dimStyle.Render(strings.Join(props, "\n")),
		"",
		hint,
	)

	return detailsBoxStyle.Render(content)
}
