package tui

import (
	"fmt"
	"strings"

	"github.com/DrSkyle/drifthound/pkg/drift"
)

func (m Model) viewList() string {
	s := strings.Builder{}

	if len(m.rows) == 0 {
		s.WriteString("\n   " + iconSafe.Render() + special.Render("  No unmanaged resources detected."))
		if len(m.failed) > 0 {
			s.WriteString("\n\n" + m.viewFailed())
		}
		return s.String()
	}

	start, end := m.calculateWindow(len(m.rows))

	headerTxt := fmt.Sprintf("  %-12s | %-28s | %s", "CHECK", "SCOPE", "RESOURCE")
	s.WriteString(dimStyle.Render(headerTxt) + "\n")
	s.WriteString(dimStyle.Render("  "+strings.Repeat("─", 72)) + "\n")

	for i := start; i < end; i++ {
		r := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		scope := r.finding.Scope
		if len(scope) > 28 {
			scope = scope[:25] + "..."
		}

		baseLine := fmt.Sprintf("%-12s | %-28s | %s", r.finding.Check, scope, r.label)
		switch severityFor(r.finding) {
		case sevCritical:
			baseLine = danger.Render(baseLine)
		case sevWarn:
			baseLine = warning.Render(baseLine)
		}

		line := cursor + baseLine
		if i == m.cursor {
			s.WriteString(listSelectedStyle.Render(line) + "\n")
		} else {
			s.WriteString(listNormalStyle.Render(line) + "\n")
		}
	}

	if end < len(m.rows) {
		s.WriteString(dimStyle.Render(fmt.Sprintf("   ... %d more", len(m.rows)-end)) + "\n")
	}

	if len(m.failed) > 0 {
		s.WriteString("\n" + m.viewFailed())
	}
	return s.String()
}

func (m Model) viewFailed() string {
	s := strings.Builder{}
	s.WriteString("   " + iconWarn.Render() + warning.Render("  Partial result. Checks that did not complete:") + "\n")
	for _, ce := range m.failed {
		s.WriteString(dimStyle.Render(fmt.Sprintf("     %s: %s", ce.Check, ce.Error)) + "\n")
	}
	return s.String()
}

func (m Model) calculateWindow(total int) (int, int) {
	windowSize := m.height - 10 // HUD, header, failed block, footer
	if windowSize < 5 {
		windowSize = 5
	}

	start := m.cursor - (windowSize / 2)
	if start < 0 {
		start = 0
	}

	end := start + windowSize
	if end > total {
		end = total
		start = end - windowSize
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevCritical
)

// severityFor grades a finding by blast radius. Owner and admin grants
// outrank everything else; any IAM drift outranks inert records.
func severityFor(f drift.Finding) severity {
	role := strings.ToLower(f.Role)
	switch {
	case strings.Contains(role, "roles/owner"), strings.Contains(role, "admin"):
		return sevCritical
	case role != "":
		return sevWarn
	}
	return sevInfo
}
