package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}

		case "enter", " ":
			if m.state == ViewStateList && len(m.rows) > 0 {
				m.state = ViewStateDetail
			} else {
				m.state = ViewStateList
			}

		case "esc", "b":
			m.state = ViewStateList
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		m.tickCount++
		if m.running {
			m.elapsed = time.Since(m.startTime)
			return m, tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
				return tickMsg(t)
			})
		}

	case resultMsg:
		m.running = false
		m.elapsed = time.Since(m.startTime)
		m.rows = buildRows(msg.inv)
		m.counts = msg.inv.CountsByCheck()
		m.failed = msg.inv.FailedChecks()
		if m.cursor >= len(m.rows) {
			m.cursor = 0
		}

	case errMsg:
		m.running = false
		m.err = msg.err
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.err != nil {
		return fmt.Sprintf("\n %s %s\n\n %s\n",
			iconCritical.Render(),
			danger.Render("Run failed"),
			subtle.Render(m.err.Error()),
		)
	}

	if m.running {
		return fmt.Sprintf("\n %s Comparing declared and live state... (%ds)\n\n %s\n",
			m.spinner.View(),
			int(m.elapsed.Seconds()),
			helpStyle("Press q to abort"),
		)
	}

	s := strings.Builder{}
	s.WriteString(m.viewHUD())
	s.WriteString("\n")

	switch m.state {
	case ViewStateDetail:
		s.WriteString(m.viewDetails())
	default:
		s.WriteString(m.viewList())
	}

	s.WriteString("\n")
	if m.state == ViewStateDetail {
		s.WriteString(helpStyle("esc: back to list • q: quit"))
	} else {
		s.WriteString(helpStyle("enter: finding details • j/k: move • q: quit"))
	}
	return s.String()
}

func helpStyle(s string) string {
	return subtle.Render(s)
}
