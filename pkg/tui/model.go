// Package tui is the interactive drift browser. It runs one detection
// pass and lets the operator walk the findings without leaving the
// terminal.
package tui

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DrSkyle/drifthound/pkg/drift"
)

// Runner is the slice of the engine the browser drives.
type Runner interface {
	RunID() string
	Run(ctx context.Context) (*drift.Inventory, error)
}

type ViewState int

const (
	ViewStateList ViewState = iota
	ViewStateDetail
)

// row is one active finding flattened for list rendering.
type row struct {
	finding drift.Finding
	label   string
}

type Model struct {
	// core components
	spinner spinner.Model
	runner  Runner

	// state
	state    ViewState
	running  bool
	quitting bool
	err      error
	width    int
	height   int

	// data
	rows   []row
	counts map[string]int
	failed []drift.CheckError

	// navigation
	cursor int

	// animation
	startTime time.Time
	elapsed   time.Duration
	tickCount int
}

type tickMsg time.Time

type resultMsg struct{ inv *drift.Inventory }

type errMsg struct{ err error }

func NewModel(r Runner) Model {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = special

	return Model{
		spinner:   s,
		runner:    r,
		running:   true,
		state:     ViewStateList,
		startTime: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
			return tickMsg(t)
		}),
		m.startRun(),
	)
}

// startRun executes the detection pass off the update loop.
func (m Model) startRun() tea.Cmd {
	r := m.runner
	return func() tea.Msg {
		inv, err := r.Run(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return resultMsg{inv}
	}
}

// kindRank pins list order to the order the checks run in.
var kindRank = map[string]int{
	drift.KindOrgIAMMember:    0,
	drift.KindFolder:          1,
	drift.KindFolderIAMMember: 2,
	drift.KindDNSRecordSet:    3,
}

func buildRows(inv *drift.Inventory) []row {
	findings := inv.Active()
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if kindRank[a.Kind] != kindRank[b.Kind] {
			return kindRank[a.Kind] < kindRank[b.Kind]
		}
		if a.Scope != b.Scope {
			return a.Scope < b.Scope
		}
		return labelFor(a) < labelFor(b)
	})

	rows := make([]row, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, row{finding: f, label: labelFor(f)})
	}
	return rows
}

func labelFor(f drift.Finding) string {
	switch f.Kind {
	case drift.KindOrgIAMMember, drift.KindFolderIAMMember:
		return fmt.Sprintf("%s: %s", f.Member, f.Role)
	case drift.KindFolder:
		if f.DisplayName == "" {
			return f.Name
		}
		return fmt.Sprintf("%s (%s)", f.DisplayName, f.Name)
	case drift.KindDNSRecordSet:
		return fmt.Sprintf("%s (%s record)", f.Name, f.RecordType)
	}
	return f.Name
}
