package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DrSkyle/drifthound/pkg/drift"
)

type stubRunner struct {
	inv *drift.Inventory
	err error
}

func (s *stubRunner) RunID() string { return "0a1b2c3d-aaaa-bbbb-cccc-000000000000" }

func (s *stubRunner) Run(ctx context.Context) (*drift.Inventory, error) {
	return s.inv, s.err
}

func finished(t *testing.T, r *stubRunner) Model {
	t.Helper()
	m := NewModel(r)
	updated, _ := m.Update(m.startRun()())
	return updated.(Model)
}

func TestBrowserListRendering(t *testing.T) {
	tests := []struct {
		name    string
		finding drift.Finding
		want    []string
	}{
		{
			name: "owner grant renders as critical drift",
			finding: drift.Finding{
				Check:  "org-iam",
				Kind:   drift.KindOrgIAMMember,
				Scope:  "example.com",
				Member: "serviceAccount:legacy-ci@example-prod.iam.gserviceaccount.com",
				Role:   "roles/owner",
			},
			want: []string{"org-iam", "example.com", "roles/owner"},
		},
		{
			name: "folder drift shows display name and resource name",
			finding: drift.Finding{
				Check:       "folders",
				Kind:        drift.KindFolder,
				Scope:       "organizations/123456789012",
				Name:        "folders/300",
				DisplayName: "Shadow IT",
			},
			want: []string{"folders", "Shadow IT", "folders/300"},
		},
		{
			name: "dns drift shows record name and type",
			finding: drift.Finding{
				Check:      "dns-records",
				Kind:       drift.KindDNSRecordSet,
				Scope:      "example-prod/corp-zone",
				Project:    "example-prod",
				Zone:       "corp-zone",
				Name:       "legacy.example.com.",
				RecordType: "A",
			},
			want: []string{"dns-records", "legacy.example.com.", "A record"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv := drift.NewInventory()
			inv.Add(tc.finding)

			m := finished(t, &stubRunner{inv: inv})
			view := m.View()

			for _, w := range tc.want {
				if !strings.Contains(view, w) {
					t.Errorf("expected view to contain %q.\nGot:\n%s", w, view)
				}
			}
		})
	}
}

func TestBrowserDetailView(t *testing.T) {
	inv := drift.NewInventory()
	inv.Add(drift.Finding{
		Check:  "org-iam",
		Kind:   drift.KindOrgIAMMember,
		Scope:  "example.com",
		Member: "user:mallory@example.com",
		Role:   "roles/editor",
	})

	m := finished(t, &stubRunner{inv: inv})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	view := m.View()

	for _, w := range []string{"Member", "user:mallory@example.com", "Role", "roles/editor", "--adopt-dir"} {
		if !strings.Contains(view, w) {
			t.Errorf("expected detail view to contain %q.\nGot:\n%s", w, view)
		}
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.state != ViewStateList {
		t.Errorf("esc should return to the list view, state = %v", m.state)
	}
}

func TestBrowserPartialBanner(t *testing.T) {
	inv := drift.NewInventory()
	inv.AddError("dns-records", errors.New("dns api: 403"))

	m := finished(t, &stubRunner{inv: inv})
	view := m.View()

	for _, w := range []string{"Partial result", "dns-records", "403"} {
		if !strings.Contains(view, w) {
			t.Errorf("expected view to contain %q.\nGot:\n%s", w, view)
		}
	}
}

func TestBrowserCleanState(t *testing.T) {
	m := finished(t, &stubRunner{inv: drift.NewInventory()})
	view := m.View()

	if !strings.Contains(view, "No unmanaged resources detected") {
		t.Errorf("expected clean-state message.\nGot:\n%s", view)
	}
}

func TestBrowserRunFailure(t *testing.T) {
	m := finished(t, &stubRunner{err: errors.New("terraform binary not found")})
	view := m.View()

	for _, w := range []string{"Run failed", "terraform binary not found"} {
		if !strings.Contains(view, w) {
			t.Errorf("expected error view to contain %q.\nGot:\n%s", w, view)
		}
	}
}

func TestBrowserQuit(t *testing.T) {
	m := finished(t, &stubRunner{inv: drift.NewInventory()})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(Model)

	if cmd == nil {
		t.Fatal("quit key should produce a tea.Quit command")
	}
	if m.View() != "" {
		t.Errorf("quitting view should be empty, got %q", m.View())
	}
}
