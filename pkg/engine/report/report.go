// Package report renders drift findings as plain text and exports them
// as JSON. The text report is the tool's primary output: silence means
// no drift.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/DrSkyle/drifthound/pkg/drift"
)

// Summary aggregates one run for the notifier and the history ledger.
type Summary struct {
	RunID        string
	Source       string
	Total        int
	Ignored      int
	ByCheck      map[string]int
	FailedChecks []drift.CheckError
	Duration     time.Duration
}

func BuildSummary(runID, source string, inv *drift.Inventory, dur time.Duration) Summary {
	all := inv.Findings()
	active := inv.Active()
	return Summary{
		RunID:        runID,
		Source:       source,
		Total:        len(active),
		Ignored:      len(all) - len(active),
		ByCheck:      inv.CountsByCheck(),
		FailedChecks: inv.FailedChecks(),
		Duration:     dur,
	}
}

// Renderer writes the drift report. Groups follow check order, scopes
// and lines sort lexicographically, so output is stable across runs.
type Renderer struct {
	W io.Writer
}

// kindRank pins group order to the order the checks run in.
var kindRank = map[string]int{
	drift.KindOrgIAMMember:    0,
	drift.KindFolder:          1,
	drift.KindFolderIAMMember: 2,
	drift.KindDNSRecordSet:    3,
}

type group struct {
	kind  string
	scope string
	lines []string
}

// Render emits one block per drifted scope. An inventory with no active
// findings produces no output at all.
func (r *Renderer) Render(inv *drift.Inventory) error {
	groups := make(map[string]*group)
	for _, f := range inv.Active() {
		id := f.Kind + "\x00" + f.Scope
		g, ok := groups[id]
		if !ok {
			g = &group{kind: f.Kind, scope: f.Scope}
			groups[id] = g
		}
		g.lines = append(g.lines, lineFor(f))
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if kindRank[ordered[i].kind] != kindRank[ordered[j].kind] {
			return kindRank[ordered[i].kind] < kindRank[ordered[j].kind]
		}
		return ordered[i].scope < ordered[j].scope
	})

	for _, g := range ordered {
		if _, err := fmt.Fprintf(r.W, "\n%s\n", headerFor(g.kind, g.scope)); err != nil {
			return err
		}
		sort.Strings(g.lines)
		for _, line := range g.lines {
			if _, err := fmt.Fprintln(r.W, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func headerFor(kind, scope string) string {
	switch kind {
	case drift.KindOrgIAMMember:
		return fmt.Sprintf("Terraform is not controlling IAM bindings for the %s organization:", scope)
	case drift.KindFolder:
		return fmt.Sprintf("Terraform is not controlling folders under %s:", scope)
	case drift.KindFolderIAMMember:
		return fmt.Sprintf("Terraform is not controlling IAM bindings for folder %s:", scope)
	case drift.KindDNSRecordSet:
		return fmt.Sprintf("Terraform is not controlling DNS records in %s:", scopeAsZone(scope))
	}
	return fmt.Sprintf("Terraform is not controlling %s resources under %s:", kind, scope)
}

// scopeAsZone rewrites the "project/zone" scope for the DNS header.
func scopeAsZone(scope string) string {
	for i := 0; i < len(scope); i++ {
		if scope[i] == '/' {
			return fmt.Sprintf("managed zone %s of project %s", scope[i+1:], scope[:i])
		}
	}
	return scope
}

func lineFor(f drift.Finding) string {
	switch f.Kind {
	case drift.KindOrgIAMMember, drift.KindFolderIAMMember:
		return fmt.Sprintf("\t%s: %s", f.Member, f.Role)
	case drift.KindFolder:
		if f.DisplayName == "" {
			return fmt.Sprintf("\t%s", f.Name)
		}
		return fmt.Sprintf("\t%s (%s)", f.DisplayName, f.Name)
	case drift.KindDNSRecordSet:
		return fmt.Sprintf("\t%s (%s record)", f.Name, f.RecordType)
	}
	return fmt.Sprintf("\t%s", f.Name)
}
