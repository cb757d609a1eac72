package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/DrSkyle/drifthound/pkg/drift"
	"github.com/DrSkyle/drifthound/pkg/storage"
)

// Export is the machine-readable run record.
type Export struct {
	RunID        string             `json:"run_id"`
	Timestamp    time.Time          `json:"timestamp"`
	Source       string             `json:"source"`
	Partial      bool               `json:"partial"`
	FailedChecks []drift.CheckError `json:"failed_checks,omitempty"`
	Findings     []drift.Finding    `json:"findings"`
}

// NewExport snapshots the inventory. Findings are sorted the same way
// the text report is, so exports diff cleanly between runs.
func NewExport(runID, source string, inv *drift.Inventory) Export {
	findings := inv.Active()
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if kindRank[a.Kind] != kindRank[b.Kind] {
			return kindRank[a.Kind] < kindRank[b.Kind]
		}
		if a.Scope != b.Scope {
			return a.Scope < b.Scope
		}
		return lineFor(a) < lineFor(b)
	})

	return Export{
		RunID:        runID,
		Timestamp:    time.Now().UTC(),
		Source:       source,
		Partial:      inv.Partial(),
		FailedChecks: inv.FailedChecks(),
		Findings:     findings,
	}
}

// WriteExport stores the export under key.
func WriteExport(ctx context.Context, store storage.BlobStore, key string, exp Export) error {
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	if err := store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to store export: %w", err)
	}
	return nil
}
