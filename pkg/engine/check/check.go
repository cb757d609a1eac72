package check

import (
	"context"

	"github.com/DrSkyle/drifthound/pkg/drift"
)

// Check defines the interface for one drift check.
type Check interface {
	Name() string
	// Run diffs live state for one resource kind against the snapshot
	// and adds findings to the inventory. An error means the check
	// contributed nothing; siblings still run.
	Run(ctx context.Context, inv *drift.Inventory) error
}
