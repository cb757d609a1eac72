package history

import (
	"time"

	"github.com/google/uuid"
)

// SeedMockData populates an empty ledger with a synthetic adoption scenario.
// Pattern: two prior runs with drift trending downwards, so the current mock
// run produces a visible delta for demonstration purposes.
func SeedMockData(c *Client) error {
	existing, err := c.LoadWindow(1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		// Ledger already has real runs. Never pollute it with fixtures.
		return nil
	}

	now := time.Now().Unix()

	// 1. Baseline run (T-48h): drift discovered across all checks.
	baseline := Snapshot{
		Timestamp: now - (48 * 3600),
		RunID:     uuid.NewString(),
		Source:    "mock",
		Total:     9,
		ByCheck: map[string]int{
			"org-iam":     3,
			"folders":     2,
			"folder-iam":  2,
			"dns-records": 2,
		},
	}
	if err := c.Append(baseline); err != nil {
		return err
	}

	// 2. Follow-up run (T-24h): some bindings adopted, folders still drifting.
	followUp := Snapshot{
		Timestamp: now - (24 * 3600),
		RunID:     uuid.NewString(),
		Source:    "mock",
		Total:     6,
		ByCheck: map[string]int{
			"org-iam":     2,
			"folders":     2,
			"dns-records": 2,
		},
	}
	return c.Append(followUp)
}
