package check

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrSkyle/drifthound/pkg/drift"
)

type stubCheck struct {
	name string
	run  func(ctx context.Context, inv *drift.Inventory) error
}

func (s *stubCheck) Name() string { return s.name }

func (s *stubCheck) Run(ctx context.Context, inv *drift.Inventory) error {
	return s.run(ctx, inv)
}

func TestRunAllIsolatesFailures(t *testing.T) {
	boom := errors.New("googleapi: Error 403: permission denied")

	reg := NewRegistry()
	reg.Register(&stubCheck{name: "org-iam", run: func(ctx context.Context, inv *drift.Inventory) error {
		return boom
	}})
	reg.Register(&stubCheck{name: "folders", run: func(ctx context.Context, inv *drift.Inventory) error {
		inv.Add(drift.Finding{Check: "folders", Kind: drift.KindFolder, Name: "folders/2"})
		return nil
	}})

	inv := drift.NewInventory()
	reg.RunAll(context.Background(), inv)

	assert.True(t, inv.Partial())
	failed := inv.FailedChecks()
	require.Len(t, failed, 1)
	assert.Equal(t, "org-iam", failed[0].Check)

	findings := inv.Findings()
	require.Len(t, findings, 1)
	assert.Equal(t, "folders/2", findings[0].Name)
}

func TestRunAllPreservesRegistrationOrder(t *testing.T) {
	var order []string
	reg := NewRegistry()
	for _, name := range []string{"org-iam", "folders", "folder-iam", "dns-records"} {
		name := name
		reg.Register(&stubCheck{name: name, run: func(ctx context.Context, inv *drift.Inventory) error {
			order = append(order, name)
			return nil
		}})
	}

	reg.RunAll(context.Background(), drift.NewInventory())
	assert.Equal(t, []string{"org-iam", "folders", "folder-iam", "dns-records"}, order)
}
