// Package checks holds the four drift checks. Each one extracts declared
// identity keys from the snapshot catalog, drains the matching live
// listing and reports every key the snapshot does not account for.
package checks

import (
	"context"
	"sort"

	"github.com/DrSkyle/drifthound/pkg/drift"
	"github.com/DrSkyle/drifthound/pkg/engine/gcp"
	"github.com/DrSkyle/drifthound/pkg/engine/reconcile"
	"github.com/DrSkyle/drifthound/pkg/tfstate"
)

type FolderLister interface {
	ListFolders(ctx context.Context, parent string) ([]gcp.Folder, error)
}

// FolderHierarchy reports live folders that no declared folder resource
// accounts for. The walk is flat: it lists the immediate children of
// every parent referenced by a declared folder, and never descends into
// wholly undeclared subtrees.
type FolderHierarchy struct {
	Client  FolderLister
	Catalog *tfstate.Catalog
}

func (c *FolderHierarchy) Name() string { return "folders" }

func (c *FolderHierarchy) Run(ctx context.Context, inv *drift.Inventory) error {
	if err := c.Catalog.Problem(tfstate.KindFolder); err != nil {
		return err
	}

	declared := make([]string, 0, len(c.Catalog.Folders))
	parentSet := make(map[string]struct{})
	for _, f := range c.Catalog.Folders {
		declared = append(declared, f.Name)
		if f.Parent != "" {
			parentSet[f.Parent] = struct{}{}
		}
	}

	parents := make([]string, 0, len(parentSet))
	for p := range parentSet {
		parents = append(parents, p)
	}
	sort.Strings(parents)

	var live []gcp.Folder
	for _, parent := range parents {
		children, err := c.Client.ListFolders(ctx, parent)
		if err != nil {
			return err
		}
		live = append(live, children...)
	}

	liveKeys := make([]string, 0, len(live))
	byName := make(map[string]gcp.Folder, len(live))
	for _, f := range live {
		liveKeys = append(liveKeys, f.Name)
		byName[f.Name] = f
	}

	for _, name := range reconcile.Missing(liveKeys, declared) {
		f := byName[name]
		inv.Add(drift.Finding{
			Check:       c.Name(),
			Kind:        drift.KindFolder,
			Scope:       f.Parent,
			Name:        f.Name,
			DisplayName: f.DisplayName,
		})
	}
	return nil
}
