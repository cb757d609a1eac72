package checks

import (
	"context"
	"sort"

	"github.com/DrSkyle/drifthound/pkg/drift"
	"github.com/DrSkyle/drifthound/pkg/engine/reconcile"
	"github.com/DrSkyle/drifthound/pkg/tfstate"
)

type FolderPolicyFetcher interface {
	FolderIAMBindings(ctx context.Context, folderName string) ([]reconcile.MemberRole, error)
}

// FolderIAM reports unmanaged IAM grants on every folder that carries at
// least one declared membership resource. The folder set comes from the
// membership resources' folder attribute, so a folder declared only
// through its grants is still checked.
type FolderIAM struct {
	Client  FolderPolicyFetcher
	Catalog *tfstate.Catalog
}

func (c *FolderIAM) Name() string { return "folder-iam" }

func (c *FolderIAM) Run(ctx context.Context, inv *drift.Inventory) error {
	if err := c.Catalog.Problem(tfstate.KindFolderIAMMember); err != nil {
		return err
	}

	declared := make(map[string][]reconcile.MemberRole)
	for _, m := range c.Catalog.FolderMembers {
		declared[m.Folder] = append(declared[m.Folder], reconcile.MemberRole{Member: m.Member, Role: m.Role})
	}

	folders := make([]string, 0, len(declared))
	for f := range declared {
		folders = append(folders, f)
	}
	sort.Strings(folders)

	// Diff per folder, but report nothing until every policy fetched.
	var found []drift.Finding
	for _, folder := range folders {
		live, err := c.Client.FolderIAMBindings(ctx, folder)
		if err != nil {
			return err
		}
		for _, key := range reconcile.Missing(live, declared[folder]) {
			found = append(found, drift.Finding{
				Check:  c.Name(),
				Kind:   drift.KindFolderIAMMember,
				Scope:  c.Catalog.FolderLabel(folder),
				Name:   folder,
				Member: key.Member,
				Role:   key.Role,
			})
		}
	}

	for _, f := range found {
		inv.Add(f)
	}
	return nil
}
