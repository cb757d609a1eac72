package checks

import (
	"context"
	"fmt"

	"github.com/DrSkyle/drifthound/pkg/drift"
	"github.com/DrSkyle/drifthound/pkg/engine/reconcile"
	"github.com/DrSkyle/drifthound/pkg/tfstate"
)

type OrgPolicyFetcher interface {
	OrgIAMBindings(ctx context.Context, orgName string) ([]reconcile.MemberRole, error)
}

// OrgIAM reports organization-level IAM grants that exist live but have
// no declared membership resource.
type OrgIAM struct {
	Client  OrgPolicyFetcher
	Catalog *tfstate.Catalog
}

func (c *OrgIAM) Name() string { return "org-iam" }

func (c *OrgIAM) Run(ctx context.Context, inv *drift.Inventory) error {
	for _, kind := range []string{tfstate.KindOrganization, tfstate.KindOrgIAMMember} {
		if err := c.Catalog.Problem(kind); err != nil {
			return err
		}
	}
	if n := len(c.Catalog.Organizations); n != 1 {
		return fmt.Errorf("expected exactly one declared organization, found %d", n)
	}
	org := c.Catalog.Organizations[0]

	live, err := c.Client.OrgIAMBindings(ctx, org.Name)
	if err != nil {
		return err
	}

	declared := make([]reconcile.MemberRole, 0, len(c.Catalog.OrgMembers))
	for _, m := range c.Catalog.OrgMembers {
		declared = append(declared, reconcile.MemberRole{Member: m.Member, Role: m.Role})
	}

	for _, key := range reconcile.Missing(live, declared) {
		inv.Add(drift.Finding{
			Check:  c.Name(),
			Kind:   drift.KindOrgIAMMember,
			Scope:  org.Domain,
			Member: key.Member,
			Role:   key.Role,
			Name:   org.Name,
		})
	}
	return nil
}
