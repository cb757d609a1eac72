package checks

import (
	"context"
	"fmt"
	"sort"

	"github.com/DrSkyle/drifthound/pkg/drift"
	"github.com/DrSkyle/drifthound/pkg/engine/reconcile"
	"github.com/DrSkyle/drifthound/pkg/tfstate"
)

type RecordEnumerator interface {
	ManagedZones(ctx context.Context, project string) ([]string, error)
	RecordSets(ctx context.Context, project, zone string) ([]reconcile.RecordSetKey, error)
}

// DNSRecords reports record sets present in any managed zone of a
// declared project but absent from the snapshot.
type DNSRecords struct {
	Client  RecordEnumerator
	Catalog *tfstate.Catalog
}

func (c *DNSRecords) Name() string { return "dns-records" }

func (c *DNSRecords) Run(ctx context.Context, inv *drift.Inventory) error {
	for _, kind := range []string{tfstate.KindProject, tfstate.KindDNSRecordSet} {
		if err := c.Catalog.Problem(kind); err != nil {
			return err
		}
	}

	declared := make([]reconcile.RecordSetKey, 0, len(c.Catalog.RecordSets))
	for _, rs := range c.Catalog.RecordSets {
		declared = append(declared, reconcile.RecordSetKey{
			Project: rs.Project,
			Zone:    rs.ManagedZone,
			Name:    rs.Name,
			Type:    rs.Type,
		})
	}

	projects := make([]string, 0, len(c.Catalog.Projects))
	for _, p := range c.Catalog.Projects {
		projects = append(projects, p.ID)
	}
	sort.Strings(projects)

	var live []reconcile.RecordSetKey
	for _, project := range projects {
		zones, err := c.Client.ManagedZones(ctx, project)
		if err != nil {
			return err
		}
		for _, zone := range zones {
			records, err := c.Client.RecordSets(ctx, project, zone)
			if err != nil {
				return err
			}
			live = append(live, records...)
		}
	}

	for _, key := range reconcile.Missing(live, declared) {
		inv.Add(drift.Finding{
			Check:      c.Name(),
			Kind:       drift.KindDNSRecordSet,
			Scope:      fmt.Sprintf("%s/%s", key.Project, key.Zone),
			Name:       key.Name,
			RecordType: key.Type,
			Project:    key.Project,
			Zone:       key.Zone,
		})
	}
	return nil
}
