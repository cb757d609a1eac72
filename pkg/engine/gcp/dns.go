package gcp

import (
	"context"
	"fmt"

	dns "google.golang.org/api/dns/v1"

	"github.com/DrSkyle/drifthound/pkg/engine/reconcile"
)

// DNSEnumerator lists Cloud DNS managed zones and their record sets.
type DNSEnumerator struct {
	svc *dns.Service
}

func NewDNSEnumerator(s *Session) *DNSEnumerator {
	return &DNSEnumerator{svc: s.DNS}
}

// ManagedZones returns the names of every managed zone in the project.
func (e *DNSEnumerator) ManagedZones(ctx context.Context, project string) ([]string, error) {
	zones, err := DrainPages(ctx, func(ctx context.Context, token string) ([]string, string, error) {
		resp, err := e.svc.ManagedZones.List(project).PageToken(token).Context(ctx).Do()
		if err != nil {
			return nil, "", fmt.Errorf("failed to list managed zones in %s: %w", project, err)
		}
		page := make([]string, 0, len(resp.ManagedZones))
		for _, z := range resp.ManagedZones {
			page = append(page, z.Name)
		}
		return page, resp.NextPageToken, nil
	})
	if err != nil {
		return nil, err
	}
	return lastWriteWins(zones, func(z string) string { return z }), nil
}

// RecordSets walks every record set in one zone, keyed for the differ.
func (e *DNSEnumerator) RecordSets(ctx context.Context, project, zone string) ([]reconcile.RecordSetKey, error) {
	records, err := DrainPages(ctx, func(ctx context.Context, token string) ([]reconcile.RecordSetKey, string, error) {
		resp, err := e.svc.ResourceRecordSets.List(project, zone).PageToken(token).Context(ctx).Do()
		if err != nil {
			return nil, "", fmt.Errorf("failed to list record sets in zone %s of %s: %w", zone, project, err)
		}
		page := make([]reconcile.RecordSetKey, 0, len(resp.Rrsets))
		for _, rs := range resp.Rrsets {
			page = append(page, reconcile.RecordSetKey{
				Project: project,
				Zone:    zone,
				Name:    rs.Name,
				Type:    rs.Type,
			})
		}
		return page, resp.NextPageToken, nil
	})
	if err != nil {
		return nil, err
	}
	return lastWriteWins(records, func(k reconcile.RecordSetKey) reconcile.RecordSetKey { return k }), nil
}
