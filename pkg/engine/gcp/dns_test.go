package gcp

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dns "google.golang.org/api/dns/v1"

	"github.com/DrSkyle/drifthound/pkg/engine/reconcile"
)

func TestManagedZonesDrainsAllPages(t *testing.T) {
	s := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/dns/v1/projects/example-prod/managedZones", r.URL.Path)

		switch r.URL.Query().Get("pageToken") {
		case "":
			writeJSON(t, w, &dns.ManagedZonesListResponse{
				ManagedZones:  []*dns.ManagedZone{{Name: "corp-zone"}},
				NextPageToken: "page-2",
			})
		case "page-2":
			writeJSON(t, w, &dns.ManagedZonesListResponse{
				ManagedZones: []*dns.ManagedZone{{Name: "internal-zone"}},
			})
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
	})

	zones, err := NewDNSEnumerator(s).ManagedZones(context.Background(), "example-prod")
	require.NoError(t, err)
	assert.Equal(t, []string{"corp-zone", "internal-zone"}, zones)
}

func TestRecordSetsKeysEveryRecord(t *testing.T) {
	s := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/dns/v1/projects/example-prod/managedZones/corp-zone/rrsets", r.URL.Path)

		switch r.URL.Query().Get("pageToken") {
		case "":
			writeJSON(t, w, &dns.ResourceRecordSetsListResponse{
				Rrsets: []*dns.ResourceRecordSet{
					{Name: "www.example.com.", Type: "A"},
					{Name: "mail.example.com.", Type: "MX"},
				},
				NextPageToken: "page-2",
			})
		case "page-2":
			writeJSON(t, w, &dns.ResourceRecordSetsListResponse{
				Rrsets: []*dns.ResourceRecordSet{
					// Repeated across the page boundary; must not duplicate.
					{Name: "mail.example.com.", Type: "MX"},
					{Name: "www.example.com.", Type: "AAAA"},
				},
			})
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
	})

	keys, err := NewDNSEnumerator(s).RecordSets(context.Background(), "example-prod", "corp-zone")
	require.NoError(t, err)
	assert.Equal(t, []reconcile.RecordSetKey{
		{Project: "example-prod", Zone: "corp-zone", Name: "www.example.com.", Type: "A"},
		{Project: "example-prod", Zone: "corp-zone", Name: "mail.example.com.", Type: "MX"},
		{Project: "example-prod", Zone: "corp-zone", Name: "www.example.com.", Type: "AAAA"},
	}, keys)
}

func TestRecordSetsPropagatesAPIError(t *testing.T) {
	s := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"code": 500, "message": "backend error"}}`))
	})

	_, err := NewDNSEnumerator(s).RecordSets(context.Background(), "example-prod", "corp-zone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corp-zone")
}
