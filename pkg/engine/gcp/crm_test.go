package gcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	crmv1 "google.golang.org/api/cloudresourcemanager/v1"
	crmv2 "google.golang.org/api/cloudresourcemanager/v2"

	"github.com/DrSkyle/drifthound/pkg/engine/reconcile"
)

func newTestSession(t *testing.T, handler http.HandlerFunc) *Session {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewSession(context.Background(), srv.URL)
	require.NoError(t, err)
	return s
}

func writeJSON(t *testing.T, w http.ResponseWriter, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestOrgIAMBindingsFlattensPolicy(t *testing.T) {
	s := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/organizations/123456789012:getIamPolicy", r.URL.Path)
		writeJSON(t, w, &crmv1.Policy{
			Bindings: []*crmv1.Binding{
				{Role: "roles/owner", Members: []string{"user:a@example.com", "serviceAccount:ci@p.iam.gserviceaccount.com"}},
				{Role: "roles/viewer", Members: []string{"user:a@example.com"}},
			},
		})
	})

	keys, err := NewCRMEnumerator(s).OrgIAMBindings(context.Background(), "organizations/123456789012")
	require.NoError(t, err)
	assert.Equal(t, []reconcile.MemberRole{
		{Member: "user:a@example.com", Role: "roles/owner"},
		{Member: "serviceAccount:ci@p.iam.gserviceaccount.com", Role: "roles/owner"},
		{Member: "user:a@example.com", Role: "roles/viewer"},
	}, keys)
}

func TestListFoldersDrainsAllPages(t *testing.T) {
	s := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/folders", r.URL.Path)
		require.Equal(t, "organizations/123456789012", r.URL.Query().Get("parent"))

		switch r.URL.Query().Get("pageToken") {
		case "":
			writeJSON(t, w, &crmv2.ListFoldersResponse{
				Folders: []*crmv2.Folder{
					{Name: "folders/1", DisplayName: "Engineering", Parent: "organizations/123456789012"},
					{Name: "folders/2", DisplayName: "Ops", Parent: "organizations/123456789012"},
				},
				NextPageToken: "page-2",
			})
		case "page-2":
			writeJSON(t, w, &crmv2.ListFoldersResponse{
				Folders: []*crmv2.Folder{
					// Re-delivered with a fresher display name: later page wins.
					{Name: "folders/2", DisplayName: "Operations", Parent: "organizations/123456789012"},
					{Name: "folders/3", DisplayName: "Sandbox", Parent: "organizations/123456789012"},
				},
			})
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
	})

	folders, err := NewCRMEnumerator(s).ListFolders(context.Background(), "organizations/123456789012")
	require.NoError(t, err)
	assert.Equal(t, []Folder{
		{Name: "folders/1", DisplayName: "Engineering", Parent: "organizations/123456789012"},
		{Name: "folders/2", DisplayName: "Operations", Parent: "organizations/123456789012"},
		{Name: "folders/3", DisplayName: "Sandbox", Parent: "organizations/123456789012"},
	}, folders)
}

func TestListFoldersPropagatesAPIError(t *testing.T) {
	s := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "The caller does not have permission"}}`))
	})

	_, err := NewCRMEnumerator(s).ListFolders(context.Background(), "organizations/123456789012")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "organizations/123456789012")
	assert.Contains(t, err.Error(), "403")
}

func TestFolderIAMBindingsFlattensPolicy(t *testing.T) {
	s := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/folders/100:getIamPolicy", r.URL.Path)
		writeJSON(t, w, &crmv2.Policy{
			Bindings: []*crmv2.Binding{
				{Role: "roles/editor", Members: []string{"group:contractors@example.com"}},
			},
		})
	})

	keys, err := NewCRMEnumerator(s).FolderIAMBindings(context.Background(), "folders/100")
	require.NoError(t, err)
	assert.Equal(t, []reconcile.MemberRole{
		{Member: "group:contractors@example.com", Role: "roles/editor"},
	}, keys)
}
