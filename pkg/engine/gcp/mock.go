package gcp

import (
	"context"

	"github.com/DrSkyle/drifthound/pkg/engine/reconcile"
)

// MockEnumerator serves canned live state so a run needs no credentials
// and no network. The fixtures pair with the demo snapshot in the engine
// package: some entries are declared there, the rest surface as drift.
type MockEnumerator struct{}

func NewMockEnumerator() *MockEnumerator {
	return &MockEnumerator{}
}

func (m *MockEnumerator) OrgIAMBindings(ctx context.Context, orgName string) ([]reconcile.MemberRole, error) {
	// 1. Declared binding (no drift) plus two unmanaged grants.
	return []reconcile.MemberRole{
		{Member: "user:alice@example.com", Role: "roles/resourcemanager.organizationAdmin"},
		{Member: "user:mallory@example.com", Role: "roles/editor"},
		{Member: "serviceAccount:legacy-ci@example-prod.iam.gserviceaccount.com", Role: "roles/owner"},
	}, nil
}

func (m *MockEnumerator) ListFolders(ctx context.Context, parent string) ([]Folder, error) {
	// 2. Two managed folders and one created by hand in the console.
	if parent != "organizations/123456789012" {
		return nil, nil
	}
	return []Folder{
		{Name: "folders/100", DisplayName: "Engineering", Parent: parent},
		{Name: "folders/200", DisplayName: "Operations", Parent: parent},
		{Name: "folders/300", DisplayName: "Shadow IT", Parent: parent},
	}, nil
}

func (m *MockEnumerator) FolderIAMBindings(ctx context.Context, folderName string) ([]reconcile.MemberRole, error) {
	// 3. Folder 100 carries one unmanaged contractor grant; folder 200 is clean.
	switch folderName {
	case "folders/100":
		return []reconcile.MemberRole{
			{Member: "user:alice@example.com", Role: "roles/resourcemanager.folderAdmin"},
			{Member: "group:contractors@example.com", Role: "roles/editor"},
		}, nil
	case "folders/200":
		return []reconcile.MemberRole{
			{Member: "user:alice@example.com", Role: "roles/resourcemanager.folderAdmin"},
		}, nil
	}
	return nil, nil
}

func (m *MockEnumerator) ManagedZones(ctx context.Context, project string) ([]string, error) {
	// 4. One zone per mock project.
	if project != "example-prod" {
		return nil, nil
	}
	return []string{"corp-zone"}, nil
}

func (m *MockEnumerator) RecordSets(ctx context.Context, project, zone string) ([]reconcile.RecordSetKey, error) {
	// 5. The www record is declared; the legacy A and mail MX records are not.
	if project != "example-prod" || zone != "corp-zone" {
		return nil, nil
	}
	return []reconcile.RecordSetKey{
		{Project: project, Zone: zone, Name: "www.example.com.", Type: "A"},
		{Project: project, Zone: zone, Name: "legacy.example.com.", Type: "A"},
		{Project: project, Zone: zone, Name: "mail.example.com.", Type: "MX"},
	}, nil
}
