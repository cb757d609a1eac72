package gcp

import (
	"context"
	"fmt"

	crmv1 "google.golang.org/api/cloudresourcemanager/v1"
	crmv2 "google.golang.org/api/cloudresourcemanager/v2"

	"github.com/DrSkyle/drifthound/pkg/engine/reconcile"
)

// Folder is the slice of the v2 folder resource the checks care about.
type Folder struct {
	Name        string
	DisplayName string
	Parent      string
}

// CRMEnumerator lists Resource Manager state: the organization IAM
// policy, folder children and per-folder IAM policies.
type CRMEnumerator struct {
	crm     *crmv1.Service
	folders *crmv2.Service
}

func NewCRMEnumerator(s *Session) *CRMEnumerator {
	return &CRMEnumerator{crm: s.CRM, folders: s.Folders}
}

// OrgIAMBindings fetches the organization-level IAM policy and flattens
// every binding into per-member keys. Not a paged endpoint.
func (e *CRMEnumerator) OrgIAMBindings(ctx context.Context, orgName string) ([]reconcile.MemberRole, error) {
	policy, err := e.crm.Organizations.GetIamPolicy(orgName, &crmv1.GetIamPolicyRequest{}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch IAM policy for %s: %w", orgName, err)
	}

	var keys []reconcile.MemberRole
	for _, binding := range policy.Bindings {
		keys = append(keys, reconcile.BindingKeys(binding.Role, binding.Members)...)
	}
	return keys, nil
}

// ListFolders walks every page of children under parent, a resource name
// like "organizations/123" or "folders/456".
func (e *CRMEnumerator) ListFolders(ctx context.Context, parent string) ([]Folder, error) {
	folders, err := DrainPages(ctx, func(ctx context.Context, token string) ([]Folder, string, error) {
		resp, err := e.folders.Folders.List().Parent(parent).PageToken(token).Context(ctx).Do()
		if err != nil {
			return nil, "", fmt.Errorf("failed to list folders under %s: %w", parent, err)
		}
		page := make([]Folder, 0, len(resp.Folders))
		for _, f := range resp.Folders {
			page = append(page, Folder{Name: f.Name, DisplayName: f.DisplayName, Parent: f.Parent})
		}
		return page, resp.NextPageToken, nil
	})
	if err != nil {
		return nil, err
	}
	return lastWriteWins(folders, func(f Folder) string { return f.Name }), nil
}

// FolderIAMBindings fetches one folder's IAM policy, flattened the same
// way as the organization policy.
func (e *CRMEnumerator) FolderIAMBindings(ctx context.Context, folderName string) ([]reconcile.MemberRole, error) {
	policy, err := e.folders.Folders.GetIamPolicy(folderName, &crmv2.GetIamPolicyRequest{}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch IAM policy for %s: %w", folderName, err)
	}

	var keys []reconcile.MemberRole
	for _, binding := range policy.Bindings {
		keys = append(keys, reconcile.BindingKeys(binding.Role, binding.Members)...)
	}
	return keys, nil
}
