package tfstate

import (
	"errors"
	"fmt"
)

// Organization is the declared organization record.
type Organization struct {
	Name   string // API resource name, e.g. "organizations/1234"
	Domain string // human label; falls back to Name when undeclared
}

// OrgIAMMember is one declared organization-level IAM membership.
type OrgIAMMember struct {
	Member string
	Role   string
}

// Folder is a declared folder.
type Folder struct {
	ID          string // "folders/NNN"
	Name        string // provider-assigned name, the identity key
	Parent      string // optional; empty when the snapshot omits it
	DisplayName string // optional label
}

// FolderIAMMember is one declared folder-level IAM membership.
type FolderIAMMember struct {
	Folder string // the folder resource name this grant attaches to
	Member string
	Role   string
}

// Project is a declared project.
type Project struct {
	ID string
}

// DNSRecordSet is a declared DNS record set.
type DNSRecordSet struct {
	Project     string
	ManagedZone string
	Name        string
	Type        string
}

// Catalog is the typed view of a snapshot, produced by one validation
// pass over the Index. Kinds whose records failed validation are listed
// in Problems; consumers of a problematic kind fail, the rest proceed.
type Catalog struct {
	Organizations []Organization
	OrgMembers    []OrgIAMMember
	Folders       []Folder
	FolderMembers []FolderIAMMember
	Projects      []Project
	RecordSets    []DNSRecordSet

	Problems map[string]error
}

// Problem returns the accumulated validation error for a kind, nil when
// the kind decoded cleanly.
func (c *Catalog) Problem(kind string) error {
	return c.Problems[kind]
}

// BuildCatalog decodes every known kind out of the index. Validation
// errors never abort the build; they are recorded per kind.
func BuildCatalog(idx *Index) *Catalog {
	cat := &Catalog{Problems: make(map[string]error)}

	for _, res := range idx.Kind(KindOrganization) {
		name, ok := res.Attr("name")
		if !ok || name == "" {
			cat.addProblem(KindOrganization, errors.New("organization record has no name attribute"))
			continue
		}
		domain, ok := res.Attr("domain")
		if !ok || domain == "" {
			domain = name
		}
		cat.Organizations = append(cat.Organizations, Organization{Name: name, Domain: domain})
	}

	for _, res := range idx.Kind(KindOrgIAMMember) {
		member, okM := res.Attr("member")
		role, okR := res.Attr("role")
		if !okM || !okR {
			cat.addProblem(KindOrgIAMMember, fmt.Errorf("iam member %q is missing member or role", res.Primary.ID))
			continue
		}
		cat.OrgMembers = append(cat.OrgMembers, OrgIAMMember{Member: member, Role: role})
	}

	for _, res := range idx.Kind(KindFolder) {
		name, ok := res.Attr("name")
		if !ok || name == "" {
			cat.addProblem(KindFolder, fmt.Errorf("folder %q has no name attribute", res.Primary.ID))
			continue
		}
		id, ok := res.Attr("id")
		if !ok {
			id = res.Primary.ID
		}
		parent, _ := res.Attr("parent")
		display, _ := res.Attr("display_name")
		cat.Folders = append(cat.Folders, Folder{
			ID:          id,
			Name:        name,
			Parent:      parent,
			DisplayName: display,
		})
	}

	for _, res := range idx.Kind(KindFolderIAMMember) {
		folder, okF := res.Attr("folder")
		member, okM := res.Attr("member")
		role, okR := res.Attr("role")
		if !okF || !okM || !okR {
			cat.addProblem(KindFolderIAMMember, fmt.Errorf("folder iam member %q is missing folder, member or role", res.Primary.ID))
			continue
		}
		cat.FolderMembers = append(cat.FolderMembers, FolderIAMMember{Folder: folder, Member: member, Role: role})
	}

	for _, res := range idx.Kind(KindProject) {
		if res.Primary.ID == "" {
			cat.addProblem(KindProject, errors.New("project record has no id"))
			continue
		}
		cat.Projects = append(cat.Projects, Project{ID: res.Primary.ID})
	}

	for _, res := range idx.Kind(KindDNSRecordSet) {
		project, okP := res.Attr("project")
		zone, okZ := res.Attr("managed_zone")
		name, okN := res.Attr("name")
		typ, okT := res.Attr("type")
		if !okP || !okZ || !okN || !okT {
			cat.addProblem(KindDNSRecordSet, fmt.Errorf("dns record set %q is missing project, managed_zone, name or type", res.Primary.ID))
			continue
		}
		cat.RecordSets = append(cat.RecordSets, DNSRecordSet{
			Project:     project,
			ManagedZone: zone,
			Name:        name,
			Type:        typ,
		})
	}

	return cat
}

// FolderLabel resolves the human label for a folder resource name:
// "displayName (name)" when a declared folder carries a display name,
// otherwise the bare name.
func (c *Catalog) FolderLabel(folderName string) string {
	for _, f := range c.Folders {
		if f.ID == folderName && f.DisplayName != "" {
			return fmt.Sprintf("%s (%s)", f.DisplayName, folderName)
		}
	}
	return folderName
}

func (c *Catalog) addProblem(kind string, err error) {
	if prev, ok := c.Problems[kind]; ok {
		c.Problems[kind] = errors.Join(prev, err)
		return
	}
	c.Problems[kind] = err
}
