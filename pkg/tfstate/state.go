package tfstate

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Resource kinds the checks consume.
const (
	KindOrganization    = "google_organization"
	KindOrgIAMMember    = "google_organization_iam_member"
	KindFolder          = "google_folder"
	KindFolderIAMMember = "google_folder_iam_member"
	KindProject         = "google_project"
	KindDNSRecordSet    = "google_dns_record_set"
)

// Document mirrors the two snapshot layouts: a flat resource map, or
// resources partitioned under modules. Either key may be absent.
type Document struct {
	Modules   []Module            `json:"modules"`
	Resources map[string]Resource `json:"resources"`
}

// Module is one module partition of the snapshot.
type Module struct {
	Resources map[string]Resource `json:"resources"`
}

// Resource is one resource record.
type Resource struct {
	Type    string  `json:"type"`
	Primary Primary `json:"primary"`
}

// Primary carries the resource instance data.
type Primary struct {
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes"`
}

// Attr returns the named attribute and whether it is present. Absent
// attributes are a valid "no value", never a panic.
func (r Resource) Attr(name string) (string, bool) {
	v, ok := r.Primary.Attributes[name]
	return v, ok
}

// Index groups the snapshot's resources by kind. Grouping is a set per
// kind; callers must not rely on relative ordering beyond determinism
// within one snapshot.
type Index struct {
	byKind map[string][]Resource
	total  int
}

// Parse decodes a snapshot in either layout into an Index. Modules are
// walked with the same logic as the flat map; records from all modules
// land in one shared index.
func Parse(data []byte) (*Index, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse terraform state: %w", err)
	}

	idx := &Index{byKind: make(map[string][]Resource)}
	idx.ingest(doc.Resources)
	for _, mod := range doc.Modules {
		idx.ingest(mod.Resources)
	}
	return idx, nil
}

func (i *Index) ingest(resources map[string]Resource) {
	// Walk in sorted address order so repeated runs index identically.
	addrs := make([]string, 0, len(resources))
	for addr := range resources {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	for _, addr := range addrs {
		res := resources[addr]
		if res.Type == "" {
			continue
		}
		i.byKind[res.Type] = append(i.byKind[res.Type], res)
		i.total++
	}
}

// Kind returns all records of the given kind. An unknown kind yields an
// empty group, not an error.
func (i *Index) Kind(kind string) []Resource {
	return i.byKind[kind]
}

// Kinds lists the kinds present, sorted.
func (i *Index) Kinds() []string {
	kinds := make([]string, 0, len(i.byKind))
	for k := range i.byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Len is the total record count across kinds.
func (i *Index) Len() int {
	return i.total
}
