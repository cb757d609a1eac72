package drift

import (
	"sort"
	"sync"
)

// Resource kinds mirrored from the terraform state so findings, adoption
// artifacts and policy rules all speak the same names.
const (
	KindOrgIAMMember    = "google_organization_iam_member"
	KindFolder          = "google_folder"
	KindFolderIAMMember = "google_folder_iam_member"
	KindDNSRecordSet    = "google_dns_record_set"
)

// Finding is a single live resource that no terraform resource accounts for.
// Only the fields that apply to the kind are populated.
type Finding struct {
	Check       string `json:"check"`
	Kind        string `json:"kind"`
	Scope       string `json:"scope"`
	Member      string `json:"member,omitempty"`
	Role        string `json:"role,omitempty"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Project     string `json:"project,omitempty"`
	Zone        string `json:"zone,omitempty"`
	RecordType  string `json:"record_type,omitempty"`

	// Policy verdict, filled in after the checks run.
	Ignored   bool   `json:"-"`
	IgnoredBy string `json:"-"`
	Warned    bool   `json:"-"`
}

type CheckError struct {
	Check string `json:"check"`
	Error string `json:"error"`
}

type Metadata struct {
	Partial      bool
	FailedChecks []CheckError
}

// Inventory collects findings from all checks. Checks append concurrently
// during a run; readers take snapshots after.
type Inventory struct {
	Mu       sync.RWMutex
	findings []Finding
	Metadata Metadata
}

func NewInventory() *Inventory {
	return &Inventory{findings: make([]Finding, 0, 64)}
}

func (v *Inventory) Add(f Finding) {
	v.Mu.Lock()
	v.findings = append(v.findings, f)
	v.Mu.Unlock()
}

// AddError records a failed check and marks the inventory partial. The run
// keeps going; callers decide later whether partial results are acceptable.
func (v *Inventory) AddError(check string, err error) {
	v.Mu.Lock()
	defer v.Mu.Unlock()
	v.Metadata.Partial = true
	v.Metadata.FailedChecks = append(v.Metadata.FailedChecks, CheckError{
		Check: check,
		Error: err.Error(),
	})
}

// Findings returns a copy of every finding, ignored ones included.
func (v *Inventory) Findings() []Finding {
	v.Mu.RLock()
	defer v.Mu.RUnlock()
	out := make([]Finding, len(v.findings))
	copy(out, v.findings)
	return out
}

// Active returns the findings that survived policy filtering.
func (v *Inventory) Active() []Finding {
	v.Mu.RLock()
	defer v.Mu.RUnlock()
	out := make([]Finding, 0, len(v.findings))
	for _, f := range v.findings {
		if !f.Ignored {
			out = append(out, f)
		}
	}
	return out
}

// Apply rewrites findings in place under the write lock. The policy engine
// uses this to stamp verdicts without copying the slice out and back.
func (v *Inventory) Apply(fn func(f *Finding)) {
	v.Mu.Lock()
	defer v.Mu.Unlock()
	for i := range v.findings {
		fn(&v.findings[i])
	}
}

func (v *Inventory) Partial() bool {
	v.Mu.RLock()
	defer v.Mu.RUnlock()
	return v.Metadata.Partial
}

func (v *Inventory) FailedChecks() []CheckError {
	v.Mu.RLock()
	defer v.Mu.RUnlock()
	out := make([]CheckError, len(v.Metadata.FailedChecks))
	copy(out, v.Metadata.FailedChecks)
	return out
}

// CountsByCheck tallies active findings per check name.
func (v *Inventory) CountsByCheck() map[string]int {
	counts := make(map[string]int)
	for _, f := range v.Active() {
		counts[f.Check]++
	}
	return counts
}

// Checks lists the check names present in the inventory, sorted.
func (v *Inventory) Checks() []string {
	counts := v.CountsByCheck()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
