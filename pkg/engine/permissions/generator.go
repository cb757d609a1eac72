package permissions

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// CustomRole is the stanza `gcloud iam roles create --file` accepts.
type CustomRole struct {
	Title               string   `yaml:"title"`
	Description         string   `yaml:"description"`
	Stage               string   `yaml:"stage"`
	IncludedPermissions []string `yaml:"includedPermissions"`
}

// GenerateRole builds a least-privilege custom role for the selected checks.
// If checks is empty, it returns the full role for all supported checks.
func GenerateRole(checks []string) ([]byte, error) {
	role := CustomRole{
		Title:               "Drifthound Read-Only",
		Description:         "Read-only permissions for drifthound drift detection",
		Stage:               "GA",
		IncludedPermissions: collect(checks),
	}
	return yaml.Marshal(role)
}

// GenerateList returns the same permission set as a flat JSON list.
func GenerateList(checks []string) ([]byte, error) {
	return json.MarshalIndent(collect(checks), "", "  ")
}

func collect(checks []string) []string {
	desired := make(map[string]bool)

	if len(checks) == 0 {
		// Enable All
		for _, perms := range Catalog {
			for _, p := range perms {
				desired[p] = true
			}
		}
	} else {
		// Enable Selected
		for _, check := range checks {
			if perms, ok := Catalog[check]; ok {
				for _, p := range perms {
					desired[p] = true
				}
			}
		}
	}

	// Deduplicate and Sort
	perms := make([]string, 0, len(desired))
	for p := range desired {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	return perms
}
