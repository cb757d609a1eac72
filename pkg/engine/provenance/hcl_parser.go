package provenance

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// FindKindSites scans a directory of .tf files and maps each resource kind
// to the file where most of its declarations live. Adoption snippets for an
// unmanaged resource belong next to its siblings.
func FindKindSites(dir string) (map[string]KindSite, error) {
	parser := hclparse.NewParser()

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dir %s: %w", dir, err)
	}

	sites := map[string]KindSite{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".tf") {
			continue
		}

		path := filepath.Join(dir, f.Name())
		hclFile, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			// A broken file must not block attribution for the rest.
			continue
		}

		for kind, site := range kindsInFile(hclFile, path) {
			best, seen := sites[kind]
			if !seen || site.Count > best.Count {
				sites[kind] = site
			}
		}
	}

	return sites, nil
}

func kindsInFile(f *hcl.File, path string) map[string]KindSite {
	content, _, _ := f.Body.PartialContent(schema) // basic schema to just look for blocks

	sites := map[string]KindSite{}
	for _, block := range content.Blocks {
		if block.Type != "resource" || len(block.Labels) != 2 {
			continue
		}

		kind := block.Labels[0]
		site, seen := sites[kind]
		if !seen {
			// HCL ranges are 1-based, perfect for editors and git blame
			site = KindSite{
				Kind:      kind,
				FilePath:  path,
				StartLine: block.DefRange.Start.Line,
			}
		}
		site.Count++
		sites[kind] = site
	}
	return sites
}

// Schema to basically match any top-level block structure so we can iterate.
var schema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "resource", LabelNames: []string{"type", "name"}},
		{Type: "module", LabelNames: []string{"name"}},
		{Type: "data", LabelNames: []string{"type", "name"}},
		{Type: "variable", LabelNames: []string{"name"}},
		{Type: "output", LabelNames: []string{"name"}},
		{Type: "locals", LabelNames: nil},
		{Type: "terraform", LabelNames: nil},
		{Type: "provider", LabelNames: []string{"name"}},
	},
}
