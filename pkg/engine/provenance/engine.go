package provenance

import (
	"fmt"
	"time"
)

// Engine answers "where would this kind of resource be declared" for a
// terraform source tree.
type Engine struct {
	TerraformDir string

	sites map[string]KindSite
}

func NewEngine(dir string) *Engine {
	return &Engine{TerraformDir: dir}
}

// Attribute locates the declaration site for a resource kind and, when the
// tree is under git, the commit that owns it. Blame failures are not fatal:
// adoption still works in a fresh checkout or outside a repo.
func (e *Engine) Attribute(kind string) (*Record, error) {
	if e.sites == nil {
		sites, err := FindKindSites(e.TerraformDir)
		if err != nil {
			return nil, fmt.Errorf("source scan failed: %w", err)
		}
		e.sites = sites
	}

	site, ok := e.sites[kind]
	if !ok {
		return nil, fmt.Errorf("no existing %s declarations under %s", kind, e.TerraformDir)
	}

	rec := &Record{
		Kind:     kind,
		FilePath: site.FilePath,
		Count:    site.Count,
	}

	blame, err := GetBlame(site.FilePath, site.StartLine, site.StartLine)
	if err != nil {
		return rec, nil
	}

	rec.Author = blame.Author
	rec.CommitHash = blame.Hash
	rec.CommitDate = blame.Date
	rec.Message = blame.Message

	// Statute of Limitations
	if time.Since(blame.Date) > 365*24*time.Hour {
		rec.IsLegacy = true
	}

	return rec, nil
}
