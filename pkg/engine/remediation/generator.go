package remediation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/DrSkyle/drifthound/pkg/drift"
	"github.com/DrSkyle/drifthound/pkg/engine/provenance"
)

// Generator writes adoption artifacts: a terraform import script and HCL
// stanzas for every unmanaged resource, so an operator can bring live
// state under management instead of deleting it.
type Generator struct {
	Prov   *provenance.Engine
	Logger *slog.Logger
}

// NewGenerator initializes the generator. Prov may be nil when no terraform
// source tree is available.
func NewGenerator(prov *provenance.Engine, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{Prov: prov, Logger: logger}
}

// Import IDs end up inside single quotes in a shell script. The charset is
// restricted anyway so a hostile display name or DNS record cannot smuggle
// anything past the quoting.
var idRegex = regexp.MustCompile(`^[a-zA-Z0-9 ._@:/-]+$`)

// Any run of characters that cannot appear in a terraform label collapses
// to a single underscore.
var labelRegex = regexp.MustCompile(`[^a-z0-9]+`)

// adoption is one finding turned into an importable resource.
type adoption struct {
	finding  drift.Finding
	address  string
	importID string
	comment  string
}

// Generate writes import.sh and adopted.tf under dir. Findings that cannot
// be expressed as an import are skipped with a log line, never silently.
func (g *Generator) Generate(dir string, findings []drift.Finding) error {
	if len(findings) == 0 {
		g.Logger.Info("No drift to adopt, skipping artifact generation")
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create adoption dir: %w", err)
	}

	adoptions := g.buildAdoptions(findings)
	if len(adoptions) == 0 {
		g.Logger.Warn("All findings were skipped during adoption generation")
		return nil
	}

	scriptPath := filepath.Join(dir, "import.sh")
	if err := g.writeImportScript(scriptPath, adoptions); err != nil {
		return fmt.Errorf("failed to write import script: %w", err)
	}

	hclPath := filepath.Join(dir, "adopted.tf")
	if err := g.writeStanzas(hclPath, adoptions); err != nil {
		return fmt.Errorf("failed to write adoption stanzas: %w", err)
	}

	g.Logger.Info("Adoption artifacts written",
		"dir", dir,
		"resources", len(adoptions))
	return nil
}

func (g *Generator) buildAdoptions(findings []drift.Finding) []adoption {
	ordered := make([]drift.Finding, len(findings))
	copy(ordered, findings)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Scope != b.Scope {
			return a.Scope < b.Scope
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Member != b.Member {
			return a.Member < b.Member
		}
		return a.Role < b.Role
	})

	used := map[string]int{}
	var out []adoption
	for _, f := range ordered {
		id := importID(f)
		if id == "" || !idRegex.MatchString(id) {
			g.Logger.Warn("Skipping finding with unsafe import ID", "kind", f.Kind, "id", id)
			continue
		}

		label := resourceLabel(f)
		used[label]++
		if n := used[label]; n > 1 {
			label = fmt.Sprintf("%s_%d", label, n)
		}

		out = append(out, adoption{
			finding:  f,
			address:  f.Kind + "." + label,
			importID: id,
			comment:  g.siteComment(f.Kind),
		})
	}
	return out
}

// importID builds the terraform import identifier for a finding. Formats
// follow the google provider's documented import syntax per resource.
func importID(f drift.Finding) string {
	switch f.Kind {
	case drift.KindOrgIAMMember:
		return fmt.Sprintf("%s %s %s", strings.TrimPrefix(f.Name, "organizations/"), f.Role, f.Member)
	case drift.KindFolder:
		return f.Name
	case drift.KindFolderIAMMember:
		return fmt.Sprintf("%s %s %s", f.Name, f.Role, f.Member)
	case drift.KindDNSRecordSet:
		return fmt.Sprintf("%s/%s/%s/%s", f.Project, f.Zone, f.Name, f.RecordType)
	}
	return ""
}

func resourceLabel(f drift.Finding) string {
	var base string
	switch f.Kind {
	case drift.KindOrgIAMMember, drift.KindFolderIAMMember:
		base = f.Member + "_" + f.Role
	case drift.KindFolder:
		base = f.DisplayName
		if base == "" {
			base = f.Name
		}
	case drift.KindDNSRecordSet:
		base = f.Name + "_" + f.RecordType
	default:
		base = f.Name
	}

	label := labelRegex.ReplaceAllString(strings.ToLower(base), "_")
	label = strings.Trim(label, "_")
	if label == "" {
		return "adopted"
	}
	if label[0] >= '0' && label[0] <= '9' {
		label = "adopted_" + label
	}
	return label
}

// siteComment points the operator at the file where siblings of the kind
// already live. Best effort; adoption works without a source tree.
func (g *Generator) siteComment(kind string) string {
	if g.Prov == nil {
		return ""
	}
	rec, err := g.Prov.Attribute(kind)
	if err != nil {
		return ""
	}

	msg := fmt.Sprintf("Siblings live in %s (%d block(s))", filepath.Base(rec.FilePath), rec.Count)
	if rec.Author != "" {
		msg += fmt.Sprintf(", last touched by %s", rec.Author)
	}
	return msg + "."
}

func (g *Generator) writeImportScript(path string, adoptions []adoption) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "#!/bin/bash\n")
	fmt.Fprintf(f, "# Drifthound adoption script\n")
	fmt.Fprintf(f, "# Generated: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(f, "# Move the adopted.tf stanzas into your terraform source first,\n")
	fmt.Fprintf(f, "# then run this script from the terraform working directory.\n\n")
	fmt.Fprintf(f, "set -e\n\n")

	for _, a := range adoptions {
		fmt.Fprintf(f, "printf \"[Importing] %%s...\\n\" %s\n", shellQuote(a.address))
		fmt.Fprintf(f, "terraform import %s %s\n\n", shellQuote(a.address), shellQuote(a.importID))
	}

	return os.Chmod(path, 0755)
}

func (g *Generator) writeStanzas(path string, adoptions []adoption) error {
	out := hclwrite.NewEmptyFile()
	body := out.Body()

	for i, a := range adoptions {
		if i > 0 {
			body.AppendNewline()
		}
		if a.comment != "" {
			appendComment(body, a.comment)
		}

		parts := strings.SplitN(a.address, ".", 2)
		block := body.AppendNewBlock("resource", parts)
		bb := block.Body()

		f := a.finding
		switch f.Kind {
		case drift.KindOrgIAMMember:
			bb.SetAttributeValue("org_id", cty.StringVal(strings.TrimPrefix(f.Name, "organizations/")))
			bb.SetAttributeValue("role", cty.StringVal(f.Role))
			bb.SetAttributeValue("member", cty.StringVal(f.Member))
		case drift.KindFolder:
			bb.SetAttributeValue("display_name", cty.StringVal(f.DisplayName))
			bb.SetAttributeValue("parent", cty.StringVal(f.Scope))
		case drift.KindFolderIAMMember:
			bb.SetAttributeValue("folder", cty.StringVal(f.Name))
			bb.SetAttributeValue("role", cty.StringVal(f.Role))
			bb.SetAttributeValue("member", cty.StringVal(f.Member))
		case drift.KindDNSRecordSet:
			bb.SetAttributeValue("project", cty.StringVal(f.Project))
			bb.SetAttributeValue("managed_zone", cty.StringVal(f.Zone))
			bb.SetAttributeValue("name", cty.StringVal(f.Name))
			bb.SetAttributeValue("type", cty.StringVal(f.RecordType))
			appendComment(bb, "ttl and rrdatas are not captured by drift detection; copy them from the live record.")
		}
	}

	return os.WriteFile(path, out.Bytes(), 0644)
}

func appendComment(body *hclwrite.Body, text string) {
	body.AppendUnstructuredTokens(hclwrite.Tokens{
		{
			Type:  hclsyntax.TokenComment,
			Bytes: []byte("# " + text + "\n"),
		},
	})
}

// shellQuote quotes a string for bash.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}
