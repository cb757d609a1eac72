package policy

import (
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"

	"github.com/DrSkyle/drifthound/pkg/drift"
)

// Rule is one user-defined policy rule (e.g. from YAML).
type Rule struct {
	ID          string `yaml:"id" json:"id"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Condition   string `yaml:"condition" json:"condition"` // CEL expression: "check == 'dns-records' && record_type == 'TXT'"
	Action      string `yaml:"action" json:"action"`       // "ignore" or "warn"
}

const (
	ActionIgnore = "ignore"
	ActionWarn   = "warn"
)

// CELEngine manages the compilation and execution of dynamic rules.
type CELEngine struct {
	env      *cel.Env
	rules    []Rule
	programs map[string]cel.Program
}

// NewCELEngine initializes the CEL environment with one variable per
// finding field.
func NewCELEngine() (*CELEngine, error) {
	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("check", decls.String),
			decls.NewVar("kind", decls.String),
			decls.NewVar("scope", decls.String),
			decls.NewVar("member", decls.String),
			decls.NewVar("role", decls.String),
			decls.NewVar("name", decls.String),
			decls.NewVar("display_name", decls.String),
			decls.NewVar("project", decls.String),
			decls.NewVar("zone", decls.String),
			decls.NewVar("record_type", decls.String),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	return &CELEngine{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Compile compiles a list of rules into executable programs. One bad
// rule fails the whole set: a rules file that cannot compile is a
// configuration error, not something to skip past.
func (e *CELEngine) Compile(rules []Rule) error {
	for _, r := range rules {
		if r.Action != ActionIgnore && r.Action != ActionWarn {
			return fmt.Errorf("rule %s has unknown action %q", r.ID, r.Action)
		}

		ast, issues := e.env.Compile(r.Condition)
		if issues != nil && issues.Err() != nil {
			return fmt.Errorf("rule %s compilation error: %w", r.ID, issues.Err())
		}

		prg, err := e.env.Program(ast)
		if err != nil {
			return fmt.Errorf("rule %s program creation error: %w", r.ID, err)
		}

		e.programs[r.ID] = prg
		e.rules = append(e.rules, r)
	}
	return nil
}

// Match returns the first rule whose condition holds for the finding,
// in rule-file order. An evaluation error skips that rule only.
func (e *CELEngine) Match(f drift.Finding) (Rule, bool) {
	vars := map[string]interface{}{
		"check":        f.Check,
		"kind":         f.Kind,
		"scope":        f.Scope,
		"member":       f.Member,
		"role":         f.Role,
		"name":         f.Name,
		"display_name": f.DisplayName,
		"project":      f.Project,
		"zone":         f.Zone,
		"record_type":  f.RecordType,
	}

	for _, r := range e.rules {
		out, _, err := e.programs[r.ID].Eval(vars)
		if err != nil {
			slog.Error("Rule evaluation failed", "rule_id", r.ID, "error", err)
			continue
		}
		if match, ok := out.Value().(bool); ok && match {
			return r, true
		}
	}
	return Rule{}, false
}
