package policy

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DrSkyle/drifthound/pkg/drift"
)

// RuleConfig is the on-disk rules file shape.
type RuleConfig struct {
	Rules []Rule `yaml:"rules"`
}

// Load reads, parses and compiles a rules file. Any failure is fatal to
// the caller: running with half a policy silently un-ignores findings.
func Load(path string) (*CELEngine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var config RuleConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse rules yaml: %w", err)
	}

	engine, err := NewCELEngine()
	if err != nil {
		return nil, err
	}

	slog.Info("Compiling Rules", "count", len(config.Rules))
	if err := engine.Compile(config.Rules); err != nil {
		return nil, err
	}
	return engine, nil
}

// Apply stamps the policy verdict on every finding. Ignored findings
// drop out of the report; warned ones stay but are flagged and logged.
func Apply(engine *CELEngine, inv *drift.Inventory) (ignored, warned int) {
	inv.Apply(func(f *drift.Finding) {
		rule, ok := engine.Match(*f)
		if !ok {
			return
		}
		switch rule.Action {
		case ActionIgnore:
			f.Ignored = true
			f.IgnoredBy = rule.ID
			ignored++
		case ActionWarn:
			f.Warned = true
			warned++
			slog.Warn("Policy warning", "rule_id", rule.ID, "check", f.Check, "scope", f.Scope, "name", f.Name, "member", f.Member)
		}
	})
	return ignored, warned
}
