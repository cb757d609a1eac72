package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrSkyle/drifthound/pkg/drift"
)

func TestCELEngineMatchesFindingFields(t *testing.T) {
	engine, err := NewCELEngine()
	require.NoError(t, err)

	rules := []Rule{
		{
			ID:        "allow-dns-txt",
			Condition: `check == 'dns-records' && record_type == 'TXT'`,
			Action:    ActionIgnore,
		},
		{
			ID:        "watch-owner-grants",
			Condition: `role == 'roles/owner'`,
			Action:    ActionWarn,
		},
	}
	require.NoError(t, engine.Compile(rules))

	rule, ok := engine.Match(drift.Finding{Check: "dns-records", RecordType: "TXT", Name: "_acme.example.com."})
	require.True(t, ok)
	assert.Equal(t, "allow-dns-txt", rule.ID)

	rule, ok = engine.Match(drift.Finding{Check: "org-iam", Member: "user:x@example.com", Role: "roles/owner"})
	require.True(t, ok)
	assert.Equal(t, "watch-owner-grants", rule.ID)

	_, ok = engine.Match(drift.Finding{Check: "folders", Name: "folders/300"})
	assert.False(t, ok)
}

func TestCELEngineFirstMatchWinsInFileOrder(t *testing.T) {
	engine, err := NewCELEngine()
	require.NoError(t, err)
	require.NoError(t, engine.Compile([]Rule{
		{ID: "first", Condition: `member.endsWith('@example.com')`, Action: ActionIgnore},
		{ID: "second", Condition: `role == 'roles/editor'`, Action: ActionWarn},
	}))

	rule, ok := engine.Match(drift.Finding{Member: "user:a@example.com", Role: "roles/editor"})
	require.True(t, ok)
	assert.Equal(t, "first", rule.ID)
}

func TestCompileRejectsBadRule(t *testing.T) {
	engine, err := NewCELEngine()
	require.NoError(t, err)

	err = engine.Compile([]Rule{{ID: "broken", Condition: `cost > `, Action: ActionIgnore}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestCompileRejectsUnknownAction(t *testing.T) {
	engine, err := NewCELEngine()
	require.NoError(t, err)

	err = engine.Compile([]Rule{{ID: "odd", Condition: `true`, Action: "block"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")
}

func TestLoadAndApply(t *testing.T) {
	rulesYAML := `rules:
  - id: allow-contractors
    description: contractor grants are managed out of band
    condition: member == 'group:contractors@example.com'
    action: ignore
  - id: watch-legacy
    condition: name.startsWith('legacy.')
    action: warn
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rulesYAML), 0600))

	engine, err := Load(path)
	require.NoError(t, err)

	inv := drift.NewInventory()
	inv.Add(drift.Finding{Check: "folder-iam", Kind: drift.KindFolderIAMMember, Member: "group:contractors@example.com", Role: "roles/editor"})
	inv.Add(drift.Finding{Check: "dns-records", Kind: drift.KindDNSRecordSet, Name: "legacy.example.com.", RecordType: "A"})
	inv.Add(drift.Finding{Check: "dns-records", Kind: drift.KindDNSRecordSet, Name: "mail.example.com.", RecordType: "MX"})

	ignored, warned := Apply(engine, inv)
	assert.Equal(t, 1, ignored)
	assert.Equal(t, 1, warned)

	active := inv.Active()
	require.Len(t, active, 2)
	for _, f := range active {
		assert.NotEqual(t, "group:contractors@example.com", f.Member)
	}

	all := inv.Findings()
	for _, f := range all {
		if f.Member == "group:contractors@example.com" {
			assert.True(t, f.Ignored)
			assert.Equal(t, "allow-contractors", f.IgnoredBy)
		}
		if f.Name == "legacy.example.com." {
			assert.True(t, f.Warned)
			assert.False(t, f.Ignored)
		}
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
