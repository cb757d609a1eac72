//go:build e2e

package e2e

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// mockReport is the full expected stdout of a mock run: the fixture
// drift is deterministic, so the report must be byte-stable.
const mockReport = `
Terraform is not controlling IAM bindings for the example.com organization:
	serviceAccount:legacy-ci@example-prod.iam.gserviceaccount.com: roles/owner
	user:mallory@example.com: roles/editor

Terraform is not controlling folders under organizations/123456789012:
	Shadow IT (folders/300)

Terraform is not controlling IAM bindings for folder Engineering (folders/100):
	group:contractors@example.com: roles/editor

Terraform is not controlling DNS records in managed zone corp-zone of project example-prod:
	legacy.example.com. (A record)
	mail.example.com. (MX record)
`

func TestMockRunReport(t *testing.T) {
	stdout, stderr, code := runHound(t, t.TempDir(), "check", "--mock", "--skip-telemetry")

	if code != 0 {
		t.Fatalf("exit code = %d, want 0\nstderr: %s", code, stderr)
	}
	if stdout != mockReport {
		t.Errorf("report mismatch.\nGot:\n%q\nWant:\n%q", stdout, mockReport)
	}
}

func TestFailOnDriftExitCode(t *testing.T) {
	_, stderr, code := runHound(t, t.TempDir(), "check", "--mock", "--skip-telemetry", "--fail-on-drift")

	if code != 2 {
		t.Fatalf("exit code = %d, want 2\nstderr: %s", code, stderr)
	}
}

func TestRulesSuppressDrift(t *testing.T) {
	home := t.TempDir()
	rules := filepath.Join(home, "rules.yaml")
	err := os.WriteFile(rules, []byte(`
rules:
  - id: silence-everything
    condition: check != ''
    action: ignore
`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runHound(t, home, "check", "--mock", "--skip-telemetry",
		"--rules", rules, "--fail-on-drift")

	if code != 0 {
		t.Fatalf("exit code = %d, want 0\nstderr: %s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("fully ignored run should print nothing, got:\n%s", stdout)
	}
}

func TestAdoptionArtifacts(t *testing.T) {
	home := t.TempDir()
	adoptDir := filepath.Join(home, "adopt")

	_, stderr, code := runHound(t, home, "check", "--mock", "--skip-telemetry", "--adopt-dir", adoptDir)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\nstderr: %s", code, stderr)
	}

	script, err := os.ReadFile(filepath.Join(adoptDir, "import.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(script), "terraform import") || !strings.Contains(string(script), "folders/300") {
		t.Errorf("import script is missing expected commands:\n%s", script)
	}

	if _, err := os.Stat(filepath.Join(adoptDir, "adopted.tf")); err != nil {
		t.Errorf("adopted.tf not generated: %v", err)
	}
}

func TestLedgerWritten(t *testing.T) {
	home := t.TempDir()

	_, stderr, code := runHound(t, home, "check", "--mock", "--skip-telemetry")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\nstderr: %s", code, stderr)
	}

	data, err := os.ReadFile(filepath.Join(home, ".drifthound", "ledger.jsonl"))
	if err != nil {
		t.Fatalf("ledger not written: %v", err)
	}
	if !strings.Contains(string(data), `"source":"mock"`) {
		t.Errorf("ledger is missing the run snapshot:\n%s", data)
	}
}

func TestExportFile(t *testing.T) {
	home := t.TempDir()
	exportPath := filepath.Join(home, "drift.json")

	_, stderr, code := runHound(t, home, "check", "--mock", "--skip-telemetry", "--export", exportPath)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\nstderr: %s", code, stderr)
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatal(err)
	}

	var export struct {
		RunID    string            `json:"run_id"`
		Source   string            `json:"source"`
		Findings []json.RawMessage `json:"findings"`
	}
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if export.Source != "mock" || len(export.Findings) != 6 {
		t.Errorf("export = source %q with %d findings, want mock with 6", export.Source, len(export.Findings))
	}
}

func TestPermissionsRole(t *testing.T) {
	stdout, stderr, code := runHound(t, t.TempDir(), "permissions")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\nstderr: %s", code, stderr)
	}
	for _, want := range []string{"title: Drifthound Read-Only", "dns.resourceRecordSets.list", "resourcemanager.folders.list"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("role output missing %q:\n%s", want, stdout)
		}
	}

	stdout, _, code = runHound(t, t.TempDir(), "permissions", "--json", "dns-records")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	var perms []string
	if err := json.Unmarshal([]byte(stdout), &perms); err != nil {
		t.Fatalf("permission list is not valid JSON: %v\n%s", err, stdout)
	}
	if len(perms) != 2 {
		t.Errorf("dns-records needs 2 permissions, got %v", perms)
	}
}
