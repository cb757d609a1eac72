package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/DrSkyle/drifthound/pkg/config"
	"github.com/DrSkyle/drifthound/pkg/drift"
	"github.com/DrSkyle/drifthound/pkg/engine/check"
	"github.com/DrSkyle/drifthound/pkg/engine/checks"
	"github.com/DrSkyle/drifthound/pkg/engine/gcp"
	"github.com/DrSkyle/drifthound/pkg/engine/history"
	"github.com/DrSkyle/drifthound/pkg/engine/policy"
	"github.com/DrSkyle/drifthound/pkg/engine/provenance"
	"github.com/DrSkyle/drifthound/pkg/engine/remediation"
	"github.com/DrSkyle/drifthound/pkg/engine/report"
	"github.com/DrSkyle/drifthound/pkg/storage"
	"github.com/DrSkyle/drifthound/pkg/tfstate"
)

// liveClients binds each check to its slice of the provider API.
type liveClients struct {
	org       checks.OrgPolicyFetcher
	folders   checks.FolderLister
	folderIAM checks.FolderPolicyFetcher
	dns       checks.RecordEnumerator
}

func (e *Engine) runPipeline(ctx context.Context) (*drift.Inventory, report.Summary, error) {
	start := time.Now()
	inv := drift.NewInventory()

	catalog, source, err := e.declaredState(ctx)
	if err != nil {
		return nil, report.Summary{}, err
	}

	// A multi-org or org-less snapshot is a configuration error, not drift.
	if n := len(catalog.Organizations); n != 1 {
		return nil, report.Summary{}, fmt.Errorf("expected exactly one declared organization in state, found %d", n)
	}

	clients, err := e.buildClients(ctx)
	if err != nil {
		return nil, report.Summary{}, err
	}

	reg := check.NewRegistry()
	reg.Register(&checks.OrgIAM{Client: clients.org, Catalog: catalog})
	reg.Register(&checks.FolderHierarchy{Client: clients.folders, Catalog: catalog})
	reg.Register(&checks.FolderIAM{Client: clients.folderIAM, Catalog: catalog})
	reg.Register(&checks.DNSRecords{Client: clients.dns, Catalog: catalog})
	reg.RunAll(ctx, inv)

	// Ignore rules run after all checks so policy sees the whole run.
	if e.config.RulesFile != "" {
		ruleEngine, err := policy.Load(e.config.RulesFile)
		if err != nil {
			return nil, report.Summary{}, fmt.Errorf("policy setup failed: %w", err)
		}
		ignored, warned := policy.Apply(ruleEngine, inv)
		e.Logger.Info("Policy applied",
			"rules_file", e.config.RulesFile,
			"ignored", ignored,
			"warned", warned)
	}

	summary := report.BuildSummary(e.runID, source, inv, time.Since(start))
	e.emitArtifacts(ctx, inv, summary)

	return inv, summary, nil
}

// declaredState acquires the snapshot and indexes it into a catalog.
// Sources, in order of preference: canned demo state in mock mode, an
// explicit state file, `terraform state pull` in the terraform dir.
func (e *Engine) declaredState(ctx context.Context) (*tfstate.Catalog, string, error) {
	var (
		data   []byte
		source string
		err    error
	)

	switch {
	case e.config.MockMode:
		data = []byte(mockStateJSON)
		source = "mock"

	case e.config.StateFile != "":
		source = e.config.StateFile
		data, err = tfstate.ReadStateFile(e.config.StateFile)
		if err != nil {
			return nil, "", err
		}

	default:
		dir := e.config.TerraformDir
		if dir == "" {
			dir = "."
		}
		source = dir

		client := tfstate.NewClient(config.DefaultStateConfig())
		if !client.IsInstalled() {
			return nil, "", fmt.Errorf("terraform binary not found; install terraform or pass a state file")
		}
		data, err = client.PullState(ctx, dir)
		if err != nil {
			return nil, "", err
		}
	}

	idx, err := tfstate.Parse(data)
	if err != nil {
		return nil, "", err
	}

	catalog := tfstate.BuildCatalog(idx)
	for kind, problem := range catalog.Problems {
		e.Logger.Warn("Declared records failed validation", "kind", kind, "error", problem)
	}

	e.Logger.Info("Declared state indexed",
		"source", source,
		"resources", idx.Len(),
		"kinds", len(idx.Kinds()))
	return catalog, source, nil
}

// buildClients wires the checks to canned fixtures or a real session.
func (e *Engine) buildClients(ctx context.Context) (liveClients, error) {
	if e.config.MockMode {
		m := gcp.NewMockEnumerator()
		return liveClients{org: m, folders: m, folderIAM: m, dns: m}, nil
	}

	session, err := gcp.NewSession(ctx, e.config.GCPEndpoint)
	if err != nil {
		return liveClients{}, err
	}

	crm := gcp.NewCRMEnumerator(session)
	dns := gcp.NewDNSEnumerator(session)
	return liveClients{org: crm, folders: crm, folderIAM: crm, dns: dns}, nil
}

// emitArtifacts handles everything downstream of detection: export,
// adoption artifacts, notification, and the run ledger. Failures here are
// logged, never fatal; the inventory is already complete.
func (e *Engine) emitArtifacts(ctx context.Context, inv *drift.Inventory, summary report.Summary) {
	if e.config.ExportPath != "" {
		e.writeExport(ctx, inv, summary.Source)
	}

	if e.config.AdoptDir != "" {
		var prov *provenance.Engine
		if e.config.TerraformDir != "" {
			prov = provenance.NewEngine(e.config.TerraformDir)
		}
		gen := remediation.NewGenerator(prov, e.Logger)
		if err := gen.Generate(e.config.AdoptDir, inv.Active()); err != nil {
			e.Logger.Error("Failed to generate adoption artifacts", "error", err)
		}
	}

	if e.Notifier != nil {
		if err := e.Notifier.SendDriftReport(summary); err != nil {
			e.Logger.Warn("Failed to send Slack report", "error", err)
		} else {
			e.Logger.Info("Slack report delivered")
		}
	}

	if !e.config.NoHistory {
		e.recordRun(summary)
	}
}

// writeExport persists the JSON report through a blob store. A "gs://"
// export target selects the GCS backend; anything else is a local path.
func (e *Engine) writeExport(ctx context.Context, inv *drift.Inventory, source string) {
	exp := report.NewExport(e.runID, source, inv)

	var (
		store storage.BlobStore
		key   string
	)

	if e.gcsBucket != "" {
		gcs, err := storage.NewGCSStore(ctx, e.gcsBucket)
		if err != nil {
			e.Logger.Warn("GCS backend unavailable, writing export locally", "error", err)
			store = storage.NewLocalStore(".")
			key = "drift-report.json"
		} else {
			store = gcs
			key = e.gcsKey
			e.Logger.Info("Using GCS export backend", "bucket", e.gcsBucket)
		}
	} else {
		store = storage.NewLocalStore(filepath.Dir(e.config.ExportPath))
		key = filepath.Base(e.config.ExportPath)
	}

	if err := report.WriteExport(ctx, store, key, exp); err != nil {
		e.Logger.Error("Failed to write export", "key", key, "error", err)
		return
	}
	e.Logger.Info("Export written", "key", key)
}

// recordRun appends this run to the ledger and logs the delta against the
// previous snapshot.
func (e *Engine) recordRun(summary report.Summary) {
	if e.config.MockMode {
		if err := history.SeedMockData(e.History); err != nil {
			e.Logger.Debug("Ledger seed failed", "error", err)
		}
	}

	failed := make([]string, 0, len(summary.FailedChecks))
	for _, ce := range summary.FailedChecks {
		failed = append(failed, ce.Check)
	}

	snap := history.Snapshot{
		Timestamp:    time.Now().Unix(),
		RunID:        summary.RunID,
		Source:       summary.Source,
		Total:        summary.Total,
		ByCheck:      summary.ByCheck,
		FailedChecks: failed,
	}
	if err := e.History.Append(snap); err != nil {
		e.Logger.Warn("Failed to append run to ledger", "error", err)
		return
	}

	window, err := e.History.LoadWindow(historyWindow(e.config))
	if err != nil {
		e.Logger.Debug("Ledger window unavailable", "error", err)
		return
	}

	delta, ok := history.Analyze(window)
	if !ok {
		return
	}

	e.Logger.Info("Drift delta",
		"previous", delta.Previous,
		"current", delta.Current,
		"change", delta.Change,
		"by_check", delta.ByCheck)

	if delta.Change > 0 && e.Notifier != nil {
		if err := e.Notifier.SendRegressionAlert(delta.Previous, delta.Current); err != nil {
			e.Logger.Warn("Failed to send regression alert", "error", err)
		}
	}
}
