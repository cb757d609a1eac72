package check

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/DrSkyle/drifthound/pkg/drift"
)

var (
	meter            = otel.Meter("drifthound/check")
	findingsTotal, _ = meter.Int64Counter("drifthound.findings",
		metric.WithDescription("Unmanaged resources detected, by check"))
	failuresTotal, _ = meter.Int64Counter("drifthound.check.failures",
		metric.WithDescription("Checks that aborted on an API or data error"))
)

// Registry manages the collection of checks for one run.
type Registry struct {
	checks []Check
}

func NewRegistry() *Registry {
	return &Registry{checks: []Check{}}
}

// Register adds a check to the registry.
func (r *Registry) Register(c Check) {
	r.checks = append(r.checks, c)
}

// RunAll executes every registered check in order. Checks share only the
// read-only snapshot, so a failure is captured on the inventory and the
// rest keep running.
func (r *Registry) RunAll(ctx context.Context, inv *drift.Inventory) {
	for _, c := range r.checks {
		runWithTelemetry(ctx, c, inv)
	}
}

func runWithTelemetry(ctx context.Context, c Check, inv *drift.Inventory) error {
	name := c.Name()
	tr := otel.Tracer("drifthound/check")
	ctx, span := tr.Start(ctx, name, trace.WithAttributes(
		attribute.String("provider", "gcp"),
		attribute.String("check", name),
	))
	defer span.End()

	before := len(inv.Findings())
	slog.Debug("Starting check", "name", name)
	err := c.Run(ctx, inv)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		failuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("check", name)))

		// Capture the failure; the run stays alive.
		inv.AddError(name, err)
		slog.Error("Check encountered error", "name", name, "error", err)
		return err
	}

	count := len(inv.Findings()) - before
	findingsTotal.Add(ctx, int64(count), metric.WithAttributes(attribute.String("check", name)))
	span.SetAttributes(attribute.Int("drift.findings", count))
	slog.Debug("Check completed", "name", name, "findings", count)
	return nil
}
