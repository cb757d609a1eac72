// Package engine runs one drift detection pass: acquire the declared
// snapshot, enumerate live GCP state, diff, and emit artifacts.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DrSkyle/drifthound/pkg/config"
	"github.com/DrSkyle/drifthound/pkg/drift"
	"github.com/DrSkyle/drifthound/pkg/engine/history"
	"github.com/DrSkyle/drifthound/pkg/engine/notifier"
	"github.com/DrSkyle/drifthound/pkg/telemetry"
	"github.com/DrSkyle/drifthound/pkg/version"
)

// ErrPartialResult indicates the run completed but at least one check could
// not enumerate live state, so drift may be under-reported.
var ErrPartialResult = errors.New("run completed with partial results")

// Config holds engine settings.
type Config struct {
	TerraformDir string // working dir for `terraform state pull`
	StateFile    string // read the snapshot from disk instead of pulling
	MockMode     bool

	RulesFile  string
	ExportPath string // local path or "gs://bucket/key"
	AdoptDir   string

	SlackWebhook string
	SlackChannel string

	NoHistory     bool
	HistoryWindow int

	Verbose  bool
	JsonLogs bool

	// StrictMode forces a non-zero exit code on partial coverage.
	StrictMode bool

	// GCPEndpoint overrides the API endpoint, for emulators and tests.
	GCPEndpoint string

	// Telemetry config.
	OtelEndpoint  string // "http://localhost:4318" or via env
	SkipTelemetry bool   // Set true if embedding in an app that already has OTEL

	// Dependencies.
	Logger *slog.Logger
}

// Engine is the runtime core.
type Engine struct {
	Logger *slog.Logger
	Tracer trace.Tracer

	// Immutable config.
	config    Config
	runID     string
	gcsBucket string // from "gs://bucket/key" export targets
	gcsKey    string

	// External dependencies.
	History  *history.Client
	Notifier *notifier.SlackClient

	shutdownTelemetry func(context.Context) error
}

// Option defines a functional configuration override.
type Option func(*Engine)

// New initializes the Engine.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	// Safe defaults.
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		ReplaceAttr: redactSensitiveData,
	})
	e := &Engine{
		Logger: slog.New(handler),
		Tracer: otel.Tracer("drifthound/engine"),
		runID:  uuid.NewString(),
	}

	// Apply options.
	for _, opt := range opts {
		opt(e)
	}

	slog.SetDefault(e.Logger)

	// Initialize telemetry.
	if !e.config.SkipTelemetry {
		shutdown, err := telemetry.Init(ctx, version.AppName, version.Current, e.config.OtelEndpoint)
		if err != nil {
			e.Logger.Warn("Telemetry failed", "error", err)
		} else {
			e.shutdownTelemetry = shutdown
		}
	}

	// Initialize history.
	if e.History == nil {
		e.History = history.NewClient(nil)
	}

	if e.config.SlackWebhook != "" {
		e.Notifier = notifier.NewSlackClient(e.config.SlackWebhook, e.config.SlackChannel)
	}

	return e, nil
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.Logger = l
	}
}

// WithHistoryBackend overrides ledger storage, mainly for tests.
func WithHistoryBackend(b history.Backend) Option {
	return func(e *Engine) {
		e.History = history.NewClient(b)
	}
}

// WithConfig sets raw config.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.config = cfg
		if strings.HasPrefix(cfg.ExportPath, "gs://") {
			target := strings.TrimPrefix(cfg.ExportPath, "gs://")
			parts := strings.SplitN(target, "/", 2)
			e.gcsBucket = parts[0]
			e.gcsKey = "drift-report.json"
			if len(parts) > 1 && parts[1] != "" {
				e.gcsKey = parts[1]
			}
		}
		if cfg.Logger != nil {
			e.Logger = cfg.Logger
		}
	}
}

// RunID identifies this run in exports, the ledger and notifications.
func (e *Engine) RunID() string {
	return e.runID
}

// Run executes the drift detection pass and returns the resulting
// inventory. A partial result is an inventory plus ErrPartialResult when
// strict mode is on; fatal setup errors return a nil inventory.
func (e *Engine) Run(ctx context.Context) (inv *drift.Inventory, err error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Run")
	defer span.End()

	if e.shutdownTelemetry != nil {
		defer func() {
			if shutdownErr := e.shutdownTelemetry(context.WithoutCancel(ctx)); shutdownErr != nil {
				e.Logger.Debug("Telemetry shutdown failed", "error", shutdownErr)
			}
		}()
	}

	// Crash safety.
	defer func() {
		if r := recover(); r != nil {
			inv = nil
			err = e.recoverPanic(ctx, r)
		}
	}()

	e.Logger.Info("Starting drift detection",
		"run_id", e.runID,
		"version", version.Current,
		"mock", e.config.MockMode)

	inv, summary, runErr := e.runPipeline(ctx)
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
		return nil, runErr
	}

	span.SetAttributes(
		attribute.Int("drift.findings", summary.Total),
		attribute.Int("drift.ignored", summary.Ignored),
	)

	if inv.Partial() {
		failed := inv.FailedChecks()
		span.SetAttributes(
			attribute.Bool("run.partial", true),
			attribute.Int("run.failed_checks", len(failed)),
		)

		if e.config.StrictMode {
			e.Logger.Error("Strict mode: failing due to partial coverage")
			return inv, ErrPartialResult
		}
		e.Logger.Warn("Run finished with partial coverage", "failed_checks", len(failed))
	}

	return inv, nil
}

// recoverPanic converts a panic into an error so callers embedding the
// engine as a library never crash.
func (e *Engine) recoverPanic(ctx context.Context, r any) error {
	tr := otel.Tracer("drifthound/engine")
	_, span := tr.Start(ctx, "CriticalPanic")

	stack := debug.Stack()

	span.RecordError(fmt.Errorf("%v", r), trace.WithStackTrace(true))
	span.SetStatus(codes.Error, "CRITICAL FAILURE")
	span.SetAttributes(
		attribute.String("crash.stack", string(stack)),
		attribute.String("crash.reason", fmt.Sprintf("%v", r)),
	)
	span.End()

	e.Logger.Error("CRITICAL FAILURE", "error", r, "stack", string(stack))
	return fmt.Errorf("engine panic: %v", r)
}

// NewLogger builds the standard logger with redaction attached. Text
// output reads better in a terminal; CI pipelines want JSON. Either way
// logs go to stderr so the report owns stdout.
func NewLogger(verbose, jsonLogs bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactSensitiveData,
	}
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// redactSensitiveData scrubs sensitive keys from logs.
func redactSensitiveData(groups []string, a slog.Attr) slog.Attr {
	// List of keys to redact
	sensitiveKeys := map[string]bool{
		"password": true, "access_key": true, "token": true,
		"secret": true, "api_key": true, "private_key": true, "auth_token": true,
		"refresh_token": true, "certificate": true, "signature": true,
		"credential": true, "ssh_key": true, "connection_string": true,
		"webhook": true,
	}

	if sensitiveKeys[a.Key] {
		return slog.Attr{
			Key:   a.Key,
			Value: slog.StringValue("[REDACTED]"),
		}
	}
	return a
}

func historyWindow(cfg Config) int {
	if cfg.HistoryWindow > 0 {
		return cfg.HistoryWindow
	}
	return config.DefaultHistoryConfig().Window
}
