// Package config defines default configuration for the drift engine.
package config

import "time"

// StateConfig controls how the declared state snapshot is obtained.
type StateConfig struct {
	// TerraformBin is the terraform executable name or path.
	TerraformBin string
	// PullTimeout bounds the `terraform state pull` invocation.
	PullTimeout time.Duration
}

// HistoryConfig controls the run ledger.
type HistoryConfig struct {
	// Enabled toggles ledger writes.
	Enabled bool
	// Window is how many prior runs are loaded for the delta log line.
	Window int
}

// Defaults.
const (
	DefaultLedgerDir = ".drifthound"
)

// DefaultStateConfig returns default state acquisition settings.
func DefaultStateConfig() StateConfig {
	return StateConfig{
		TerraformBin: "terraform",
		PullTimeout:  30 * time.Second,
	}
}

// DefaultHistoryConfig returns default ledger settings.
func DefaultHistoryConfig() HistoryConfig {
	return HistoryConfig{
		Enabled: true,
		Window:  10,
	}
}
