package config

import (
	"testing"
	"time"
)

func TestDefaultStateConfig(t *testing.T) {
	config := DefaultStateConfig()

	if config.TerraformBin != "terraform" {
		t.Errorf("Expected TerraformBin 'terraform', got %q", config.TerraformBin)
	}

	if config.PullTimeout < 10*time.Second {
		t.Error("PullTimeout must leave room for slow remote backends")
	}
}

func TestDefaultHistoryConfig(t *testing.T) {
	config := DefaultHistoryConfig()

	if !config.Enabled {
		t.Error("Expected ledger to be enabled by default")
	}

	if config.Window <= 1 {
		t.Error("Window must cover more than the current run for deltas to exist")
	}
}
