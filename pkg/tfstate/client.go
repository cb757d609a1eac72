// Package tfstate acquires and indexes Terraform state snapshots.
package tfstate

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/DrSkyle/drifthound/pkg/config"
)

// Client executes Terraform commands.
type Client struct {
	bin     string
	timeout time.Duration
}

// NewClient creates a new Terraform client.
func NewClient(cfg config.StateConfig) *Client {
	return &Client{
		bin:     cfg.TerraformBin,
		timeout: cfg.PullTimeout,
	}
}

// IsInstalled checks for the Terraform binary.
func (c *Client) IsInstalled() bool {
	_, err := exec.LookPath(c.bin)
	return err == nil
}

// PullState retrieves the state snapshot via `terraform state pull`,
// executed inside dir.
func (c *Client) PullState(ctx context.Context, dir string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.bin, "state", "pull")
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		// If exit code is non-zero, capture stderr in the error if possible
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("terraform state pull failed: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("terraform state pull failed: %w", err)
	}

	return output, nil
}

// ReadStateFile loads a state snapshot straight from disk, bypassing the
// terraform binary.
func ReadStateFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return data, nil
}
