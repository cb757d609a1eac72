package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/DrSkyle/drifthound/pkg/config"
)

// Snapshot represents one completed run.
type Snapshot struct {
	Timestamp    int64          `json:"timestamp"`
	RunID        string         `json:"run_id"`
	Source       string         `json:"source"`
	Total        int            `json:"total_findings"`
	ByCheck      map[string]int `json:"finding_counts"`
	FailedChecks []string       `json:"failed_checks,omitempty"`
}

// Backend defines the storage interface for snapshots.
type Backend interface {
	Append(s Snapshot) error
	Load(n int) ([]Snapshot, error)
}

// Client manages the run ledger.
type Client struct {
	backend Backend
}

// NewClient initializes a history client. Defaults to FileBackend.
func NewClient(backend Backend) *Client {
	if backend == nil {
		backend = &FileBackend{}
	}
	return &Client{backend: backend}
}

// Append records a new snapshot.
func (c *Client) Append(s Snapshot) error {
	return c.backend.Append(s)
}

// LoadWindow retrieves the most recent n snapshots, oldest first.
func (c *Client) LoadWindow(n int) ([]Snapshot, error) {
	return c.backend.Load(n)
}

// NewLocalBackend creates a file-based backend at the specified path.
func NewLocalBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

// FileBackend appends snapshots to a JSONL file, one run per line.
type FileBackend struct {
	Path string
}

func (b *FileBackend) Append(s Snapshot) error {
	path := b.Path
	if path == "" {
		var err error
		path, err = GetLedgerPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

func (b *FileBackend) Load(n int) ([]Snapshot, error) {
	path := b.Path
	if path == "" {
		var err error
		path, err = GetLedgerPath()
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return []Snapshot{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var history []Snapshot
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var s Snapshot
		// Corrupt lines are skipped, not fatal; the ledger keeps working.
		if err := json.Unmarshal(scanner.Bytes(), &s); err != nil {
			continue
		}
		history = append(history, s)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(history) > n {
		return history[len(history)-n:], nil
	}
	return history, nil
}

// GetLedgerPath provides the default local storage path.
func GetLedgerPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, config.DefaultLedgerDir, "ledger.jsonl"), nil
}
