package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore is the BlobStore for a directory tree. It is the default
// export target; a run with no gs:// destination writes here.
type LocalStore struct {
	Root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root}
}

// Put writes data under Root, creating intermediate directories for
// slash-separated keys. Artifacts may carry credentials-adjacent detail
// so files are written owner-only.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	path := filepath.Join(s.Root, key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0600)
}

func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Root, key))
}

// List walks the subtree under prefix and returns file keys relative to
// Root. A prefix nothing was ever written under is an empty listing, not
// an error.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	start := filepath.Join(s.Root, prefix)

	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		keys = append(keys, rel)
		return nil
	})

	return keys, err
}
