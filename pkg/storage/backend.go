// Package storage abstracts where run artifacts land. Report exports go
// through the same interface whether the target is a local directory or
// a GCS bucket.
package storage

import "context"

// BlobStore is a flat key/value blob surface. Keys may contain slashes;
// backends map them to paths or object names as they see fit.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}
