package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"google.golang.org/api/option"
	storagev1 "google.golang.org/api/storage/v1"
)

// GCSStore implements BlobStore for Google Cloud Storage.
type GCSStore struct {
	Service *storagev1.Service
	Bucket  string
}

func NewGCSStore(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCSStore, error) {
	svc, err := storagev1.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build storage client: %w", err)
	}
	return &GCSStore{
		Service: svc,
		Bucket:  bucket,
	}, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, data []byte) error {
	obj := &storagev1.Object{Name: key}
	_, err := s.Service.Objects.Insert(s.Bucket, obj).
		Media(bytes.NewReader(data)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to upload to gcs: %w", err)
	}
	return nil
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.Service.Objects.Get(s.Bucket, key).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download from gcs: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (s *GCSStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	token := ""

	for {
		call := s.Service.Objects.List(s.Bucket).Prefix(prefix).Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}
		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list gcs objects: %w", err)
		}
		for _, obj := range page.Items {
			keys = append(keys, obj.Name)
		}
		if page.NextPageToken == "" {
			return keys, nil
		}
		token = page.NextPageToken
	}
}
