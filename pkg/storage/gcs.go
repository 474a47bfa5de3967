package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"

	"union-officer/backend/config"
)

// GCS stores files in a Google Cloud Storage bucket. Objects stay private.
type GCS struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCS uses application default credentials.
func NewGCS(ctx context.Context, cfg config.GCSBucket) (*GCS, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCS{client: c, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (g *GCS) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	obj := g.client.Bucket(g.bucket).Object(applyPrefix(g.prefix, key))

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return 0, fmt.Errorf("gcs write: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("gcs close writer: %w", err)
	}
	return n, nil
}

func (g *GCS) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := g.client.Bucket(g.bucket).Object(applyPrefix(g.prefix, key)).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gcs open: %w", err)
	}
	return rc, nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	err := g.client.Bucket(g.bucket).Object(applyPrefix(g.prefix, key)).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete: %w", err)
	}
	return nil
}

// Close releases the client.
func (g *GCS) Close() error { return g.client.Close() }

var _ BlobStore = (*GCS)(nil)
