// Package storage keeps uploaded CV files. Keys are slash separated and
// namespaced by user ID; drivers map them to a path or object name.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"union-officer/backend/config"
)

// ErrNotFound is returned by Open when the key has no stored object.
var ErrNotFound = errors.New("stored file not found")

// BlobStore saves and retrieves file contents by key.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// New selects the driver named in config.
func New(ctx context.Context, cfg *config.StorageConfig) (BlobStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.Local.BaseDir)
	case "s3":
		return NewS3(ctx, cfg.S3)
	case "gcs":
		return NewGCS(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// BuildKey returns "<userID>/v<version>_<unixms>_<slug><ext>".
func BuildKey(userID string, version int, fileName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	name := slug.Make(base)
	if name == "" {
		name = "cv"
	}
	if len(name) > 80 {
		name = name[:80]
	}
	return path.Join(userID, fmt.Sprintf("v%d_%d_%s%s", version, now.UnixMilli(), name, ext))
}

func applyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	return cleanPrefix + "/" + cleanKey
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
