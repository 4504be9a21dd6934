package internal

import (
	"context"
	"fmt"
)

// BlobStore moves files between local scratch space and shared object
// storage. Keys are slash-separated paths inside a single bucket.
type BlobStore interface {
	Download(ctx context.Context, key, localPath string) error
	Upload(ctx context.Context, localPath, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// NewBlobStore builds the backend selected by cfg.
func NewBlobStore(ctx context.Context, cfg *BlobConfig) (BlobStore, error) {
	switch cfg.Backend {
	case BlobBackendLocal:
		return NewLocalBlobStore(cfg.Root)
	case BlobBackendS3:
		return NewS3BlobStore(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}
