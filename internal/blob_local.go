package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalBlobStore keeps blobs as files under a root directory, typically a
// volume shared by every worker. Keys cannot resolve outside the root.
type LocalBlobStore struct {
	root string
}

// NewLocalBlobStore creates the root directory if it doesn't exist.
func NewLocalBlobStore(root string) (*LocalBlobStore, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve blob root: %w", err)
	}
	if err := os.MkdirAll(absRoot, 0750); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	return &LocalBlobStore{root: absRoot}, nil
}

// resolve maps a key to a path under the root.
func (s *LocalBlobStore) resolve(key string) (string, error) {
	if key == "" || filepath.IsAbs(key) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("blob key %q escapes the store root", key)
	}
	return full, nil
}

func (s *LocalBlobStore) Download(_ context.Context, key, localPath string) error {
	src, err := s.resolve(key)
	if err != nil {
		return err
	}
	return copyFileAtomic(src, localPath)
}

func (s *LocalBlobStore) Upload(_ context.Context, localPath, key string) error {
	dst, err := s.resolve(key)
	if err != nil {
		return err
	}
	return copyFileAtomic(localPath, dst)
}

func (s *LocalBlobStore) Exists(_ context.Context, key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat blob %q: %w", key, err)
	}
	return true, nil
}

// copyFileAtomic copies src to dst through a temp file in dst's directory so
// readers never observe a partial file.
func copyFileAtomic(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", dst, err)
	}
	return nil
}
