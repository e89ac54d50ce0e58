package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSStore stores blobs on the local filesystem, content-addressed by
// SHA-256 so identical uploads share one file. References look like
// "sha256/ab/abcdef...".
type FSStore struct {
	dir string
}

// NewFSStore creates a filesystem blob store rooted at dir.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

// Put stores the bytes and returns a content-addressed reference.
func (s *FSStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	ref := fmt.Sprintf("sha256/%s/%s", digest[:2], digest)

	path, err := s.pathFor(ref)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		// Identical content already stored
		return ref, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create blob subdirectory: %w", err)
	}

	// Write to a temp file then rename so a partial write is never visible
	// under the final name.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp blob: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename blob: %w", err)
	}

	return ref, nil
}

// Get retrieves the bytes for a reference.
func (s *FSStore) Get(ctx context.Context, ref string) ([]byte, error) {
	path, err := s.pathFor(ref)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob %s: %w", ref, ErrNotFound)
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}

	return data, nil
}

// pathFor maps a reference onto the store directory, rejecting anything
// that would escape it.
func (s *FSStore) pathFor(ref string) (string, error) {
	if ref == "" || strings.Contains(ref, "..") || strings.HasPrefix(ref, "/") {
		return "", fmt.Errorf("invalid blob reference %q", ref)
	}
	return filepath.Join(s.dir, filepath.FromSlash(ref)), nil
}
