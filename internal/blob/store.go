// Package blob stores revision artifacts as opaque byte blobs. The core
// never interprets the bytes; it only carries the returned reference and
// the caller-supplied metadata.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound indicates no blob exists for the given reference.
var ErrNotFound = errors.New("blob not found")

// Store is the artifact storage interface consumed by the drawing
// registry and the revision download handler.
type Store interface {
	// Put stores the bytes and returns an opaque reference
	Put(ctx context.Context, data []byte, contentType string) (string, error)

	// Get retrieves the bytes for a reference
	Get(ctx context.Context, ref string) ([]byte, error)
}
