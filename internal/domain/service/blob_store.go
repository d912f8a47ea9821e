// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate capabilities that don't naturally fit within a single entity.
package service

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrBlobExists is returned when an upload would replace an object and upsert is off.
	ErrBlobExists = errors.New("object already exists")
	// ErrBlobNotFound is returned by Open for a missing path.
	ErrBlobNotFound = errors.New("object not found")
)

// UploadOptions controls a single blob upload
type UploadOptions struct {
	ContentType string
	// UpsertAllowed lets the upload replace an existing object at the same path.
	UpsertAllowed bool
}

// BlobStore uploads image payloads under POSIX-style paths.
type BlobStore interface {
	// Upload writes data at path.
	Upload(ctx context.Context, path string, data []byte, opts UploadOptions) error

	// Open returns a reader for a stored object and its content type.
	Open(ctx context.Context, path string) (io.ReadCloser, string, error)

	// PublicURL returns the display URL for a stored path, empty when no public base is configured.
	PublicURL(path string) string
}
