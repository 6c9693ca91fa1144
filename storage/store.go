// Package storage provides the blob store behind media uploads: a local
// filesystem backend for development and an S3-compatible backend for
// production, selected by configuration.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadResult describes a stored object.
type UploadResult struct {
	Path string // object key within the backend
	URL  string // publicly resolvable URL
	Size int64
}

// Store is the interface for saving, presigning, and deleting media assets.
// Two uploads of identical bytes produce two independent objects; there is no
// dedup and no checksum verification.
type Store interface {
	// Upload writes data under a generated object key scoped as
	// purpose/owner/<random>.<ext> and returns the stored path and URL.
	Upload(ctx context.Context, purpose, owner, filename, contentType string, data io.Reader) (*UploadResult, error)
	// PresignPut returns a time-limited URL the client can PUT the object
	// bytes to directly, bypassing the application server.
	PresignPut(ctx context.Context, path, contentType string, expiry time.Duration) (string, error)
	// Delete removes an object; missing objects are not an error.
	Delete(ctx context.Context, path string) error
	// URL returns the publicly resolvable URL for a stored object path.
	URL(path string) string
}

// ObjectKey builds the backend object key for an upload: random id scoped
// under purpose/owner, keeping the original file extension.
func ObjectKey(purpose, owner, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return purpose + "/" + owner + "/" + uuid.NewString() + ext
}
