package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore implements the Store interface using the local filesystem. It is
// the development backend; URLs are served by the application's asset server
// under /storage/ and "presigned" uploads PUT back to the application itself.
type LocalStore struct {
	basePath      string // absolute root for stored objects
	publicBaseURL string
}

func NewLocalStore(basePath, publicBaseURL string) (*LocalStore, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}
	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	log.Printf("storage: initialized LocalStore at %s", absBasePath)
	return &LocalStore{
		basePath:      absBasePath,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (ls *LocalStore) Upload(ctx context.Context, purpose, owner, filename, contentType string, data io.Reader) (*UploadResult, error) {
	key := ObjectKey(purpose, owner, filename)
	return ls.write(key, data)
}

// Put writes data to an explicit object key. Used by the local direct-upload
// handler that stands in for a presigned PUT.
func (ls *LocalStore) Put(path string, data io.Reader) (*UploadResult, error) {
	return ls.write(path, data)
}

func (ls *LocalStore) write(key string, data io.Reader) (*UploadResult, error) {
	fullPath, err := ls.fullPath(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory for '%s': %w", key, err)
	}

	outFile, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file '%s': %w", fullPath, err)
	}
	defer outFile.Close()

	size, err := io.Copy(outFile, data)
	if err != nil {
		outFile.Close()
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to write data to '%s': %w", fullPath, err)
	}

	log.Printf("storage: saved asset to %s", fullPath)
	return &UploadResult{Path: key, URL: ls.URL(key), Size: size}, nil
}

// PresignPut for the local backend points at the application's own upload
// endpoint; there is no external vendor to sign against in development.
func (ls *LocalStore) PresignPut(ctx context.Context, path, contentType string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("%s/storage/upload?path=%s", ls.publicBaseURL, url.QueryEscape(path)), nil
}

func (ls *LocalStore) Delete(ctx context.Context, path string) error {
	fullPath, err := ls.fullPath(path)
	if err != nil {
		return err
	}
	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete asset '%s': %w", path, err)
	}
	if err == nil {
		log.Printf("storage: deleted asset %s", fullPath)
	}
	return nil
}

func (ls *LocalStore) URL(path string) string {
	return ls.publicBaseURL + "/storage/" + path
}

// BasePath returns the absolute storage root, used by the asset server.
func (ls *LocalStore) BasePath() string {
	return ls.basePath
}

// fullPath calculates the absolute path and rejects traversal outside the root.
func (ls *LocalStore) fullPath(relativePath string) (string, error) {
	cleanRelativePath := filepath.Clean(filepath.FromSlash(relativePath))
	fullPath := filepath.Join(ls.basePath, cleanRelativePath)

	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", relativePath, err)
	}
	if !strings.HasPrefix(absFullPath, ls.basePath) {
		return "", fmt.Errorf("invalid path: access denied for '%s'", relativePath)
	}
	return absFullPath, nil
}
