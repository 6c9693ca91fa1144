package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Store implements the Store interface against any S3-compatible object
// store via the minio client. Production backend.
type S3Store struct {
	client *minio.Client
	bucket string
	// publicURL is the base under which bucket objects resolve publicly,
	// e.g. "https://cdn.example.com" or "https://s3.example.com/bucket"
	publicURL string
}

type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

func NewS3Store(opts S3Options) (*S3Store, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client for '%s': %w", opts.Endpoint, err)
	}

	scheme := "http"
	if opts.UseSSL {
		scheme = "https"
	}

	log.Printf("storage: initialized S3Store at %s (bucket %s)", opts.Endpoint, opts.Bucket)
	return &S3Store{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: fmt.Sprintf("%s://%s/%s", scheme, opts.Endpoint, opts.Bucket),
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, purpose, owner, filename, contentType string, data io.Reader) (*UploadResult, error) {
	key := ObjectKey(purpose, owner, filename)

	info, err := s.client.PutObject(ctx, s.bucket, key, data, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object '%s': %w", key, err)
	}

	return &UploadResult{Path: key, URL: s.URL(key), Size: info.Size}, nil
}

func (s *S3Store) PresignPut(ctx context.Context, path, contentType string, expiry time.Duration) (string, error) {
	presigned, err := s.client.PresignedPutObject(ctx, s.bucket, path, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for '%s': %w", path, err)
	}
	return presigned.String(), nil
}

func (s *S3Store) Delete(ctx context.Context, path string) error {
	err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object '%s': %w", path, err)
	}
	return nil
}

func (s *S3Store) URL(path string) string {
	return s.publicURL + "/" + path
}
