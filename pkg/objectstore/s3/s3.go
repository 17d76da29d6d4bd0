// Package s3 implements the object storage channel against AWS S3 or any
// S3-compatible endpoint.
package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/objectstore"
)

// DefaultEndpoint is used when no endpoint is configured.
const DefaultEndpoint = "s3.amazonaws.com"

// Storage is an S3-backed object storage channel.
type Storage struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// Config holds S3 connection parameters. Bucket and credentials are
// required; a missing value is a configuration error at construction time.
type Config struct {
	// Endpoint is the S3 API host. Defaults to DefaultEndpoint.
	Endpoint string

	Region    string
	Bucket    string
	AccessKey string
	SecretKey string

	// UseSSL toggles TLS. Should be true for anything but local testing.
	UseSSL bool
}

// New creates an S3 storage channel.
func New(cfg Config, logger *zap.Logger) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("s3 credentials are required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}

	return &Storage{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Upload copies the local file to the remote key, overwriting it.
func (s *Storage) Upload(ctx context.Context, localPath, remoteKey string) error {
	_, err := s.client.FPutObject(ctx, s.bucket, remoteKey, localPath, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", remoteKey, err)
	}

	s.logger.Debug("object uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", remoteKey),
	)

	return nil
}

// Download copies the remote object to the local path. A missing key is a
// (false, nil) outcome; anything else is a transport failure.
func (s *Storage) Download(ctx context.Context, remoteKey, localPath string) (bool, error) {
	err := s.client.FGetObject(ctx, s.bucket, remoteKey, localPath, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("downloading %s: %w", remoteKey, err)
	}
	return true, nil
}

// Delete removes the remote object.
func (s *Storage) Delete(ctx context.Context, remoteKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, remoteKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("deleting %s: %w", remoteKey, err)
	}
	return nil
}

// RemoteHash fingerprints the remote object. S3 ETags are not a reliable
// content hash for multipart uploads, so the object is downloaded and
// hashed locally instead.
func (s *Storage) RemoteHash(ctx context.Context, remoteKey string) (string, error) {
	return objectstore.HashRemote(ctx, s, remoteKey)
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}

var _ objectstore.Storage = (*Storage)(nil)
