package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartchef/backend/config"
)

// UploadName prefixes the client file name with a random UUID and strips
// any directory components.
func UploadName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("%s_%s", uuid.New().String(), base)
}

// LocalImageStore writes uploads into a directory.
type LocalImageStore struct {
	dir    string
	logger *zap.Logger
}

// NewLocalImageStore creates the directory if needed.
func NewLocalImageStore(dir string, logger *zap.Logger) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalImageStore{dir: dir, logger: logger.Named("image-store")}, nil
}

// Save copies r to dir/name and returns that path.
func (s *LocalImageStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close image file: %w", err)
	}
	s.logger.Debug("stored upload", zap.String("path", path))
	return path, nil
}

// S3ImageStore uploads images to a bucket.
type S3ImageStore struct {
	s3Config   *config.S3Config
	prefix     string
	presignTTL time.Duration
	logger     *zap.Logger
}

// NewS3ImageStore creates a store; a positive presignTTL returns presigned URLs.
func NewS3ImageStore(s3Config *config.S3Config, presignTTL time.Duration, logger *zap.Logger) *S3ImageStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3ImageStore{
		s3Config:   s3Config,
		prefix:     "uploads/",
		presignTTL: presignTTL,
		logger:     logger.Named("image-store"),
	}
}

// Save uploads r under uploads/<name> and returns its URL.
func (s *S3ImageStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := s.prefix + filepath.Base(name)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	if s.presignTTL > 0 {
		url, err := s.s3Config.GeneratePresignedURL(ctx, key, s.presignTTL)
		if err != nil {
			s.logger.Warn("failed to presign upload, returning object URL", zap.String("key", key), zap.Error(err))
		} else {
			return url, nil
		}
	}

	publicURL := s.s3Config.ObjectURL(key)
	s.logger.Info("uploaded image to S3", zap.String("url", publicURL))
	return publicURL, nil
}
