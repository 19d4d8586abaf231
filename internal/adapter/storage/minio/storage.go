package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pwnz15/Kre/internal/config"
	"github.com/pwnz15/Kre/internal/entity"
	"github.com/pwnz15/Kre/internal/port/storage"
	"go.uber.org/zap"
)

// Storage stores listing photos in a MinIO (S3-compatible) bucket.
type Storage struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewStorage(cfg *config.MinIOConfig, log *zap.Logger) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	ctx := context.Background()
	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(ctx, cfg.Bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", cfg.Bucket, err, existsErr)
		}
		log.Info("MinIO bucket already exists", zap.String("bucket", cfg.Bucket))
	} else {
		log.Info("MinIO bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &Storage{
		client: client,
		bucket: cfg.Bucket,
		logger: log,
	}, nil
}

// Upload stores one photo under a generated key and returns its public URL
// together with the key needed to delete it again.
func (s *Storage) Upload(ctx context.Context, file storage.File) (entity.PhotoRef, error) {
	objectKey := fmt.Sprintf("photos/%s%s", uuid.New().String(), filepath.Ext(file.Name))

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(file.Data), int64(len(file.Data)), minio.PutObjectOptions{
		ContentType: http.DetectContentType(file.Data),
	})
	if err != nil {
		s.logger.Error("PutObject failed",
			zap.String("bucket", s.bucket),
			zap.String("object_key", objectKey),
			zap.Error(err),
		)
		return entity.PhotoRef{}, fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	s.logger.Debug("photo uploaded",
		zap.String("object_key", objectKey),
		zap.String("original_filename", file.Name),
		zap.Int("size_bytes", len(file.Data)),
	)

	return entity.PhotoRef{
		URL:       fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey),
		ObjectKey: objectKey,
	}, nil
}

// Delete removes a stored photo. MinIO treats removing a missing object as
// success, which gives the idempotency the orchestrator's rollback relies on.
func (s *Storage) Delete(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s from bucket %s: %w", objectKey, s.bucket, err)
	}
	return nil
}
