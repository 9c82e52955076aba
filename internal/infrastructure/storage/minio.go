package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/inferentia-labs/meeting-knowledge/errors"
	"github.com/inferentia-labs/meeting-knowledge/pkg/config"
)

// MinIOStore keeps transcript text files and CSV exports in an object
// store bucket, one prefix per team.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore creates a MinIO-backed store and ensures the bucket exists.
func NewMinIOStore(ctx context.Context, cfg *config.StorageConfig) (*MinIOStore, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &MinIOStore{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return s, nil
}

func (s *MinIOStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// SaveTranscript uploads the transcript text under <team>/<name> and
// returns the object key as the transcript reference.
func (s *MinIOStore) SaveTranscript(ctx context.Context, team, name, text string) (string, error) {
	key := path.Join(team, name)
	if err := s.upload(ctx, key, []byte(text), "text/plain; charset=utf-8"); err != nil {
		return "", err
	}
	return key, nil
}

// SaveExport uploads a CSV export under <team>/<name> and returns the
// object key.
func (s *MinIOStore) SaveExport(ctx context.Context, team, name string, csv []byte) (string, error) {
	key := path.Join(team, name)
	if err := s.upload(ctx, key, csv, "text/csv"); err != nil {
		return "", err
	}
	return key, nil
}

func (s *MinIOStore) upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errors.ErrStorageFailed(fmt.Sprintf("upload %s", key), err)
	}
	return nil
}
