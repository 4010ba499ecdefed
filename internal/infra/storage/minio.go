package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bryanwahyu/foresight-engine/internal/config"
)

type putFunc func(ctx context.Context, key string, data []byte, contentType string) error

// Store archives guardian reviews in a MinIO (S3 compatible) bucket.
type Store struct {
	put        putFunc
	host       string
	bucketName string
}

// New buat koneksi MinIO dan pastikan bucket ada
func New(ctx context.Context, cfg config.MinioConfig) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is not set")
	}
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}
	}

	s := &Store{host: cli.EndpointURL().Host, bucketName: cfg.BucketName}
	s.put = func(ctx context.Context, key string, data []byte, contentType string) error {
		_, err := cli.PutObject(ctx, cfg.BucketName, key, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentType})
		return err
	}
	return s, nil
}

// Put uploads data under key and returns the object URL. The URL is only
// reachable directly when the bucket is public.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.put(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("put %s/%s: %w", s.bucketName, key, err)
	}
	return s.URL(key), nil
}

// URL is the path-style object URL for key.
func (s *Store) URL(key string) string {
	return fmt.Sprintf("http://%s/%s/%s", s.host, s.bucketName, key)
}
