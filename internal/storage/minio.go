package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jonathan/resume-builder/internal/config"
)

// ObjectStore keeps snapshots and exported artifacts in a MinIO/S3 bucket
type ObjectStore struct {
	client *minio.Client
	bucket string
	prefix string
}

// ObjectMeta describes an uploaded artifact
type ObjectMeta struct {
	Key  string
	Size int64
	ETag string
}

// NewObjectStore initializes the client and makes sure the bucket exists
func NewObjectStore(ctx context.Context, cfg config.MinIOConfig) (*ObjectStore, error) {
	bucketLookup := minio.BucketLookupAuto
	switch strings.ToLower(strings.TrimSpace(cfg.BucketLookup)) {
	case "", "auto":
		bucketLookup = minio.BucketLookupAuto
	case "dns":
		bucketLookup = minio.BucketLookupDNS
	case "path":
		bucketLookup = minio.BucketLookupPath
	default:
		return nil, fmt.Errorf("invalid minio bucket lookup %q", cfg.BucketLookup)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if !cfg.AutoCreateBucket {
			return nil, fmt.Errorf("bucket %q does not exist (auto create disabled)", cfg.Bucket)
		}
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &ObjectStore{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// objectKey places snapshots under snapshots/ and artifacts under exports/
func (s *ObjectStore) objectKey(kind, name string) string {
	return path.Join(strings.Trim(s.prefix, "/"), kind, strings.TrimLeft(name, "/"))
}

// Get returns the snapshot stored under key, or nil when it does not exist
func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	objectKey := s.objectKey("snapshots", key+".json")
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		if IsNoSuchKey(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get object %q: %w", objectKey, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if IsNoSuchKey(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read object %q: %w", objectKey, err)
	}
	return data, nil
}

// Set uploads the snapshot, replacing any previous version
func (s *ObjectStore) Set(ctx context.Context, key string, value []byte) error {
	objectKey := s.objectKey("snapshots", key+".json")
	if _, err := s.put(ctx, objectKey, value, "application/json"); err != nil {
		return err
	}
	return nil
}

// Delete removes the snapshot. A missing object is not an error.
func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	objectKey := s.objectKey("snapshots", key+".json")
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		if IsNoSuchKey(err) {
			return nil
		}
		return fmt.Errorf("remove object %q: %w", objectKey, err)
	}
	return nil
}

// PutArtifact uploads an exported file under exports/ and returns its metadata
func (s *ObjectStore) PutArtifact(ctx context.Context, name string, data []byte, contentType string) (*ObjectMeta, error) {
	return s.put(ctx, s.objectKey("exports", name), data, contentType)
}

// PresignedURL returns a time-limited download link for an uploaded artifact key
func (s *ObjectStore) PresignedURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, expires, nil)
	if err != nil {
		return "", fmt.Errorf("generate presigned url for %q: %w", objectKey, err)
	}
	return u.String(), nil
}

func (s *ObjectStore) put(ctx context.Context, objectKey string, data []byte, contentType string) (*ObjectMeta, error) {
	info, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", objectKey, err)
	}
	return &ObjectMeta{Key: info.Key, Size: info.Size, ETag: info.ETag}, nil
}
