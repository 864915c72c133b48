package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/geoscore/internal/domain/geoscore"
)

// R2Storage stores snapshots in Cloudflare R2 (or any S3-compatible API).
type R2Storage struct {
	client *minio.Client
	bucket string
	logger *slog.Logger

	bucketOnce sync.Once
	bucketErr  error
}

// NewR2Storage constructs the storage adapter.
func NewR2Storage(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*R2Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init r2 client: %w", err)
	}
	return &R2Storage{client: client, bucket: bucket, logger: logger.With("component", "archive.storage.r2")}, nil
}

func (s *R2Storage) ensureBucket(ctx context.Context) error {
	s.bucketOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err == nil && exists {
			return
		}
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
			s.bucketErr = err
			return
		}
		s.logger.Info("snapshot bucket created", "bucket", s.bucket)
	})
	return s.bucketErr
}

// snapshotCacheControl marks archived snapshots immutable; a run id is
// never reused.
const snapshotCacheControl = "public, max-age=31536000, immutable"

// Put uploads a snapshot with its run metadata as object user metadata.
func (s *R2Storage) Put(ctx context.Context, obj geoscore.Object) (geoscore.StoredObject, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return geoscore.StoredObject{}, err
	}
	info, err := s.client.PutObject(ctx, s.bucket, obj.Key, bytes.NewReader(obj.Data), int64(len(obj.Data)), putOptions(obj))
	if err != nil {
		return geoscore.StoredObject{}, fmt.Errorf("put %s: %w", obj.Key, err)
	}
	return geoscore.StoredObject{
		Key:         obj.Key,
		Size:        info.Size,
		ContentType: obj.ContentType,
		ETag:        info.ETag,
	}, nil
}

func putOptions(obj geoscore.Object) minio.PutObjectOptions {
	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	return minio.PutObjectOptions{
		ContentType:      contentType,
		CacheControl:     snapshotCacheControl,
		UserMetadata:     obj.Metadata,
		DisableMultipart: true,
	}
}

var _ geoscore.ObjectStorage = (*R2Storage)(nil)

// sanitizeEndpoint strips scheme and path as minio.New expects host[:port].
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
