// Package minio stores the raw uploaded document files.  The engine never
// parses these files itself; workers hand the extractor a presigned URL.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/veridocs/kycengine/internal/config"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/pkg/errors"
)

// ObjectAPI abstracts the minio client operations the store needs, for
// testing.
type ObjectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// DocumentStore writes uploaded files under runs/<run_id>/<document_id>/ and
// hands out presigned GET URLs for the extractor.
type DocumentStore struct {
	api           ObjectAPI
	bucket        string
	presignExpiry time.Duration
	logger        logging.Logger
}

// NewDocumentStore connects to MinIO and ensures the bucket exists.
func NewDocumentStore(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*DocumentStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageUpload, "failed to create minio client")
	}

	store, err := NewDocumentStoreWithAPI(ctx, client, cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info("connected to object storage",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket))
	return store, nil
}

// NewDocumentStoreWithAPI builds the store over an injected API and ensures
// the bucket exists.
func NewDocumentStoreWithAPI(ctx context.Context, api ObjectAPI, cfg config.MinIOConfig, log logging.Logger) (*DocumentStore, error) {
	exists, err := api.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to reach object storage")
	}
	if !exists {
		if err := api.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStorageUpload, "failed to create bucket").WithDetail(cfg.Bucket)
		}
	}
	return &DocumentStore{
		api:           api,
		bucket:        cfg.Bucket,
		presignExpiry: cfg.PresignExpiry,
		logger:        log.Named("document_store"),
	}, nil
}

// objectKey builds the canonical object path for a document file.
func objectKey(runID, docID, filename string) string {
	return fmt.Sprintf("runs/%s/%s/%s", runID, docID, filename)
}

// Upload stores a document file and returns its object key.
func (s *DocumentStore) Upload(ctx context.Context, runID, docID, filename string, r io.Reader, size int64, contentType string) (string, error) {
	key := objectKey(runID, docID, filename)
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.api.PutObject(ctx, s.bucket, key, r, size, opts); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageUpload, "failed to upload document").WithDetail(key)
	}
	s.logger.Debug("document uploaded",
		logging.String("key", key), logging.Int64("size", size))
	return key, nil
}

// PresignedURL returns a time-limited GET URL for an object key.
func (s *DocumentStore) PresignedURL(ctx context.Context, key string) (string, error) {
	u, err := s.api.PresignedGetObject(ctx, s.bucket, key, s.presignExpiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageDownload, "failed to presign document URL").WithDetail(key)
	}
	return u.String(), nil
}

// Exists reports whether an object key is present.
func (s *DocumentStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.api.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeStorageDownload, "failed to stat object").WithDetail(key)
	}
	return true, nil
}

// Remove deletes an object.
func (s *DocumentStore) Remove(ctx context.Context, key string) error {
	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageUpload, "failed to remove object").WithDetail(key)
	}
	return nil
}
