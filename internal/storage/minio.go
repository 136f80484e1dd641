package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"galeri/internal/config"
)

// bucketStorage keeps objects in a single S3-compatible bucket (MinIO, AWS S3, ...).
// Keys map one to one onto object names, so "uploads/x.png" lands under the uploads/ prefix.
type bucketStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIO connects to the configured endpoint and makes sure the bucket exists.
func NewMinIO(cfg config.MinIOConfig) (Storage, error) {
	cli, err := newMinIOClient(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := &bucketStorage{client: cli, bucket: cfg.Bucket}
	if err := s.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}
	return s, nil
}

func newMinIOClient(cfg config.MinIOConfig) (*minio.Client, error) {
	switch {
	case cfg.Endpoint == "":
		return nil, fmt.Errorf("minio endpoint is required")
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return nil, fmt.Errorf("minio credentials are required")
	case cfg.Bucket == "":
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return cli, nil
}

func (b *bucketStorage) ensureBucket(ctx context.Context, region string) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", b.bucket, err)
	}
	if exists {
		return nil
	}
	if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", b.bucket, err)
	}
	return nil
}

// Put streams r into the bucket. A key that already has an object is refused with
// ErrObjectExists, matching the local backend so generated names can be retried.
func (b *bucketStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	k, err := cleanKey(key)
	if err != nil {
		return ObjectInfo{}, err
	}

	_, err = b.client.StatObject(ctx, b.bucket, k, minio.StatObjectOptions{})
	switch err = mapMinIOError(k, err); {
	case err == nil:
		return ObjectInfo{}, fmt.Errorf("%w: %s", ErrObjectExists, k)
	case !errors.Is(err, ErrObjectNotFound):
		return ObjectInfo{}, fmt.Errorf("stat %s: %w", k, err)
	}

	ct := opt.ContentType
	if ct == "" {
		ct = contentTypeOf(k)
	}
	info, err := b.client.PutObject(ctx, b.bucket, k, r, opt.Size, minio.PutObjectOptions{
		ContentType:  ct,
		UserMetadata: opt.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("put %s: %w", k, err)
	}
	if info.LastModified.IsZero() {
		info.LastModified = time.Now()
	}
	return ObjectInfo{
		Key:          k,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  ct,
		LastModified: info.LastModified,
		Metadata:     opt.Metadata,
	}, nil
}

func (b *bucketStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	k, err := cleanKey(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	obj, err := b.client.GetObject(ctx, b.bucket, k, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, mapMinIOError(k, err)
	}
	// GetObject is lazy; Stat is the first round trip and surfaces NoSuchKey.
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, ObjectInfo{}, mapMinIOError(k, err)
	}
	return obj, ObjectInfo{
		Key:          k,
		Size:         st.Size,
		ETag:         st.ETag,
		ContentType:  st.ContentType,
		LastModified: st.LastModified,
		Metadata:     st.UserMetadata,
	}, nil
}

// Delete removes the object. S3 reports success for keys that do not exist.
func (b *bucketStorage) Delete(ctx context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := b.client.RemoveObject(ctx, b.bucket, k, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", k, mapMinIOError(k, err))
	}
	return nil
}

func (b *bucketStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	u, err := b.client.PresignedGetObject(ctx, b.bucket, k, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", k, err)
	}
	return u.String(), nil
}

func mapMinIOError(key string, err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return err
}
