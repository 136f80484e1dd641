package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galeri/internal/config"
)

func TestNewMinIOClient_Validation(t *testing.T) {
	valid := config.MinIOConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "ak",
		SecretKey: "sk",
		Bucket:    "galeri",
	}

	tests := []struct {
		name    string
		mutate  func(*config.MinIOConfig)
		wantErr string
	}{
		{"missing endpoint", func(c *config.MinIOConfig) { c.Endpoint = "" }, "minio endpoint is required"},
		{"missing access key", func(c *config.MinIOConfig) { c.AccessKey = "" }, "minio credentials are required"},
		{"missing secret key", func(c *config.MinIOConfig) { c.SecretKey = "" }, "minio credentials are required"},
		{"missing bucket", func(c *config.MinIOConfig) { c.Bucket = "" }, "minio bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			_, err := newMinIOClient(cfg)
			assert.EqualError(t, err, tt.wantErr)
		})
	}

	t.Run("valid", func(t *testing.T) {
		cli, err := newMinIOClient(valid)
		require.NoError(t, err)
		assert.NotNil(t, cli)
	})
}

func TestMapMinIOError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name         string
		err          error
		wantNotFound bool
		wantSame     bool
	}{
		{"nil", nil, false, false},
		{"no such key", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, true, false},
		{"bare 404", minio.ErrorResponse{StatusCode: http.StatusNotFound}, true, false},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, false, true},
		{"transport error", other, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapMinIOError("uploads/a.png", tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.wantNotFound, errors.Is(got, ErrObjectNotFound))
			if tt.wantNotFound {
				assert.Contains(t, got.Error(), "uploads/a.png")
			}
			if tt.wantSame {
				assert.Equal(t, tt.err, got)
			}
		})
	}
}

func TestBucketStorage_RejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()
	// Key checks run before any call reaches the client.
	b := &bucketStorage{bucket: "galeri"}

	for _, key := range []string{"", "/abs", "..", "../escape.png", "uploads/../../x"} {
		_, err := b.Put(ctx, key, strings.NewReader("x"), PutObjectOptions{Size: 1})
		assert.ErrorIs(t, err, ErrInvalidKey, key)
		_, _, err = b.Get(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
		assert.ErrorIs(t, b.Delete(ctx, key), ErrInvalidKey, key)
		_, err = b.PresignGet(ctx, key, time.Minute)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestBucketStorage_PresignGet(t *testing.T) {
	// With a region configured the URL is signed locally without contacting the server.
	cli, err := newMinIOClient(config.MinIOConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "ak",
		SecretKey: "sk",
		Bucket:    "galeri",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	b := &bucketStorage{client: cli, bucket: "galeri"}

	u, err := b.PresignGet(context.Background(), "uploads/./1715938215123456789.png", 15*time.Minute)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost:9000/galeri/uploads/1715938215123456789.png?"), u)
	assert.Contains(t, u, fmt.Sprintf("X-Amz-Expires=%d", int((15 * time.Minute).Seconds())))
	assert.Contains(t, u, "X-Amz-Signature=")
}

func TestCleanKey(t *testing.T) {
	k, err := cleanKey("documents//a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "documents/a.pdf", k)
	assert.Equal(t, "image/png", contentTypeOf("uploads/a.png"))
	assert.Equal(t, "application/octet-stream", contentTypeOf("uploads/blob"))
}
