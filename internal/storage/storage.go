package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"time"
)

// Package storage contains blob storage abstractions for uploaded binaries.
// Two backends exist: the local filesystem (default) and S3-compatible object storage via MinIO.

var (
	// ErrObjectNotFound is returned when a key has no stored object.
	ErrObjectNotFound = errors.New("object not found")
	// ErrObjectExists is returned by Put when the key is already taken.
	ErrObjectExists = errors.New("object already exists")
	// ErrPresignUnsupported is returned by backends that cannot hand out direct URLs.
	ErrPresignUnsupported = errors.New("presigned urls not supported")
	// ErrInvalidKey is returned for keys that escape the storage root.
	ErrInvalidKey = errors.New("invalid object key")
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a blob store keyed by slash-separated paths such as "uploads/1700000000000.png".
type Storage interface {
	// Put stores the object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// cleanKey rejects keys that are empty, absolute or climb out of the store.
func cleanKey(key string) (string, error) {
	if key == "" || path.IsAbs(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	k := path.Clean(key)
	if k == "." || k == ".." || len(k) > 2 && k[:3] == "../" {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return k, nil
}

func contentTypeOf(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
