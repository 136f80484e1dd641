package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) (Storage, string) {
	t.Helper()
	root := t.TempDir()
	s, err := NewLocal(root)
	require.NoError(t, err)
	return s, root
}

func TestNewLocal_RequiresRoot(t *testing.T) {
	_, err := NewLocal("")
	assert.Error(t, err)
}

func TestLocal_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, root := newTestLocal(t)

	info, err := s.Put(ctx, "uploads/1.png", strings.NewReader("png-bytes"), PutObjectOptions{Size: 9, ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "uploads/1.png", info.Key)
	assert.Equal(t, int64(9), info.Size)
	assert.FileExists(t, filepath.Join(root, "uploads", "1.png"))

	rc, got, err := s.Get(ctx, "uploads/1.png")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, int64(9), got.Size)

	require.NoError(t, s.Delete(ctx, "uploads/1.png"))
	assert.NoFileExists(t, filepath.Join(root, "uploads", "1.png"))
}

func TestLocal_PutDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	s, root := newTestLocal(t)
	_, err := s.Put(ctx, "documents/a.pdf", strings.NewReader("first"), PutObjectOptions{})
	require.NoError(t, err)

	_, err = s.Put(ctx, "documents/a.pdf", strings.NewReader("second"), PutObjectOptions{})

	assert.ErrorIs(t, err, ErrObjectExists)
	data, _ := os.ReadFile(filepath.Join(root, "documents", "a.pdf"))
	assert.Equal(t, "first", string(data))
}

func TestLocal_DeleteMissing(t *testing.T) {
	s, _ := newTestLocal(t)

	err := s.Delete(context.Background(), "uploads/missing.png")

	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocal_GetMissing(t *testing.T) {
	s, _ := newTestLocal(t)

	_, _, err := s.Get(context.Background(), "uploads/missing.png")

	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocal_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestLocal(t)

	for _, key := range []string{"../etc/passwd", "/abs/path", "uploads/..", ""} {
		_, _, err := s.Get(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
		assert.ErrorIs(t, s.Delete(ctx, key), ErrInvalidKey, key)
	}
}

func TestLocal_PresignUnsupported(t *testing.T) {
	s, _ := newTestLocal(t)

	_, err := s.PresignGet(context.Background(), "uploads/1.png", 0)

	assert.ErrorIs(t, err, ErrPresignUnsupported)
}
