package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"galeri/internal/model"
	"galeri/internal/repository/jsonfile"
	"galeri/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scenario struct {
	root   string
	images ItemService
	docs   ItemService
}

func newScenario(t *testing.T) *scenario {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewLocal(root)
	require.NoError(t, err)
	dataDir := filepath.Join(root, "data")
	return &scenario{
		root:   root,
		images: NewItemService(model.Images, store, jsonfile.NewItemStore(dataDir, model.Images), time.UTC),
		docs:   NewItemService(model.Documents, store, jsonfile.NewItemStore(dataDir, model.Documents), time.UTC),
	}
}

func TestScenario_UploadListDeleteImage(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)

	item, err := sc.images.Upload(ctx, strings.NewReader("meow"), "cat.png", "image/png", 4, "cat.png")
	require.NoError(t, err)

	items, err := sc.images.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, *item, items[0])
	assert.Equal(t, "cat.png", items[0].Description)
	assert.True(t, strings.HasSuffix(items[0].Filename, ".png"))
	stored := filepath.Join(sc.root, "uploads", items[0].Filename)
	assert.FileExists(t, stored)

	require.NoError(t, sc.images.Delete(ctx, item.ID))

	items, err = sc.images.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoFileExists(t, stored)
	_, _, err = sc.images.Open(ctx, item.Filename)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScenario_TwoDocumentUploadsNewestFirst(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)

	first, err := sc.docs.Upload(ctx, strings.NewReader("%PDF-1"), "a.pdf", "application/pdf", 6, "first")
	require.NoError(t, err)
	second, err := sc.docs.Upload(ctx, strings.NewReader("%PDF-2"), "b.pdf", "application/pdf", 6, "second")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Filename, second.Filename)

	items, err := sc.docs.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Description)
	assert.Equal(t, "first", items[1].Description)
	assert.FileExists(t, filepath.Join(sc.root, "documents", first.Filename))
	assert.FileExists(t, filepath.Join(sc.root, "documents", second.Filename))
}

func TestScenario_DeleteAfterFileLostRemovesRecord(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)
	item, err := sc.images.Upload(ctx, strings.NewReader("x"), "x.jpg", "image/jpeg", 1, "x")
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(sc.root, model.Images.Prefix, item.Filename)))

	require.NoError(t, sc.images.Delete(ctx, item.ID))

	items, err := sc.images.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.ErrorIs(t, sc.images.Delete(ctx, item.ID), ErrNotFound)
}

func TestScenario_DeleteUnknownLeavesCollection(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)
	_, err := sc.images.Upload(ctx, strings.NewReader("x"), "x.jpg", "image/jpeg", 1, "x")
	require.NoError(t, err)
	before, err := sc.images.List(ctx, 0)
	require.NoError(t, err)

	err = sc.images.Delete(ctx, 12345)

	assert.ErrorIs(t, err, ErrNotFound)
	after, err := sc.images.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestScenario_HomeSliceCapsAtFive(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)
	for i := 0; i < 7; i++ {
		_, err := sc.images.Upload(ctx, strings.NewReader("x"), "x.png", "image/png", 1, "img")
		require.NoError(t, err)
	}

	latest, err := sc.images.List(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, latest, 5)
	for i := 1; i < len(latest); i++ {
		assert.Greater(t, latest[i-1].ID, latest[i].ID)
	}
}

func TestScenario_ConcurrentUploadsLoseNothing(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sc.docs.Upload(ctx, strings.NewReader("%PDF"), "c.pdf", "application/pdf", 4, "concurrent")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := sc.docs.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, items, n)
	seen := map[int64]bool{}
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %d", it.ID)
		seen[it.ID] = true
	}
}
