package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"galeri/internal/model"
	"galeri/internal/repository"
)

// ItemStore keeps one collection's metadata in a single JSON array file.
// Writes go to a temp file that is renamed over the target, so Load never
// observes a partially written file. Update holds mu for the whole
// read-modify-write cycle; it is the only writer of the file.
type ItemStore struct {
	dir  string
	path string
	mu   sync.Mutex
}

// NewItemStore creates a store for collection c whose file lives in dir.
func NewItemStore(dir string, c model.Collection) *ItemStore {
	return &ItemStore{
		dir:  dir,
		path: filepath.Join(dir, c.DataFile),
	}
}

var _ repository.ItemRepository = (*ItemStore)(nil)

// Path returns the JSON file backing the store.
func (s *ItemStore) Path() string {
	return s.path
}

// Load reads the collection. A missing file yields an empty slice.
func (s *ItemStore) Load(ctx context.Context) ([]model.UploadedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.UploadedItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var items []model.UploadedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if items == nil {
		items = []model.UploadedItem{}
	}
	return items, nil
}

// Save overwrites the collection with items.
func (s *ItemStore) Save(ctx context.Context, items []model.UploadedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, items)
}

// Update loads, applies fn and saves while holding the writer lock.
func (s *ItemStore) Update(ctx context.Context, fn func(items []model.UploadedItem) ([]model.UploadedItem, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.Load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return s.save(ctx, next)
}

// Ping checks that the data directory exists.
func (s *ItemStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fi, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

func (s *ItemStore) save(ctx context.Context, items []model.UploadedItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if items == nil {
		items = []model.UploadedItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}
