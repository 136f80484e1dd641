package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"galeri/internal/model"
	"galeri/internal/repository"
	"galeri/internal/storage"
)

var (
	ErrFileMissing     = errors.New("uploaded file is missing")
	ErrNotFound        = errors.New("item not found")
	ErrInvalidFilename = errors.New("invalid filename")
)

// maxNameAttempts bounds retries when a generated filename is already taken.
const maxNameAttempts = 64

var tracer = otel.Tracer("galeri/internal/service")

// ItemService defines the use cases of one collection (images or documents).
type ItemService interface {
	// Collection returns the collection this service manages.
	Collection() model.Collection

	// Upload stores the content under a generated "<unix nanos><ext>" filename and appends a record.
	// A nil reader yields ErrFileMissing. If the record cannot be saved the stored file is removed.
	Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64, description string) (*model.UploadedItem, error)

	// List returns records newest first. limit <= 0 returns all of them.
	List(ctx context.Context, limit int) ([]model.UploadedItem, error)

	// Delete removes the stored file and then the record. Unknown ids yield ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// Open streams a stored file by its generated filename.
	Open(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectInfo, error)

	// Link returns a direct download URL when the storage backend supports it.
	Link(ctx context.Context, filename string, expiry time.Duration) (string, error)
}

type itemService struct {
	collection model.Collection
	store      storage.Storage
	repo       repository.ItemRepository
	loc        *time.Location
	now        func() time.Time
}

// NewItemService constructs the ItemService for collection c.
// Upload dates are rendered in loc; a nil loc means time.Local.
func NewItemService(c model.Collection, store storage.Storage, repo repository.ItemRepository, loc *time.Location) ItemService {
	if loc == nil {
		loc = time.Local
	}
	return &itemService{
		collection: c,
		store:      store,
		repo:       repo,
		loc:        loc,
		now:        time.Now,
	}
}

func (s *itemService) Collection() model.Collection {
	return s.collection
}

func (s *itemService) key(filename string) string {
	return path.Join(s.collection.Prefix, filename)
}

func (s *itemService) Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64, description string) (*model.UploadedItem, error) {
	if r == nil {
		return nil, ErrFileMissing
	}
	ctx, span := s.startSpan(ctx, "ItemService.Upload")
	defer span.End()

	now := s.now()
	ext := filepath.Ext(originalFilename)
	stamp := now.UnixNano()

	var (
		filename string
		key      string
		err      error
	)
	for attempt := 1; ; attempt++ {
		filename = strconv.FormatInt(stamp, 10) + ext
		key = s.key(filename)
		_, err = s.store.Put(ctx, key, r, storage.PutObjectOptions{
			Size:        size,
			ContentType: contentType,
			Metadata: map[string]string{
				"original-filename": originalFilename,
			},
		})
		if errors.Is(err, storage.ErrObjectExists) && attempt < maxNameAttempts {
			stamp++
			continue
		}
		break
	}
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("upload to storage: %w", err))
	}

	var created model.UploadedItem
	err = s.repo.Update(ctx, func(items []model.UploadedItem) ([]model.UploadedItem, error) {
		created = model.UploadedItem{
			ID:          nextID(items, now),
			Filename:    filename,
			Description: description,
			UploadDate:  now.In(s.loc).Format(model.UploadDateLayout),
		}
		return append(items, created), nil
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, s.fail(span, fmt.Errorf("metadata save failed: %v; rollback delete failed: %v", err, delErr))
		}
		return nil, s.fail(span, fmt.Errorf("metadata save failed: %w", err))
	}

	span.SetAttributes(attribute.Int64("item.id", created.ID))
	return &created, nil
}

// nextID derives an id from now in Unix milliseconds, bumped past every existing id
// so that ids stay unique and increasing even when the clock does not advance.
func nextID(items []model.UploadedItem, now time.Time) int64 {
	id := now.UnixMilli()
	for _, it := range items {
		if it.ID >= id {
			id = it.ID + 1
		}
	}
	return id
}

func (s *itemService) List(ctx context.Context, limit int) ([]model.UploadedItem, error) {
	ctx, span := s.startSpan(ctx, "ItemService.List")
	defer span.End()

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, s.fail(span, err)
	}
	slices.SortStableFunc(items, func(a, b model.UploadedItem) int {
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *itemService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "ItemService.Delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("item.id", id))

	err := s.repo.Update(ctx, func(items []model.UploadedItem) ([]model.UploadedItem, error) {
		idx := slices.IndexFunc(items, func(it model.UploadedItem) bool { return it.ID == id })
		if idx < 0 {
			return nil, ErrNotFound
		}
		// The file goes first; if that fails the record stays so it can be retried.
		// A file that is already gone leaves a dangling record, which is dropped.
		err := s.store.Delete(ctx, s.key(items[idx].Filename))
		if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("delete storage: %w", err)
		}
		return slices.DeleteFunc(items, func(it model.UploadedItem) bool { return it.ID == id }), nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return s.fail(span, err)
	}
	return err
}

func (s *itemService) Open(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectInfo, error) {
	if !validFilename(filename) {
		return nil, storage.ObjectInfo{}, ErrInvalidFilename
	}
	rc, info, err := s.store.Get(ctx, s.key(filename))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, ErrNotFound
		}
		return nil, storage.ObjectInfo{}, err
	}
	return rc, info, nil
}

func (s *itemService) Link(ctx context.Context, filename string, expiry time.Duration) (string, error) {
	if !validFilename(filename) {
		return "", ErrInvalidFilename
	}
	return s.store.PresignGet(ctx, s.key(filename), expiry)
}

func validFilename(name string) bool {
	return name != "" && name != "." && name != ".." && path.Base(name) == name && filepath.Base(name) == name
}

func (s *itemService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("collection", s.collection.Name)))
}

func (s *itemService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
