package mocks

import (
	"context"
	"io"
	"time"

	"galeri/internal/model"
	"galeri/internal/storage"
	"github.com/stretchr/testify/mock"
)

type MockItemService struct {
	mock.Mock
	Coll model.Collection
}

func (m *MockItemService) Collection() model.Collection {
	return m.Coll
}

func (m *MockItemService) Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64, description string) (*model.UploadedItem, error) {
	args := m.Called(ctx, r, originalFilename, contentType, size, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadedItem), args.Error(1)
}

func (m *MockItemService) List(ctx context.Context, limit int) ([]model.UploadedItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UploadedItem), args.Error(1)
}

func (m *MockItemService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemService) Open(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockItemService) Link(ctx context.Context, filename string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, filename, expiry)
	return args.String(0), args.Error(1)
}
