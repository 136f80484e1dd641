package mocks

import (
	"context"

	"galeri/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockItemRepository is a testify mock of repository.ItemRepository.
// Update invokes fn with the items passed to On("Update", ...).Return(items, err)
// unless err is non-nil.
type MockItemRepository struct {
	mock.Mock

	// Saved holds the items returned by the last fn passed to Update.
	Saved []model.UploadedItem
}

func (m *MockItemRepository) Load(ctx context.Context) ([]model.UploadedItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UploadedItem), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, items []model.UploadedItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockItemRepository) Update(ctx context.Context, fn func(items []model.UploadedItem) ([]model.UploadedItem, error)) error {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return err
	}
	var current []model.UploadedItem
	if args.Get(0) != nil {
		current = args.Get(0).([]model.UploadedItem)
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	m.Saved = next
	return nil
}

func (m *MockItemRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
