package repository

import (
	"context"

	"galeri/internal/model"
)

// ItemRepository persists the metadata of a single collection.
// One instance exists per collection; the two collections never share state.
type ItemRepository interface {
	// Load returns every record of the collection in stored order.
	// A collection that was never written yields an empty slice and no error.
	Load(ctx context.Context) ([]model.UploadedItem, error)

	// Save overwrites the whole collection with items.
	Save(ctx context.Context, items []model.UploadedItem) error

	// Update runs a read-modify-write cycle under the collection's writer lock.
	// fn receives the current records and returns the records to persist.
	// If fn returns an error nothing is written and that error is returned.
	Update(ctx context.Context, fn func(items []model.UploadedItem) ([]model.UploadedItem, error)) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
