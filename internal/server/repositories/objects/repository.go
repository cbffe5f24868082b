// Package objects defines the record store contract for object metadata.
// One Repository instance exists per media kind; instances share the
// contract and differ only in their backing partition.
package objects

import (
	"context"

	"github.com/streamsforlab/mediastore/internal/server/models"
)

type Repository interface {
	// Create persists a new record and returns it with the store-assigned id.
	Create(ctx context.Context, obj *models.StorageObject) (*models.StorageObject, error)

	// FindByAuthor returns every record owned by accountID in this partition.
	// An account with no records yields an empty slice, not an error.
	FindByAuthor(ctx context.Context, accountID string) ([]*models.StorageObject, error)

	// FindByID returns the record with the given id, or common.ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.StorageObject, error)

	// FindByPath returns the record whose ciphertext lives at path, or
	// common.ErrNotFound. Paths are unique per object, so at most one
	// record matches.
	FindByPath(ctx context.Context, path string) (*models.StorageObject, error)

	// RemoveByID deletes the record with the given id and returns it, or
	// common.ErrNotFound when it is absent.
	RemoveByID(ctx context.Context, id string) (*models.StorageObject, error)
}
