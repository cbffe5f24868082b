package objects

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/streamsforlab/mediastore/internal/common"
	"github.com/streamsforlab/mediastore/internal/server/models"
)

// InMemoryRepository is a map-backed record store used in tests and as the
// backing for the in-memory repository manager. Safe for concurrent use.
type InMemoryRepository struct {
	mu      sync.Mutex
	records map[string]models.StorageObject
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]models.StorageObject)}
}

func (r *InMemoryRepository) Create(ctx context.Context, obj *models.StorageObject) (*models.StorageObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *obj
	created.ID = uuid.NewString()
	if created.SharedUsers == nil {
		created.SharedUsers = []string{}
	}
	r.records[created.ID] = created
	return &created, nil
}

func (r *InMemoryRepository) FindByAuthor(ctx context.Context, accountID string) ([]*models.StorageObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []*models.StorageObject{}
	for _, item := range r.records {
		if item.Author == accountID {
			copied := item
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadedAt.Before(result[j].UploadedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*models.StorageObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.records[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := item
	return &copied, nil
}

func (r *InMemoryRepository) FindByPath(ctx context.Context, path string) (*models.StorageObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.records {
		if item.Path == path {
			copied := item
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) RemoveByID(ctx context.Context, id string) (*models.StorageObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.records[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	delete(r.records, id)
	copied := item
	return &copied, nil
}
