package repomanager

import (
	"context"
	"database/sql"

	"github.com/streamsforlab/mediastore/internal/server/models"
	"github.com/streamsforlab/mediastore/internal/server/repositories/objects"
)

// InMemoryRepositoryManager backs every kind partition with a map-based
// repository. Used in tests.
type InMemoryRepositoryManager struct {
	repos map[models.MediaKind]objects.Repository
}

func (m InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m InMemoryRepositoryManager) Objects(kind models.MediaKind) objects.Repository {
	return m.repos[kind]
}

func NewInMemoryRepositoryManager() RepositoryManager {
	repos := make(map[models.MediaKind]objects.Repository, len(models.AllKinds()))
	for _, kind := range models.AllKinds() {
		repos[kind] = objects.NewInMemoryRepository()
	}
	return InMemoryRepositoryManager{repos: repos}
}
