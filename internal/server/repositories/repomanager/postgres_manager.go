package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/streamsforlab/mediastore/internal/server/migrations"
	"github.com/streamsforlab/mediastore/internal/server/models"
	"github.com/streamsforlab/mediastore/internal/server/repositories/objects"
)

type PostgresRepositoryManager struct {
	db    *sql.DB
	repos map[models.MediaKind]objects.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Objects(kind models.MediaKind) objects.Repository {
	return m.repos[kind]
}

// gooseUpContext is a test seam for goose.UpContext.
var gooseUpContext = goose.UpContext

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	repos := make(map[models.MediaKind]objects.Repository, len(models.AllKinds()))
	for _, kind := range models.AllKinds() {
		repos[kind] = objects.NewPostgresRepository(db, kind)
	}

	m := &PostgresRepositoryManager{db: db, repos: repos}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
