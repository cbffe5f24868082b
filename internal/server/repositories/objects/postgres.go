package objects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/streamsforlab/mediastore/internal/common"
	"github.com/streamsforlab/mediastore/internal/dbx"
	"github.com/streamsforlab/mediastore/internal/server/models"
)

// PostgresRepository implements the record store over a dbx.DBTX
// (*sql.DB or *sql.Tx). All kinds share one table; each repository
// instance is pinned to its partition through the kind column.
type PostgresRepository struct {
	db   dbx.DBTX
	kind models.MediaKind
}

// NewPostgresRepository constructs a repository bound to the given DBTX
// and kind partition.
func NewPostgresRepository(db dbx.DBTX, kind models.MediaKind) *PostgresRepository {
	return &PostgresRepository{db: db, kind: kind}
}

func (r *PostgresRepository) Create(ctx context.Context, obj *models.StorageObject) (*models.StorageObject, error) {
	shared, err := marshalSharedUsers(obj.SharedUsers)
	if err != nil {
		return nil, err
	}

	created := *obj
	created.ID = uuid.NewString()

	query := `
		INSERT INTO objects (id, kind, name, path, weight, uploaded_at, author, shared_users)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	res, err := r.db.ExecContext(ctx, query,
		created.ID, string(r.kind), created.Name, created.Path, created.Weight,
		created.UploadedAt, created.Author, shared)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return nil, fmt.Errorf("unexpected rows affected: %d", n)
	}
	return &created, nil
}

func (r *PostgresRepository) FindByAuthor(ctx context.Context, accountID string) ([]*models.StorageObject, error) {
	query := `
		SELECT id, name, path, weight, uploaded_at, author, shared_users FROM objects
		WHERE kind=$1 AND author=$2
		ORDER BY uploaded_at
	`
	rows, err := r.db.QueryContext(ctx, query, string(r.kind), accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to select objects: %w", err)
	}
	defer rows.Close()

	result := []*models.StorageObject{}
	for rows.Next() {
		item, err := scanObject(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.StorageObject, error) {
	query := `
		SELECT id, name, path, weight, uploaded_at, author, shared_users FROM objects
		WHERE kind=$1 AND id=$2
	`
	row := r.db.QueryRowContext(ctx, query, string(r.kind), id)
	item, err := scanObject(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select object: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) FindByPath(ctx context.Context, path string) (*models.StorageObject, error) {
	query := `
		SELECT id, name, path, weight, uploaded_at, author, shared_users FROM objects
		WHERE kind=$1 AND path=$2
	`
	row := r.db.QueryRowContext(ctx, query, string(r.kind), path)
	item, err := scanObject(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select object: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) RemoveByID(ctx context.Context, id string) (*models.StorageObject, error) {
	query := `
		DELETE FROM objects WHERE kind=$1 AND id=$2
		RETURNING id, name, path, weight, uploaded_at, author, shared_users
	`
	row := r.db.QueryRowContext(ctx, query, string(r.kind), id)
	item, err := scanObject(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to remove object: %w", err)
	}
	return item, nil
}

func marshalSharedUsers(users []string) ([]byte, error) {
	if users == nil {
		users = []string{}
	}
	b, err := json.Marshal(users)
	if err != nil {
		return nil, fmt.Errorf("marshal shared users: %w", err)
	}
	return b, nil
}

func scanObject(scan func(dest ...any) error) (*models.StorageObject, error) {
	var item models.StorageObject
	var shared []byte
	if err := scan(&item.ID, &item.Name, &item.Path, &item.Weight,
		&item.UploadedAt, &item.Author, &shared); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shared, &item.SharedUsers); err != nil {
		return nil, fmt.Errorf("unmarshal shared users: %w", err)
	}
	return &item, nil
}
