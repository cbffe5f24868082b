// Package repomanager wires record store instances to their backing
// database and exposes one repository per media kind.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/streamsforlab/mediastore/internal/server/models"
	"github.com/streamsforlab/mediastore/internal/server/repositories/objects"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	// Objects returns the record store partition for the given kind.
	Objects(kind models.MediaKind) objects.Repository
}
