package repomanager

import (
	"context"
	"database/sql"

	"github.com/kooo/evcam-companion/internal/dbx"
	"github.com/kooo/evcam-companion/internal/server/migrations"
	"github.com/kooo/evcam-companion/internal/server/repositories/bindhistory"
	"github.com/kooo/evcam-companion/internal/server/repositories/commands"
	"github.com/kooo/evcam-companion/internal/server/repositories/devices"
	"github.com/kooo/evcam-companion/internal/server/repositories/files"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// gooseUpContext is a test seam for goose.UpContext.
var gooseUpContext = goose.UpContext

type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Devices(db dbx.DBTX) devices.Repository {
	return devices.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Commands(db dbx.DBTX) commands.Repository {
	return commands.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Files(db dbx.DBTX) files.Repository {
	return files.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) BindHistory(db dbx.DBTX) bindhistory.Repository {
	return bindhistory.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
