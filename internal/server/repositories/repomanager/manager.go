// Package repomanager wires concrete repository implementations to a DB
// handle and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/kooo/evcam-companion/internal/dbx"
	"github.com/kooo/evcam-companion/internal/server/repositories/bindhistory"
	"github.com/kooo/evcam-companion/internal/server/repositories/commands"
	"github.com/kooo/evcam-companion/internal/server/repositories/devices"
	"github.com/kooo/evcam-companion/internal/server/repositories/files"
)

// RepositoryManager builds repositories bound to a DBTX, so services can
// run several repositories inside one transaction via dbx.WithTx.
type RepositoryManager interface {
	Devices(db dbx.DBTX) devices.Repository
	Commands(db dbx.DBTX) commands.Repository
	Files(db dbx.DBTX) files.Repository
	BindHistory(db dbx.DBTX) bindhistory.Repository

	RunMigrations(ctx context.Context, db *sql.DB) error
}
