package bindhistory

import (
	"context"
	"fmt"

	"github.com/kooo/evcam-companion/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, deviceID, userID, action string) error {
	query := `INSERT INTO bind_history (device_id, user_id, action) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, deviceID, userID, action); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
