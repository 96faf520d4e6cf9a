package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kooo/evcam-companion/internal/common"
	"github.com/kooo/evcam-companion/internal/dbx"
	"github.com/kooo/evcam-companion/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const fileColumns = `id, device_id, user_id, storage_key, thumb_key, file_name,
		file_type, size, duration, command_id, created_at, updated_at`

func scanFile(row interface{ Scan(dest ...any) error }) (*models.FileRecord, error) {
	f := &models.FileRecord{}
	err := row.Scan(&f.ID, &f.DeviceID, &f.UserID, &f.StorageKey, &f.ThumbKey,
		&f.FileName, &f.FileType, &f.Size, &f.Duration, &f.CommandID,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.FileRecord) error {
	query := `
		INSERT INTO files (id, device_id, user_id, storage_key, thumb_key,
			file_name, file_type, size, duration, command_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.DeviceID, file.UserID, file.StorageKey, file.ThumbKey,
		file.FileName, file.FileType, file.Size, file.Duration, file.CommandID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) ListByDevice(ctx context.Context, deviceID, fileType string, limit, offset int) ([]*models.FileRecord, error) {
	query := `SELECT ` + fileColumns + `
		FROM files
		WHERE device_id = $1 AND ($2 = '' OR file_type = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, deviceID, fileType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.FileRecord
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CountByDevice(ctx context.Context, deviceID, fileType string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM files WHERE device_id = $1 AND ($2 = '' OR file_type = $2)`,
		deviceID, fileType).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
