package devices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const deviceColumns = `id, name, model, app_version, secret, bound_user_id, bound_at,
		last_heartbeat, status_info, recording, preview_key, preview_at,
		registered_at, last_register_at, created_at, updated_at`

func scanDevice(row interface{ Scan(dest ...any) error }) (*models.Device, error) {
	d := &models.Device{}
	err := row.Scan(&d.ID, &d.Name, &d.Model, &d.AppVersion, &d.Secret,
		&d.BoundUserID, &d.BoundAt, &d.LastHeartbeat, &d.StatusInfo, &d.Recording,
		&d.PreviewKey, &d.PreviewAt, &d.RegisteredAt, &d.LastRegisterAt,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *PostgresRepository) Create(ctx context.Context, device *models.Device) error {
	query := `
		INSERT INTO devices (id, name, model, app_version, secret, bound_user_id, bound_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		device.ID, device.Name, device.Model, device.AppVersion, device.Secret,
		device.BoundUserID, device.BoundAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1`

	d, err := scanDevice(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

// Touch stamps the heartbeat time and applies the optional status updates.
// Nil fields in upd keep the stored values.
func (r *PostgresRepository) Touch(ctx context.Context, id string, at time.Time, upd HeartbeatUpdate) error {
	query := `
		UPDATE devices
		SET last_heartbeat = $2,
			status_info = COALESCE($3, status_info),
			recording = COALESCE($4, recording),
			updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, at, upd.StatusInfo, upd.Recording)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *PostgresRepository) RefreshRegistration(ctx context.Context, id, name, model, appVersion string) error {
	query := `
		UPDATE devices
		SET name = COALESCE(NULLIF($2, ''), name),
			model = COALESCE(NULLIF($3, ''), model),
			app_version = COALESCE(NULLIF($4, ''), app_version),
			last_register_at = now(),
			updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, name, model, appVersion)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *PostgresRepository) Bind(ctx context.Context, id, userID, name string) error {
	query := `
		UPDATE devices
		SET bound_user_id = $2,
			bound_at = now(),
			name = COALESCE(NULLIF($3, ''), name),
			updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, userID, name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *PostgresRepository) Unbind(ctx context.Context, id string) error {
	query := `
		UPDATE devices
		SET bound_user_id = '', bound_at = NULL, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string, limit, offset int) ([]*models.Device, error) {
	query := `SELECT ` + deviceColumns + `
		FROM devices
		WHERE bound_user_id = $1
		ORDER BY bound_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM devices WHERE bound_user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) SetPreviewFrame(ctx context.Context, id, storageKey string, at time.Time) error {
	query := `
		UPDATE devices
		SET preview_key = $2, preview_at = $3, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, storageKey, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func oneRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
