package commands

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

const commandColumns = `id, device_id, user_id, kind, params, status, result,
		error_message, created_at, updated_at, completed_at`

func scanCommand(row interface{ Scan(dest ...any) error }) (*models.Command, error) {
	c := &models.Command{}
	err := row.Scan(&c.ID, &c.DeviceID, &c.UserID, &c.Kind, &c.Params, &c.Status,
		&c.Result, &c.ErrorMessage, &c.CreatedAt, &c.UpdatedAt, &c.CompletedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, cmd *models.Command) error {
	query := `
		INSERT INTO commands (id, device_id, user_id, kind, params, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		cmd.ID, cmd.DeviceID, cmd.UserID, cmd.Kind, cmd.Params, cmd.Status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Command, error) {
	query := `SELECT ` + commandColumns + ` FROM commands WHERE id = $1`

	c, err := scanCommand(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// ClaimPending claims in a single statement: the inner select picks the
// oldest pending commands and the update flips them to executing before any
// concurrent poll can see them. SKIP LOCKED keeps two simultaneous polls
// from blocking on each other's rows.
func (r *PostgresRepository) ClaimPending(ctx context.Context, deviceID string, limit int) ([]*models.Command, error) {
	query := `
		UPDATE commands
		SET status = 'executing', updated_at = now()
		WHERE id IN (
			SELECT id FROM commands
			WHERE device_id = $1 AND status = 'pending'
			ORDER BY created_at, id
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + commandColumns

	rows, err := r.db.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var claimed []*models.Command
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		claimed = append(claimed, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// RETURNING order is not guaranteed to follow the inner select.
	sortByCreation(claimed)
	return claimed, nil
}

func sortByCreation(cmds []*models.Command) {
	for i := 1; i < len(cmds); i++ {
		for j := i; j > 0 && earlier(cmds[j], cmds[j-1]); j-- {
			cmds[j], cmds[j-1] = cmds[j-1], cmds[j]
		}
	}
}

func earlier(a, b *models.Command) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func (r *PostgresRepository) SetResult(ctx context.Context, deviceID, commandID, status string, result []byte, errorMessage string) error {
	query := `
		UPDATE commands
		SET status = $3, result = $4, error_message = $5,
			completed_at = now(), updated_at = now()
		WHERE id = $1 AND device_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, commandID, deviceID, status, result, errorMessage)
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

func (r *PostgresRepository) AttachResult(ctx context.Context, commandID string, result []byte) error {
	query := `
		UPDATE commands
		SET result = $2, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, commandID, result)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CountPending(ctx context.Context, deviceID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM commands WHERE device_id = $1 AND status = 'pending'`,
		deviceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) FailStalled(ctx context.Context, maxAge time.Duration) (int64, error) {
	query := `
		UPDATE commands
		SET status = 'failed', error_message = 'execution timed out',
			completed_at = now(), updated_at = now()
		WHERE status = 'executing' AND updated_at < now() - $1::interval
	`
	res, err := r.db.ExecContext(ctx, query, fmt.Sprintf("%d seconds", int64(maxAge.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
