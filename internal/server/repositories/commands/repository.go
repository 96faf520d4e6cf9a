// Package commands persists the per-device command queue.
package commands

import (
	"context"
	"time"

	"github.com/kooo/evcam-companion/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, cmd *models.Command) error
	GetByID(ctx context.Context, id string) (*models.Command, error)

	// ClaimPending atomically transitions up to limit oldest pending
	// commands of the device to executing and returns them oldest-first.
	ClaimPending(ctx context.Context, deviceID string, limit int) ([]*models.Command, error)

	// SetResult applies the terminal transition. Idempotent: re-reporting
	// an already-terminal command overwrites result fields (last write
	// wins) but never leaves a terminal status.
	SetResult(ctx context.Context, deviceID, commandID, status string, result []byte, errorMessage string) error

	// AttachResult merges a result payload into a command without touching
	// its status. Used when a file upload references the command.
	AttachResult(ctx context.Context, commandID string, result []byte) error

	CountPending(ctx context.Context, deviceID string) (int64, error)

	// FailStalled marks commands stuck in executing for longer than
	// maxAge as failed. Returns the number of commands swept.
	FailStalled(ctx context.Context, maxAge time.Duration) (int64, error)
}
