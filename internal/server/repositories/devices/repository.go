// Package devices persists registered dashcam units.
package devices

import (
	"context"
	"time"

	"github.com/kooo/evcam-companion/internal/server/models"
)

// HeartbeatUpdate carries the optional side effects of a heartbeat call.
// Nil fields keep the stored value.
type HeartbeatUpdate struct {
	StatusInfo *string
	Recording  *bool
}

type Repository interface {
	Create(ctx context.Context, device *models.Device) error
	GetByID(ctx context.Context, id string) (*models.Device, error)

	// Touch updates last_heartbeat and the optional status fields.
	Touch(ctx context.Context, id string, at time.Time, upd HeartbeatUpdate) error

	// RefreshRegistration updates descriptive fields on a repeated
	// device-initiated registration; empty values keep the stored ones.
	RefreshRegistration(ctx context.Context, id, name, model, appVersion string) error

	Bind(ctx context.Context, id, userID, name string) error
	Unbind(ctx context.Context, id string) error

	ListByOwner(ctx context.Context, userID string, limit, offset int) ([]*models.Device, error)
	CountByOwner(ctx context.Context, userID string) (int64, error)

	// SetPreviewFrame records the storage key and publish time of the most
	// recent preview snapshot.
	SetPreviewFrame(ctx context.Context, id, storageKey string, at time.Time) error
}
