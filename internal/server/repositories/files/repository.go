// Package files persists metadata records for device-produced assets.
package files

import (
	"context"

	"github.com/kooo/evcam-companion/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.FileRecord) error
	GetByID(ctx context.Context, id string) (*models.FileRecord, error)

	// ListByDevice returns records newest-first. fileType filters by
	// "photo" or "video"; empty means both.
	ListByDevice(ctx context.Context, deviceID, fileType string, limit, offset int) ([]*models.FileRecord, error)
	CountByDevice(ctx context.Context, deviceID, fileType string) (int64, error)

	Delete(ctx context.Context, id string) error
}
