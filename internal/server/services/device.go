// Package services implements the backend use cases: device registration and
// binding, the heartbeat/liveness protocol, the command queue, and file
// record management.
package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/kooo/evcam-companion/internal/common"
	"github.com/kooo/evcam-companion/internal/dbx"
	"github.com/kooo/evcam-companion/internal/logging"
	"github.com/kooo/evcam-companion/internal/server/models"
	"github.com/kooo/evcam-companion/internal/server/repositories/bindhistory"
	"github.com/kooo/evcam-companion/internal/server/repositories/devices"
	"github.com/kooo/evcam-companion/internal/server/repositories/repomanager"
)

const (
	defaultDeviceName = "EVCam device"
	secretLength      = 32
)

const secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// generateSecret returns a random per-device token. Generated once at device
// creation and never rotated.
func generateSecret(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(secretAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = secretAlphabet[n.Int64()]
	}
	return string(out), nil
}

type DeviceService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewDeviceService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *DeviceService {
	return &DeviceService{db: db, repos: repos, logger: logger.With("module", "device_service")}
}

// RegisterResult is returned from device-initiated registration. Secret is
// only populated on first registration; repeated registrations return the
// stored secret so a reinstalled unit can recover it.
type RegisterResult struct {
	IsNew  bool
	Secret string
}

// Register handles device-initiated registration: create on first contact,
// refresh descriptive fields afterwards.
func (s *DeviceService) Register(ctx context.Context, deviceID, name, model, appVersion string) (*RegisterResult, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("%w: device id is required", common.ErrorInvalidCommand)
	}

	repo := s.repos.Devices(s.db)

	existing, err := repo.GetByID(ctx, deviceID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	if existing != nil {
		if err := repo.RefreshRegistration(ctx, deviceID, name, model, appVersion); err != nil {
			return nil, err
		}
		return &RegisterResult{IsNew: false, Secret: existing.Secret}, nil
	}

	secret, err := generateSecret(secretLength)
	if err != nil {
		return nil, err
	}

	device := &models.Device{
		ID:         deviceID,
		Name:       orDefault(name, defaultDeviceName),
		Model:      orDefault(model, "unknown"),
		AppVersion: orDefault(appVersion, "unknown"),
		Secret:     secret,
	}
	if err := repo.Create(ctx, device); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "device registered", "device", deviceID, "model", device.Model)
	return &RegisterResult{IsNew: true, Secret: secret}, nil
}

// Authenticate verifies the per-device secret. An empty stored secret (a
// legacy row) or an empty presented secret skips the check, matching the
// original protocol's coarse, optional verification.
func (s *DeviceService) Authenticate(ctx context.Context, deviceID, secret string) (*models.Device, error) {
	device, err := s.repos.Devices(s.db).GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if secret != "" && device.Secret != "" && device.Secret != secret {
		return nil, common.ErrorUnauthorized
	}
	return device, nil
}

// HeartbeatResult tells the device whether commands are already waiting so
// it can poll immediately instead of sleeping out its own interval.
type HeartbeatResult struct {
	HasPendingCommands bool
}

// Heartbeat stamps liveness and applies the status side effects carried on
// the call (free-form status text, recording flag).
func (s *DeviceService) Heartbeat(ctx context.Context, deviceID, secret string, statusInfo *string, recording *bool) (*HeartbeatResult, error) {
	if _, err := s.Authenticate(ctx, deviceID, secret); err != nil {
		return nil, err
	}

	upd := devices.HeartbeatUpdate{StatusInfo: statusInfo, Recording: recording}
	if err := s.repos.Devices(s.db).Touch(ctx, deviceID, time.Now(), upd); err != nil {
		return nil, err
	}

	pending, err := s.repos.Commands(s.db).CountPending(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	return &HeartbeatResult{HasPendingCommands: pending > 0}, nil
}

// Bind attaches the device to the calling owner, auto-registering unknown
// devices. Binding is exclusive: a device bound to a different owner is
// refused with ErrorConflict. Rebinding by the same owner refreshes the
// display name.
func (s *DeviceService) Bind(ctx context.Context, userID, deviceID, name string) (*models.Device, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("%w: device id is required", common.ErrorInvalidCommand)
	}

	var bound *models.Device

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Devices(tx)
		history := s.repos.BindHistory(tx)

		device, err := repo.GetByID(ctx, deviceID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if device == nil {
			secret, err := generateSecret(secretLength)
			if err != nil {
				return err
			}
			now := time.Now()
			device = &models.Device{
				ID:          deviceID,
				Name:        orDefault(name, defaultDeviceName),
				Model:       "unknown",
				AppVersion:  "unknown",
				Secret:      secret,
				BoundUserID: userID,
				BoundAt:     &now,
			}
			if err := repo.Create(ctx, device); err != nil {
				return err
			}
			if err := history.Append(ctx, deviceID, userID, bindhistory.ActionRegisterAndBind); err != nil {
				return err
			}
			bound = device
			return nil
		}

		if device.Bound() && device.BoundUserID != userID {
			return common.ErrorConflict
		}

		if err := repo.Bind(ctx, deviceID, userID, name); err != nil {
			return err
		}
		if err := history.Append(ctx, deviceID, userID, bindhistory.ActionBind); err != nil {
			return err
		}

		device.BoundUserID = userID
		if name != "" {
			device.Name = name
		}
		bound = device
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "device bound", "device", deviceID, "user", userID)
	return bound, nil
}

// Unbind releases the device from its owner. Only the current owner may
// unbind.
func (s *DeviceService) Unbind(ctx context.Context, userID, deviceID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Devices(tx)

		device, err := repo.GetByID(ctx, deviceID)
		if err != nil {
			return err
		}
		if device.BoundUserID != userID {
			return common.ErrorNotFound
		}

		if err := repo.Unbind(ctx, deviceID); err != nil {
			return err
		}
		return s.repos.BindHistory(tx).Append(ctx, deviceID, userID, bindhistory.ActionUnbind)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "device unbound", "device", deviceID, "user", userID)
	return nil
}

// Status is the owner-facing view of a device, with liveness derived from
// the heartbeat using the UI-facing StatusTimeout.
type Status struct {
	Device                *models.Device
	Online                bool
	SecondsSinceHeartbeat int64
}

// GetStatus returns the status view for the caller's device.
func (s *DeviceService) GetStatus(ctx context.Context, userID, deviceID string) (*Status, error) {
	device, err := s.repos.Devices(s.db).GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if device.BoundUserID != userID {
		return nil, common.ErrorNotFound
	}

	now := time.Now()
	return &Status{
		Device:                device,
		Online:                device.OnlineWithin(now, StatusTimeout),
		SecondsSinceHeartbeat: device.SecondsSinceHeartbeat(now),
	}, nil
}

// DeviceList is one page of the caller's devices.
type DeviceList struct {
	Devices []*Status
	Total   int64
}

// List returns the caller's devices, most recently bound first.
func (s *DeviceService) List(ctx context.Context, userID string, page, pageSize int) (*DeviceList, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	repo := s.repos.Devices(s.db)

	items, err := repo.ListByOwner(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	total, err := repo.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	statuses := make([]*Status, 0, len(items))
	for _, d := range items {
		statuses = append(statuses, &Status{
			Device:                d,
			Online:                d.OnlineWithin(now, StatusTimeout),
			SecondsSinceHeartbeat: d.SecondsSinceHeartbeat(now),
		})
	}

	return &DeviceList{Devices: statuses, Total: total}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
