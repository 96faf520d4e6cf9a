package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kooo/evcam-companion/internal/common"
	"github.com/kooo/evcam-companion/internal/logging"
	"github.com/kooo/evcam-companion/internal/server/models"
	"github.com/kooo/evcam-companion/internal/server/repositories/repomanager"
)

// ClaimBatchLimit caps how many commands a single device poll may claim.
const ClaimBatchLimit = 10

type CommandService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewCommandService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *CommandService {
	return &CommandService{db: db, repos: repos, logger: logger.With("module", "command_service")}
}

// Enqueue admits a new command for the caller's device.
//
// Admission checks, each returned synchronously and never retried:
//   - kind must belong to the closed command set (ErrorInvalidCommand)
//   - the device must exist and belong to the caller (ErrorNotFound)
//   - the device heartbeat must be within AdmissionTimeout (ErrorOffline)
//
// On success the command is inserted as pending with a UUIDv7 id, which
// stays time-ordered under concurrent enqueue.
func (s *CommandService) Enqueue(ctx context.Context, userID, deviceID, kind string, params []byte) (string, error) {
	if !common.ValidKind(kind) {
		return "", fmt.Errorf("%w: %q", common.ErrorInvalidCommand, kind)
	}

	device, err := s.repos.Devices(s.db).GetByID(ctx, deviceID)
	if err != nil {
		return "", err
	}
	if device.BoundUserID != userID {
		return "", common.ErrorNotFound
	}
	if !device.OnlineWithin(time.Now(), AdmissionTimeout) {
		return "", common.ErrorOffline
	}

	if len(params) == 0 {
		params = []byte("{}")
	}

	cmd := &models.Command{
		ID:       uuid.Must(uuid.NewV7()).String(),
		DeviceID: deviceID,
		UserID:   userID,
		Kind:     kind,
		Params:   params,
		Status:   common.StatusPending,
	}

	if err := s.repos.Commands(s.db).Create(ctx, cmd); err != nil {
		return "", err
	}

	s.logger.Info(ctx, "command enqueued", "command", cmd.ID, "device", deviceID, "kind", kind)
	return cmd.ID, nil
}

// Claim hands the device its oldest pending commands, at most
// ClaimBatchLimit per poll, transitioning each to executing. The store-level
// claim is a conditional update, so two overlapping polls never receive the
// same command.
func (s *CommandService) Claim(ctx context.Context, deviceID string, limit int) ([]*models.Command, error) {
	if limit <= 0 || limit > ClaimBatchLimit {
		limit = ClaimBatchLimit
	}

	claimed, err := s.repos.Commands(s.db).ClaimPending(ctx, deviceID, limit)
	if err != nil {
		return nil, err
	}

	if len(claimed) > 0 {
		s.logger.Info(ctx, "commands claimed", "device", deviceID, "count", len(claimed))
	}
	return claimed, nil
}

// Report applies the device's terminal result for a command. Re-reporting an
// already-terminal command is accepted and idempotent (last write wins).
func (s *CommandService) Report(ctx context.Context, deviceID, commandID string, success bool, result []byte, errorMessage string) error {
	status := common.StatusCompleted
	if !success {
		status = common.StatusFailed
	}

	err := s.repos.Commands(s.db).SetResult(ctx, deviceID, commandID, status, result, errorMessage)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "command result", "command", commandID, "device", deviceID, "status", status)
	return nil
}

// GetByID is the read-only lookup issuing clients poll while waiting for a
// terminal status.
func (s *CommandService) GetByID(ctx context.Context, commandID string) (*models.Command, error) {
	return s.repos.Commands(s.db).GetByID(ctx, commandID)
}

// SweepStalled fails commands stuck in executing for longer than maxAge.
// A device that crashed mid-execution never reports, so without this the
// command would stall silently forever.
func (s *CommandService) SweepStalled(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := s.repos.Commands(s.db).FailStalled(ctx, maxAge)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Warn(ctx, "stalled commands failed", "count", n, "max_age", maxAge)
	}
	return n, nil
}

// RunSweeper periodically sweeps stalled commands until ctx is cancelled.
func (s *CommandService) RunSweeper(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepStalled(ctx, maxAge); err != nil {
				s.logger.Error(ctx, "sweep failed", "error", err)
			}
		}
	}
}
