package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kooo/evcam-companion/internal/common"
	"github.com/kooo/evcam-companion/internal/logging"
	"github.com/kooo/evcam-companion/internal/server/blob"
	"github.com/kooo/evcam-companion/internal/server/models"
	"github.com/kooo/evcam-companion/internal/server/repositories/repomanager"
)

// BlobStore is the object-storage surface the file service needs.
type BlobStore interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

type FileService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	blobs  BlobStore
	logger logging.Logger
}

func NewFileService(db *sql.DB, repos repomanager.RepositoryManager, blobs BlobStore, logger logging.Logger) *FileService {
	return &FileService{db: db, repos: repos, blobs: blobs, logger: logger.With("module", "file_service")}
}

// UploadTicket is a presigned PUT grant for one object key.
type UploadTicket struct {
	Key string
	URL string
}

// PresignUpload hands the device upload URLs for a new asset and, for
// videos, its thumbnail. The device uploads out-of-band and then calls
// CreateRecord with the same keys.
func (s *FileService) PresignUpload(ctx context.Context, deviceID, secret, fileType string) (asset, thumb *UploadTicket, err error) {
	if fileType != "photo" && fileType != "video" {
		return nil, nil, fmt.Errorf("%w: file type %q", common.ErrorInvalidCommand, fileType)
	}
	if err := s.authenticate(ctx, deviceID, secret); err != nil {
		return nil, nil, err
	}

	ext := ".jpg"
	if fileType == "video" {
		ext = ".mp4"
	}

	key := blob.AssetKey(deviceID, ext)
	url, err := s.blobs.PresignPut(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	asset = &UploadTicket{Key: key, URL: url}

	if fileType == "video" {
		thumbKey := blob.AssetKey(deviceID, ".thumb.jpg")
		thumbURL, err := s.blobs.PresignPut(ctx, thumbKey)
		if err != nil {
			return nil, nil, err
		}
		thumb = &UploadTicket{Key: thumbKey, URL: thumbURL}
	}

	return asset, thumb, nil
}

// PresignPreviewUpload grants a PUT URL for the device's fixed preview-frame
// key. The device overwrites the same object every cycle.
func (s *FileService) PresignPreviewUpload(ctx context.Context, deviceID, secret string) (*UploadTicket, error) {
	if err := s.authenticate(ctx, deviceID, secret); err != nil {
		return nil, err
	}

	key := blob.PreviewKey(deviceID)
	url, err := s.blobs.PresignPut(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Devices(s.db).SetPreviewFrame(ctx, deviceID, key, time.Now()); err != nil {
		return nil, err
	}
	return &UploadTicket{Key: key, URL: url}, nil
}

// CreateRecord registers an uploaded asset. When the record references the
// command that produced it, the file id is folded into the command result so
// a client polling that command can resolve the asset; a failure there is
// logged and tolerated, since the upload itself already succeeded.
func (s *FileService) CreateRecord(ctx context.Context, deviceID, secret string, rec *models.FileRecord) (string, error) {
	if err := s.authenticate(ctx, deviceID, secret); err != nil {
		return "", err
	}
	if rec.StorageKey == "" {
		return "", fmt.Errorf("%w: storage key is required", common.ErrorInvalidCommand)
	}
	if rec.FileType != "photo" && rec.FileType != "video" {
		return "", fmt.Errorf("%w: file type %q", common.ErrorInvalidCommand, rec.FileType)
	}

	device, err := s.repos.Devices(s.db).GetByID(ctx, deviceID)
	if err != nil {
		return "", err
	}

	rec.ID = uuid.Must(uuid.NewV7()).String()
	rec.DeviceID = deviceID
	rec.UserID = device.BoundUserID

	if err := s.repos.Files(s.db).Create(ctx, rec); err != nil {
		return "", err
	}

	if rec.CommandID != "" {
		payload, _ := json.Marshal(map[string]string{"fileId": rec.ID, "storageKey": rec.StorageKey})
		if err := s.repos.Commands(s.db).AttachResult(ctx, rec.CommandID, payload); err != nil {
			s.logger.Warn(ctx, "could not attach file to command",
				"file", rec.ID, "command", rec.CommandID, "error", err)
		}
	}

	s.logger.Info(ctx, "file record created", "file", rec.ID, "device", deviceID, "type", rec.FileType)
	return rec.ID, nil
}

// FileView is the owner-facing view of a record, with short-lived download
// URLs resolved from storage keys.
type FileView struct {
	Record   *models.FileRecord
	URL      string
	ThumbURL string
}

// FileList is one page of a device's files.
type FileList struct {
	Files []*FileView
	Total int64
}

// List returns the caller's files for a device, newest first. Presigning is
// best-effort per item: a signing failure leaves that URL empty rather than
// failing the page.
func (s *FileService) List(ctx context.Context, userID, deviceID, fileType string, page, pageSize int) (*FileList, error) {
	if fileType != "" && fileType != "photo" && fileType != "video" {
		return nil, fmt.Errorf("%w: file type %q", common.ErrorInvalidCommand, fileType)
	}
	if err := s.requireOwner(ctx, userID, deviceID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	repo := s.repos.Files(s.db)

	records, err := repo.ListByDevice(ctx, deviceID, fileType, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	total, err := repo.CountByDevice(ctx, deviceID, fileType)
	if err != nil {
		return nil, err
	}

	views := make([]*FileView, 0, len(records))
	for _, rec := range records {
		view := &FileView{Record: rec}
		if url, err := s.blobs.PresignGet(ctx, rec.StorageKey); err == nil {
			view.URL = url
		} else {
			s.logger.Warn(ctx, "presign failed", "file", rec.ID, "error", err)
		}
		if rec.ThumbKey != "" {
			if url, err := s.blobs.PresignGet(ctx, rec.ThumbKey); err == nil {
				view.ThumbURL = url
			}
		}
		views = append(views, view)
	}

	return &FileList{Files: views, Total: total}, nil
}

// Delete removes a file record and its blobs. Blob deletion is best-effort:
// an orphaned object is preferable to a record pointing at nothing.
func (s *FileService) Delete(ctx context.Context, userID, fileID string) error {
	rec, err := s.repos.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if rec.UserID != userID {
		return common.ErrorNotFound
	}

	keys := []string{rec.StorageKey}
	if rec.ThumbKey != "" {
		keys = append(keys, rec.ThumbKey)
	}
	if err := s.blobs.Delete(ctx, keys...); err != nil {
		s.logger.Warn(ctx, "blob delete failed", "file", fileID, "error", err)
	}

	if err := s.repos.Files(s.db).Delete(ctx, fileID); err != nil {
		return err
	}

	s.logger.Info(ctx, "file deleted", "file", fileID, "user", userID)
	return nil
}

// PreviewFrameURL resolves a short-lived GET URL for the device's latest
// preview frame. ErrorNotFound until the device has published at least one
// frame.
func (s *FileService) PreviewFrameURL(ctx context.Context, userID, deviceID string) (string, error) {
	device, err := s.repos.Devices(s.db).GetByID(ctx, deviceID)
	if err != nil {
		return "", err
	}
	if device.BoundUserID != userID {
		return "", common.ErrorNotFound
	}
	if device.PreviewKey == "" {
		return "", common.ErrorNotFound
	}
	return s.blobs.PresignGet(ctx, device.PreviewKey)
}

func (s *FileService) authenticate(ctx context.Context, deviceID, secret string) error {
	device, err := s.repos.Devices(s.db).GetByID(ctx, deviceID)
	if err != nil {
		return err
	}
	if secret != "" && device.Secret != "" && device.Secret != secret {
		return common.ErrorUnauthorized
	}
	return nil
}

func (s *FileService) requireOwner(ctx context.Context, userID, deviceID string) error {
	device, err := s.repos.Devices(s.db).GetByID(ctx, deviceID)
	if err != nil {
		return err
	}
	if device.BoundUserID != userID {
		return common.ErrorNotFound
	}
	return nil
}
