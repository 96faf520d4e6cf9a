package models

import "time"

// FileRecord is the metadata row for an asset the device produced and
// uploaded to object storage. The blob itself is uploaded out-of-band via
// a presigned URL; the record links back to the command that produced it
// when known. The link is best-effort: a command may complete without a
// record ever appearing.
type FileRecord struct {
	ID       string
	DeviceID string
	// UserID is the device owner at upload time, empty when unbound.
	UserID string

	// StorageKey is the object-storage key of the primary asset.
	StorageKey string
	// ThumbKey is the key of the thumbnail, empty when not produced.
	ThumbKey string

	FileName string
	// FileType is "photo" or "video".
	FileType string
	// Size in bytes.
	Size int64
	// Duration in seconds, video only (nil for photos).
	Duration *int64

	// CommandID links the record to the command that produced it, when known.
	CommandID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
