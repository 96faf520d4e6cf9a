// Package models defines server-side data models persisted in the database.
package models

import "time"

// Device is a registered dashcam unit. It is created either by the unit
// itself on first registration or implicitly on an owner's first bind
// attempt. Devices are never hard-deleted.
type Device struct {
	// ID is the globally unique device identifier assigned at manufacture.
	ID string
	// Name is the human-readable display name.
	Name string
	// Model is the hardware model string.
	Model string
	// AppVersion is the firmware/app version last reported at registration.
	AppVersion string

	// Secret is the per-device token used for coarse authentication of
	// device-facing calls. Generated once at creation, never rotated.
	Secret string

	// BoundUserID is the owner identity, empty when unbound. Binding is
	// exclusive: at most one owner at a time.
	BoundUserID string
	BoundAt     *time.Time

	// LastHeartbeat is nil until the first heartbeat arrives.
	LastHeartbeat *time.Time
	// StatusInfo is free-form status text reported with each heartbeat.
	StatusInfo string
	// Recording reports whether the device is currently recording.
	Recording bool

	// PreviewKey and PreviewAt reference the latest published preview frame.
	PreviewKey string
	PreviewAt  *time.Time

	RegisteredAt   time.Time
	LastRegisterAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Bound reports whether the device currently has an owner.
func (d *Device) Bound() bool {
	return d.BoundUserID != ""
}

// OnlineWithin reports whether the device heartbeat is fresher than timeout
// at the given instant. Once false for a given heartbeat it stays false
// until a newer heartbeat arrives.
func (d *Device) OnlineWithin(now time.Time, timeout time.Duration) bool {
	if d.LastHeartbeat == nil {
		return false
	}
	return now.Sub(*d.LastHeartbeat) < timeout
}

// SecondsSinceHeartbeat returns whole seconds since the last heartbeat,
// or -1 if no heartbeat was ever received.
func (d *Device) SecondsSinceHeartbeat(now time.Time) int64 {
	if d.LastHeartbeat == nil {
		return -1
	}
	return int64(now.Sub(*d.LastHeartbeat).Seconds())
}
