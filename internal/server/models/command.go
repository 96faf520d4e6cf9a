package models

import "time"

// Command is one record in the per-device command queue.
//
// Status follows a strict state machine:
//
//	pending → executing → completed | failed
//
// pending → executing happens only when the device claims the command via
// poll; the terminal transition happens only via the device's result
// report. Commands are retained as history and never deleted.
type Command struct {
	// ID is a UUIDv7, time-sortable and unique under concurrent enqueue.
	ID string
	// DeviceID is the target device.
	DeviceID string
	// UserID is the issuing owner identity.
	UserID string

	// Kind is one of the closed command set (common.Kind*).
	Kind string
	// Params is the kind-specific parameter payload, JSON-encoded.
	Params []byte

	Status string
	// Result is the optional result payload reported by the device,
	// JSON-encoded (e.g. {"fileId": "..."}).
	Result []byte
	// ErrorMessage is set when the device reports failure.
	ErrorMessage string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// Terminal reports whether the command reached a final state.
func (c *Command) Terminal() bool {
	return c.Status == "completed" || c.Status == "failed"
}
