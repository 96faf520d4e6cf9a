// Package models defines the client-side views of server objects.
package models

import "time"

// Command statuses as reported by the server.
const (
	StatusPending   = "pending"
	StatusExecuting = "executing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Command struct {
	ID           string
	DeviceID     string
	Kind         string
	Status       string
	Result       []byte
	ErrorMessage string
	CreatedAt    time.Time
}

// Terminal reports whether the command reached a final state.
func (c *Command) Terminal() bool {
	return c.Status == StatusCompleted || c.Status == StatusFailed
}

type Device struct {
	ID                    string
	Name                  string
	Model                 string
	AppVersion            string
	StatusInfo            string
	Recording             bool
	Online                bool
	SecondsSinceHeartbeat int64
}

type File struct {
	ID              string
	DeviceID        string
	FileName        string
	FileType        string
	Size            int64
	DurationSeconds int64
	URL             string
	ThumbURL        string
	CreatedAt       time.Time
}
