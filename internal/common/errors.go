// Package common defines shared constants and sentinel errors used across
// the server, agent and companion-client layers. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Admission-time errors returned synchronously to the issuing client.
	ErrorOffline        = errors.New("device offline")
	ErrorInvalidCommand = errors.New("unsupported command")
	ErrorConflict       = errors.New("device already bound to another user")

	// Auth errors (secret mismatch, missing or malformed token).
	ErrorUnauthorized = errors.New("unauthorized")
	ErrInvalidToken   = errors.New("invalid token")

	// Generic internal flow control.
	ErrorInternal = errors.New("internal error")
)
