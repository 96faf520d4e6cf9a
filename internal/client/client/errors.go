package client

import "errors"

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
	ErrDeviceOffline  = errors.New("device offline")
	ErrDeviceConflict = errors.New("device is bound to another user")
	ErrNoBoundDevice  = errors.New("no bound device; run bind first")
)
