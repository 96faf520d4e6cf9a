// Package pairing encodes and decodes the payload a device renders as a QR
// code so the phone app can bind it.
package pairing

import (
	"encoding/json"
	"errors"
	"fmt"
)

// PayloadType marks a scanned blob as an EVCam bind payload. Scanners see all
// kinds of QR codes, so the marker lets them reject foreign ones early.
const PayloadType = "evcam_bind"

var (
	ErrNotBindPayload  = errors.New("not an evcam bind payload")
	ErrMissingDeviceID = errors.New("bind payload has no device id")
)

// Payload is what the device shows on screen.
type Payload struct {
	Type       string `json:"type"`
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName,omitempty"`
}

// Encode renders the payload for deviceID as compact JSON.
func Encode(deviceID, deviceName string) ([]byte, error) {
	if deviceID == "" {
		return nil, ErrMissingDeviceID
	}
	return json.Marshal(Payload{Type: PayloadType, DeviceID: deviceID, DeviceName: deviceName})
}

// Decode parses a scanned blob and rejects anything that is not a bind
// payload.
func Decode(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotBindPayload, err)
	}
	if p.Type != PayloadType {
		return nil, ErrNotBindPayload
	}
	if p.DeviceID == "" {
		return nil, ErrMissingDeviceID
	}
	return &p, nil
}
