package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/kooo/evcam-companion/internal/flagx"
	"github.com/kooo/evcam-companion/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "15s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	DeviceID           string         `json:"device_id"`
	DeviceName         string         `json:"device_name"`
	Model              string         `json:"model"`
	AppVersion         string         `json:"app_version"`
	SecretPath         string         `json:"secret_path"`
	HeartbeatInterval  timex.Duration `json:"heartbeat_interval"`
	PollInterval       timex.Duration `json:"poll_interval"`
	PreviewInterval    timex.Duration `json:"preview_interval"`
	MediaDir           string         `json:"media_dir"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Panics on read or unmarshal errors. Intended usage is:
// defaults -> parseJson -> parseFlags, where later stages override earlier
// ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	cfg.DeviceID = jc.DeviceID
	cfg.DeviceName = jc.DeviceName
	cfg.Model = jc.Model
	cfg.AppVersion = jc.AppVersion
	cfg.SecretPath = jc.SecretPath
	cfg.HeartbeatInterval = time.Duration(jc.HeartbeatInterval.Duration)
	cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	cfg.PreviewInterval = time.Duration(jc.PreviewInterval.Duration)
	cfg.MediaDir = jc.MediaDir
}
