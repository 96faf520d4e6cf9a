// Package config handles configuration for the on-device agent, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the evcam agent.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - DeviceID: stable hardware identifier the agent registers under.
//   - DeviceName: human-readable name shown to the owner.
//   - Model / AppVersion: reported on registration.
//   - SecretPath: file the per-device secret is persisted to.
//   - HeartbeatInterval: cadence of liveness heartbeats.
//   - PollInterval: cadence of command polling.
//   - PreviewInterval: cadence of preview frame publishing.
//   - MediaDir: directory captures are staged in before upload.
type Config struct {
	ServerEndpointAddr string
	DeviceID           string
	DeviceName         string
	Model              string
	AppVersion         string
	SecretPath         string
	HeartbeatInterval  time.Duration
	PollInterval       time.Duration
	PreviewInterval    time.Duration
	MediaDir           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DeviceName = "EVCam device"
	c.Model = "EVCam-1"
	c.AppVersion = "dev"
	c.SecretPath = "evcam-agent.secret"
	c.HeartbeatInterval = 15 * time.Second
	c.PollInterval = 2 * time.Second
	c.PreviewInterval = 2 * time.Second
	c.MediaDir = "media"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
