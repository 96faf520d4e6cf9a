// Package config handles configuration for the owner-facing CLI, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the evcamctl CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - AccessToken: owner JWT for owner-facing calls.
//   - SessionDBPath: local sqlite file caching the bound device and token.
//   - PollInterval: cadence of active command polling.
//   - PreviewInterval: cadence of preview frame refresh.
type Config struct {
	ServerEndpointAddr string
	AccessToken        string
	SessionDBPath      string
	PollInterval       time.Duration
	PreviewInterval    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.SessionDBPath = "evcamctl.db"
	c.PollInterval = 1 * time.Second
	c.PreviewInterval = 2 * time.Second
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
