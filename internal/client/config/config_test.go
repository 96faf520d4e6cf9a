package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, "evcamctl.db", c.SessionDBPath)
	assert.Equal(t, 1*time.Second, c.PollInterval)
	assert.Equal(t, 2*time.Second, c.PreviewInterval)
	assert.Empty(t, c.AccessToken)
}

func TestJsonConfig_Unmarshal(t *testing.T) {
	raw := `{
		"server_endpoint_addr": "backend:50051",
		"access_token": "tok",
		"session_db_path": "/tmp/s.db",
		"poll_interval": "2s",
		"preview_interval": 1000000000
	}`

	var jc JsonConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &jc))

	assert.Equal(t, "backend:50051", jc.ServerEndpointAddr)
	assert.Equal(t, "tok", jc.AccessToken)
	assert.Equal(t, 2*time.Second, jc.PollInterval.Duration)
	assert.Equal(t, 1*time.Second, jc.PreviewInterval.Duration)
}
