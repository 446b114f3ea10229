package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "pool.ntp.org", cfg.NTPServer)
	assert.Equal(t, 8880, cfg.EchoPort)
	assert.Equal(t, 5000, cfg.ChatPort)
	assert.Equal(t, "integration_data.json", cfg.DataFile)
}

func TestNew_EnvironmentOverrides(t *testing.T) {
	t.Setenv("NETLAB_NTP_SERVER", "time.example.com")
	t.Setenv("NETLAB_ECHO_PORT", "9000")
	t.Setenv("NETLAB_DATA_FILE", "/tmp/netlab.json")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "time.example.com", cfg.NTPServer)
	assert.Equal(t, 9000, cfg.EchoPort)
	assert.Equal(t, 5000, cfg.ChatPort)
	assert.Equal(t, "/tmp/netlab.json", cfg.DataFile)
}

func TestNew_NonNumericPortFallsBack(t *testing.T) {
	t.Setenv("NETLAB_CHAT_PORT", "not-a-port")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.ChatPort)
}

func TestNew_PortOutOfRange(t *testing.T) {
	t.Setenv("NETLAB_ECHO_PORT", "70000")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
