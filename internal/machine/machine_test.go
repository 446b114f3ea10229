package machine

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	info, err := Collect()
	require.NoError(t, err)

	assert.NotEmpty(t, info.Hostname)
	assert.NotNil(t, net.ParseIP(info.IPAddress), "primary IP should parse: %q", info.IPAddress)
	assert.NotNil(t, info.Interfaces)
}
