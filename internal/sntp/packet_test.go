package sntp

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	req := NewRequest()

	require.Len(t, req, PacketSize)
	assert.Equal(t, byte(0x1b), req[0])
	for i := 1; i < PacketSize; i++ {
		assert.Zero(t, req[i], "byte %d should be zero", i)
	}
}

func TestParseReply_TransmitTimestamp(t *testing.T) {
	// Fixture stays within the unsigned 32-bit range; the wire format
	// rolls over in 2036 and cannot carry later times.
	const unixSeconds = 1700000000

	data := make([]byte, PacketSize)
	binary.BigEndian.PutUint32(data[transmitWord*4:], unixEpochOffset+unixSeconds)

	reply, err := ParseReply(data)
	require.NoError(t, err)

	assert.Equal(t, uint32(unixEpochOffset+unixSeconds), reply.TransmitSeconds())
	assert.Equal(t, int64(unixSeconds), reply.Time().Unix())
}

func TestParseReply_TooShort(t *testing.T) {
	_, err := ParseReply(make([]byte, PacketSize-1))
	assert.Error(t, err)
}
