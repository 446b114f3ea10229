package sntp

import (
	"encoding/binary"
	"fmt"
	"time"
)

const (
	// PacketSize is the fixed size of an SNTP request and reply.
	PacketSize = 48

	// unixEpochOffset is the number of seconds between the NTP epoch
	// (1900-01-01) and the Unix epoch (1970-01-01).
	unixEpochOffset = 2208988800

	// clientModeByte encodes LI=0, VN=3, Mode=3 (client request).
	clientModeByte = 0x1b

	// transmitWord is the index of the 32-bit word holding the integer
	// seconds of the server's transmit timestamp.
	transmitWord = 10

	packetWords = 12
)

// NewRequest builds a minimal 48-byte client request: the mode byte
// followed by 47 zero bytes.
func NewRequest() []byte {
	data := make([]byte, PacketSize)
	data[0] = clientModeByte
	return data
}

// Reply is a parsed SNTP server reply, reduced to the twelve 32-bit words
// of the fixed-format packet. Only the transmit timestamp is interpreted.
type Reply struct {
	words [packetWords]uint32
}

// ParseReply parses a 48-byte server reply into its twelve big-endian
// 32-bit words.
func ParseReply(data []byte) (*Reply, error) {
	if len(data) < PacketSize {
		return nil, fmt.Errorf("sntp: reply too short (%d bytes)", len(data))
	}

	var r Reply
	for i := range r.words {
		r.words[i] = binary.BigEndian.Uint32(data[i*4 : i*4+4])
	}
	return &r, nil
}

// TransmitSeconds returns the integer seconds of the server's transmit
// timestamp, counted from the NTP epoch.
func (r *Reply) TransmitSeconds() uint32 {
	return r.words[transmitWord]
}

// Time converts the transmit timestamp to wall-clock time.
//
// The seconds field is an unsigned 32-bit count from 1900, which rolls
// over in 2036. The wire format cannot represent times beyond that, so
// no era correction is attempted here.
func (r *Reply) Time() time.Time {
	return time.Unix(int64(r.TransmitSeconds())-unixEpochOffset, 0)
}
