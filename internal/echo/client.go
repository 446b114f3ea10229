package echo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// DefaultMessage is sent when the caller does not provide one.
const DefaultMessage = "This is my first socket programming and this will be echoed"

// Result describes one completed round trip.
type Result struct {
	Sent     int
	Received int
	// Match is true only when the reassembled reply equals the sent
	// bytes exactly, not merely in length.
	Match   bool
	Elapsed time.Duration
}

// Run connects to an echo server, sends message, reads until the peer
// closes the connection, and compares the reassembled bytes against the
// original. The connection is closed on every path.
func Run(ctx context.Context, addr string, message []byte) (*Result, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("echo: connect %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	start := time.Now()
	if _, err := conn.Write(message); err != nil {
		return nil, fmt.Errorf("echo: send: %w", err)
	}

	// Read until EOF rather than a fixed byte count; the server closes
	// the connection once it has echoed.
	received, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("echo: receive: %w", err)
	}

	return &Result{
		Sent:     len(message),
		Received: len(received),
		Match:    bytes.Equal(message, received),
		Elapsed:  time.Since(start),
	}, nil
}
