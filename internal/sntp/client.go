package sntp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// DefaultTimeout bounds the wait for a server reply. There is no retry;
// a query makes exactly one attempt.
const DefaultTimeout = 5 * time.Second

// ErrTimeout reports that no reply arrived within the timeout. UDP/123 is
// commonly blocked by firewalls, so this is surfaced distinctly from other
// transport faults.
var ErrTimeout = errors.New("sntp: no reply within timeout")

// Client queries a single SNTP server.
type Client struct {
	// Server is a host name or host:port address. Port 123 is assumed
	// when none is given.
	Server string

	// Timeout bounds the whole exchange. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Result holds the outcome of one time check.
type Result struct {
	Server     string
	ServerTime time.Time
	LocalTime  time.Time
	// Offset is the absolute difference between the server's transmit
	// timestamp and the local clock read just after the reply arrived.
	Offset time.Duration
}

// Query sends one request and waits for one reply. The returned error is
// ErrTimeout (wrapped) when the deadline expires, or the underlying
// transport fault otherwise.
func (c *Client) Query(ctx context.Context) (*Result, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	addr := c.Server
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "123")
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("sntp: dial %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("sntp: set deadline: %w", err)
	}

	if _, err := conn.Write(NewRequest()); err != nil {
		return nil, fmt.Errorf("sntp: send request: %w", err)
	}

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w (waited %s)", ErrTimeout, timeout)
		}
		return nil, fmt.Errorf("sntp: receive reply: %w", err)
	}
	localTime := time.Now()

	reply, err := ParseReply(buf[:n])
	if err != nil {
		return nil, err
	}

	serverTime := reply.Time()
	offset := serverTime.Sub(localTime)
	if offset < 0 {
		offset = -offset
	}

	return &Result{
		Server:     c.Server,
		ServerTime: serverTime,
		LocalTime:  localTime,
		Offset:     offset,
	}, nil
}
