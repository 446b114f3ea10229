// Package sockopt wraps the framed chat protocol with explicit socket
// configuration: accept/connect timeouts, blocking mode, and send/receive
// buffer sizes. All protocol behavior is delegated to the chat package;
// this package only makes socket-option effects visible.
package sockopt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// pollInterval paces the accept loop in non-blocking mode, where each
// accept probe returns immediately.
const pollInterval = time.Second

// Options holds the configurable socket settings.
type Options struct {
	// Timeout bounds connect (client) and each accept wait (server).
	// Zero means block indefinitely.
	Timeout time.Duration

	// NonBlocking makes accept and receive probes return immediately.
	// The Go runtime owns O_NONBLOCK on its descriptors, so this is
	// surfaced as an immediate deadline rather than a socket flag.
	NonBlocking bool

	// RecvBuffer and SendBuffer set SO_RCVBUF / SO_SNDBUF when positive.
	// The kernel may adjust the value; read it back with BufferSizes.
	RecvBuffer int
	SendBuffer int
}

// apply configures buffer sizes on a connection.
func (o Options) apply(conn net.Conn) error {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	if o.RecvBuffer > 0 {
		if err := tc.SetReadBuffer(o.RecvBuffer); err != nil {
			return fmt.Errorf("sockopt: set receive buffer: %w", err)
		}
	}
	if o.SendBuffer > 0 {
		if err := tc.SetWriteBuffer(o.SendBuffer); err != nil {
			return fmt.Errorf("sockopt: set send buffer: %w", err)
		}
	}
	return nil
}

// Listen binds a TCP listener whose accepted connections carry the
// configured buffer sizes, and whose accept loop honors the timeout and
// blocking mode.
func Listen(addr string, opts Options) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("sockopt: listen %s: %w", addr, err)
	}
	return &listener{TCPListener: ln.(*net.TCPListener), opts: opts}, nil
}

// Dial connects with the configured connect timeout and buffer sizes.
// In non-blocking mode the connection additionally gets an immediate
// read deadline, so receives report timeouts instead of waiting.
func Dial(ctx context.Context, addr string, opts Options) (net.Conn, error) {
	d := net.Dialer{Timeout: opts.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("sockopt: connect %s: %w", addr, err)
	}
	if err := opts.apply(conn); err != nil {
		conn.Close()
		return nil, err
	}
	if opts.NonBlocking {
		conn.SetReadDeadline(time.Now())
	}
	return conn, nil
}

// listener applies the options around each accept.
type listener struct {
	*net.TCPListener
	opts Options
}

func (l *listener) Accept() (net.Conn, error) {
	for {
		switch {
		case l.opts.NonBlocking:
			// A probe window just wide enough to pick up an already
			// pending connection; an expired deadline would fail the
			// accept before it checks the queue.
			l.SetDeadline(time.Now().Add(time.Millisecond))
		case l.opts.Timeout > 0:
			l.SetDeadline(time.Now().Add(l.opts.Timeout))
		}

		conn, err := l.TCPListener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				slog.Debug("No incoming connections", "timeout", l.opts.Timeout, "blocking", !l.opts.NonBlocking)
				if l.opts.NonBlocking {
					time.Sleep(pollInterval)
				}
				continue
			}
			return nil, err
		}

		if err := l.opts.apply(conn); err != nil {
			conn.Close()
			return nil, err
		}
		return conn, nil
	}
}
