// Package echo implements a verbatim TCP echo exchange: the server reads
// one message and writes it straight back, the client verifies the bytes
// survived the round trip.
package echo

import (
	"context"
	"errors"
	"log/slog"
	"net"
)

// MaxPayload is the most the server reads from a connection. Larger
// messages are truncated to this size before being echoed.
const MaxPayload = 2048

// Server echoes one message per connection. Connections are served
// strictly one at a time; there is no fan-out in the echo variant.
type Server struct {
	ln net.Listener
}

// Listen binds the server's TCP listener.
func Listen(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{ln: ln}, nil
}

// Addr returns the listener's address, useful when binding to port 0.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Serve accepts connections until the context is canceled. Each
// connection gets a single read of up to MaxPayload bytes echoed back,
// then is closed.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	slog.Info("Echo server listening", "addr", s.Addr())

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	peer := conn.RemoteAddr().String()
	slog.Info("Connection accepted", "peer", peer)

	buf := make([]byte, MaxPayload)
	n, err := conn.Read(buf)
	if err != nil {
		if !errors.Is(err, net.ErrClosed) {
			slog.Error("Read failed", "peer", peer, "error", err)
		}
		return
	}

	if _, err := conn.Write(buf[:n]); err != nil {
		slog.Error("Echo write failed", "peer", peer, "error", err)
		return
	}

	slog.Info("Echoed message", "peer", peer, "bytes", n)
}
