package chat

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// rawReadSize is the per-call read limit of the raw-line protocol.
const rawReadSize = 1024

// RawServer is the unframed broadcast server: one handler goroutine per
// connection, each relaying received text verbatim to all other clients.
//
// The raw protocol has no message delimiters. A message larger than one
// transport segment may be split across a receiver's reads; the framed
// variant exists to close that gap.
type RawServer struct {
	registry *Registry
	ln       net.Listener
	started  time.Time
	messages atomic.Int64
}

// NewRawServer creates a raw-line chat server.
func NewRawServer() *RawServer {
	return &RawServer{registry: NewRegistry()}
}

// Addr returns the listener's address once serving.
func (s *RawServer) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// ListenAndServe binds addr and serves until the context is canceled.
func (s *RawServer) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("chat: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until the context is canceled. There is
// no connection limit; every accepted connection gets its own handler
// goroutine.
func (s *RawServer) Serve(ctx context.Context, ln net.Listener) error {
	s.ln = ln
	s.started = time.Now()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	slog.Info("Chat server listening", "addr", s.Addr(), "protocol", "raw")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		go s.handle(conn)
	}
}

func (s *RawServer) handle(conn net.Conn) {
	client := &Client{
		ID:   uuid.NewString(),
		Addr: conn.RemoteAddr().String(),
		Conn: conn,
	}
	s.registry.Add(client)
	defer s.registry.Remove(client.ID)

	host, _, err := net.SplitHostPort(client.Addr)
	if err != nil {
		host = client.Addr
	}

	buf := make([]byte, rawReadSize)
	for {
		n, err := conn.Read(buf)
		if err != nil || n == 0 {
			// Zero-length read or any error means the peer is gone.
			return
		}

		s.messages.Add(1)
		text := strings.TrimRight(string(buf[:n]), "\n")
		message := fmt.Sprintf("[%s]: %s", host, text)
		slog.Info("Broadcasting", "from", client.Addr)

		s.registry.Broadcast(client.ID, func(c *Client) error {
			_, werr := c.Conn.Write([]byte(message))
			return werr
		})
	}
}

// Stats summarizes the session so far.
func (s *RawServer) Stats() Summary {
	return Summary{
		SessionType:  "raw",
		Duration:     time.Since(s.started),
		MessageCount: int(s.messages.Load()),
	}
}
