package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Summary describes a finished server session for the integration log.
type Summary struct {
	SessionType  string
	Duration     time.Duration
	MessageCount int
}

// Server is the length-framed broadcast server. Each received value is
// re-framed and relayed to every other connected client, never back to
// the sender. Ordering across concurrent senders is not guaranteed.
type Server struct {
	registry *Registry
	ln       net.Listener
	started  time.Time
	messages atomic.Int64
}

// NewServer creates a framed chat server.
func NewServer() *Server {
	return &Server{registry: NewRegistry()}
}

// Addr returns the listener's address once Serve or ListenAndServe has
// bound it.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// ListenAndServe binds addr and serves until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("chat: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until the context is canceled. The
// listener may carry socket options configured by the caller; the server
// only speaks the framed protocol over it.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.ln = ln
	s.started = time.Now()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	slog.Info("Chat server listening", "addr", s.Addr(), "protocol", "framed")

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

func (s *Server) handle(conn net.Conn) {
	client := &Client{
		ID:   uuid.NewString(),
		Addr: conn.RemoteAddr().String(),
		Conn: conn,
	}
	s.registry.Add(client)
	defer s.registry.Remove(client.ID)

	for {
		value, err := Receive(conn)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
			case errors.Is(err, ErrEmptyFrame):
				slog.Warn("Empty frame received, closing connection", "addr", client.Addr)
			default:
				slog.Error("Receive failed", "addr", client.Addr, "error", err)
			}
			return
		}

		s.messages.Add(1)
		message := fmt.Sprintf("[%s] %v", client.Addr, value)
		slog.Info("Broadcasting", "from", client.Addr)

		s.registry.Broadcast(client.ID, func(c *Client) error {
			return Send(c.Conn, message)
		})
	}
}

// Stats summarizes the session so far.
func (s *Server) Stats() Summary {
	return Summary{
		SessionType:  "framed",
		Duration:     time.Since(s.started),
		MessageCount: int(s.messages.Load()),
	}
}
