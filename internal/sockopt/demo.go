//go:build unix

package sockopt

import (
	"context"
	"log/slog"
	"syscall"

	"github.com/zkan/netlab/internal/chat"
)

// Server runs the framed chat server over a listener configured with
// explicit socket settings.
type Server struct {
	Opts Options
	Chat *chat.Server
}

// NewServer creates the demo server.
func NewServer(opts Options) *Server {
	return &Server{Opts: opts, Chat: chat.NewServer()}
}

// ListenAndServe binds addr with the configured options, logs the
// effective settings, and delegates to the chat server.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := Listen(addr, s.Opts)
	if err != nil {
		return err
	}

	logSettings("server", ln.(*listener).TCPListener, s.Opts)
	return s.Chat.Serve(ctx, ln)
}

// DialChat connects a framed chat client over a socket configured with
// the given options.
func DialChat(ctx context.Context, addr, name string, opts Options) (*chat.ChatClient, error) {
	conn, err := Dial(ctx, addr, opts)
	if err != nil {
		return nil, err
	}

	if sc, ok := conn.(syscall.Conn); ok {
		logSettings("client", sc, opts)
	}
	return chat.Wrap(conn, name), nil
}

func logSettings(role string, conn syscall.Conn, opts Options) {
	recv, send, err := BufferSizes(conn)
	if err != nil {
		slog.Warn("Could not read buffer sizes back", "role", role, "error", err)
		return
	}
	slog.Info("Socket settings",
		"role", role,
		"timeout", opts.Timeout,
		"blocking", !opts.NonBlocking,
		"recv_buffer_bytes", recv,
		"send_buffer_bytes", send,
	)
}
