package chat

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startFramedServer(t *testing.T) (*Server, string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.Serve(ctx, ln)

	return srv, ln.Addr().String()
}

func startRawServer(t *testing.T) (*RawServer, string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewRawServer()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.Serve(ctx, ln)

	return srv, ln.Addr().String()
}

func dialTCP(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, reg *Registry, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return reg.Len() == n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFramedServer_BroadcastExcludesSender(t *testing.T) {
	srv, addr := startFramedServer(t)

	sender := dialTCP(t, addr)
	peer1 := dialTCP(t, addr)
	peer2 := dialTCP(t, addr)
	waitForClients(t, srv.registry, 3)

	require.NoError(t, Send(sender, "alice: hi all"))

	for _, peer := range []net.Conn{peer1, peer2} {
		peer.SetReadDeadline(time.Now().Add(2 * time.Second))
		value, err := Receive(peer)
		require.NoError(t, err)

		text, ok := value.(string)
		require.True(t, ok, "broadcast payload should be a string")
		assert.True(t, strings.HasSuffix(text, "alice: hi all"))
		assert.True(t, strings.HasPrefix(text, "["), "message should be tagged with sender address")
	}

	// The sender must never see its own message.
	sender.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, err := Receive(sender)
	require.Error(t, err)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestFramedServer_DisconnectRemovesClient(t *testing.T) {
	srv, addr := startFramedServer(t)

	conn := dialTCP(t, addr)
	dialTCP(t, addr)
	waitForClients(t, srv.registry, 2)

	conn.Close()
	waitForClients(t, srv.registry, 1)
}

func TestFramedServer_Stats(t *testing.T) {
	srv, addr := startFramedServer(t)

	sender := dialTCP(t, addr)
	receiver := dialTCP(t, addr)
	waitForClients(t, srv.registry, 2)

	require.NoError(t, Send(sender, "one"))
	require.NoError(t, Send(sender, "two"))

	receiver.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < 2; i++ {
		_, err := Receive(receiver)
		require.NoError(t, err)
	}

	stats := srv.Stats()
	assert.Equal(t, "framed", stats.SessionType)
	assert.Equal(t, 2, stats.MessageCount)
	assert.Greater(t, stats.Duration, time.Duration(0))
}

func TestRawServer_BroadcastExcludesSender(t *testing.T) {
	srv, addr := startRawServer(t)

	sender := dialTCP(t, addr)
	peer := dialTCP(t, addr)
	waitForClients(t, srv.registry, 2)

	_, err := sender.Write([]byte("hello room"))
	require.NoError(t, err)

	buf := make([]byte, rawReadSize)
	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := peer.Read(buf)
	require.NoError(t, err)

	text := string(buf[:n])
	assert.Contains(t, text, "hello room")
	assert.True(t, strings.HasPrefix(text, "[127.0.0.1]:"), "relay should be tagged with sender host, got %q", text)

	sender.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, err = sender.Read(buf)
	require.Error(t, err)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestRawServer_ZeroLengthReadDisconnects(t *testing.T) {
	srv, addr := startRawServer(t)

	conn := dialTCP(t, addr)
	waitForClients(t, srv.registry, 1)

	conn.Close()
	waitForClients(t, srv.registry, 0)
}

func TestChatClient_TagsMessagesWithName(t *testing.T) {
	srv, addr := startFramedServer(t)

	alice, err := Dial(context.Background(), addr, "alice")
	require.NoError(t, err)
	t.Cleanup(func() { alice.Close() })

	bobConn := dialTCP(t, addr)
	waitForClients(t, srv.registry, 2)

	require.NoError(t, alice.SendText("good morning"))

	bobConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	value, err := Receive(bobConn)
	require.NoError(t, err)

	text, ok := value.(string)
	require.True(t, ok)
	assert.Contains(t, text, "alice: good morning")
}

func TestFramedServer_EmptyFrameClosesConnection(t *testing.T) {
	srv, addr := startFramedServer(t)

	conn := dialTCP(t, addr)
	waitForClients(t, srv.registry, 1)

	// A zero-length prefix is a decode fault, not a message.
	_, err := conn.Write([]byte{0, 0, 0, 0})
	require.NoError(t, err)

	waitForClients(t, srv.registry, 0)

	// The server should have torn the connection down.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	one := make([]byte, 1)
	_, err = conn.Read(one)
	require.Error(t, err)
}
