package echo

import (
	"context"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) string {
	t.Helper()

	srv, err := Listen("127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.Serve(ctx)

	return srv.Addr()
}

func TestRoundTrip_Ping(t *testing.T) {
	addr := startServer(t)

	result, err := Run(context.Background(), addr, []byte("ping"))
	require.NoError(t, err)

	assert.True(t, result.Match)
	assert.Equal(t, 4, result.Sent)
	assert.Equal(t, 4, result.Received)
	assert.Greater(t, result.Elapsed, time.Duration(0))
}

func TestRoundTrip_DefaultMessage(t *testing.T) {
	addr := startServer(t)

	result, err := Run(context.Background(), addr, []byte(DefaultMessage))
	require.NoError(t, err)
	assert.True(t, result.Match)
}

func TestRoundTrip_MaxPayload(t *testing.T) {
	addr := startServer(t)

	message := make([]byte, MaxPayload)
	_, err := rand.Read(message)
	require.NoError(t, err)

	result, err := Run(context.Background(), addr, message)
	require.NoError(t, err)

	assert.True(t, result.Match, "all %d bytes must come back unmodified", MaxPayload)
	assert.Equal(t, MaxPayload, result.Received)
}

func TestServer_ServesSequentially(t *testing.T) {
	addr := startServer(t)

	// One connection at a time: a second round trip must still succeed
	// after the first completes.
	for i := 0; i < 3; i++ {
		result, err := Run(context.Background(), addr, []byte("again"))
		require.NoError(t, err)
		assert.True(t, result.Match)
	}
}

func TestRun_ConnectFailure(t *testing.T) {
	_, err := Run(context.Background(), "127.0.0.1:1", []byte("ping"))
	assert.Error(t, err)
}
