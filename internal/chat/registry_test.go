package chat

import (
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, id string) *Client {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return &Client{ID: id, Addr: id, Conn: server}
}

func TestRegistry_AddRemove(t *testing.T) {
	r := NewRegistry()

	r.Add(testClient(t, "a"))
	r.Add(testClient(t, "b"))
	assert.Equal(t, 2, r.Len())

	r.Remove("a")
	assert.Equal(t, 1, r.Len())

	// Removing an unknown ID is a no-op.
	r.Remove("missing")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_BroadcastSkipsSender(t *testing.T) {
	r := NewRegistry()
	r.Add(testClient(t, "sender"))
	r.Add(testClient(t, "peer1"))
	r.Add(testClient(t, "peer2"))

	var delivered []string
	r.Broadcast("sender", func(c *Client) error {
		delivered = append(delivered, c.ID)
		return nil
	})

	assert.ElementsMatch(t, []string{"peer1", "peer2"}, delivered)
	assert.NotContains(t, delivered, "sender")
}

func TestRegistry_BroadcastDropsFailedTarget(t *testing.T) {
	r := NewRegistry()
	r.Add(testClient(t, "sender"))
	r.Add(testClient(t, "healthy"))
	r.Add(testClient(t, "broken"))

	r.Broadcast("sender", func(c *Client) error {
		if c.ID == "broken" {
			return errors.New("send failed")
		}
		return nil
	})

	// The failed target is gone within the same pass; the rest remain.
	assert.Equal(t, 2, r.Len())

	var remaining []string
	r.Broadcast("", func(c *Client) error {
		remaining = append(remaining, c.ID)
		return nil
	})
	assert.ElementsMatch(t, []string{"sender", "healthy"}, remaining)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	clients := make([]*Client, 50)
	for i := range clients {
		clients[i] = testClient(t, fmt.Sprintf("client-%d", i))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, c := range clients {
			r.Add(c)
			r.Broadcast(c.ID, func(*Client) error { return nil })
			r.Remove(c.ID)
		}
	}()

	for i := 0; i < 50; i++ {
		r.Broadcast("", func(*Client) error { return nil })
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		require.Fail(t, "concurrent registry operations deadlocked")
	}
}
