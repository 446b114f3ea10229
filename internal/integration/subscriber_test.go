package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkan/netlab/internal/pubsub"
)

func TestSubscriber_RecordsPublishedEvents(t *testing.T) {
	store, _ := memStore(t)

	bridge := pubsub.NewWatermillBridge()
	t.Cleanup(func() { bridge.Close() })

	ctx := context.Background()
	require.NoError(t, NewSubscriber(store).Start(ctx, bridge))

	require.NoError(t, Publish(ctx, bridge, TopicEchoResult, "echo_test", EchoResultEvent{
		Port:         8880,
		Status:       StatusCompleted,
		ResponseTime: 0.05,
	}))
	require.NoError(t, Publish(ctx, bridge, TopicChatSession, "chat", ChatSessionEvent{
		SessionType:  "framed",
		Port:         5000,
		MessageCount: 7,
	}))

	require.Eventually(t, func() bool {
		summary := store.Summarize()
		return summary.EchoTests == 1 && summary.ChatSessions == 1
	}, 2*time.Second, 10*time.Millisecond)

	a := store.AnalyzeEchoTests()
	assert.Equal(t, 1, a.SuccessfulTests)
}

func TestSubscriber_IgnoresMalformedPayload(t *testing.T) {
	store, _ := memStore(t)

	bridge := pubsub.NewWatermillBridge()
	t.Cleanup(func() { bridge.Close() })

	ctx := context.Background()
	require.NoError(t, NewSubscriber(store).Start(ctx, bridge))

	require.NoError(t, bridge.Publish(ctx, pubsub.Message{
		Topic:   TopicEchoResult,
		Source:  "test",
		Payload: []byte("{not json"),
	}))

	// The handler rejects the payload; nothing is recorded.
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, store.Summarize().EchoTests)
}
