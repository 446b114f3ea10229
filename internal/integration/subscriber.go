package integration

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zkan/netlab/internal/pubsub"
)

// Subscriber feeds bus events into the store, decoupling the network
// components from the persistence layer.
type Subscriber struct {
	store *Store
}

// NewSubscriber creates a subscriber writing to store.
func NewSubscriber(store *Store) *Subscriber {
	return &Subscriber{store: store}
}

// Start subscribes to every integration topic. Handlers run on the
// bus's goroutines; the store's own locking makes that safe.
func (s *Subscriber) Start(ctx context.Context, sub pubsub.Subscriber) error {
	handlers := map[string]pubsub.Handler{
		TopicEchoResult:  s.handleEchoResult,
		TopicSNTPCheck:   s.handleSNTPCheck,
		TopicMachineInfo: s.handleMachineInfo,
		TopicSocketError: s.handleSocketError,
		TopicChatSession: s.handleChatSession,
	}

	for topic, handler := range handlers {
		if err := sub.Subscribe(ctx, topic, handler); err != nil {
			return fmt.Errorf("integration: subscribe %s: %w", topic, err)
		}
	}
	return nil
}

func (s *Subscriber) handleEchoResult(ctx context.Context, msg pubsub.Message) error {
	var event EchoResultEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("integration: decode echo result: %w", err)
	}
	s.store.AddEchoTest(event.Port, event.Status, event.ResponseTime, event.ErrorMessage)
	return nil
}

func (s *Subscriber) handleSNTPCheck(ctx context.Context, msg pubsub.Message) error {
	var event SNTPCheckEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("integration: decode sntp check: %w", err)
	}
	s.store.AddSNTPCheck(event.Server, event.ServerTime, event.LocalTime, event.TimeDifference)
	return nil
}

func (s *Subscriber) handleMachineInfo(ctx context.Context, msg pubsub.Message) error {
	var event MachineInfoEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("integration: decode machine info: %w", err)
	}
	s.store.AddMachineInfo(event.Hostname, event.IPAddress, event.Interfaces)
	return nil
}

func (s *Subscriber) handleSocketError(ctx context.Context, msg pubsub.Message) error {
	var event SocketErrorEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("integration: decode socket error: %w", err)
	}
	s.store.AddSocketError(event.ErrorType, event.ErrorMessage, event.Module, event.Port)
	return nil
}

func (s *Subscriber) handleChatSession(ctx context.Context, msg pubsub.Message) error {
	var event ChatSessionEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("integration: decode chat session: %w", err)
	}
	s.store.AddChatSession(event.SessionType, event.Port, event.Duration, event.MessageCount)
	return nil
}

// Publish marshals an event and publishes it on the given topic; it is
// the counterpart components use to report results.
func Publish(ctx context.Context, pub pubsub.Publisher, topic, source string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("integration: encode %s event: %w", topic, err)
	}
	return pub.Publish(ctx, pubsub.Message{
		Topic:   topic,
		Source:  source,
		Payload: payload,
	})
}
