package messaging

import (
	"context"
	"log/slog"
	"sync"

	"eduvote/internal/shared/events"
)

const subscriberBuffer = 128

// Bus fans outbox events out to in-process consumers. It stands in for an
// external broker behind the same Publish/Subscribe surface, so swapping in
// one later only touches the constructor.
type Bus struct {
	mu     sync.RWMutex
	topics map[string][]subscriber
	logger *slog.Logger
}

type subscriber struct {
	group string
	ch    chan events.Envelope
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		topics: make(map[string][]subscriber),
		logger: logger,
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, event events.Envelope) error {
	b.mu.RLock()
	subs := append([]subscriber(nil), b.topics[topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub.ch <- event:
		default:
			// A full buffer means the consumer is behind; the event is
			// dropped here but stays replayable from the outbox table.
			b.logger.Warn("dropping event for slow subscriber",
				"event", "bus_publish_drop",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"consumer_group", sub.group,
				"event_id", event.EventID,
			)
		}
	}

	b.logger.Info("event published",
		"event", "bus_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	return nil
}

func (b *Bus) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, events.Envelope) error,
) error {
	sub := subscriber{
		group: consumerGroup,
		ch:    make(chan events.Envelope, subscriberBuffer),
	}

	b.mu.Lock()
	b.topics[topic] = append(b.topics[topic], sub)
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.removeSubscriber(topic, sub.ch)
				return
			case event := <-sub.ch:
				if err := handler(ctx, event); err != nil {
					b.logger.Error("consumer handler failed",
						"event", "bus_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

func (b *Bus) removeSubscriber(topic string, target chan events.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.topics[topic]
	if len(subs) == 0 {
		return
	}
	filtered := make([]subscriber, 0, len(subs))
	for _, sub := range subs {
		if sub.ch != target {
			filtered = append(filtered, sub)
		}
	}
	b.topics[topic] = filtered
}
