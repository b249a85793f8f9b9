package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const busTopic = "study.events"

// envelope is the wire form an event takes on the bus.
type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Bus is the in-process pub/sub pipe between the study services and the
// delivery side (websocket hub, NATS bridge). Each subscriber gets its own
// copy of every event published after it subscribed.
type Bus struct {
	pubsub *gochannel.GoChannel
}

func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, watermill.NewStdLogger(false, false)),
	}
}

// Publish puts an event on the bus. Marshal failures are the only error
// source; the gochannel transport itself does not fail.
func (b *Bus) Publish(event Event) error {
	data, err := json.Marshal(envelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("event_type", event.EventType())
	return b.pubsub.Publish(busTopic, msg)
}

// Subscribe returns a channel of decoded events. The channel closes when
// ctx is cancelled or the bus is closed. Undecodable messages are dropped.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Event, error) {
	messages, err := b.pubsub.Subscribe(ctx, busTopic)
	if err != nil {
		return nil, err
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for msg := range messages {
			var env envelope
			if err := json.Unmarshal(msg.Payload, &env); err != nil {
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
