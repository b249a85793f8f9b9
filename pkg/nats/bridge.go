package nats

import (
	"context"
	"log"

	"studybuddy-be/pkg/events"
)

// Bridge copies every event from the in-process bus onto NATS. Runs until
// ctx is cancelled or the bus closes. Publish failures are logged and the
// event dropped; the durable stream is an observer, not the source of
// truth.
func Bridge(ctx context.Context, bus *events.Bus, publisher *Publisher) error {
	stream, err := bus.Subscribe(ctx)
	if err != nil {
		return err
	}

	for event := range stream {
		if err := publisher.Publish(ctx, event); err != nil {
			log.Printf("NATS bridge: failed to publish %s: %v", event.EventType(), err)
		}
	}
	return nil
}
