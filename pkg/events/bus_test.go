package events

import (
	"context"
	"testing"
	"time"
)

func TestBusDeliversPublishedEvents(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := bus.Publish(NewNoteProcessed("note_1", "text", 3)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case event := <-received:
		if event.EventType() != TypeNoteProcessed {
			t.Errorf("event type = %q, want %q", event.EventType(), TypeNoteProcessed)
		}
		if event.Payload()["note_id"] != "note_1" {
			t.Errorf("note_id = %v, want note_1", event.Payload()["note_id"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBusFansOutToEverySubscriber(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	second, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := bus.Publish(NewQuizUpgraded("quiz_1", "note_1", 5)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	for name, ch := range map[string]<-chan Event{"first": first, "second": second} {
		select {
		case event := <-ch:
			if event.EventType() != TypeQuizUpgraded {
				t.Errorf("%s subscriber got type %q", name, event.EventType())
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("%s subscriber never received the event", name)
		}
	}
}
