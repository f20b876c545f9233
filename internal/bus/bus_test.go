package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("chat.", 10)
	defer unsub()

	b.Publish(Event{Kind: MessageAppended, ConvID: "g_1"})

	select {
	case evt := <-ch:
		if evt.Kind != MessageAppended {
			t.Errorf("got kind %q, want %s", evt.Kind, MessageAppended)
		}
		if evt.ConvID != "g_1" {
			t.Errorf("conv id = %q, want g_1", evt.ConvID)
		}
		if evt.Timestamp.IsZero() {
			t.Error("timestamp not stamped on publish")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("checkpoint.", 10)
	defer unsub()

	b.Publish(Event{Kind: ConversationUpdated})
	b.Publish(Event{Kind: Checkpointed})

	select {
	case evt := <-ch:
		if evt.Kind != Checkpointed {
			t.Errorf("got kind %q, want %s", evt.Kind, Checkpointed)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("chat.", 10)
	unsub()
	unsub()

	b.Publish(Event{Kind: ConversationDeleted})

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
	if n := b.Subscribers(); n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("chat.", 1)
	defer unsub()

	b.Publish(Event{Kind: Seeded})
	// Dropped: buffer is full.
	b.Publish(Event{Kind: Restored})

	evt := <-ch
	if evt.Kind != Seeded {
		t.Errorf("got %q, want %s", evt.Kind, Seeded)
	}
}

func TestNilBusPublish(t *testing.T) {
	var b *Bus
	b.Publish(Event{Kind: Seeded})
}
