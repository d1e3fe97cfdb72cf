package ws

import (
	"testing"
	"time"
)

func TestEventBufferSinceAndOldest(t *testing.T) {
	eb := NewEventBuffer(10, time.Hour)

	for i := uint64(1); i <= 5; i++ {
		eb.Append(&Event{Type: "lease.paid", ID: i, Time: time.Now()})
	}

	if got := eb.OldestID(); got != 1 {
		t.Fatalf("OldestID() = %d, want 1", got)
	}

	events := eb.Since(3)
	if len(events) != 2 {
		t.Fatalf("Since(3) returned %d events, want 2", len(events))
	}

	if events[0].ID != 4 || events[1].ID != 5 {
		t.Errorf("Since(3) IDs = %d,%d, want 4,5", events[0].ID, events[1].ID)
	}

	if eb.Since(5) != nil {
		t.Error("Since(latest) should return nil")
	}
}

func TestEventBufferEnforcesMaxLen(t *testing.T) {
	eb := NewEventBuffer(3, time.Hour)

	for i := uint64(1); i <= 5; i++ {
		eb.Append(&Event{ID: i, Time: time.Now()})
	}

	if got := eb.OldestID(); got != 3 {
		t.Fatalf("OldestID() = %d, want 3 after trim", got)
	}
}

func TestEventBufferEvictsExpired(t *testing.T) {
	eb := NewEventBuffer(10, time.Minute)

	stale := time.Now().Add(-2 * time.Minute)
	eb.Append(&Event{ID: 1, Time: stale})
	eb.Append(&Event{ID: 2, Time: time.Now()})

	if got := eb.OldestID(); got != 2 {
		t.Fatalf("OldestID() = %d, want 2 after age eviction", got)
	}
}
