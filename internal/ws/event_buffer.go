package ws

import (
	"sync"
	"time"
)

const (
	defaultBufferMaxLen = 1000
	defaultBufferMaxAge = 1 * time.Hour
)

// EventBuffer stores recent events for replay on reconnect.
type EventBuffer struct {
	mu     sync.RWMutex
	events []Event
	maxAge time.Duration
	maxLen int
}

// NewEventBuffer creates an EventBuffer with the given limits.
func NewEventBuffer(maxLen int, maxAge time.Duration) *EventBuffer {
	return &EventBuffer{
		maxAge: maxAge,
		maxLen: maxLen,
	}
}

// Append stores an event for potential replay, evicting old entries.
func (eb *EventBuffer) Append(event *Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	buf := eb.events

	// Evict expired events from the front.
	cutoff := time.Now().Add(-eb.maxAge)
	start := 0
	for start < len(buf) && buf[start].Time.Before(cutoff) {
		start++
	}
	if start > 0 {
		buf = buf[start:]
	}

	// Append and enforce max length.
	buf = append(buf, *event)
	if len(buf) > eb.maxLen {
		buf = buf[len(buf)-eb.maxLen:]
	}

	eb.events = buf
}

// Since returns all events with ID > lastEventID, or nil if none.
func (eb *EventBuffer) Since(lastEventID uint64) []Event {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	buf := eb.events
	if len(buf) == 0 {
		return nil
	}

	// Binary search for the first event with ID > lastEventID.
	lo, hi := 0, len(buf)
	for lo < hi {
		mid := (lo + hi) / 2
		if buf[mid].ID <= lastEventID {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo >= len(buf) {
		return nil
	}

	// Return a copy to avoid holding the lock via slice reference.
	result := make([]Event, len(buf)-lo)
	copy(result, buf[lo:])
	return result
}

// OldestID returns the oldest buffered event ID, or 0 if empty.
func (eb *EventBuffer) OldestID() uint64 {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if len(eb.events) == 0 {
		return 0
	}
	return eb.events[0].ID
}
