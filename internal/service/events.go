package service

import "github.com/rentora/rentora/internal/models"

// EventSink receives the literal facts emitted by committed transitions.
// The server wires this to the WebSocket hub; tests use a recorder.
type EventSink interface {
	Emit(event models.Event)
}

// emit forwards an event to the sink if one is configured.
func emit(sink EventSink, event models.Event) {
	if sink != nil {
		sink.Emit(event)
	}
}
