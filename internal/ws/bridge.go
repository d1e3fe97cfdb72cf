package ws

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/models"
)

// EventBridge adapts domain events to the WebSocket stream. Services emit
// models.Event values after a transition commits; the bridge serializes them
// and hands them to the hub.
type EventBridge struct {
	hub *Hub
	log *logrus.Logger
}

// NewEventBridge creates an EventBridge targeting the given hub.
func NewEventBridge(hub *Hub, log *logrus.Logger) *EventBridge {
	return &EventBridge{hub: hub, log: log}
}

// Emit serializes the event payload and broadcasts it.
func (b *EventBridge) Emit(event models.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		b.log.WithError(err).WithField("event_type", event.EventType()).Error("failed to encode event")

		return
	}

	b.hub.BroadcastEvent(event.EventType(), data)
}
