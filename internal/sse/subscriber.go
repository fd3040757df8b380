package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/IdleGarden_Go/internal/event"
)

// GardenEventTypes are the bus events forwarded to stream clients
var GardenEventTypes = []event.Type{
	event.Planted,
	event.Harvested,
	event.Mutated,
	event.Evolved,
	event.CatchUp,
	event.Saved,
	event.PassiveIncome,
}

// userRef picks the owner out of any garden payload
type userRef struct {
	UserID string `json:"user_id"`
}

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers the forwarder for every garden event type
func (s *Subscriber) Subscribe() {
	types := make([]string, 0, len(GardenEventTypes))
	for _, t := range GardenEventTypes {
		s.bus.Subscribe(t, s.forward)
		types = append(types, string(t))
	}
	slog.Info(LogMsgSubscriberReady, "types", types)
}

func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	ref, err := event.DecodePayload[userRef](evt.Payload)
	if err != nil || ref.UserID == "" {
		slog.Warn(LogMsgPayloadWithoutUser, "event_type", evt.Type, "error", err)
		return nil
	}

	s.hub.Broadcast(string(evt.Type), ref.UserID, evt.Payload)
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "user_id", ref.UserID)
	return nil
}
