package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a garden event published on the bus
type Event struct {
	Version  string                 `json:"version"`
	Type     Type                   `json:"type"`
	Payload  interface{}            `json:"payload"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Garden event types
const (
	Planted       Type = domain.EventTypePlanted
	Harvested     Type = domain.EventTypeHarvested
	Mutated       Type = domain.EventTypeMutated
	Evolved       Type = domain.EventTypeEvolved
	CatchUp       Type = domain.EventTypeCatchUp
	Saved         Type = domain.EventTypeSaved
	PassiveIncome Type = domain.EventTypePassiveIncome
)

// PlantedPayloadV1 is the payload of garden.planted
type PlantedPayloadV1 struct {
	UserID    string `json:"user_id"`
	PlantID   string `json:"plant_id"`
	AssetType string `json:"asset_type"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Cost      int64  `json:"cost"`
}

// HarvestedPayloadV1 is the payload of garden.harvested
type HarvestedPayloadV1 struct {
	UserID    string `json:"user_id"`
	PlantID   string `json:"plant_id"`
	AssetType string `json:"asset_type"`
	Mode      string `json:"mode"`
	Currency  int64  `json:"currency"`
	Item      string `json:"item,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Lucky     bool   `json:"lucky"`
}

// MutatedPayloadV1 is the payload of garden.mutated
type MutatedPayloadV1 struct {
	UserID   string `json:"user_id"`
	PlantID  string `json:"plant_id"`
	Mutation string `json:"mutation"`
	Rarity   string `json:"rarity"`
	Stacked  bool   `json:"stacked"`
}

// EvolvedPayloadV1 is the payload of garden.evolved
type EvolvedPayloadV1 struct {
	UserID  string `json:"user_id"`
	PlantID string `json:"plant_id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Cost    int64  `json:"cost"`
}

// CatchUpPayloadV1 is the payload of garden.catchup
type CatchUpPayloadV1 struct {
	UserID          string         `json:"user_id"`
	ElapsedMs       int64          `json:"elapsed_ms"`
	AppliedMs       int64          `json:"applied_ms"`
	Skipped         bool           `json:"skipped"`
	Currency        int64          `json:"currency"`
	Items           map[string]int `json:"items,omitempty"`
	ItemsClamped    bool           `json:"items_clamped"`
	PlantsProcessed int            `json:"plants_processed"`
}

// SavedPayloadV1 is the payload of garden.saved
type SavedPayloadV1 struct {
	UserID       string        `json:"user_id"`
	StateVersion int64         `json:"state_version"`
	Reason       string        `json:"reason"`
	Duration     time.Duration `json:"duration"`
	Err          string        `json:"error,omitempty"`
}

// PassiveIncomePayloadV1 is the payload of garden.passive_income
type PassiveIncomePayloadV1 struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

// New wraps a payload into an event of the current schema version
func New(t Type, payload interface{}) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: payload,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber of the event type synchronously
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Nop is a bus that drops every event
type Nop struct{}

// Publish drops the event
func (Nop) Publish(context.Context, Event) error { return nil }

// Subscribe ignores the handler
func (Nop) Subscribe(Type, Handler) {}
