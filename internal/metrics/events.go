package metrics

import (
	"context"

	"github.com/osse101/IdleGarden_Go/internal/event"
	"github.com/osse101/IdleGarden_Go/internal/logger"
)

// EventMetricsCollector subscribes to garden events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every garden event type
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, t := range []event.Type{
		event.Planted,
		event.Harvested,
		event.Mutated,
		event.Evolved,
		event.CatchUp,
		event.Saved,
		event.PassiveIncome,
	} {
		bus.Subscribe(t, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.Planted:
		var p event.PlantedPayloadV1
		if p, err = event.DecodePayload[event.PlantedPayloadV1](evt.Payload); err == nil {
			PlantsPlanted.WithLabelValues(p.AssetType).Inc()
		}

	case event.Harvested:
		var p event.HarvestedPayloadV1
		if p, err = event.DecodePayload[event.HarvestedPayloadV1](evt.Payload); err == nil {
			Harvests.WithLabelValues(p.AssetType, p.Mode).Inc()
			if p.Currency > 0 {
				CurrencyEarned.Add(float64(p.Currency))
			}
			if p.Item != "" && p.Quantity > 0 {
				ItemsHarvested.WithLabelValues(p.Item).Add(float64(p.Quantity))
			}
		}

	case event.Mutated:
		var p event.MutatedPayloadV1
		if p, err = event.DecodePayload[event.MutatedPayloadV1](evt.Payload); err == nil {
			Mutations.WithLabelValues(p.Rarity).Inc()
		}

	case event.Evolved:
		var p event.EvolvedPayloadV1
		if p, err = event.DecodePayload[event.EvolvedPayloadV1](evt.Payload); err == nil {
			Evolutions.WithLabelValues(p.To).Inc()
		}

	case event.CatchUp:
		var p event.CatchUpPayloadV1
		if p, err = event.DecodePayload[event.CatchUpPayloadV1](evt.Payload); err == nil {
			if p.Skipped {
				CatchUps.WithLabelValues(OutcomeSkipped).Inc()
			} else {
				CatchUps.WithLabelValues(OutcomeApplied).Inc()
				CatchUpCurrency.Add(float64(p.Currency))
			}
		}

	case event.Saved:
		var p event.SavedPayloadV1
		if p, err = event.DecodePayload[event.SavedPayloadV1](evt.Payload); err == nil {
			status := StatusSuccess
			if p.Err != "" {
				status = StatusFailure
			}
			Saves.WithLabelValues(p.Reason, status).Inc()
			SaveDuration.Observe(p.Duration.Seconds())
		}

	case event.PassiveIncome:
		var p event.PassiveIncomePayloadV1
		if p, err = event.DecodePayload[event.PassiveIncomePayloadV1](evt.Payload); err == nil {
			PassiveIncome.Add(float64(p.Amount))
		}
	}

	if err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Debug(LogMsgEventPayloadMismatch, "type", evt.Type, "error", err)
		return nil
	}
	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
