package bootstrap

import (
	"log/slog"

	"github.com/osse101/IdleGarden_Go/internal/event"
	"github.com/osse101/IdleGarden_Go/internal/metrics"
)

// InitializeEventSystem creates the in-process event bus and subscribes the
// metrics collector to it.
func InitializeEventSystem() *event.MemoryBus {
	bus := event.NewMemoryBus()

	metrics.NewEventMetricsCollector().Register(bus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	slog.Info(LogMsgEventSystemInitialized)
	return bus
}
