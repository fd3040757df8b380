package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleGarden_Go/internal/event"
)

func TestEventMetricsCollector_RecordsGardenEvents(t *testing.T) {
	bus := event.NewMemoryBus()
	NewEventMetricsCollector().Register(bus)
	ctx := context.Background()

	planted := testutil.ToFloat64(PlantsPlanted.WithLabelValues("carrot"))
	harvests := testutil.ToFloat64(Harvests.WithLabelValues("golden_vine", "full"))
	items := testutil.ToFloat64(ItemsHarvested.WithLabelValues("golden_grape"))
	legendary := testutil.ToFloat64(Mutations.WithLabelValues("legendary"))
	skipped := testutil.ToFloat64(CatchUps.WithLabelValues(OutcomeSkipped))
	failedSaves := testutil.ToFloat64(Saves.WithLabelValues(event.SaveReasonDebounced, StatusFailure))

	require.NoError(t, bus.Publish(ctx, event.New(event.Planted, event.PlantedPayloadV1{AssetType: "carrot"})))
	require.NoError(t, bus.Publish(ctx, event.New(event.Harvested, event.HarvestedPayloadV1{
		AssetType: "golden_vine", Mode: "full", Item: "golden_grape", Quantity: 7,
	})))
	require.NoError(t, bus.Publish(ctx, event.New(event.Mutated, event.MutatedPayloadV1{Rarity: "legendary"})))
	require.NoError(t, bus.Publish(ctx, event.New(event.CatchUp, event.CatchUpPayloadV1{Skipped: true})))
	require.NoError(t, bus.Publish(ctx, event.New(event.Saved, event.SavedPayloadV1{
		Reason: event.SaveReasonDebounced, Duration: time.Millisecond, Err: "disk full",
	})))

	assert.Equal(t, planted+1, testutil.ToFloat64(PlantsPlanted.WithLabelValues("carrot")))
	assert.Equal(t, harvests+1, testutil.ToFloat64(Harvests.WithLabelValues("golden_vine", "full")))
	assert.Equal(t, items+7, testutil.ToFloat64(ItemsHarvested.WithLabelValues("golden_grape")))
	assert.Equal(t, legendary+1, testutil.ToFloat64(Mutations.WithLabelValues("legendary")))
	assert.Equal(t, skipped+1, testutil.ToFloat64(CatchUps.WithLabelValues(OutcomeSkipped)))
	assert.Equal(t, failedSaves+1, testutil.ToFloat64(Saves.WithLabelValues(event.SaveReasonDebounced, StatusFailure)))
}

func TestEventMetricsCollector_BadPayloadCountsError(t *testing.T) {
	before := testutil.ToFloat64(EventHandlerErrors.WithLabelValues(string(event.Evolved)))

	err := NewEventMetricsCollector().HandleEvent(context.Background(), event.New(event.Evolved, "not a payload"))
	assert.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(EventHandlerErrors.WithLabelValues(string(event.Evolved))))
}

func TestRecordLedgerTransfer(t *testing.T) {
	ok := testutil.ToFloat64(LedgerTransfers.WithLabelValues(DirectionIn, StatusSuccess))
	failed := testutil.ToFloat64(LedgerTransfers.WithLabelValues(DirectionIn, StatusFailure))
	amount := testutil.ToFloat64(LedgerTransferAmount.WithLabelValues(DirectionIn))

	RecordLedgerTransfer(DirectionIn, 40, nil)
	RecordLedgerTransfer(DirectionIn, 99, errors.New("no funds"))

	assert.Equal(t, ok+1, testutil.ToFloat64(LedgerTransfers.WithLabelValues(DirectionIn, StatusSuccess)))
	assert.Equal(t, failed+1, testutil.ToFloat64(LedgerTransfers.WithLabelValues(DirectionIn, StatusFailure)))
	assert.Equal(t, amount+40, testutil.ToFloat64(LedgerTransferAmount.WithLabelValues(DirectionIn)))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/gardens/{userID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/gardens/{userID}", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gardens/alice", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/gardens/{userID}", "418")))
}
