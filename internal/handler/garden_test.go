package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleGarden_Go/internal/catalog"
	"github.com/osse101/IdleGarden_Go/internal/database/memory"
	"github.com/osse101/IdleGarden_Go/internal/event"
	"github.com/osse101/IdleGarden_Go/internal/garden"
	"github.com/osse101/IdleGarden_Go/internal/session"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

type testClock struct {
	ns atomic.Int64
}

func (c *testClock) Now() time.Time      { return time.Unix(0, c.ns.Load()).UTC() }
func (c *testClock) Add(d time.Duration) { c.ns.Add(int64(d)) }

type gardenAPI struct {
	router  http.Handler
	store   *memory.Store
	clock   *testClock
	manager *session.Manager
}

func newGardenAPI(t *testing.T, tick time.Duration) *gardenAPI {
	t.Helper()
	InitValidator()

	clock := &testClock{}
	clock.ns.Store(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC).UnixNano())

	store := memory.NewStore()
	cat := catalog.MustDefault()
	engine := garden.NewEngine(cat, garden.DefaultCatchUpLimits())
	m := session.NewManager(engine, store, store, event.Nop{}, session.Options{
		TickInterval:     tick,
		StartingCurrency: 1000,
		Now:              clock.Now,
		NewRand:          func() garden.Rand { return fixedRand(0.99) },
	})
	t.Cleanup(func() { _ = m.CloseAll(context.Background()) })

	r := chi.NewRouter()
	r.Get("/catalog", HandleGetCatalog(cat))
	r.Route("/gardens", NewGardenHandler(m).RegisterRoutes)
	return &gardenAPI{router: r, store: store, clock: clock, manager: m}
}

func (a *gardenAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// decodeData unwraps a DataResponse into out
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestGardenHandler_OpenAndGet(t *testing.T) {
	api := newGardenAPI(t, time.Hour)

	rec := api.do(t, http.MethodPost, "/gardens/alice/open", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view GardenView
	decodeData(t, rec, &view)
	assert.Equal(t, "alice", view.UserID)
	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, int64(1000), view.Currency)
	assert.Equal(t, 5, view.Width)
	assert.Equal(t, 5, view.Height)
	assert.Empty(t, view.Plants)
	assert.NotEmpty(t, view.Modifiers)

	rec = api.do(t, http.MethodGet, "/gardens/alice/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var again GardenView
	decodeData(t, rec, &again)
	assert.Equal(t, view.SessionID, again.SessionID)
}

func TestGardenHandler_InvalidUserID(t *testing.T) {
	api := newGardenAPI(t, time.Hour)

	rec := api.do(t, http.MethodPost, "/gardens/"+strings.Repeat("u", 65)+"/open", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, api.manager.Len())
}

func TestGardenHandler_Plant(t *testing.T) {
	api := newGardenAPI(t, time.Hour)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantError  string
	}{
		{"plants a money tree", PlantRequest{Asset: "money_tree", X: intPtr(1), Y: intPtr(1)}, http.StatusOK, ""},
		{"occupied plot", PlantRequest{Asset: "carrot", X: intPtr(1), Y: intPtr(1)}, http.StatusConflict, ErrMsgInvalidTargetError},
		{"outside the grid", PlantRequest{Asset: "carrot", X: intPtr(7), Y: intPtr(0)}, http.StatusConflict, ErrMsgInvalidTargetError},
		{"too expensive", PlantRequest{Asset: "crystal_tree", X: intPtr(0), Y: intPtr(0)}, http.StatusPaymentRequired, ErrMsgNotEnoughMoneyError},
		{"evolution only", PlantRequest{Asset: "golden_money_tree", X: intPtr(0), Y: intPtr(0)}, http.StatusBadRequest, ErrMsgInvalidInputError},
		{"unknown asset", PlantRequest{Asset: "cabbage", X: intPtr(0), Y: intPtr(0)}, http.StatusBadRequest, ErrMsgInvalidRequestSummary},
		{"malformed json", `{"asset":`, http.StatusBadRequest, ErrMsgInvalidRequest},
		{"unknown field", `{"asset":"carrot","x":0,"y":0,"free":true}`, http.StatusBadRequest, ErrMsgInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/gardens/alice/plant", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorOf(t, rec))
			}
		})
	}

	rec := api.do(t, http.MethodGet, "/gardens/alice/", nil)
	var view GardenView
	decodeData(t, rec, &view)
	assert.Equal(t, int64(800), view.Currency)
	require.Len(t, view.Plants, 1)
	assert.Equal(t, "money_tree", view.Plants[0].Type.String())
}

func TestGardenHandler_HarvestFlow(t *testing.T) {
	api := newGardenAPI(t, 5*time.Millisecond)

	rec := api.do(t, http.MethodPost, "/gardens/bob/plant", PlantRequest{Asset: "money_tree", X: intPtr(2), Y: intPtr(3)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPost, "/gardens/bob/harvest", HarvestRequest{X: intPtr(2), Y: intPtr(3)})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ErrMsgNotReadyError, errorOf(t, rec))

	rec = api.do(t, http.MethodGet, "/gardens/bob/preview?x=2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	api.clock.Add(11 * time.Second)
	require.Eventually(t, func() bool {
		return api.do(t, http.MethodGet, "/gardens/bob/preview?x=2&y=3", nil).Code == http.StatusOK
	}, time.Second, 5*time.Millisecond)

	rec = api.do(t, http.MethodGet, "/gardens/bob/preview?x=2&y=3", nil)
	var preview PreviewView
	decodeData(t, rec, &preview)
	assert.Equal(t, int64(30), preview.Full)
	assert.Equal(t, int64(15), preview.Half)

	rec = api.do(t, http.MethodPost, "/gardens/bob/harvest", HarvestRequest{X: intPtr(2), Y: intPtr(3)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var harvest HarvestView
	decodeData(t, rec, &harvest)
	assert.Equal(t, "full", harvest.Mode)
	assert.Equal(t, int64(30), harvest.Currency)
	assert.False(t, harvest.Lucky)
}

func TestGardenHandler_PlotActions(t *testing.T) {
	api := newGardenAPI(t, time.Hour)

	rec := api.do(t, http.MethodPost, "/gardens/carol/upgrade", PlotRequest{X: intPtr(0), Y: intPtr(0)})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/gardens/carol/plant", PlantRequest{Asset: "money_tree", X: intPtr(0), Y: intPtr(0)})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/gardens/carol/upgrade", PlotRequest{X: intPtr(0), Y: intPtr(0)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var upgrade CostView
	decodeData(t, rec, &upgrade)
	assert.Positive(t, upgrade.Amount)

	rec = api.do(t, http.MethodPost, "/gardens/carol/evolve", PlotRequest{X: intPtr(0), Y: intPtr(0)})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/gardens/carol/sell", PlotRequest{X: intPtr(0), Y: intPtr(0)})
	require.Equal(t, http.StatusOK, rec.Code)
	var refund CostView
	decodeData(t, rec, &refund)
	assert.Equal(t, int64(100), refund.Amount)

	rec = api.do(t, http.MethodPost, "/gardens/carol/inventory/sell", SellInventoryRequest{Item: "gold", Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGardenHandler_ModifiersAndLedger(t *testing.T) {
	api := newGardenAPI(t, time.Hour)
	ctx := context.Background()

	rec := api.do(t, http.MethodPost, "/gardens/dave/modifiers", ModifierRequest{Key: "mutation_boost"})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	rec = api.do(t, http.MethodPost, "/gardens/dave/modifiers", ModifierRequest{Key: "moon_boost"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, ErrMsgUnknownModifierError, errorOf(t, rec))

	rec = api.do(t, http.MethodPost, "/gardens/dave/deposit", AmountRequest{Amount: 5000})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code, "empty ledger")

	require.NoError(t, api.store.Credit(ctx, "dave", 6000))
	rec = api.do(t, http.MethodPost, "/gardens/dave/deposit", AmountRequest{Amount: 5000})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPost, "/gardens/dave/modifiers", ModifierRequest{Key: "mutation_boost"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var bought ModifierView
	decodeData(t, rec, &bought)
	assert.Equal(t, 1, bought.Modifier.Level)
	assert.Equal(t, int64(5000), bought.Cost)

	rec = api.do(t, http.MethodPost, "/gardens/dave/cashout", AmountRequest{Amount: 1000})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodPost, "/gardens/dave/cashout", AmountRequest{Amount: 1})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	rec = api.do(t, http.MethodPost, "/gardens/dave/cashout", AmountRequest{Amount: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	balance, err := api.store.Balance(ctx, "dave")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), balance)
}

func TestGardenHandler_TimedEffects(t *testing.T) {
	api := newGardenAPI(t, time.Hour)

	rec := api.do(t, http.MethodPost, "/gardens/erin/effects", EffectRequest{Kind: "weather", Key: "rain"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPost, "/gardens/erin/effects", EffectRequest{Kind: "weather", Key: "hail"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(t, http.MethodPost, "/gardens/erin/effects", EffectRequest{Kind: "eclipse", Key: "rain"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/gardens/erin/", nil)
	var view GardenView
	decodeData(t, rec, &view)
	require.Len(t, view.TimedEffects, 1)
	assert.Equal(t, "rain", view.TimedEffects[0].Key)
}

func TestGardenHandler_SaveAndClose(t *testing.T) {
	api := newGardenAPI(t, time.Hour)
	ctx := context.Background()

	rec := api.do(t, http.MethodPost, "/gardens/frank/plant", PlantRequest{Asset: "carrot", X: intPtr(4), Y: intPtr(4)})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/gardens/frank/save", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := api.store.LoadGarden(ctx, "frank")
	require.NoError(t, err)
	assert.NotNil(t, stored.PlantAt(4, 4))

	rec = api.do(t, http.MethodPost, "/gardens/frank/close", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, api.manager.Len())

	rec = api.do(t, http.MethodPost, "/gardens/frank/close", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrMsgSessionClosedError, errorOf(t, rec))
}

func TestHandleGetCatalog(t *testing.T) {
	api := newGardenAPI(t, time.Hour)

	rec := api.do(t, http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view CatalogView
	decodeData(t, rec, &view)
	assert.NotEmpty(t, view.Version)
	assert.Contains(t, view.Weathers, "sunny")

	var found bool
	for _, a := range view.Assets {
		if a.Type.String() == "money_tree" {
			found = true
			assert.Equal(t, int64(200), a.BaseCost)
			assert.Equal(t, int64(10000), a.GrowthDurationMs)
		}
	}
	assert.True(t, found)
}
