package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/IdleGarden_Go/internal/domain"
	"github.com/osse101/IdleGarden_Go/internal/event"
	"github.com/osse101/IdleGarden_Go/internal/garden"
	"github.com/osse101/IdleGarden_Go/internal/logger"
	"github.com/osse101/IdleGarden_Go/internal/session"
)

// Gardens opens and closes live garden sessions
type Gardens interface {
	Open(ctx context.Context, userID string) (*session.Session, error)
	Close(ctx context.Context, userID string) error
}

// GardenHandler serves the per-user garden routes
type GardenHandler struct {
	gardens Gardens
}

// NewGardenHandler creates a new garden handler
func NewGardenHandler(gardens Gardens) *GardenHandler {
	return &GardenHandler{gardens: gardens}
}

// PlotRequest addresses one plot of the grid
type PlotRequest struct {
	X *int `json:"x" validate:"required,gte=0,lt=64"`
	Y *int `json:"y" validate:"required,gte=0,lt=64"`
}

// PlantRequest buys an asset for a plot
type PlantRequest struct {
	Asset string `json:"asset" validate:"required,asset"`
	X     *int   `json:"x" validate:"required,gte=0,lt=64"`
	Y     *int   `json:"y" validate:"required,gte=0,lt=64"`
}

// HarvestRequest collects a plot; Mode defaults to full
type HarvestRequest struct {
	X    *int   `json:"x" validate:"required,gte=0,lt=64"`
	Y    *int   `json:"y" validate:"required,gte=0,lt=64"`
	Mode string `json:"mode" validate:"harvest_mode"`
}

// ModifierRequest buys the next level of a garden modifier
type ModifierRequest struct {
	Key string `json:"key" validate:"required,max=64"`
}

// SellInventoryRequest sells harvested items
type SellInventoryRequest struct {
	Item     string `json:"item" validate:"required,max=64"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// EffectRequest starts a weather, seasonal event or server event
type EffectRequest struct {
	Kind string `json:"kind" validate:"required,timed_kind"`
	Key  string `json:"key" validate:"required,max=64"`
}

// AmountRequest moves currency between the garden and the external ledger
type AmountRequest struct {
	Amount int64 `json:"amount" validate:"gt=0"`
}

// GardenView is the JSON shape of a garden overview
type GardenView struct {
	UserID       string                  `json:"user_id"`
	SessionID    string                  `json:"session_id"`
	Width        int                     `json:"width"`
	Height       int                     `json:"height"`
	Currency     int64                   `json:"currency"`
	Inventory    map[string]int          `json:"inventory"`
	PlantCount   int                     `json:"plant_count"`
	Ready        int                     `json:"ready"`
	Evolvable    int                     `json:"evolvable"`
	ActiveCombos []string                `json:"active_combos"`
	TimedEffects []domain.TimedEffect    `json:"timed_effects"`
	Modifiers    []ModifierOfferView     `json:"modifiers"`
	Plants       []*domain.PlantInstance `json:"plants"`
	Version      int64                   `json:"version"`
	LastTickAt   time.Time               `json:"last_tick_at"`
}

// ModifierOfferView is the next purchasable level of a modifier
type ModifierOfferView struct {
	Key      string `json:"key"`
	Effect   string `json:"effect"`
	Level    int    `json:"level"`
	MaxLevel int    `json:"max_level"`
	NextCost int64  `json:"next_cost"`
	Maxed    bool   `json:"maxed"`
}

// HarvestView is the JSON shape of a harvest outcome
type HarvestView struct {
	PlantID  string                `json:"plant_id"`
	Asset    domain.AssetType      `json:"asset"`
	Mode     string                `json:"mode"`
	Currency int64                 `json:"currency"`
	Item     string                `json:"item,omitempty"`
	Quantity int                   `json:"quantity,omitempty"`
	Lucky    bool                  `json:"lucky"`
	Clamped  bool                  `json:"clamped"`
	Removed  bool                  `json:"removed"`
	Sprouted *domain.PlantInstance `json:"sprouted,omitempty"`
}

// PreviewView is what a harvest would pay now
type PreviewView struct {
	Full int64  `json:"full"`
	Half int64  `json:"half"`
	Item string `json:"item,omitempty"`
}

// EvolveView is the JSON shape of an evolution
type EvolveView struct {
	PlantID string           `json:"plant_id"`
	From    domain.AssetType `json:"from"`
	To      domain.AssetType `json:"to"`
	Cost    int64            `json:"cost"`
}

// CostView reports currency spent or refunded by an action
type CostView struct {
	Amount int64 `json:"amount"`
}

// ModifierView is a purchased modifier with its price
type ModifierView struct {
	Modifier domain.GardenModifier `json:"modifier"`
	Cost     int64                 `json:"cost"`
}

func newGardenView(s *session.Session, sum garden.Summary, snap *domain.GardenState) GardenView {
	v := GardenView{
		UserID:       sum.UserID,
		SessionID:    s.ID(),
		Width:        sum.Width,
		Height:       sum.Height,
		Currency:     sum.Currency,
		Inventory:    sum.Inventory,
		PlantCount:   sum.Plants,
		Ready:        sum.Ready,
		Evolvable:    sum.Evolvable,
		ActiveCombos: sum.ActiveCombos,
		TimedEffects: sum.Timed,
		Modifiers:    make([]ModifierOfferView, 0, len(sum.Modifiers)),
		Plants:       []*domain.PlantInstance{},
		Version:      snap.Version,
		LastTickAt:   snap.LastGrowthUpdateAt,
	}
	for _, o := range sum.Modifiers {
		v.Modifiers = append(v.Modifiers, ModifierOfferView{
			Key:      o.Def.Key,
			Effect:   o.Def.Effect,
			Level:    o.Level,
			MaxLevel: o.Def.MaxLevel,
			NextCost: o.NextCost,
			Maxed:    o.Maxed,
		})
	}
	snap.EachPlant(func(p *domain.PlantInstance) {
		v.Plants = append(v.Plants, p)
	})
	return v
}

func (h *GardenHandler) view(ctx context.Context, s *session.Session) (GardenView, error) {
	sum, err := s.Summary(ctx)
	if err != nil {
		return GardenView{}, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return GardenView{}, err
	}
	return newGardenView(s, sum, snap), nil
}

// openSession resolves the {userID} garden, loading it when no session is live.
// If ok is false, the HTTP response has already been written.
func (h *GardenHandler) openSession(w http.ResponseWriter, r *http.Request, opName string) (*session.Session, bool) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return nil, false
	}
	s, err := h.gardens.Open(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, opName, err)
		return nil, false
	}
	return s, true
}

// handleGardenAction decodes and validates REQ, runs action against the caller's session
// and answers with the mapped result.
func handleGardenAction[REQ any, RES any](
	h *GardenHandler,
	w http.ResponseWriter,
	r *http.Request,
	opName string,
	action func(context.Context, *session.Session, REQ) (RES, error),
) {
	var req REQ
	if err := DecodeAndValidateRequest(r, w, &req, opName); err != nil {
		return
	}
	s, ok := h.openSession(w, r, opName)
	if !ok {
		return
	}

	res, err := action(r.Context(), s, req)
	if err != nil {
		respondServiceError(w, r, opName, err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: res})
}

// HandleOpen loads the garden (running offline catch-up) and returns its overview
func (h *GardenHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	s, ok := h.openSession(w, r, "Open garden")
	if !ok {
		return
	}
	v, err := h.view(r.Context(), s)
	if err != nil {
		respondServiceError(w, r, "Open garden", err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgGardenOpened, logger.AttrKeyUserID, s.UserID(), logger.AttrKeySessionID, s.ID())
	respondJSON(w, http.StatusOK, DataResponse{Data: v})
}

// HandleGet returns the garden overview
func (h *GardenHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, ok := h.openSession(w, r, "Get garden")
	if !ok {
		return
	}
	v, err := h.view(r.Context(), s)
	if err != nil {
		respondServiceError(w, r, "Get garden", err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: v})
}

// HandlePreview returns what harvesting the plot in ?x=&y= would pay
func (h *GardenHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	x, ok := GetIntQueryParam(r, w, "x")
	if !ok {
		return
	}
	y, ok := GetIntQueryParam(r, w, "y")
	if !ok {
		return
	}
	s, ok := h.openSession(w, r, "Preview harvest")
	if !ok {
		return
	}
	p, err := s.Preview(r.Context(), x, y)
	if err != nil {
		respondServiceError(w, r, "Preview harvest", err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: PreviewView{Full: p.Full, Half: p.Half, Item: p.Item}})
}

// HandlePlant buys and places an asset
func (h *GardenHandler) HandlePlant(w http.ResponseWriter, r *http.Request) {
	handleGardenAction(h, w, r, "Plant", func(ctx context.Context, s *session.Session, req PlantRequest) (*domain.PlantInstance, error) {
		t, err := domain.ParseAssetType(req.Asset)
		if err != nil {
			return nil, err
		}
		return s.Plant(ctx, t, *req.X, *req.Y)
	})
}

// HandleHarvest collects a ready plant
func (h *GardenHandler) HandleHarvest(w http.ResponseWriter, r *http.Request) {
	handleGardenAction(h, w, r, "Harvest", func(ctx context.Context, s *session.Session, req HarvestRequest) (HarvestView, error) {
		mode := req.Mode
		if mode == "" {
			mode = domain.HarvestFull
		}
		res, err := s.Harvest(ctx, *req.X, *req.Y, mode)
		if err != nil {
			return HarvestView{}, err
		}
		return HarvestView{
			PlantID:  res.PlantID,
			Asset:    res.Type,
			Mode:     res.Mode,
			Currency: res.Currency,
			Item:     res.Item,
			Quantity: res.Quantity,
			Lucky:    res.Lucky,
			Clamped:  res.Clamped,
			Removed:  res.Removed,
			Sprouted: res.Sprouted,
		}, nil
	})
}

// HandleUpgrade raises a plant's level
func (h *GardenHandler) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	handleGardenAction(h, w, r, "Upgrade", func(ctx context.Context, s *session.Session, req PlotRequest) (CostView, error) {
		cost, err := s.Upgrade(ctx, *req.X, *req.Y)
		return CostView{Amount: cost}, err
	})
}

// HandleSell removes a plant for a partial refund
func (h *GardenHandler) HandleSell(w http.ResponseWriter, r *http.Request) {
	handleGardenAction(h, w, r, "Sell", func(ctx context.Context, s *session.Session, req PlotRequest) (CostView, error) {
		refund, err := s.Sell(ctx, *req.X, *req.Y)
		return CostView{Amount: refund}, err
	})
}

// HandleEvolve turns a plant into its successor
func (h *GardenHandler) HandleEvolve(w http.ResponseWriter, r *http.Request) {
	handleGardenAction(h, w, r, "Evolve", func(ctx context.Context, s *session.Session, req PlotRequest) (EvolveView, error) {
		res, err := s.Evolve(ctx, *req.X, *req.Y)
		if err != nil {
			return EvolveView{}, err
		}
		return EvolveView{PlantID: res.PlantID, From: res.From, To: res.To, Cost: res.Cost}, nil
	})
}

// HandlePurchaseModifier buys the next level of a garden modifier
func (h *GardenHandler) HandlePurchaseModifier(w http.ResponseWriter, r *http.Request) {
	handleGardenAction(h, w, r, "Purchase modifier", func(ctx context.Context, s *session.Session, req ModifierRequest) (ModifierView, error) {
		m, cost, err := s.PurchaseModifier(ctx, req.Key)
		return ModifierView{Modifier: m, Cost: cost}, err
	})
}

// HandleSellInventory sells harvested items
func (h *GardenHandler) HandleSellInventory(w http.ResponseWriter, r *http.Request) {
	handleGardenAction(h, w, r, "Sell inventory", func(ctx context.Context, s *session.Session, req SellInventoryRequest) (CostView, error) {
		credited, err := s.SellInventory(ctx, req.Item, req.Quantity)
		return CostView{Amount: credited}, err
	})
}

// HandleStartEffect starts a timed effect on the garden
func (h *GardenHandler) HandleStartEffect(w http.ResponseWriter, r *http.Request) {
	handleGardenAction(h, w, r, "Start effect", func(ctx context.Context, s *session.Session, req EffectRequest) (domain.TimedEffect, error) {
		return s.StartTimedEffect(ctx, req.Kind, req.Key)
	})
}

// HandleDeposit moves currency from the external ledger into the garden
func (h *GardenHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	handleGardenAction(h, w, r, "Deposit", func(ctx context.Context, s *session.Session, req AmountRequest) (SuccessResponse, error) {
		return SuccessResponse{Message: MsgDepositSuccess}, s.Deposit(ctx, req.Amount)
	})
}

// HandleCashOut moves currency from the garden to the external ledger
func (h *GardenHandler) HandleCashOut(w http.ResponseWriter, r *http.Request) {
	handleGardenAction(h, w, r, "Cash out", func(ctx context.Context, s *session.Session, req AmountRequest) (SuccessResponse, error) {
		return SuccessResponse{Message: MsgCashOutSuccess}, s.CashOut(ctx, req.Amount)
	})
}

// HandleSave persists the garden now
func (h *GardenHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	s, ok := h.openSession(w, r, "Save garden")
	if !ok {
		return
	}
	if err := s.Save(r.Context(), event.SaveReasonExplicit); err != nil {
		respondServiceError(w, r, "Save garden", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgGardenSaved})
}

// HandleClose saves the garden and ends its session
func (h *GardenHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgGardenClosedRequest, logger.AttrKeyUserID, userID)
	if err := h.gardens.Close(r.Context(), userID); err != nil {
		respondServiceError(w, r, "Close garden", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgGardenClosed})
}

// RegisterRoutes mounts the garden routes on r, which is expected to be scoped to /gardens
func (h *GardenHandler) RegisterRoutes(r chi.Router) {
	r.Route("/{userID}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Get("/preview", h.HandlePreview)
		r.Post("/open", h.HandleOpen)
		r.Post("/plant", h.HandlePlant)
		r.Post("/harvest", h.HandleHarvest)
		r.Post("/upgrade", h.HandleUpgrade)
		r.Post("/sell", h.HandleSell)
		r.Post("/evolve", h.HandleEvolve)
		r.Post("/modifiers", h.HandlePurchaseModifier)
		r.Post("/inventory/sell", h.HandleSellInventory)
		r.Post("/effects", h.HandleStartEffect)
		r.Post("/deposit", h.HandleDeposit)
		r.Post("/cashout", h.HandleCashOut)
		r.Post("/save", h.HandleSave)
		r.Post("/close", h.HandleClose)
	})
}
