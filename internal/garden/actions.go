package garden

import (
	"fmt"
	"time"

	"github.com/osse101/IdleGarden_Go/internal/catalog"
	"github.com/osse101/IdleGarden_Go/internal/domain"
	"github.com/osse101/IdleGarden_Go/internal/modifier"
)

// Plant buys an asset and places it on an empty plot
func (e *Engine) Plant(state *domain.GardenState, t domain.AssetType, x, y int, now time.Time) (*domain.PlantInstance, error) {
	cfg, err := e.catalog.Config(t)
	if err != nil {
		return nil, err
	}
	if cfg.EvolvedOnly {
		return nil, fmt.Errorf("%w: %s can only be reached by evolution", domain.ErrInvalidInput, t)
	}
	if !state.InBounds(x, y) {
		return nil, fmt.Errorf("%w: (%d,%d) is outside the %dx%d grid", domain.ErrInvalidTarget, x, y, state.Width, state.Height)
	}
	if state.PlantAt(x, y) != nil {
		return nil, fmt.Errorf("%w: plot (%d,%d) is occupied", domain.ErrInvalidTarget, x, y)
	}
	if state.Currency < cfg.BaseCost {
		return nil, fmt.Errorf("%w: %s costs %d, balance %d", domain.ErrInsufficientFunds, t, cfg.BaseCost, state.Currency)
	}

	state.Currency -= cfg.BaseCost
	p := newPlant(t, now)
	state.SetPlant(x, y, p)
	state.Touch()
	return p, nil
}

// Upgrade raises the level of the plant on (x, y) and returns the amount charged
func (e *Engine) Upgrade(state *domain.GardenState, x, y int) (int64, error) {
	p := state.PlantAt(x, y)
	if p == nil {
		return 0, fmt.Errorf("%w: no plant at (%d,%d)", domain.ErrInvalidTarget, x, y)
	}
	cfg, err := e.catalog.Config(p.Type)
	if err != nil {
		return 0, err
	}
	if p.Level >= MaxLevelFor(state, cfg) {
		return 0, fmt.Errorf("%w: %s is at level %d", domain.ErrLimitReached, p.Type, p.Level)
	}
	cost := UpgradeCost(cfg, p.Level)
	if state.Currency < cost {
		return 0, fmt.Errorf("%w: upgrade costs %d, balance %d", domain.ErrInsufficientFunds, cost, state.Currency)
	}

	state.Currency -= cost
	p.Level++
	state.Touch()
	return cost, nil
}

// Sell removes the plant on (x, y) and refunds half its base cost
func (e *Engine) Sell(state *domain.GardenState, x, y int) (int64, error) {
	p := state.PlantAt(x, y)
	if p == nil {
		return 0, fmt.Errorf("%w: no plant at (%d,%d)", domain.ErrInvalidTarget, x, y)
	}
	cfg, err := e.catalog.Config(p.Type)
	if err != nil {
		return 0, err
	}

	refund := cfg.BaseCost / domain.SellRefundDivisor
	state.Currency += refund
	state.SetPlant(x, y, nil)
	state.Touch()
	return refund, nil
}

// PurchaseModifier buys the next level of a garden modifier and returns the amount charged
func (e *Engine) PurchaseModifier(state *domain.GardenState, key string) (*domain.GardenModifier, int64, error) {
	def, err := e.catalog.Modifier(key)
	if err != nil {
		return nil, 0, err
	}
	m, ok := state.Modifiers[key]
	if !ok || m == nil {
		m = &domain.GardenModifier{Key: key}
	}

	if m.Level >= def.MaxLevel {
		return nil, 0, fmt.Errorf("%w: %s is at level %d", domain.ErrLimitReached, key, m.Level)
	}
	cost := ModifierCost(def, m.Level)
	if state.Currency < cost {
		return nil, 0, fmt.Errorf("%w: %s costs %d, balance %d", domain.ErrInsufficientFunds, key, cost, state.Currency)
	}

	// Static fields always follow the catalog.
	m.MaxLevel = def.MaxLevel
	m.CostBase = def.CostBase
	m.Effect = def.Effect
	m.AmountPerLevel = def.AmountPerLevel

	state.Currency -= cost
	m.Level++
	state.Modifiers[key] = m
	if m.Effect == domain.EffectGridSize {
		e.ApplyGridSize(state)
	}
	state.Touch()
	return m, cost, nil
}

// ApplyGridSize sets the grid dimensions from the base size plus grid modifiers,
// keeping every plant whose position still fits.
func (e *Engine) ApplyGridSize(state *domain.GardenState) []*domain.PlantInstance {
	bonus := modifier.GridBonus(state)
	w := min(domain.DefaultGridWidth+bonus, domain.MaxGridDimension)
	h := min(domain.DefaultGridHeight+bonus, domain.MaxGridDimension)
	if w == state.Width && h == state.Height {
		return nil
	}
	return state.Resize(w, h)
}

// SellInventory converts harvested items into currency at the item's unit value
func (e *Engine) SellInventory(state *domain.GardenState, kind string, qty int) (int64, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	unit, ok := e.unitValue(kind)
	if !ok {
		return 0, fmt.Errorf("%w: unknown item %q", domain.ErrInvalidInput, kind)
	}
	if state.Inventory[kind] < qty {
		return 0, fmt.Errorf("%w: have %d %s, selling %d", domain.ErrInvalidInput, state.Inventory[kind], kind, qty)
	}

	state.Inventory[kind] -= qty
	if state.Inventory[kind] == 0 {
		delete(state.Inventory, kind)
	}
	value := unit * int64(qty)
	state.Currency += value
	state.Touch()
	return value, nil
}

func (e *Engine) unitValue(kind string) (int64, bool) {
	for _, cfg := range e.catalog.Assets() {
		if cfg.HarvestItem == kind {
			return cfg.HarvestUnitValue, true
		}
	}
	return 0, false
}

// StartWeather replaces the current weather
func (e *Engine) StartWeather(state *domain.GardenState, key string, now time.Time) (*domain.TimedEffect, error) {
	def, err := e.catalog.Weather(key)
	if err != nil {
		return nil, err
	}
	w := def.Start(domain.TimedKindWeather, now)
	state.Weather = &w
	state.Touch()
	return state.Weather, nil
}

// RotateWeather picks the next weather from the weighted rotation table
func (e *Engine) RotateWeather(state *domain.GardenState, now time.Time, rng Rand) (*domain.TimedEffect, bool) {
	def, ok := e.catalog.PickWeather(rng)
	if !ok {
		return nil, false
	}
	w := def.Start(domain.TimedKindWeather, now)
	state.Weather = &w
	state.Touch()
	return state.Weather, true
}

// StartSeasonal replaces the current seasonal event
func (e *Engine) StartSeasonal(state *domain.GardenState, key string, now time.Time) (*domain.TimedEffect, error) {
	def, err := e.catalog.Seasonal(key)
	if err != nil {
		return nil, err
	}
	s := def.Start(domain.TimedKindSeasonal, now)
	state.Seasonal = &s
	state.Touch()
	return state.Seasonal, nil
}

// AddServerEvent appends a server event; an existing entry with the same key is restarted
func (e *Engine) AddServerEvent(state *domain.GardenState, key string, now time.Time) (*domain.TimedEffect, error) {
	def, err := e.catalog.ServerEvent(key)
	if err != nil {
		return nil, err
	}
	ev := def.Start(domain.TimedKindServer, now)
	for i := range state.ServerEvents {
		if state.ServerEvents[i].Key == key {
			state.ServerEvents[i] = ev
			state.Touch()
			return &state.ServerEvents[i], nil
		}
	}
	state.ServerEvents = append(state.ServerEvents, ev)
	state.Touch()
	return &state.ServerEvents[len(state.ServerEvents)-1], nil
}

// PruneExpired drops timed effects that ended before now and returns how many were removed
func (e *Engine) PruneExpired(state *domain.GardenState, now time.Time) int {
	removed := 0
	if state.Weather != nil && !state.Weather.IsActive(now) {
		state.Weather = nil
		removed++
	}
	if state.Seasonal != nil && !state.Seasonal.IsActive(now) {
		state.Seasonal = nil
		removed++
	}
	kept := state.ServerEvents[:0]
	for _, ev := range state.ServerEvents {
		if ev.IsActive(now) {
			kept = append(kept, ev)
		} else {
			removed++
		}
	}
	state.ServerEvents = kept
	if removed > 0 {
		state.Touch()
	}
	return removed
}

// ModifierOffer is the next purchasable level of a garden modifier
type ModifierOffer struct {
	Def      catalog.ModifierDef
	Level    int
	NextCost int64
	Maxed    bool
}

// ModifierOffers lists every catalog modifier with the garden's current level and next price
func (e *Engine) ModifierOffers(state *domain.GardenState) []ModifierOffer {
	keys := e.catalog.ModifierKeys()
	offers := make([]ModifierOffer, 0, len(keys))
	for _, key := range keys {
		def, err := e.catalog.Modifier(key)
		if err != nil {
			continue
		}
		level := state.ModifierLevel(key)
		offers = append(offers, ModifierOffer{
			Def:      def,
			Level:    level,
			NextCost: ModifierCost(def, level),
			Maxed:    level >= def.MaxLevel,
		})
	}
	return offers
}
