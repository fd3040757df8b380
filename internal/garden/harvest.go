package garden

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/IdleGarden_Go/internal/domain"
	"github.com/osse101/IdleGarden_Go/internal/modifier"
)

// HarvestResult describes the outcome of a harvest action
type HarvestResult struct {
	PlantID  string
	Type     domain.AssetType
	Mode     string
	Currency int64
	Item     string
	Quantity int
	Lucky    bool
	// Clamped is set when the per-harvest or per-kind inventory cap cut the quantity.
	Clamped bool
	Removed bool
	// Sprouted is the special plant that appeared in the freed plot, if any.
	Sprouted *domain.PlantInstance
}

// HarvestPreview computes the full and half outcomes of a ready plant without
// rolling the lucky bonus.
type HarvestPreview struct {
	Full int64
	Half int64
	Item string
}

// Preview returns what harvesting the plant on (x, y) would yield right now
func (e *Engine) Preview(state *domain.GardenState, x, y int, now time.Time) (HarvestPreview, error) {
	p, cfg, err := e.harvestable(state, x, y)
	if err != nil {
		return HarvestPreview{}, err
	}
	base, _ := capItems(cfg, e.baseAmount(state, p, cfg, now))
	return HarvestPreview{Full: base, Half: base / 2, Item: cfg.HarvestItem}, nil
}

// Harvest collects a ready plant. A full harvest removes it and may roll the lucky
// bonus; a half harvest pays half the unlucky full amount and restarts growth.
func (e *Engine) Harvest(state *domain.GardenState, x, y int, mode string, now time.Time, rng Rand) (HarvestResult, error) {
	if mode != domain.HarvestFull && mode != domain.HarvestHalf {
		return HarvestResult{}, fmt.Errorf("%w: harvest mode %q", domain.ErrInvalidInput, mode)
	}
	p, cfg, err := e.harvestable(state, x, y)
	if err != nil {
		return HarvestResult{}, err
	}

	result := HarvestResult{PlantID: p.ID, Type: p.Type, Mode: mode, Item: cfg.HarvestItem}
	base, clamped := capItems(cfg, e.baseAmount(state, p, cfg, now))
	result.Clamped = clamped

	amount := base
	if mode == domain.HarvestHalf {
		amount = base / 2
	} else if luck := p.MaxLuck(); luck > 0 && rng.Float64() < luck {
		result.Lucky = true
		amount = int64(math.Floor(float64(base) * domain.LuckyHarvestBonus))
	}

	if cfg.Behavior() == domain.BehaviorHarvestItem {
		qty := int(amount)
		if qty > domain.MaxItemsPerHarvest {
			qty = domain.MaxItemsPerHarvest
			result.Clamped = true
		}
		stored := state.Inventory.Add(cfg.HarvestItem, qty)
		if stored < qty {
			result.Clamped = true
		}
		result.Quantity = stored
	} else {
		result.Currency = amount
		state.Currency += amount
	}

	if mode == domain.HarvestHalf {
		p.ResetGrowth(now)
	} else {
		state.SetPlant(x, y, nil)
		result.Removed = true
		result.Sprouted = e.maybeSprout(state, x, y, now, rng)
	}

	state.Touch()
	return result, nil
}

func (e *Engine) harvestable(state *domain.GardenState, x, y int) (*domain.PlantInstance, domain.AssetConfig, error) {
	p := state.PlantAt(x, y)
	if p == nil {
		return nil, domain.AssetConfig{}, fmt.Errorf("%w: no plant at (%d,%d)", domain.ErrInvalidTarget, x, y)
	}
	cfg, err := e.catalog.Config(p.Type)
	if err != nil {
		return nil, domain.AssetConfig{}, err
	}
	switch cfg.Behavior() {
	case domain.BehaviorPermanentBonus, domain.BehaviorPassiveIncome:
		return nil, domain.AssetConfig{}, fmt.Errorf("%w: %s is not harvestable", domain.ErrInvalidTarget, p.Type)
	}
	if !p.ReadyToHarvest {
		return nil, domain.AssetConfig{}, fmt.Errorf("%w: %s at (%d,%d)", domain.ErrNotReady, p.Type, x, y)
	}
	return p, cfg, nil
}

// capItems limits an item yield to the per-harvest cap. Half harvests halve the
// capped amount, so a full harvest always pays at least twice a half one.
func capItems(cfg domain.AssetConfig, base int64) (int64, bool) {
	if cfg.Behavior() == domain.BehaviorHarvestItem && base > domain.MaxItemsPerHarvest {
		return domain.MaxItemsPerHarvest, true
	}
	return base, false
}

// baseAmount is the full-harvest amount before the lucky bonus: currency for direct
// assets, item quantity (uncapped) for harvestable ones.
func (e *Engine) baseAmount(state *domain.GardenState, p *domain.PlantInstance, cfg domain.AssetConfig, now time.Time) int64 {
	bundle := e.resolver.ForPlot(state, p.X, p.Y, now)
	amount := baseYield(cfg, p.Level) * bundle.Yield
	if cfg.Behavior() == domain.BehaviorHarvestItem {
		amount *= modifier.PremiumMultiplier(state)
	}
	return int64(math.Floor(amount))
}

func (e *Engine) maybeSprout(state *domain.GardenState, x, y int, now time.Time, rng Rand) *domain.PlantInstance {
	chance := modifier.SpecialPlantChance(state, now)
	special := e.catalog.SpecialAsset()
	if chance <= 0 || special == domain.AssetUnknown {
		return nil
	}
	if rng.Float64() >= chance {
		return nil
	}
	p := newPlant(special, now)
	state.SetPlant(x, y, p)
	return p
}

func newPlant(t domain.AssetType, now time.Time) *domain.PlantInstance {
	return &domain.PlantInstance{
		ID:         uuid.New().String(),
		Type:       t,
		Level:      1,
		PlantedAt:  now,
		LastTickAt: now,
	}
}
