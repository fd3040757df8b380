// Package garden is the pure simulation core: the tick step, harvests, user
// actions, offline catch-up and evolution. Nothing here blocks, logs or
// persists; callers serialize access to a GardenState.
package garden

import (
	"math"
	"time"

	"github.com/osse101/IdleGarden_Go/internal/catalog"
	"github.com/osse101/IdleGarden_Go/internal/domain"
	"github.com/osse101/IdleGarden_Go/internal/modifier"
)

// Rand is the random source used by ticks and harvests. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// CatchUpLimits bound the rewards of an offline catch-up pass
type CatchUpLimits struct {
	MinGap              time.Duration
	MaxWindow           time.Duration
	MaxCurrencyPerCycle int64
	MaxItemsPerCycle    int
	MaxItemsPerAsset    int
}

// DefaultCatchUpLimits returns the standard anti-exploit caps
func DefaultCatchUpLimits() CatchUpLimits {
	return CatchUpLimits{
		MinGap:              5 * time.Minute,
		MaxWindow:           24 * time.Hour,
		MaxCurrencyPerCycle: 1000,
		MaxItemsPerCycle:    10,
		MaxItemsPerAsset:    1000,
	}
}

// Engine applies simulation rules to garden states
type Engine struct {
	catalog  *catalog.Catalog
	resolver *modifier.Resolver
	limits   CatchUpLimits
}

// NewEngine creates a new simulation engine
func NewEngine(cat *catalog.Catalog, limits CatchUpLimits) *Engine {
	return &Engine{
		catalog:  cat,
		resolver: modifier.NewResolver(cat),
		limits:   limits,
	}
}

// Catalog returns the static tables the engine was built with
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Limits returns the catch-up caps
func (e *Engine) Limits() CatchUpLimits {
	return e.limits
}

// UpgradeCost returns the price of raising an asset from level to level+1
func UpgradeCost(cfg domain.AssetConfig, level int) int64 {
	return int64(math.Floor(float64(cfg.BaseCost) * math.Pow(domain.UpgradeCostGrowth, float64(level))))
}

// ModifierCost returns the price of raising a garden modifier from level to level+1
func ModifierCost(def catalog.ModifierDef, level int) int64 {
	return int64(math.Floor(float64(def.CostBase) * math.Pow(domain.ModifierCostGrowth, float64(level))))
}

// MaxLevelFor returns the effective level cap of an asset in this garden
func MaxLevelFor(state *domain.GardenState, cfg domain.AssetConfig) int {
	return cfg.MaxLevel + modifier.MaxLevelBonus(state)
}

func baseYield(cfg domain.AssetConfig, level int) float64 {
	return cfg.BaseYield * float64(level)
}

func passiveCredit(cfg domain.AssetConfig, level int) int64 {
	credit := int64(math.Floor(baseYield(cfg, level)))
	if credit < 1 {
		credit = 1
	}
	return credit
}

func clampProgress(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > domain.MaxProgressPct:
		return domain.MaxProgressPct
	default:
		return pct
	}
}
