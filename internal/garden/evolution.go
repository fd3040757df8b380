package garden

import (
	"fmt"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// EvolveResult describes a completed evolution
type EvolveResult struct {
	PlantID string
	From    domain.AssetType
	To      domain.AssetType
	Cost    int64
}

// Evolve transforms the plant on (x, y) into its successor type. Mutations are kept;
// level, growth and evolution progress restart.
func (e *Engine) Evolve(state *domain.GardenState, x, y int) (EvolveResult, error) {
	p := state.PlantAt(x, y)
	if p == nil {
		return EvolveResult{}, fmt.Errorf("%w: no plant at (%d,%d)", domain.ErrInvalidTarget, x, y)
	}
	evo, ok := e.catalog.Evolution(p.Type)
	if !ok {
		return EvolveResult{}, fmt.Errorf("%w: %s has no evolution", domain.ErrInvalidTarget, p.Type)
	}
	if !p.CanEvolve {
		return EvolveResult{}, fmt.Errorf("%w: %s needs level %d and %d mutations", domain.ErrNotReady, p.Type, evo.RequiredLevel, evo.RequiredMutations)
	}
	if state.Currency < evo.Cost {
		return EvolveResult{}, fmt.Errorf("%w: evolution costs %d, balance %d", domain.ErrInsufficientFunds, evo.Cost, state.Currency)
	}

	state.Currency -= evo.Cost
	result := EvolveResult{PlantID: p.ID, From: p.Type, To: evo.To, Cost: evo.Cost}

	p.Type = evo.To
	p.Level = 1
	p.GrowthProgressPct = 0
	p.GrowthElapsedMs = 0
	p.ReadyToHarvest = false
	p.CanEvolve = false
	p.EvolutionProgressPct = 0

	state.Touch()
	return result, nil
}
