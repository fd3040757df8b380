package garden

import (
	"math"
	"time"

	"github.com/osse101/IdleGarden_Go/internal/domain"
	"github.com/osse101/IdleGarden_Go/internal/modifier"
)

// MutationEvent describes a mutation rolled onto a plant during a tick
type MutationEvent struct {
	PlantID  string
	X, Y     int
	Mutation string
	Rarity   string
	Stacked  bool
}

// Position identifies a plant on the grid
type Position struct {
	PlantID string
	X, Y    int
}

// TickReport summarizes what one tick changed
type TickReport struct {
	PassiveIncome int64
	BecameReady   []Position
	Mutations     []MutationEvent
	Evolvable     []Position
}

// Changed reports whether the tick produced any gameplay-visible outcome
func (r TickReport) Changed() bool {
	return r.PassiveIncome > 0 || len(r.BecameReady) > 0 || len(r.Mutations) > 0 || len(r.Evolvable) > 0
}

// Tick advances every plant to now. Each plant grows by its own elapsed time
// since its last tick, stretched by the combined growth speed of every modifier source.
func (e *Engine) Tick(state *domain.GardenState, now time.Time, rng Rand) TickReport {
	var report TickReport
	rareBoost := modifier.RareBoost(state)

	state.EachPlant(func(p *domain.PlantInstance) {
		cfg, err := e.catalog.Config(p.Type)
		if err != nil {
			return
		}

		dt := float64(now.Sub(p.LastTickAt).Milliseconds())
		if dt < 0 || p.LastTickAt.IsZero() {
			dt = 0
		}
		p.LastTickAt = now

		wasReady := p.ReadyToHarvest
		bundle := e.resolver.ForPlot(state, p.X, p.Y, now)

		switch cfg.Behavior() {
		case domain.BehaviorPermanentBonus:
			if p.Level >= cfg.MaxLevel {
				p.ReadyToHarvest = true
				p.GrowthProgressPct = domain.MaxProgressPct
			} else {
				p.GrowthProgressPct = clampProgress(float64(p.Level) / float64(cfg.MaxLevel) * domain.MaxProgressPct)
			}
		case domain.BehaviorPassiveIncome:
			report.PassiveIncome += e.growPassive(p, cfg, dt*bundle.GrowthSpeed)
		default:
			if !p.ReadyToHarvest {
				e.grow(p, cfg, dt*bundle.GrowthSpeed)
			}
		}

		if p.ReadyToHarvest && !wasReady {
			report.BecameReady = append(report.BecameReady, Position{PlantID: p.ID, X: p.X, Y: p.Y})
		}

		if e.checkEvolution(p) {
			report.Evolvable = append(report.Evolvable, Position{PlantID: p.ID, X: p.X, Y: p.Y})
		}

		if growing(cfg, p) {
			if ev, ok := e.rollMutation(p, bundle.MutationChance, rareBoost, rng); ok {
				report.Mutations = append(report.Mutations, ev)
			}
		}
	})

	state.LastGrowthUpdateAt = now
	state.Currency += report.PassiveIncome
	state.Touch()
	return report
}

// grow advances a harvestable or direct-currency plant by effective elapsed ms
func (e *Engine) grow(p *domain.PlantInstance, cfg domain.AssetConfig, effectiveMs float64) {
	d := float64(cfg.GrowthDurationMs)
	if d <= 0 {
		p.ReadyToHarvest = true
		p.GrowthProgressPct = domain.MaxProgressPct
		return
	}
	p.GrowthElapsedMs += effectiveMs
	if p.GrowthElapsedMs >= d {
		p.GrowthElapsedMs = d
		p.ReadyToHarvest = true
		p.GrowthProgressPct = domain.MaxProgressPct
		return
	}
	p.GrowthProgressPct = clampProgress(p.GrowthElapsedMs / d * domain.MaxProgressPct)
}

// growPassive advances a passive plant and returns the currency its completed cycles earned
func (e *Engine) growPassive(p *domain.PlantInstance, cfg domain.AssetConfig, effectiveMs float64) int64 {
	d := float64(cfg.GrowthDurationMs)
	if d <= 0 {
		return 0
	}
	p.GrowthElapsedMs += effectiveMs
	if p.GrowthElapsedMs < d {
		p.GrowthProgressPct = clampProgress(p.GrowthElapsedMs / d * domain.MaxProgressPct)
		return 0
	}
	cycles := math.Floor(p.GrowthElapsedMs / d)
	p.GrowthElapsedMs -= cycles * d
	// Progress shows full on the crediting tick and restarts on the next one.
	p.GrowthProgressPct = domain.MaxProgressPct
	return passiveCredit(cfg, p.Level) * int64(cycles)
}

func growing(cfg domain.AssetConfig, p *domain.PlantInstance) bool {
	switch cfg.Behavior() {
	case domain.BehaviorPassiveIncome, domain.BehaviorPermanentBonus:
		return false
	}
	return !p.ReadyToHarvest
}

// checkEvolution sets CanEvolve from the evolution gate and advances the cosmetic progress bar
func (e *Engine) checkEvolution(p *domain.PlantInstance) bool {
	evo, ok := e.catalog.Evolution(p.Type)
	if !ok || p.Level < evo.RequiredLevel || len(p.Mutations) < evo.RequiredMutations {
		p.CanEvolve = false
		return false
	}
	became := !p.CanEvolve
	p.CanEvolve = true
	p.EvolutionProgressPct = math.Min(p.EvolutionProgressPct+domain.EvolutionProgressPerTick, domain.MaxProgressPct)
	return became
}

func (e *Engine) rollMutation(p *domain.PlantInstance, bonus, rareBoost float64, rng Rand) (MutationEvent, bool) {
	if rng.Float64() >= domain.BaseMutationChance+bonus {
		return MutationEvent{}, false
	}
	def, ok := e.catalog.RollMutation(rng, rareBoost)
	if !ok {
		return MutationEvent{}, false
	}
	ev := MutationEvent{PlantID: p.ID, X: p.X, Y: p.Y, Mutation: def.Type, Rarity: def.Rarity}
	if existing := p.Mutation(def.Type); existing != nil {
		existing.Stack()
		ev.Stacked = true
		return ev, true
	}
	p.Mutations = append(p.Mutations, def.Instance())
	return ev, true
}
