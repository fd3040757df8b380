package garden

import (
	"math"
	"time"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// CatchUpReport summarizes an offline catch-up pass
type CatchUpReport struct {
	Elapsed time.Duration
	// Applied is the elapsed time after clamping to the catch-up window.
	Applied         time.Duration
	Skipped         bool
	Currency        int64
	Items           map[string]int
	ItemsClamped    bool
	PlantsProcessed int
	BecameReady     int
}

// CatchUp credits the rewards a garden earned while no session was running.
// Gaps shorter than the minimum are treated as a refresh: nothing is credited but the
// stored timestamp still moves to now so the gap is never counted twice.
func (e *Engine) CatchUp(state *domain.GardenState, now time.Time) CatchUpReport {
	report := CatchUpReport{Items: map[string]int{}}
	report.Elapsed = now.Sub(state.LastGrowthUpdateAt)
	if report.Elapsed < 0 {
		report.Elapsed = 0
	}

	if report.Elapsed < e.limits.MinGap {
		report.Skipped = true
		state.LastGrowthUpdateAt = now
		state.Touch()
		return report
	}

	report.Applied = min(report.Elapsed, e.limits.MaxWindow)
	appliedMs := float64(report.Applied.Milliseconds())

	var currency int64
	items := map[string]int{}

	state.EachPlant(func(p *domain.PlantInstance) {
		cfg, err := e.catalog.Config(p.Type)
		if err != nil || cfg.GrowthDurationMs <= 0 {
			p.LastTickAt = now
			return
		}
		report.PlantsProcessed++
		d := float64(cfg.GrowthDurationMs)
		cycles := int64(math.Floor(appliedMs / d))

		switch cfg.Behavior() {
		case domain.BehaviorPassiveIncome:
			// Fixed base formula; never proportional to the current balance.
			currency += passiveCredit(cfg, p.Level) * cycles
			if cycles > 0 {
				p.GrowthProgressPct = domain.MaxProgressPct
				p.GrowthElapsedMs = math.Mod(appliedMs, d)
			} else {
				p.GrowthElapsedMs += appliedMs
				p.GrowthProgressPct = clampProgress(p.GrowthElapsedMs / d * domain.MaxProgressPct)
			}

		case domain.BehaviorDirectCurrency, domain.BehaviorHarvestItem:
			if p.ReadyToHarvest {
				break
			}
			if cycles == 0 {
				e.grow(p, cfg, appliedMs)
				if p.ReadyToHarvest {
					report.BecameReady++
				}
				break
			}
			// One cycle becomes the pending harvest; the rest are credited under the caps.
			p.ReadyToHarvest = true
			p.GrowthProgressPct = domain.MaxProgressPct
			p.GrowthElapsedMs = d
			report.BecameReady++
			extra := cycles - 1
			if extra == 0 {
				break
			}
			perCycle := int64(math.Floor(baseYield(cfg, p.Level)))
			if cfg.Behavior() == domain.BehaviorDirectCurrency {
				currency += min(perCycle, e.limits.MaxCurrencyPerCycle) * extra
				break
			}
			qty := min(perCycle, int64(e.limits.MaxItemsPerCycle)) * extra
			qty = min(qty, int64(e.limits.MaxItemsPerAsset))
			items[cfg.HarvestItem] += int(qty)
		}
		p.LastTickAt = now
	})

	state.Currency += currency
	report.Currency = currency
	for kind, qty := range items {
		stored := state.Inventory.Add(kind, qty)
		if stored < qty {
			report.ItemsClamped = true
		}
		if stored > 0 {
			report.Items[kind] = stored
		}
	}

	state.LastGrowthUpdateAt = now
	state.Touch()
	return report
}
