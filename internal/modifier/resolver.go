// Package modifier resolves the effect bundle that applies to a plot.
// Every source is folded through domain.Effect.Combine so the order of
// application never changes the result.
package modifier

import (
	"time"

	"github.com/osse101/IdleGarden_Go/internal/catalog"
	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// Resolver composes all modifier sources for a plot
type Resolver struct {
	catalog *catalog.Catalog
}

// NewResolver creates a resolver bound to a catalog
func NewResolver(cat *catalog.Catalog) *Resolver {
	return &Resolver{catalog: cat}
}

// External returns everything that applies to (x, y) except the plant's own mutations
func (r *Resolver) External(state *domain.GardenState, x, y int, now time.Time) domain.Effect {
	return Proximity(state, r.catalog, x, y).
		Combine(Combination(state, r.catalog)).
		Combine(ModifierBundle(state)).
		Combine(Timed(state, now))
}

// ForPlot returns the full bundle for the plant on (x, y), including its mutations
func (r *Resolver) ForPlot(state *domain.GardenState, x, y int, now time.Time) domain.Effect {
	e := r.External(state, x, y, now)
	if p := state.PlantAt(x, y); p != nil {
		e = e.Combine(p.MutationEffect())
	}
	return e
}
