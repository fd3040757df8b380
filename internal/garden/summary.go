package garden

import (
	"time"

	"github.com/osse101/IdleGarden_Go/internal/domain"
	"github.com/osse101/IdleGarden_Go/internal/modifier"
)

// Summary is a read-only overview of a garden
type Summary struct {
	UserID       string
	Width        int
	Height       int
	Currency     int64
	Inventory    map[string]int
	Plants       int
	Ready        int
	Evolvable    int
	ActiveCombos []string
	Timed        []domain.TimedEffect
	Modifiers    []ModifierOffer
}

// Summarize builds an overview of the state at now
func (e *Engine) Summarize(state *domain.GardenState, now time.Time) Summary {
	s := Summary{
		UserID:    state.UserID,
		Width:     state.Width,
		Height:    state.Height,
		Currency:  state.Currency,
		Inventory: make(map[string]int, len(state.Inventory)),
		Modifiers: e.ModifierOffers(state),
	}
	for k, v := range state.Inventory {
		s.Inventory[k] = v
	}
	state.EachPlant(func(p *domain.PlantInstance) {
		s.Plants++
		if p.ReadyToHarvest {
			s.Ready++
		}
		if p.CanEvolve {
			s.Evolvable++
		}
	})
	for _, c := range modifier.ActiveCombos(state, e.catalog) {
		s.ActiveCombos = append(s.ActiveCombos, c.Key)
	}
	for _, t := range modifier.ActiveTimed(state, now) {
		s.Timed = append(s.Timed, *t)
	}
	return s
}
