package modifier

import (
	"time"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// Timed folds the active weather, the active seasonal event and the
// highest-priority unexpired server event.
func Timed(state *domain.GardenState, now time.Time) domain.Effect {
	e := domain.NeutralEffect()
	for _, t := range ActiveTimed(state, now) {
		e = e.Combine(t.Effect.Normalized())
	}
	return e
}

// ActiveTimed returns the timed effects that currently apply to the garden
func ActiveTimed(state *domain.GardenState, now time.Time) []*domain.TimedEffect {
	var active []*domain.TimedEffect
	if state.Weather.IsActive(now) {
		active = append(active, state.Weather)
	}
	if state.Seasonal.IsActive(now) {
		active = append(active, state.Seasonal)
	}
	if ev := TopServerEvent(state, now); ev != nil {
		active = append(active, ev)
	}
	return active
}

// TopServerEvent returns the unexpired server event with the highest priority.
// Ties go to the event that started first.
func TopServerEvent(state *domain.GardenState, now time.Time) *domain.TimedEffect {
	var top *domain.TimedEffect
	for i := range state.ServerEvents {
		ev := &state.ServerEvents[i]
		if !ev.IsActive(now) {
			continue
		}
		if top == nil || ev.Priority > top.Priority ||
			(ev.Priority == top.Priority && ev.StartedAt.Before(top.StartedAt)) {
			top = ev
		}
	}
	return top
}

// SpecialPlantChance returns the highest special-plant chance among active timed effects
func SpecialPlantChance(state *domain.GardenState, now time.Time) float64 {
	chance := 0.0
	for _, t := range ActiveTimed(state, now) {
		if t.SpecialPlantChance > chance {
			chance = t.SpecialPlantChance
		}
	}
	return chance
}
