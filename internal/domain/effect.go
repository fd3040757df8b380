package domain

import "time"

// Effect is the modifier bundle every resolver produces.
// Growth speed and yield multiply when combined; mutation chance adds.
type Effect struct {
	GrowthSpeed    float64 `json:"growth_speed" yaml:"growth_speed"`
	Yield          float64 `json:"yield" yaml:"yield"`
	MutationChance float64 `json:"mutation_chance" yaml:"mutation_chance"`
}

// NeutralEffect returns the identity bundle for Combine
func NeutralEffect() Effect {
	return Effect{GrowthSpeed: 1, Yield: 1}
}

// Combine folds other into e
func (e Effect) Combine(other Effect) Effect {
	return Effect{
		GrowthSpeed:    e.GrowthSpeed * other.GrowthSpeed,
		Yield:          e.Yield * other.Yield,
		MutationChance: e.MutationChance + other.MutationChance,
	}
}

// Normalized treats zero multipliers (omitted in config files) as 1.0
func (e Effect) Normalized() Effect {
	if e.GrowthSpeed == 0 {
		e.GrowthSpeed = 1
	}
	if e.Yield == 0 {
		e.Yield = 1
	}
	return e
}

// TimedEffect is a weather, seasonal event or server event currently applied to a garden
type TimedEffect struct {
	Key                string    `json:"key"`
	Kind               string    `json:"kind"`
	Active             bool      `json:"active"`
	StartedAt          time.Time `json:"started_at"`
	EndsAt             time.Time `json:"ends_at"`
	Effect             Effect    `json:"effect"`
	SpecialPlantChance float64   `json:"special_plant_chance,omitempty"`
	Priority           int       `json:"priority,omitempty"`
}

// IsActive reports whether the effect applies at now
func (t *TimedEffect) IsActive(now time.Time) bool {
	return t != nil && t.Active && now.Before(t.EndsAt)
}

// GardenModifier is a purchasable garden-wide upgrade
type GardenModifier struct {
	Key            string  `json:"key"`
	Level          int     `json:"level"`
	MaxLevel       int     `json:"max_level"`
	CostBase       int64   `json:"cost_base"`
	Effect         string  `json:"effect"`
	AmountPerLevel float64 `json:"amount_per_level"`
}
