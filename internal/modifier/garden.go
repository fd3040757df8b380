package modifier

import (
	"math"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// GardenModifiers returns Σ amount × level over purchased modifiers of the given effect type
func GardenModifiers(state *domain.GardenState, effect string) float64 {
	total := 0.0
	for _, m := range state.Modifiers {
		if m == nil || m.Effect != effect {
			continue
		}
		total += m.AmountPerLevel * float64(m.Level)
	}
	return total
}

// ModifierBundle turns purchased growth and yield sums into 1+Σ multipliers
// and the mutation sum into an additive chance.
func ModifierBundle(state *domain.GardenState) domain.Effect {
	return domain.Effect{
		GrowthSpeed:    1 + GardenModifiers(state, domain.EffectGrowthSpeed),
		Yield:          1 + GardenModifiers(state, domain.EffectYieldMultiplier),
		MutationChance: GardenModifiers(state, domain.EffectMutationChance),
	}
}

// PremiumMultiplier scales harvested item quantities
func PremiumMultiplier(state *domain.GardenState) float64 {
	return 1 + GardenModifiers(state, domain.EffectPremiumBoost)
}

// RareBoost scales the roll bands of rare, epic and legendary mutations
func RareBoost(state *domain.GardenState) float64 {
	return GardenModifiers(state, domain.EffectRareMutationChance)
}

// MaxLevelBonus is the number of levels added on top of every asset's MaxLevel
func MaxLevelBonus(state *domain.GardenState) int {
	return int(math.Floor(GardenModifiers(state, domain.EffectMaxLevelBoost)))
}

// GridBonus is the number of rows and columns added to the base grid
func GridBonus(state *domain.GardenState) int {
	return int(math.Floor(GardenModifiers(state, domain.EffectGridSize)))
}
