package modifier

import (
	"github.com/osse101/IdleGarden_Go/internal/catalog"
	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// Combination folds every synergy whose member types are all planted somewhere in the garden
func Combination(state *domain.GardenState, cat *catalog.Catalog) domain.Effect {
	e := domain.NeutralEffect()
	for _, combo := range ActiveCombos(state, cat) {
		e = e.Combine(combo.Effect)
	}
	return e
}

// ActiveCombos returns the synergies currently unlocked
func ActiveCombos(state *domain.GardenState, cat *catalog.Catalog) []catalog.ComboDef {
	present := make(map[domain.AssetType]bool)
	state.EachPlant(func(p *domain.PlantInstance) {
		present[p.Type] = true
	})

	var active []catalog.ComboDef
	for _, combo := range cat.Combos() {
		complete := true
		for _, member := range combo.Members {
			if !present[member] {
				complete = false
				break
			}
		}
		if complete {
			active = append(active, combo)
		}
	}
	return active
}
