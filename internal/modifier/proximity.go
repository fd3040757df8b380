package modifier

import (
	"github.com/osse101/IdleGarden_Go/internal/catalog"
	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// Proximity folds the area effects of every source plant within range of (x, y).
// Range is Manhattan distance; a plant never affects its own plot.
func Proximity(state *domain.GardenState, cat *catalog.Catalog, x, y int) domain.Effect {
	e := domain.NeutralEffect()
	state.EachPlant(func(src *domain.PlantInstance) {
		if src.X == x && src.Y == y {
			return
		}
		cfg, err := cat.Config(src.Type)
		if err != nil || cfg.Proximity == nil {
			return
		}
		if manhattan(src.X, src.Y, x, y) > cfg.Proximity.Radius {
			return
		}
		e = e.Combine(sourceEffect(cfg.Proximity, src.Level))
	})
	return e
}

func sourceEffect(src *domain.ProximitySource, level int) domain.Effect {
	if src.LevelScaled {
		return domain.Effect{GrowthSpeed: 1 + src.PerLevel*float64(level), Yield: 1}
	}
	return domain.Effect{GrowthSpeed: src.GrowthSpeed, Yield: src.Yield}.Normalized()
}

func manhattan(x1, y1, x2, y2 int) int {
	dx := x1 - x2
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y2
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
