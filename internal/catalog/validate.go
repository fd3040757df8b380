package catalog

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

var structValidator = validator.New()

// Validate checks struct tags and the semantic rules a catalog must satisfy
func Validate(f *File) error {
	if err := structValidator.Struct(f); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	assets := make(map[domain.AssetType]domain.AssetConfig, len(f.Assets))
	for _, a := range f.Assets {
		if _, dup := assets[a.Type]; dup {
			return fmt.Errorf("%w: asset %s", ErrDuplicateKey, a.Type)
		}
		if a.BehaviorConflict() {
			return fmt.Errorf("%w: %s", ErrBehaviorConflict, a.Type)
		}
		if a.PassiveIncome && a.GrowthDurationMs == 0 {
			return fmt.Errorf("%w: passive asset %s needs a growth duration", ErrInvalidConfig, a.Type)
		}
		if a.HarvestItem != "" && a.HarvestUnitValue <= 0 {
			return fmt.Errorf("%w: item asset %s needs a unit value", ErrInvalidConfig, a.Type)
		}
		assets[a.Type] = a
	}

	// The asset enum is closed: every variant must be configured.
	for _, t := range domain.AllAssetTypes() {
		if _, ok := assets[t]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingAsset, t)
		}
	}

	if f.SpecialAsset != domain.AssetUnknown {
		if _, ok := assets[f.SpecialAsset]; !ok {
			return fmt.Errorf("%w: special asset %s", ErrUnknownReference, f.SpecialAsset)
		}
	}

	seen := make(map[string]bool, len(f.Mutations))
	total := 0.0
	for _, m := range f.Mutations {
		if seen[m.Type] {
			return fmt.Errorf("%w: mutation %s", ErrDuplicateKey, m.Type)
		}
		seen[m.Type] = true
		total += m.Probability
	}
	if total >= 1 {
		return fmt.Errorf("%w: %.4f", ErrRarityOverflow, total)
	}

	for _, c := range f.Combos {
		for _, member := range c.Members {
			if _, ok := assets[member]; !ok {
				return fmt.Errorf("%w: combo %s member %s", ErrUnknownReference, c.Key, member)
			}
		}
	}

	from := make(map[domain.AssetType]bool, len(f.Evolutions))
	for _, e := range f.Evolutions {
		if from[e.From] {
			return fmt.Errorf("%w: evolution from %s", ErrDuplicateKey, e.From)
		}
		from[e.From] = true
		if _, ok := assets[e.To]; !ok {
			return fmt.Errorf("%w: evolution target %s", ErrUnknownReference, e.To)
		}
	}

	if err := uniqueKeys("modifier", len(f.Modifiers), func(i int) string { return f.Modifiers[i].Key }); err != nil {
		return err
	}
	if err := uniqueKeys("weather", len(f.Weathers), func(i int) string { return f.Weathers[i].Key }); err != nil {
		return err
	}
	if err := uniqueKeys("seasonal event", len(f.SeasonalEvents), func(i int) string { return f.SeasonalEvents[i].Key }); err != nil {
		return err
	}
	return uniqueKeys("server event", len(f.ServerEvents), func(i int) string { return f.ServerEvents[i].Key })
}

func uniqueKeys(kind string, n int, key func(int) string) error {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		k := key(i)
		if seen[k] {
			return fmt.Errorf("%w: %s %s", ErrDuplicateKey, kind, k)
		}
		seen[k] = true
	}
	return nil
}

// EvolutionCycles returns every cycle in the evolution graph, each as the ordered
// list of asset types starting from its smallest member.
func (c *Catalog) EvolutionCycles() [][]domain.AssetType {
	var cycles [][]domain.AssetType
	reported := make(map[domain.AssetType]bool)

	starts := make([]domain.AssetType, 0, len(c.evolutions))
	for from := range c.evolutions {
		starts = append(starts, from)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	for _, start := range starts {
		if reported[start] {
			continue
		}
		index := map[domain.AssetType]int{}
		var path []domain.AssetType
		cur := start
		for {
			if i, seen := index[cur]; seen {
				cycle := append([]domain.AssetType(nil), path[i:]...)
				if !reported[cycle[0]] {
					for _, t := range cycle {
						reported[t] = true
					}
					cycles = append(cycles, rotateToMin(cycle))
				}
				break
			}
			index[cur] = len(path)
			path = append(path, cur)
			next, ok := c.evolutions[cur]
			if !ok {
				break
			}
			cur = next.To
		}
	}
	return cycles
}

func rotateToMin(cycle []domain.AssetType) []domain.AssetType {
	minIdx := 0
	for i, t := range cycle {
		if t < cycle[minIdx] {
			minIdx = i
		}
	}
	return append(append([]domain.AssetType(nil), cycle[minIdx:]...), cycle[:minIdx]...)
}
