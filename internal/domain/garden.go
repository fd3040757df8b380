package domain

import (
	"time"
)

// MutationInstance is a mutation applied to one plant. At most one per type per plant.
type MutationInstance struct {
	Type                  string  `json:"type"`
	YieldMultiplier       float64 `json:"yield_multiplier"`
	GrowthSpeedMultiplier float64 `json:"growth_speed_multiplier"`
	LuckBonus             float64 `json:"luck_bonus"`
	Color                 string  `json:"color"`
	Rarity                string  `json:"rarity"`
	Stacks                int     `json:"stacks"`
}

// Stack strengthens an existing mutation when the same type is rolled again
func (m *MutationInstance) Stack() {
	m.YieldMultiplier *= MutationStackYieldFactor
	m.GrowthSpeedMultiplier *= MutationStackSpeedFactor
	if m.LuckBonus > 0 {
		m.LuckBonus *= MutationStackLuckFactor
		if m.LuckBonus > MaxLuckBonus {
			m.LuckBonus = MaxLuckBonus
		}
	}
	m.Stacks++
}

// PlantInstance is one asset growing on a plot
type PlantInstance struct {
	ID                   string             `json:"id"`
	Type                 AssetType          `json:"type"`
	Level                int                `json:"level"`
	GrowthProgressPct    float64            `json:"growth_progress_pct"`
	GrowthElapsedMs      float64            `json:"growth_elapsed_ms"`
	ReadyToHarvest       bool               `json:"ready_to_harvest"`
	X                    int                `json:"x"`
	Y                    int                `json:"y"`
	PlantedAt            time.Time          `json:"planted_at"`
	LastTickAt           time.Time          `json:"last_tick_at"`
	Mutations            []MutationInstance `json:"mutations"`
	EvolutionProgressPct float64            `json:"evolution_progress_pct"`
	CanEvolve            bool               `json:"can_evolve"`
}

// Mutation returns the mutation of the given type, or nil
func (p *PlantInstance) Mutation(mutationType string) *MutationInstance {
	for i := range p.Mutations {
		if p.Mutations[i].Type == mutationType {
			return &p.Mutations[i]
		}
	}
	return nil
}

// MutationEffect folds the plant's own mutations into one bundle
func (p *PlantInstance) MutationEffect() Effect {
	e := NeutralEffect()
	for _, m := range p.Mutations {
		e.GrowthSpeed *= m.GrowthSpeedMultiplier
		e.Yield *= m.YieldMultiplier
	}
	return e
}

// MaxLuck returns the highest luck bonus among the plant's mutations
func (p *PlantInstance) MaxLuck() float64 {
	luck := 0.0
	for _, m := range p.Mutations {
		if m.LuckBonus > luck {
			luck = m.LuckBonus
		}
	}
	return luck
}

// ResetGrowth restarts the growth timer of the plant at now
func (p *PlantInstance) ResetGrowth(now time.Time) {
	p.GrowthProgressPct = 0
	p.GrowthElapsedMs = 0
	p.ReadyToHarvest = false
	p.LastTickAt = now
}

// Clone returns a deep copy of the plant
func (p *PlantInstance) Clone() *PlantInstance {
	if p == nil {
		return nil
	}
	c := *p
	c.Mutations = append([]MutationInstance(nil), p.Mutations...)
	return &c
}

// Inventory maps harvested item kind to count
type Inventory map[string]int

// Add adds qty of kind, clamping at MaxInventoryPerKind. It returns the amount actually stored.
func (inv Inventory) Add(kind string, qty int) int {
	if qty <= 0 {
		return 0
	}
	current := inv[kind]
	room := MaxInventoryPerKind - current
	if room <= 0 {
		return 0
	}
	if qty > room {
		qty = room
	}
	inv[kind] = current + qty
	return qty
}

// GardenState is the complete simulation state of one user's garden
type GardenState struct {
	UserID             string                     `json:"user_id"`
	Width              int                        `json:"width"`
	Height             int                        `json:"height"`
	Plots              [][]*PlantInstance         `json:"plots"`
	Inventory          Inventory                  `json:"inventory"`
	Currency           int64                      `json:"currency"`
	Modifiers          map[string]*GardenModifier `json:"modifiers"`
	Weather            *TimedEffect               `json:"weather,omitempty"`
	Seasonal           *TimedEffect               `json:"seasonal,omitempty"`
	ServerEvents       []TimedEffect              `json:"server_events,omitempty"`
	LastGrowthUpdateAt time.Time                  `json:"last_growth_update_at"`
	CreatedAt          time.Time                  `json:"created_at"`
	// Version increases on every mutation of the state; the save guard compares it.
	Version int64 `json:"version"`
}

// NewGardenState creates an empty garden with the default grid and starting balance
func NewGardenState(userID string, startingCurrency int64, now time.Time) *GardenState {
	g := &GardenState{
		UserID:             userID,
		Inventory:          Inventory{},
		Currency:           startingCurrency,
		Modifiers:          map[string]*GardenModifier{},
		LastGrowthUpdateAt: now,
		CreatedAt:          now,
	}
	g.Resize(DefaultGridWidth, DefaultGridHeight)
	return g
}

// InBounds reports whether (x, y) is a plot of the grid
func (g *GardenState) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// PlantAt returns the plant on (x, y) or nil when empty or out of bounds
func (g *GardenState) PlantAt(x, y int) *PlantInstance {
	if !g.InBounds(x, y) {
		return nil
	}
	return g.Plots[y][x]
}

// SetPlant places p at (x, y); a nil p clears the plot
func (g *GardenState) SetPlant(x, y int, p *PlantInstance) {
	if p != nil {
		p.X, p.Y = x, y
	}
	g.Plots[y][x] = p
}

// Resize changes the grid dimensions, keeping every plant that fits the new bounds.
// It returns the plants that no longer fit.
func (g *GardenState) Resize(width, height int) []*PlantInstance {
	var dropped []*PlantInstance
	plots := make([][]*PlantInstance, height)
	for y := range plots {
		plots[y] = make([]*PlantInstance, width)
	}
	for y, row := range g.Plots {
		for x, p := range row {
			if p == nil {
				continue
			}
			if x < width && y < height {
				plots[y][x] = p
			} else {
				dropped = append(dropped, p)
			}
		}
	}
	g.Plots = plots
	g.Width = width
	g.Height = height
	return dropped
}

// EachPlant calls fn for every planted plot in row-major order
func (g *GardenState) EachPlant(fn func(p *PlantInstance)) {
	for _, row := range g.Plots {
		for _, p := range row {
			if p != nil {
				fn(p)
			}
		}
	}
}

// PlantCount returns the number of occupied plots
func (g *GardenState) PlantCount() int {
	n := 0
	g.EachPlant(func(*PlantInstance) { n++ })
	return n
}

// HasAssetType reports whether any plot holds an asset of type t
func (g *GardenState) HasAssetType(t AssetType) bool {
	for _, row := range g.Plots {
		for _, p := range row {
			if p != nil && p.Type == t {
				return true
			}
		}
	}
	return false
}

// ModifierLevel returns the purchased level of a garden modifier
func (g *GardenState) ModifierLevel(key string) int {
	if m, ok := g.Modifiers[key]; ok && m != nil {
		return m.Level
	}
	return 0
}

// Touch marks the state as changed
func (g *GardenState) Touch() {
	g.Version++
}

// Clone returns a deep copy of the state, safe to hand to another goroutine
func (g *GardenState) Clone() *GardenState {
	c := *g
	c.Plots = make([][]*PlantInstance, len(g.Plots))
	for y, row := range g.Plots {
		c.Plots[y] = make([]*PlantInstance, len(row))
		for x, p := range row {
			c.Plots[y][x] = p.Clone()
		}
	}
	c.Inventory = make(Inventory, len(g.Inventory))
	for k, v := range g.Inventory {
		c.Inventory[k] = v
	}
	c.Modifiers = make(map[string]*GardenModifier, len(g.Modifiers))
	for k, m := range g.Modifiers {
		if m == nil {
			continue
		}
		mc := *m
		c.Modifiers[k] = &mc
	}
	if g.Weather != nil {
		w := *g.Weather
		c.Weather = &w
	}
	if g.Seasonal != nil {
		s := *g.Seasonal
		c.Seasonal = &s
	}
	c.ServerEvents = append([]TimedEffect(nil), g.ServerEvents...)
	return &c
}
