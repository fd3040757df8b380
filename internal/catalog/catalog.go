// Package catalog holds the static balance tables of the garden: asset configs,
// mutations, combinations, evolutions, garden modifiers and timed effects.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/osse101/IdleGarden_Go/internal/domain"
	"github.com/osse101/IdleGarden_Go/internal/validation"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Sentinel errors for catalog loading
var (
	ErrInvalidConfig    = errors.New("invalid catalog configuration")
	ErrMissingAsset     = errors.New("asset type has no configuration")
	ErrDuplicateKey     = errors.New("duplicate catalog key")
	ErrBehaviorConflict = errors.New("asset selects more than one behavior")
	ErrUnknownReference = errors.New("unknown asset reference")
	ErrRarityOverflow   = errors.New("mutation probabilities sum to 1 or more")
)

// Source is the random source used for rolls. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// MutationDef is a static mutation definition
type MutationDef struct {
	Type                  string  `yaml:"type" validate:"required"`
	YieldMultiplier       float64 `yaml:"yield_multiplier" validate:"gte=1"`
	GrowthSpeedMultiplier float64 `yaml:"growth_speed_multiplier" validate:"gte=1"`
	LuckBonus             float64 `yaml:"luck_bonus" validate:"gte=0,lte=1"`
	Color                 string  `yaml:"color" validate:"required"`
	Rarity                string  `yaml:"rarity" validate:"required,oneof=common uncommon rare epic legendary"`
	Probability           float64 `yaml:"probability" validate:"gt=0,lt=1"`
}

// Instance creates a fresh mutation instance from the definition
func (d MutationDef) Instance() domain.MutationInstance {
	return domain.MutationInstance{
		Type:                  d.Type,
		YieldMultiplier:       d.YieldMultiplier,
		GrowthSpeedMultiplier: d.GrowthSpeedMultiplier,
		LuckBonus:             d.LuckBonus,
		Color:                 d.Color,
		Rarity:                d.Rarity,
		Stacks:                1,
	}
}

// ComboDef is a synergy bonus unlocked when every member type is planted somewhere
type ComboDef struct {
	Key     string             `yaml:"key" validate:"required"`
	Members []domain.AssetType `yaml:"members" validate:"min=2"`
	Effect  domain.Effect      `yaml:"effect"`
}

// EvolutionDef is one edge of the evolution graph
type EvolutionDef struct {
	From              domain.AssetType `yaml:"from" validate:"required"`
	To                domain.AssetType `yaml:"to" validate:"required"`
	RequiredLevel     int              `yaml:"required_level" validate:"min=1"`
	RequiredMutations int              `yaml:"required_mutations" validate:"gte=0"`
	Cost              int64            `yaml:"cost" validate:"gte=0"`
}

// ModifierDef is a purchasable garden modifier
type ModifierDef struct {
	Key            string  `yaml:"key" validate:"required"`
	Effect         string  `yaml:"effect" validate:"required,oneof=grid_size mutation_chance yield_multiplier growth_speed premium_boost rare_mutation_chance max_level_boost"`
	CostBase       int64   `yaml:"cost_base" validate:"gt=0"`
	MaxLevel       int     `yaml:"max_level" validate:"min=1"`
	AmountPerLevel float64 `yaml:"amount_per_level" validate:"gt=0"`
}

// TimedEffectDef is a weather, seasonal event or server event definition
type TimedEffectDef struct {
	Key                string        `yaml:"key" validate:"required"`
	Weight             float64       `yaml:"weight" validate:"gte=0"`
	Priority           int           `yaml:"priority"`
	Duration           time.Duration `yaml:"duration" validate:"gt=0"`
	Effect             domain.Effect `yaml:"effect"`
	SpecialPlantChance float64       `yaml:"special_plant_chance" validate:"gte=0,lte=1"`
}

// Start creates an active timed effect of the given kind beginning at now
func (d TimedEffectDef) Start(kind string, now time.Time) domain.TimedEffect {
	return domain.TimedEffect{
		Key:                d.Key,
		Kind:               kind,
		Active:             true,
		StartedAt:          now,
		EndsAt:             now.Add(d.Duration),
		Effect:             d.Effect.Normalized(),
		SpecialPlantChance: d.SpecialPlantChance,
		Priority:           d.Priority,
	}
}

// File is the on-disk layout of a catalog
type File struct {
	Version        string               `yaml:"version" validate:"required"`
	Description    string               `yaml:"description"`
	SpecialAsset   domain.AssetType     `yaml:"special_asset"`
	Assets         []domain.AssetConfig `yaml:"assets" validate:"required,dive"`
	Mutations      []MutationDef        `yaml:"mutations" validate:"required,dive"`
	Combos         []ComboDef           `yaml:"combos" validate:"dive"`
	Evolutions     []EvolutionDef       `yaml:"evolutions" validate:"dive"`
	Modifiers      []ModifierDef        `yaml:"modifiers" validate:"dive"`
	Weathers       []TimedEffectDef     `yaml:"weathers" validate:"dive"`
	SeasonalEvents []TimedEffectDef     `yaml:"seasonal_events" validate:"dive"`
	ServerEvents   []TimedEffectDef     `yaml:"server_events" validate:"dive"`
}

// Catalog is the validated, indexed, read-only form of a File
type Catalog struct {
	version      string
	assets       map[domain.AssetType]domain.AssetConfig
	mutations    []MutationDef
	combos       []ComboDef
	evolutions   map[domain.AssetType]EvolutionDef
	modifiers    map[string]ModifierDef
	modifierKeys []string
	weathers     []TimedEffectDef
	seasonal     map[string]TimedEffectDef
	server       map[string]TimedEffectDef
	special      domain.AssetType
}

// Default returns the catalog compiled into the binary
func Default() (*Catalog, error) {
	return Parse(defaultsYAML)
}

// MustDefault returns the embedded catalog and panics if it is invalid.
// Only used by tests and package-level wiring where the embedded file is known good.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog from path, falling back to the embedded defaults when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a catalog document and validates it against the catalog schema,
// then checks the cross references the schema cannot express.
func Parse(raw []byte) (*Catalog, error) {
	if err := validation.Default().ValidateBytes(raw, validation.CatalogSchema); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := Validate(&f); err != nil {
		return nil, err
	}
	return build(&f), nil
}

func build(f *File) *Catalog {
	c := &Catalog{
		version:    f.Version,
		assets:     make(map[domain.AssetType]domain.AssetConfig, len(f.Assets)),
		mutations:  f.Mutations,
		combos:     f.Combos,
		evolutions: make(map[domain.AssetType]EvolutionDef, len(f.Evolutions)),
		modifiers:  make(map[string]ModifierDef, len(f.Modifiers)),
		weathers:   f.Weathers,
		seasonal:   make(map[string]TimedEffectDef, len(f.SeasonalEvents)),
		server:     make(map[string]TimedEffectDef, len(f.ServerEvents)),
		special:    f.SpecialAsset,
	}
	for _, a := range f.Assets {
		c.assets[a.Type] = a
	}
	for i := range c.combos {
		c.combos[i].Effect = c.combos[i].Effect.Normalized()
	}
	for _, e := range f.Evolutions {
		c.evolutions[e.From] = e
	}
	for _, m := range f.Modifiers {
		c.modifiers[m.Key] = m
		c.modifierKeys = append(c.modifierKeys, m.Key)
	}
	for _, s := range f.SeasonalEvents {
		c.seasonal[s.Key] = s
	}
	for _, s := range f.ServerEvents {
		c.server[s.Key] = s
	}
	return c
}

// Version returns the catalog document version
func (c *Catalog) Version() string {
	return c.version
}

// Config returns the static configuration of an asset type
func (c *Catalog) Config(t domain.AssetType) (domain.AssetConfig, error) {
	cfg, ok := c.assets[t]
	if !ok {
		return domain.AssetConfig{}, fmt.Errorf("%w: %s", domain.ErrUnknownAsset, t)
	}
	return cfg, nil
}

// Assets returns every configured asset in enum order
func (c *Catalog) Assets() []domain.AssetConfig {
	out := make([]domain.AssetConfig, 0, len(c.assets))
	for _, t := range domain.AllAssetTypes() {
		if cfg, ok := c.assets[t]; ok {
			out = append(out, cfg)
		}
	}
	return out
}

// Mutations returns the mutation table in roll order
func (c *Catalog) Mutations() []MutationDef {
	return c.mutations
}

// Combos returns the synergy definitions
func (c *Catalog) Combos() []ComboDef {
	return c.combos
}

// Evolution returns the evolution edge leaving t, if any
func (c *Catalog) Evolution(t domain.AssetType) (EvolutionDef, bool) {
	e, ok := c.evolutions[t]
	return e, ok
}

// Modifier returns a garden modifier definition by key
func (c *Catalog) Modifier(key string) (ModifierDef, error) {
	m, ok := c.modifiers[key]
	if !ok {
		return ModifierDef{}, fmt.Errorf("%w: %s", domain.ErrUnknownModifier, key)
	}
	return m, nil
}

// ModifierKeys returns modifier keys in catalog order
func (c *Catalog) ModifierKeys() []string {
	return c.modifierKeys
}

// Weathers returns the weather rotation table
func (c *Catalog) Weathers() []TimedEffectDef {
	return c.weathers
}

// Weather returns a weather definition by key
func (c *Catalog) Weather(key string) (TimedEffectDef, error) {
	for _, w := range c.weathers {
		if w.Key == key {
			return w, nil
		}
	}
	return TimedEffectDef{}, fmt.Errorf("%w: weather %s", domain.ErrUnknownEffect, key)
}

// Seasonal returns a seasonal event definition by key
func (c *Catalog) Seasonal(key string) (TimedEffectDef, error) {
	s, ok := c.seasonal[key]
	if !ok {
		return TimedEffectDef{}, fmt.Errorf("%w: seasonal event %s", domain.ErrUnknownEffect, key)
	}
	return s, nil
}

// ServerEvent returns a server event definition by key
func (c *Catalog) ServerEvent(key string) (TimedEffectDef, error) {
	s, ok := c.server[key]
	if !ok {
		return TimedEffectDef{}, fmt.Errorf("%w: server event %s", domain.ErrUnknownEffect, key)
	}
	return s, nil
}

// SpecialAsset returns the asset sprouted by special-plant timed effects
func (c *Catalog) SpecialAsset() domain.AssetType {
	return c.special
}

// RollMutation draws one uniform value and walks the table in fixed order,
// returning the first mutation whose cumulative probability exceeds the draw.
// rareBoost scales the probability of rare, epic and legendary entries.
func (c *Catalog) RollMutation(rng Source, rareBoost float64) (MutationDef, bool) {
	draw := rng.Float64()
	cumulative := 0.0
	for _, m := range c.mutations {
		p := m.Probability
		if rareBoost > 0 && isRareClass(m.Rarity) {
			p *= 1 + rareBoost
		}
		cumulative += p
		if draw < cumulative {
			return m, true
		}
	}
	return MutationDef{}, false
}

func isRareClass(rarity string) bool {
	switch rarity {
	case domain.RarityRare, domain.RarityEpic, domain.RarityLegendary:
		return true
	}
	return false
}

// PickWeather draws a weather from the rotation table weighted by Weight
func (c *Catalog) PickWeather(rng Source) (TimedEffectDef, bool) {
	total := 0.0
	for _, w := range c.weathers {
		total += w.Weight
	}
	if total <= 0 {
		return TimedEffectDef{}, false
	}
	draw := rng.Float64() * total
	for _, w := range c.weathers {
		draw -= w.Weight
		if draw < 0 {
			return w, true
		}
	}
	return c.weathers[len(c.weathers)-1], true
}
