package domain

import (
	"fmt"
)

// AssetType identifies a plantable (or evolved) garden asset
type AssetType int

// Asset types. Append new types at the end; the numeric value is never persisted.
const (
	AssetUnknown AssetType = iota
	AssetSeedSprout
	AssetCarrot
	AssetMoneyTree
	AssetGoldenMoneyTree
	AssetGoldenVine
	AssetCrystalBloom
	AssetCrystalTree
	AssetGemCactus
	AssetBeehive
	AssetRoyalHive
	AssetSprinkler
	AssetFertilizerShroom
	AssetScarecrow

	assetTypeCount
)

var assetTypeNames = [...]string{
	AssetUnknown:          "unknown",
	AssetSeedSprout:       "seed_sprout",
	AssetCarrot:           "carrot",
	AssetMoneyTree:        "money_tree",
	AssetGoldenMoneyTree:  "golden_money_tree",
	AssetGoldenVine:       "golden_vine",
	AssetCrystalBloom:     "crystal_bloom",
	AssetCrystalTree:      "crystal_tree",
	AssetGemCactus:        "gem_cactus",
	AssetBeehive:          "beehive",
	AssetRoyalHive:        "royal_hive",
	AssetSprinkler:        "sprinkler",
	AssetFertilizerShroom: "fertilizer_shroom",
	AssetScarecrow:        "scarecrow",
}

// AllAssetTypes returns every known asset type (excluding AssetUnknown)
func AllAssetTypes() []AssetType {
	types := make([]AssetType, 0, assetTypeCount-1)
	for t := AssetUnknown + 1; t < assetTypeCount; t++ {
		types = append(types, t)
	}
	return types
}

// String returns the canonical name of the asset type
func (t AssetType) String() string {
	if t < 0 || t >= assetTypeCount {
		return assetTypeNames[AssetUnknown]
	}
	return assetTypeNames[t]
}

// ParseAssetType resolves a canonical name into an AssetType
func ParseAssetType(name string) (AssetType, error) {
	for t := AssetUnknown + 1; t < assetTypeCount; t++ {
		if assetTypeNames[t] == name {
			return t, nil
		}
	}
	return AssetUnknown, fmt.Errorf("%w: %q", ErrUnknownAsset, name)
}

// MarshalText implements encoding.TextMarshaler
func (t AssetType) MarshalText() ([]byte, error) {
	if t <= AssetUnknown || t >= assetTypeCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAsset, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *AssetType) UnmarshalText(text []byte) error {
	parsed, err := ParseAssetType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Behavior is the single growth/yield rule an asset type follows
type Behavior int

const (
	BehaviorDirectCurrency Behavior = iota
	BehaviorHarvestItem
	BehaviorPassiveIncome
	BehaviorPermanentBonus
)

func (b Behavior) String() string {
	switch b {
	case BehaviorDirectCurrency:
		return "direct_currency"
	case BehaviorHarvestItem:
		return "harvest_item"
	case BehaviorPassiveIncome:
		return "passive_income"
	case BehaviorPermanentBonus:
		return "permanent_bonus"
	default:
		return "unknown"
	}
}

// ProximitySource describes an area effect emitted by a planted asset
type ProximitySource struct {
	Radius      int     `yaml:"radius" validate:"min=1"`
	GrowthSpeed float64 `yaml:"growth_speed" validate:"gte=0"`
	Yield       float64 `yaml:"yield" validate:"gte=0"`
	// LevelScaled sources add PerLevel*level to a 1.0 base instead of using GrowthSpeed.
	LevelScaled bool    `yaml:"level_scaled"`
	PerLevel    float64 `yaml:"per_level" validate:"gte=0"`
}

// AssetConfig is the immutable static configuration of an asset type
type AssetConfig struct {
	Type             AssetType        `yaml:"type" validate:"required"`
	DisplayName      string           `yaml:"display_name" validate:"required"`
	BaseCost         int64            `yaml:"base_cost" validate:"gte=0"`
	BaseYield        float64          `yaml:"base_yield" validate:"gte=0"`
	HarvestItem      string           `yaml:"harvest_item,omitempty"`
	HarvestUnitValue int64            `yaml:"harvest_unit_value" validate:"gte=0"`
	GrowthDurationMs int64            `yaml:"growth_duration_ms" validate:"gte=0"`
	MaxLevel         int              `yaml:"max_level" validate:"min=1"`
	PassiveIncome    bool             `yaml:"passive_income"`
	PermanentBonus   bool             `yaml:"permanent_bonus"`
	EvolvedOnly      bool             `yaml:"evolved_only"`
	Proximity        *ProximitySource `yaml:"proximity,omitempty"`
}

// Behavior derives the growth/yield rule from the flag combination
func (c AssetConfig) Behavior() Behavior {
	switch {
	case c.PermanentBonus:
		return BehaviorPermanentBonus
	case c.PassiveIncome:
		return BehaviorPassiveIncome
	case c.HarvestItem != "":
		return BehaviorHarvestItem
	default:
		return BehaviorDirectCurrency
	}
}

// BehaviorConflict reports whether more than one behavior is selected by the flags
func (c AssetConfig) BehaviorConflict() bool {
	n := 0
	if c.PermanentBonus {
		n++
	}
	if c.PassiveIncome {
		n++
	}
	if c.HarvestItem != "" {
		n++
	}
	return n > 1
}
