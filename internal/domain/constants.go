package domain

import "time"

// Grid defaults
const (
	DefaultGridWidth  = 5
	DefaultGridHeight = 5
	MaxGridDimension  = 12
)

// Growth and mutation constants
const (
	MaxProgressPct            = 100.0
	BaseMutationChance        = 0.001
	EvolutionProgressPerTick  = 0.5
	LuckyHarvestBonus         = 1.5
	MutationStackYieldFactor  = 1.5
	MutationStackSpeedFactor  = 1.2
	MutationStackLuckFactor   = 1.2
	MaxLuckBonus              = 1.0
	ModifierCostGrowth        = 1.5
	UpgradeCostGrowth         = 1.5
	SellRefundDivisor         = 2
	DefaultStartingCurrency   = 1000
	DefaultTickInterval       = time.Second
	DefaultWeatherRotateEvery = 15 * time.Minute
)

// Cap constants shared by the live harvest path and inventory
const (
	MaxInventoryPerKind = 10000
	MaxItemsPerHarvest  = 100
)

// Mutation rarity classes
const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Garden modifier effect types
const (
	EffectGridSize           = "grid_size"
	EffectMutationChance     = "mutation_chance"
	EffectYieldMultiplier    = "yield_multiplier"
	EffectGrowthSpeed        = "growth_speed"
	EffectPremiumBoost       = "premium_boost"
	EffectRareMutationChance = "rare_mutation_chance"
	EffectMaxLevelBoost      = "max_level_boost"
)

// Timed effect kinds
const (
	TimedKindWeather  = "weather"
	TimedKindSeasonal = "seasonal"
	TimedKindServer   = "server"
)

// Harvest modes
const (
	HarvestFull = "full"
	HarvestHalf = "half"
)
