package garden

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

func readyPlant(state *domain.GardenState, at domain.AssetType, x, y, level int) *domain.PlantInstance {
	p := place(state, at, x, y, level)
	p.ReadyToHarvest = true
	p.GrowthProgressPct = 100
	return p
}

func TestHarvest_FullIsAtLeastTwiceHalf(t *testing.T) {
	engine := newTestEngine()
	golden := domain.MutationInstance{Type: "golden", YieldMultiplier: 2, GrowthSpeedMultiplier: 1, Stacks: 1}

	for level := 1; level <= 5; level++ {
		full := newTestState(0)
		p := readyPlant(full, domain.AssetCarrot, 0, 0, level)
		p.Mutations = []domain.MutationInstance{golden}
		half := full.Clone()

		fullRes, err := engine.Harvest(full, 0, 0, domain.HarvestFull, t0, noRoll)
		require.NoError(t, err)
		halfRes, err := engine.Harvest(half, 0, 0, domain.HarvestHalf, t0, noRoll)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, fullRes.Currency, halfRes.Currency*2)
		assert.Equal(t, int64(8*level*2), fullRes.Currency)
		assert.Equal(t, int64(8*level), halfRes.Currency)
	}
}

func TestHarvest_HalfKeepsPlantAndRestartsGrowth(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	p := readyPlant(state, domain.AssetMoneyTree, 1, 1, 1)
	p.GrowthElapsedMs = 10000
	now := t0.Add(time.Minute)

	res, err := engine.Harvest(state, 1, 1, domain.HarvestHalf, now, noRoll)
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.Currency)
	assert.False(t, res.Removed)
	assert.Same(t, p, state.PlantAt(1, 1))
	assert.False(t, p.ReadyToHarvest)
	assert.Equal(t, 0.0, p.GrowthProgressPct)
	assert.Equal(t, 0.0, p.GrowthElapsedMs)
	assert.Equal(t, now, p.LastTickAt)
}

func TestHarvest_LuckyBonus(t *testing.T) {
	engine := newTestEngine()
	lucky := domain.MutationInstance{Type: "lucky", YieldMultiplier: 1.1, GrowthSpeedMultiplier: 1, LuckBonus: 0.25, Stacks: 1}

	state := newTestState(0)
	p := readyPlant(state, domain.AssetCarrot, 0, 0, 1)
	p.Mutations = []domain.MutationInstance{lucky}
	unlucky := state.Clone()

	res, err := engine.Harvest(state, 0, 0, domain.HarvestFull, t0, fixedRand(0.1))
	require.NoError(t, err)
	assert.True(t, res.Lucky)
	assert.Equal(t, int64(12), res.Currency) // floor(8*1.1)=8, then x1.5

	res, err = engine.Harvest(unlucky, 0, 0, domain.HarvestFull, t0, fixedRand(0.3))
	require.NoError(t, err)
	assert.False(t, res.Lucky)
	assert.Equal(t, int64(8), res.Currency)
}

func TestHarvest_ItemCaps(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	vine := readyPlant(state, domain.AssetGoldenVine, 0, 0, 10)
	vine.Mutations = []domain.MutationInstance{{Type: "celestial", YieldMultiplier: 5, GrowthSpeedMultiplier: 1.5, Stacks: 1}}

	res, err := engine.Harvest(state, 0, 0, domain.HarvestFull, t0, noRoll)
	require.NoError(t, err)
	assert.Equal(t, "gold", res.Item)
	assert.Equal(t, domain.MaxItemsPerHarvest, res.Quantity)
	assert.True(t, res.Clamped)
	assert.Equal(t, 100, state.Inventory["gold"])
	assert.Equal(t, int64(0), state.Currency)

	state.Inventory["gold"] = 9990
	readyPlant(state, domain.AssetGoldenVine, 0, 0, 10)
	res, err = engine.Harvest(state, 0, 0, domain.HarvestFull, t0, noRoll)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Quantity)
	assert.True(t, res.Clamped)
	assert.Equal(t, domain.MaxInventoryPerKind, state.Inventory["gold"])
}

func TestHarvest_HalfOfCappedItemYield(t *testing.T) {
	engine := newTestEngine()
	full := newTestState(0)
	vine := readyPlant(full, domain.AssetGoldenVine, 0, 0, 10)
	vine.Mutations = []domain.MutationInstance{{Type: "celestial", YieldMultiplier: 6, GrowthSpeedMultiplier: 1, Stacks: 1}}
	half := full.Clone()

	preview, err := engine.Preview(full, 0, 0, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(domain.MaxItemsPerHarvest), preview.Full)
	assert.Equal(t, int64(domain.MaxItemsPerHarvest/2), preview.Half)

	fullRes, err := engine.Harvest(full, 0, 0, domain.HarvestFull, t0, noRoll)
	require.NoError(t, err)
	halfRes, err := engine.Harvest(half, 0, 0, domain.HarvestHalf, t0, noRoll)
	require.NoError(t, err)

	assert.Equal(t, domain.MaxItemsPerHarvest, fullRes.Quantity)
	assert.Equal(t, domain.MaxItemsPerHarvest/2, halfRes.Quantity)
	assert.GreaterOrEqual(t, fullRes.Quantity, halfRes.Quantity*2)
	assert.True(t, halfRes.Clamped)
	assert.Equal(t, 50, half.Inventory["gold"])
}

func TestHarvest_PremiumBoostScalesItems(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	state.Modifiers["premium_boost"] = &domain.GardenModifier{Key: "premium_boost", Level: 5, Effect: domain.EffectPremiumBoost, AmountPerLevel: 0.1}
	readyPlant(state, domain.AssetGoldenVine, 0, 0, 2)

	res, err := engine.Harvest(state, 0, 0, domain.HarvestFull, t0, noRoll)
	require.NoError(t, err)
	assert.Equal(t, 9, res.Quantity) // floor(3*2*1.5)
}

func TestHarvest_Errors(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	place(state, domain.AssetMoneyTree, 0, 0, 1)
	readyPlant(state, domain.AssetSprinkler, 1, 0, 5)
	readyPlant(state, domain.AssetBeehive, 2, 0, 1)

	_, err := engine.Harvest(state, 4, 4, domain.HarvestFull, t0, noRoll)
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	_, err = engine.Harvest(state, 0, 0, domain.HarvestFull, t0, noRoll)
	assert.ErrorIs(t, err, domain.ErrNotReady)

	_, err = engine.Harvest(state, 1, 0, domain.HarvestFull, t0, noRoll)
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	_, err = engine.Harvest(state, 2, 0, domain.HarvestHalf, t0, noRoll)
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	_, err = engine.Harvest(state, 0, 0, "double", t0, noRoll)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHarvest_SpecialPlantSprouts(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	readyPlant(state, domain.AssetMoneyTree, 3, 3, 1)
	_, err := engine.StartWeather(state, "rainbow", t0)
	require.NoError(t, err)

	res, err := engine.Harvest(state, 3, 3, domain.HarvestFull, t0.Add(time.Second), fixedRand(0.01))
	require.NoError(t, err)
	assert.Equal(t, int64(45), res.Currency) // rainbow weather yield 1.5
	require.NotNil(t, res.Sprouted)
	assert.Equal(t, domain.AssetCrystalBloom, res.Sprouted.Type)
	assert.Same(t, res.Sprouted, state.PlantAt(3, 3))
	assert.Equal(t, 1, res.Sprouted.Level)
}

func TestPreview(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	readyPlant(state, domain.AssetMoneyTree, 0, 0, 3)

	preview, err := engine.Preview(state, 0, 0, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(90), preview.Full)
	assert.Equal(t, int64(45), preview.Half)
}
