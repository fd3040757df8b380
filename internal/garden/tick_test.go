package garden

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

func TestScenario_PlantGrowHarvest(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(1000)

	p, err := engine.Plant(state, domain.AssetMoneyTree, 0, 0, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(800), state.Currency)

	for i := 1; i <= 9; i++ {
		engine.Tick(state, t0.Add(time.Duration(i)*time.Second), noRoll)
	}
	assert.False(t, p.ReadyToHarvest)
	assert.InDelta(t, 90.0, p.GrowthProgressPct, 1e-9)

	report := engine.Tick(state, t0.Add(10*time.Second), noRoll)
	assert.True(t, p.ReadyToHarvest)
	assert.Equal(t, 100.0, p.GrowthProgressPct)
	require.Len(t, report.BecameReady, 1)
	assert.Equal(t, p.ID, report.BecameReady[0].PlantID)

	res, err := engine.Harvest(state, 0, 0, domain.HarvestFull, t0.Add(10*time.Second), noRoll)
	require.NoError(t, err)
	assert.Equal(t, int64(30), res.Currency)
	assert.True(t, res.Removed)
	assert.Nil(t, state.PlantAt(0, 0))
	assert.Equal(t, int64(830), state.Currency)
}

func TestTick_ProgressClamped(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	carrot := place(state, domain.AssetCarrot, 0, 0, 1)
	hive := place(state, domain.AssetBeehive, 1, 0, 1)
	vine := place(state, domain.AssetGoldenVine, 2, 0, 1)

	checks := []time.Time{
		t0.Add(-time.Hour), // clock went backwards
		t0.Add(500 * time.Millisecond),
		t0.Add(72 * time.Hour),
		t0.Add(73 * time.Hour),
	}
	for _, now := range checks {
		engine.Tick(state, now, noRoll)
		for _, p := range []*domain.PlantInstance{carrot, hive, vine} {
			assert.GreaterOrEqual(t, p.GrowthProgressPct, 0.0)
			assert.LessOrEqual(t, p.GrowthProgressPct, 100.0)
		}
	}
	assert.True(t, carrot.ReadyToHarvest)
	assert.True(t, vine.ReadyToHarvest)
}

func TestTick_ReadyPlantDoesNotGrow(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	p := place(state, domain.AssetMoneyTree, 0, 0, 1)
	p.ReadyToHarvest = true
	p.GrowthProgressPct = 100
	p.GrowthElapsedMs = 10000

	engine.Tick(state, t0.Add(time.Minute), noRoll)
	assert.Equal(t, 10000.0, p.GrowthElapsedMs)
	assert.Equal(t, t0.Add(time.Minute), p.LastTickAt)
	assert.Equal(t, int64(0), state.Currency)
}

func TestTick_PassiveIncome(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	hive := place(state, domain.AssetBeehive, 0, 0, 2)

	report := engine.Tick(state, t0.Add(30*time.Second), noRoll)
	assert.Equal(t, int64(10), report.PassiveIncome)
	assert.Equal(t, int64(10), state.Currency)
	assert.Equal(t, 100.0, hive.GrowthProgressPct)
	assert.False(t, hive.ReadyToHarvest)

	engine.Tick(state, t0.Add(45*time.Second), noRoll)
	assert.InDelta(t, 50.0, hive.GrowthProgressPct, 1e-9)
	assert.Equal(t, int64(10), state.Currency)

	// Two full cycles in one step credit twice and keep the remainder.
	report = engine.Tick(state, t0.Add(110*time.Second), noRoll)
	assert.Equal(t, int64(20), report.PassiveIncome)
	assert.InDelta(t, 20000.0, hive.GrowthElapsedMs, 1e-6)
}

func TestTick_SprinklerSpeedsNeighbour(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	tree := place(state, domain.AssetMoneyTree, 2, 2, 1)
	sprinkler := place(state, domain.AssetSprinkler, 2, 1, 2)

	engine.Tick(state, t0.Add(7142*time.Millisecond), noRoll)
	assert.False(t, tree.ReadyToHarvest)
	assert.InDelta(t, 9998.8, tree.GrowthElapsedMs, 1e-6)

	engine.Tick(state, t0.Add(7143*time.Millisecond), noRoll)
	assert.True(t, tree.ReadyToHarvest)
	assert.False(t, sprinkler.ReadyToHarvest)
}

func TestTick_PermanentBonusReadyAtMaxLevel(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	sprinkler := place(state, domain.AssetSprinkler, 0, 0, 4)

	engine.Tick(state, t0.Add(time.Hour), noRoll)
	assert.False(t, sprinkler.ReadyToHarvest)
	assert.InDelta(t, 80.0, sprinkler.GrowthProgressPct, 1e-9)

	sprinkler.Level = 5
	engine.Tick(state, t0.Add(2*time.Hour), noRoll)
	assert.True(t, sprinkler.ReadyToHarvest)
	assert.Equal(t, 100.0, sprinkler.GrowthProgressPct)
}

func TestTick_MutationStacksInsteadOfDuplicating(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	carrot := place(state, domain.AssetCarrot, 0, 0, 1)

	// A zero draw always passes the chance check and always lands on the first table entry.
	always := fixedRand(0)
	report := engine.Tick(state, t0.Add(time.Second), always)
	require.Len(t, report.Mutations, 1)
	assert.False(t, report.Mutations[0].Stacked)
	require.Len(t, carrot.Mutations, 1)
	firstYield := carrot.Mutations[0].YieldMultiplier
	firstSpeed := carrot.Mutations[0].GrowthSpeedMultiplier

	prevYield, prevSpeed := firstYield, firstSpeed
	for i := 2; i <= 5; i++ {
		report = engine.Tick(state, t0.Add(time.Duration(i)*time.Second), always)
		require.Len(t, report.Mutations, 1)
		assert.True(t, report.Mutations[0].Stacked)
		require.Len(t, carrot.Mutations, 1)

		m := carrot.Mutations[0]
		assert.Greater(t, m.YieldMultiplier, prevYield)
		assert.Greater(t, m.GrowthSpeedMultiplier, prevSpeed)
		prevYield, prevSpeed = m.YieldMultiplier, m.GrowthSpeedMultiplier
	}
	assert.Equal(t, 5, carrot.Mutations[0].Stacks)
	assert.InDelta(t, firstYield*1.5*1.5*1.5*1.5, carrot.Mutations[0].YieldMultiplier, 1e-9)
}

func TestTick_NoMutationForReadyOrPassive(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	ready := place(state, domain.AssetCarrot, 0, 0, 1)
	ready.ReadyToHarvest = true
	hive := place(state, domain.AssetBeehive, 1, 0, 1)

	report := engine.Tick(state, t0.Add(time.Second), fixedRand(0))
	assert.Empty(t, report.Mutations)
	assert.Empty(t, ready.Mutations)
	assert.Empty(t, hive.Mutations)
}

func TestTick_EvolutionGate(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	tree := place(state, domain.AssetMoneyTree, 0, 0, 5)

	engine.Tick(state, t0.Add(time.Second), noRoll)
	assert.False(t, tree.CanEvolve, "needs one mutation")

	tree.Mutations = []domain.MutationInstance{{Type: "shiny", YieldMultiplier: 1.5, GrowthSpeedMultiplier: 1, Stacks: 1}}
	report := engine.Tick(state, t0.Add(2*time.Second), noRoll)
	assert.True(t, tree.CanEvolve)
	assert.Equal(t, 0.5, tree.EvolutionProgressPct)
	require.Len(t, report.Evolvable, 1)

	report = engine.Tick(state, t0.Add(3*time.Second), noRoll)
	assert.Empty(t, report.Evolvable, "only reported when the gate opens")
	assert.Equal(t, 1.0, tree.EvolutionProgressPct)

	tree.EvolutionProgressPct = 99.8
	engine.Tick(state, t0.Add(4*time.Second), noRoll)
	assert.Equal(t, 100.0, tree.EvolutionProgressPct)
}

func TestTick_UpdatesTimestampAndVersion(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	before := state.Version

	now := t0.Add(time.Second)
	engine.Tick(state, now, noRoll)
	assert.Equal(t, now, state.LastGrowthUpdateAt)
	assert.Greater(t, state.Version, before)
}

func TestTick_WeatherStretchesElapsedTime(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(0)
	tree := place(state, domain.AssetMoneyTree, 0, 0, 1)
	_, err := engine.StartWeather(state, "rain", t0)
	require.NoError(t, err)

	engine.Tick(state, t0.Add(6667*time.Millisecond), noRoll)
	assert.True(t, tree.ReadyToHarvest)
}
