package garden

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

func evolvableTree(state *domain.GardenState) *domain.PlantInstance {
	tree := place(state, domain.AssetMoneyTree, 0, 0, 5)
	tree.Mutations = []domain.MutationInstance{
		{Type: "shiny", YieldMultiplier: 2.25, GrowthSpeedMultiplier: 1.2, Stacks: 2},
		{Type: "lucky", YieldMultiplier: 1.1, GrowthSpeedMultiplier: 1, LuckBonus: 0.25, Stacks: 1},
	}
	return tree
}

func TestEvolve_PreservesMutationsAndResetsLevel(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(10000)
	tree := evolvableTree(state)
	tree.GrowthProgressPct = 60
	tree.GrowthElapsedMs = 6000
	mutations := append([]domain.MutationInstance(nil), tree.Mutations...)

	engine.Tick(state, t0.Add(time.Second), noRoll)
	require.True(t, tree.CanEvolve)

	res, err := engine.Evolve(state, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.AssetMoneyTree, res.From)
	assert.Equal(t, domain.AssetGoldenMoneyTree, res.To)
	assert.Equal(t, int64(5000), res.Cost)
	assert.Equal(t, int64(5000), state.Currency)

	assert.Equal(t, domain.AssetGoldenMoneyTree, tree.Type)
	assert.Equal(t, 1, tree.Level)
	assert.Equal(t, mutations, tree.Mutations)
	assert.Equal(t, 0.0, tree.GrowthProgressPct)
	assert.False(t, tree.ReadyToHarvest)
	assert.False(t, tree.CanEvolve)
	assert.Equal(t, 0.0, tree.EvolutionProgressPct)
}

func TestEvolve_Errors(t *testing.T) {
	engine := newTestEngine()
	state := newTestState(100)
	tree := evolvableTree(state)
	place(state, domain.AssetCarrot, 1, 0, 10)

	_, err := engine.Evolve(state, 3, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	_, err = engine.Evolve(state, 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	_, err = engine.Evolve(state, 0, 0)
	assert.ErrorIs(t, err, domain.ErrNotReady)

	engine.Tick(state, t0.Add(time.Second), noRoll)
	_, err = engine.Evolve(state, 0, 0)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, domain.AssetMoneyTree, tree.Type)
	assert.Equal(t, int64(100), state.Currency)
}
