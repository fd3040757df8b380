package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

var savedAt = time.Date(2026, 2, 3, 4, 5, 6, 789_000_000, time.UTC)

func sampleGarden() *domain.GardenState {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	state := domain.NewGardenState("user-42", 1234, created)
	state.Resize(6, 6)
	state.SetPlant(5, 5, &domain.PlantInstance{
		ID:                "p1",
		Type:              domain.AssetMoneyTree,
		Level:             3,
		GrowthProgressPct: 42.5,
		GrowthElapsedMs:   4250,
		PlantedAt:         created.Add(time.Minute),
		LastTickAt:        created.Add(2 * time.Minute),
		Mutations: []domain.MutationInstance{
			{Type: "lucky", YieldMultiplier: 1.1, GrowthSpeedMultiplier: 1, LuckBonus: 0.3, Color: "#32cd32", Rarity: "uncommon", Stacks: 2},
		},
		EvolutionProgressPct: 12.5,
		CanEvolve:            true,
	})
	state.SetPlant(0, 1, &domain.PlantInstance{ID: "p2", Type: domain.AssetBeehive, Level: 1, ReadyToHarvest: true, LastTickAt: created})
	state.Inventory["gold"] = 17
	state.Modifiers["garden_size"] = &domain.GardenModifier{Key: "garden_size", Level: 1, MaxLevel: 5, CostBase: 25000, Effect: domain.EffectGridSize, AmountPerLevel: 1}
	state.Weather = &domain.TimedEffect{Key: "rain", Kind: domain.TimedKindWeather, Active: true, StartedAt: created, EndsAt: created.Add(8 * time.Minute), Effect: domain.Effect{GrowthSpeed: 1.5, Yield: 1}}
	state.ServerEvents = []domain.TimedEffect{
		{Key: "growth_rush", Kind: domain.TimedKindServer, Active: true, StartedAt: created, EndsAt: created.Add(time.Hour), Effect: domain.Effect{GrowthSpeed: 2, Yield: 1}, Priority: 5},
	}
	state.LastGrowthUpdateAt = created.Add(3 * time.Minute)
	state.Version = 9
	return state
}

func TestDocument_Lossless(t *testing.T) {
	state := sampleGarden()

	raw, err := Marshal(state, savedAt)
	require.NoError(t, err)

	got, err := Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestDocument_TimestampsAreMillisecondEpoch(t *testing.T) {
	state := sampleGarden()
	doc := FromState(state, savedAt)

	assert.Equal(t, savedAt.UnixMilli(), doc.Header.SavedAtMs)
	assert.Equal(t, state.LastGrowthUpdateAt.UnixMilli(), doc.LastGrowthUpdateAtMs)
	require.Len(t, doc.Plants, 2)
	assert.Equal(t, "beehive", doc.Plants[0].Type)
	assert.Equal(t, int64(0), doc.Plants[0].PlantedAtMs)
	assert.Equal(t, "money_tree", doc.Plants[1].Type)
	assert.Len(t, doc.Plants[1].Mutations, 1)
}

func TestDocument_RejectsUnknownVersion(t *testing.T) {
	doc := FromState(sampleGarden(), savedAt)
	doc.Header.Version = 99

	_, err := doc.ToState()
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDocument_RejectsUnknownAsset(t *testing.T) {
	doc := FromState(sampleGarden(), savedAt)
	doc.Plants[0].Type = "mystery_bush"

	_, err := doc.ToState()
	assert.ErrorIs(t, err, domain.ErrUnknownAsset)
}

func TestFileStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.LoadGarden(ctx, "user-42")
	assert.ErrorIs(t, err, domain.ErrGardenNotFound)

	state := sampleGarden()
	require.NoError(t, store.SaveGarden(ctx, "user-42", state))

	got, err := store.LoadGarden(ctx, "user-42")
	require.NoError(t, err)
	assert.Equal(t, state, got)

	state.Currency = 99
	require.NoError(t, store.SaveGarden(ctx, "user-42", state))
	got, err = store.LoadGarden(ctx, "user-42")
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.Currency)
}

func TestFileStore_SanitizesUserID(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.SaveGarden(context.Background(), "../escape", sampleGarden()))
	_, err = os.Stat(filepath.Join(dir, "___escape"+fileExt))
	assert.NoError(t, err)
}

func TestReadSnapshot_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad"+fileExt)
	require.NoError(t, os.WriteFile(path, []byte("not zstd"), 0o600))

	_, err := ReadSnapshot(path)
	assert.Error(t, err)
}
