package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleGarden_Go/internal/database/snapshot"
	"github.com/osse101/IdleGarden_Go/internal/database/sqlite"
	"github.com/osse101/IdleGarden_Go/internal/domain"
)

func TestRun_Usage(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	assert.ErrorIs(t, run(ctx, nil, &out), errUsage)
	assert.ErrorIs(t, run(ctx, []string{"inspect"}, &out), errUsage)
	assert.ErrorIs(t, run(ctx, []string{"frobnicate"}, &out), errUsage)
	assert.ErrorIs(t, run(ctx, []string{"export", "-user", "alice"}, &out), errUsage)
}

func TestRun_ExportThenInspect(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "garden.db")

	store, err := sqlite.Open(ctx, dbPath)
	require.NoError(t, err)
	state := domain.NewGardenState("alice", 777, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	state.SetPlant(1, 1, &domain.PlantInstance{ID: "p1", Type: domain.AssetCarrot, Level: 2})
	state.Version = 4
	require.NoError(t, store.SaveGarden(ctx, "alice", state))
	require.NoError(t, store.Close())

	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", dbPath)

	snapPath := filepath.Join(dir, "alice.snap")
	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"export", "-user", "alice", "-out", snapPath}, &out))
	assert.Contains(t, out.String(), "exported alice (state version 4, 1 plants)")

	out.Reset()
	require.NoError(t, run(ctx, []string{"inspect", snapPath}, &out))
	var doc snapshot.GardenDocumentV1
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "alice", doc.Header.UserID)
	assert.Equal(t, int64(777), doc.Currency)
	require.Len(t, doc.Plants, 1)
	assert.Equal(t, "carrot", doc.Plants[0].Type)

	err = run(ctx, []string{"export", "-user", "bob", "-out", filepath.Join(dir, "bob.snap")}, &out)
	assert.ErrorIs(t, err, domain.ErrGardenNotFound)
}

func TestRun_InspectCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.snap")
	require.NoError(t, os.WriteFile(path, []byte("not zstd"), 0o600))

	err := run(context.Background(), []string{"inspect", path}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read "+path)
}
