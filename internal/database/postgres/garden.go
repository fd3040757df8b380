package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/IdleGarden_Go/internal/database/snapshot"
	"github.com/osse101/IdleGarden_Go/internal/domain"
	"github.com/osse101/IdleGarden_Go/internal/logger"
)

const (
	selectGardenSQL = `SELECT document FROM gardens WHERE user_id = $1`

	// The WHERE clause keeps an older state version from replacing a newer one.
	upsertGardenSQL = `
INSERT INTO gardens (user_id, state_version, document, last_growth_update_at, updated_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (user_id) DO UPDATE
SET state_version = EXCLUDED.state_version,
    document = EXCLUDED.document,
    last_growth_update_at = EXCLUDED.last_growth_update_at,
    updated_at = NOW()
WHERE gardens.state_version <= EXCLUDED.state_version`
)

// cachedDocument wraps an encoded garden with version metadata for cache invalidation
type cachedDocument struct {
	Version  string
	Document []byte
	CachedAt time.Time
}

// GardenRepository stores each garden as one JSONB document
type GardenRepository struct {
	db    *pgxpool.Pool
	cache *expirable.LRU[string, *cachedDocument]
}

// NewGardenRepository creates a new garden repository with a read-through document cache
func NewGardenRepository(db *pgxpool.Pool, cacheSize int, cacheTTL time.Duration) *GardenRepository {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &GardenRepository{
		db:    db,
		cache: expirable.NewLRU[string, *cachedDocument](cacheSize, nil, cacheTTL),
	}
}

// LoadGarden retrieves the garden of a user
func (r *GardenRepository) LoadGarden(ctx context.Context, userID string) (*domain.GardenState, error) {
	if entry, ok := r.cache.Get(userID); ok {
		if entry.Version == CacheSchemaVersion {
			return snapshot.Unmarshal(entry.Document)
		}
		r.cache.Remove(userID)
	}

	var raw []byte
	err := r.db.QueryRow(ctx, selectGardenSQL, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrGardenNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load garden: %w", domain.ErrPersistenceFailure, err)
	}

	state, err := snapshot.Unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}
	r.remember(userID, raw)
	return state, nil
}

// SaveGarden upserts the garden document of a user
func (r *GardenRepository) SaveGarden(ctx context.Context, userID string, state *domain.GardenState) error {
	raw, err := snapshot.Marshal(state, time.Now())
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}

	tag, err := r.db.Exec(ctx, upsertGardenSQL, userID, state.Version, raw, state.LastGrowthUpdateAt)
	if err != nil {
		r.cache.Remove(userID)
		return fmt.Errorf("%w: failed to save garden: %w", domain.ErrPersistenceFailure, err)
	}
	if tag.RowsAffected() == 0 {
		// A newer version is already stored; drop whatever we had cached.
		r.cache.Remove(userID)
		logger.FromContext(ctx).Warn("Skipped stale garden save", "user_id", userID, "state_version", state.Version)
		return nil
	}
	r.remember(userID, raw)
	return nil
}

// Invalidate drops the cached document of a user
func (r *GardenRepository) Invalidate(userID string) {
	r.cache.Remove(userID)
}

func (r *GardenRepository) remember(userID string, raw []byte) {
	r.cache.Add(userID, &cachedDocument{
		Version:  CacheSchemaVersion,
		Document: raw,
		CachedAt: time.Now(),
	})
}
