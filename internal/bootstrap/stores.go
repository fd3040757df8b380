package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/osse101/IdleGarden_Go/internal/config"
	"github.com/osse101/IdleGarden_Go/internal/database"
	"github.com/osse101/IdleGarden_Go/internal/database/memory"
	"github.com/osse101/IdleGarden_Go/internal/database/postgres"
	"github.com/osse101/IdleGarden_Go/internal/database/snapshot"
	"github.com/osse101/IdleGarden_Go/internal/database/sqlite"
	"github.com/osse101/IdleGarden_Go/internal/repository"
)

// Pinger reports backend connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// Stores holds the persistence backends selected by STORE_DRIVER.
// Pinger is nil when the backend has no connection to check.
type Stores struct {
	Gardens repository.GardenRepository
	Ledger  repository.Ledger
	Pinger  Pinger

	closers []func() error
}

// Close releases every backend, returning the joined errors
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InitializeStores opens the garden repository and ledger for cfg.StoreDriver
func InitializeStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	var (
		stores *Stores
		err    error
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		stores = memoryStores()
	case config.StoreFile:
		stores, err = fileStores(cfg)
	case config.StoreSQLite:
		stores, err = sqliteStores(ctx, cfg)
	case config.StorePostgres:
		stores, err = postgresStores(ctx, cfg)
	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStoreDriver, cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}

	slog.Info(LogMsgStoreOpened, "driver", cfg.StoreDriver)
	return stores, nil
}

func memoryStores() *Stores {
	store := memory.NewStore()
	return &Stores{
		Gardens: store,
		Ledger:  store,
		closers: []func() error{store.Close},
	}
}

// fileStores keeps gardens as snapshot files; the ledger lives in memory
func fileStores(cfg *config.Config) (*Stores, error) {
	files, err := snapshot.NewFileStore(cfg.SnapshotDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateSnapshot, err)
	}
	ledger := memory.NewStore()
	return &Stores{
		Gardens: files,
		Ledger:  ledger,
		closers: []func() error{ledger.Close, files.Close},
	}, nil
}

func sqliteStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	store, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
	}
	return &Stores{
		Gardens: store,
		Ledger:  store,
		Pinger:  store,
		closers: []func() error{store.Close},
	}, nil
}

func postgresStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdle, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
	}
	if err := database.MigratePool(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}
	return &Stores{
		Gardens: postgres.NewGardenRepository(pool, cfg.CacheSize, cfg.CacheTTL),
		Ledger:  postgres.NewLedgerRepository(pool),
		Pinger:  pool,
		closers: []func() error{func() error {
			pool.Close()
			return nil
		}},
	}, nil
}
