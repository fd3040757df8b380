// Package sqlite is a single-file garden and ledger store for local runs.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/osse101/IdleGarden_Go/internal/database"
	"github.com/osse101/IdleGarden_Go/internal/database/snapshot"
	"github.com/osse101/IdleGarden_Go/internal/domain"
	"github.com/osse101/IdleGarden_Go/migrations"
)

// Store implements the garden repository and ledger on SQLite
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies migrations
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty db path", domain.ErrInvalidInput)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := database.Migrate(ctx, db, database.DialectSQLite, migrations.SQLiteDir); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("sqlite %s: %w", p, err)
		}
	}
	return nil
}

// Ping checks the database handle
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadGarden retrieves the garden of a user
func (s *Store) LoadGarden(ctx context.Context, userID string) (*domain.GardenState, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM gardens WHERE user_id = ?`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrGardenNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load garden: %w", domain.ErrPersistenceFailure, err)
	}
	state, err := snapshot.Unmarshal([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}
	return state, nil
}

// SaveGarden upserts the garden document; an older state version never replaces a newer one
func (s *Store) SaveGarden(ctx context.Context, userID string, state *domain.GardenState) error {
	now := time.Now()
	raw, err := snapshot.Marshal(state, now)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO gardens (user_id, state_version, document, last_growth_update_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE
SET state_version = excluded.state_version,
    document = excluded.document,
    last_growth_update_at_ms = excluded.last_growth_update_at_ms,
    updated_at_ms = excluded.updated_at_ms
WHERE gardens.state_version <= excluded.state_version`,
		userID, state.Version, string(raw), state.LastGrowthUpdateAt.UnixMilli(), now.UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: failed to save garden: %w", domain.ErrPersistenceFailure, err)
	}
	return nil
}

// Credit adds amount to the user's external balance
func (s *Store) Credit(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: credit amount must be positive", domain.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO ledger_balances (user_id, balance) VALUES (?, ?)
ON CONFLICT (user_id) DO UPDATE SET balance = ledger_balances.balance + excluded.balance`,
		userID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit ledger: %w", err)
	}
	return nil
}

// Debit removes amount from the user's external balance
func (s *Store) Debit(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: debit amount must be positive", domain.ErrInvalidInput)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE ledger_balances SET balance = balance - ? WHERE user_id = ? AND balance >= ?`,
		amount, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to debit ledger: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to debit ledger: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: ledger debit %d", domain.ErrInsufficientFunds, amount)
	}
	return nil
}

// Balance returns the user's external balance; unknown users have zero
func (s *Store) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM ledger_balances WHERE user_id = ?`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read ledger balance: %w", err)
	}
	return balance, nil
}
