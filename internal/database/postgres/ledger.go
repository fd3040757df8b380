package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// LedgerRepository keeps external balances and an append-only entry log
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Credit adds amount to the user's balance
func (r *LedgerRepository) Credit(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: credit amount must be positive", domain.ErrInvalidInput)
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
INSERT INTO ledger_balances (user_id, balance) VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET balance = ledger_balances.balance + EXCLUDED.balance, updated_at = NOW()`,
			userID, amount)
		if err != nil {
			return fmt.Errorf("failed to credit ledger: %w", err)
		}
		return insertEntry(ctx, tx, userID, amount, LedgerKindCredit)
	})
}

// Debit removes amount from the user's balance
func (r *LedgerRepository) Debit(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: debit amount must be positive", domain.ErrInvalidInput)
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		var balance int64
		err := tx.QueryRow(ctx, `SELECT balance FROM ledger_balances WHERE user_id = $1 FOR UPDATE`, userID).Scan(&balance)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to read ledger balance: %w", err)
		}
		if balance < amount {
			return fmt.Errorf("%w: ledger balance %d, debit %d", domain.ErrInsufficientFunds, balance, amount)
		}

		if _, err := tx.Exec(ctx, `UPDATE ledger_balances SET balance = balance - $2, updated_at = NOW() WHERE user_id = $1`, userID, amount); err != nil {
			return fmt.Errorf("failed to debit ledger: %w", err)
		}
		return insertEntry(ctx, tx, userID, -amount, LedgerKindDebit)
	})
}

// Balance returns the user's current balance; unknown users have zero
func (r *LedgerRepository) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `SELECT balance FROM ledger_balances WHERE user_id = $1`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read ledger balance: %w", err)
	}
	return balance, nil
}

func insertEntry(ctx context.Context, tx pgx.Tx, userID string, amount int64, kind string) error {
	if _, err := tx.Exec(ctx, `INSERT INTO ledger_entries (user_id, amount, kind) VALUES ($1, $2, $3)`, userID, amount, kind); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}
	return nil
}
