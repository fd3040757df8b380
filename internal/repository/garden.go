package repository

import (
	"context"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// GardenRepository defines the persistence boundary for garden states.
// LoadGarden returns domain.ErrGardenNotFound when the user has no saved garden.
type GardenRepository interface {
	LoadGarden(ctx context.Context, userID string) (*domain.GardenState, error)
	SaveGarden(ctx context.Context, userID string, state *domain.GardenState) error
}

// Ledger is the external balance the in-game currency is exchanged against.
// Debit returns domain.ErrInsufficientFunds when the balance is too low.
type Ledger interface {
	Credit(ctx context.Context, userID string, amount int64) error
	Debit(ctx context.Context, userID string, amount int64) error
	Balance(ctx context.Context, userID string) (int64, error)
}

// Store bundles the backends a running process needs
type Store interface {
	GardenRepository
	Close() error
}
