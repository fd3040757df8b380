// Package memory is an in-process garden and ledger store used by tests and
// by local runs without a database.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// Store keeps deep copies of saved gardens and a balance per user
type Store struct {
	mu       sync.RWMutex
	gardens  map[string]*domain.GardenState
	balances map[string]int64
	saves    int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		gardens:  make(map[string]*domain.GardenState),
		balances: make(map[string]int64),
	}
}

// LoadGarden returns a copy of the saved garden
func (s *Store) LoadGarden(ctx context.Context, userID string) (*domain.GardenState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.gardens[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGardenNotFound, userID)
	}
	return g.Clone(), nil
}

// SaveGarden stores a copy of state unless a newer version is already saved
func (s *Store) SaveGarden(ctx context.Context, userID string, state *domain.GardenState) error {
	if state == nil {
		return fmt.Errorf("%w: nil garden", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if existing, ok := s.gardens[userID]; ok && existing.Version > state.Version {
		return nil
	}
	s.gardens[userID] = state.Clone()
	return nil
}

// Saves returns how many save calls the store has received
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

// Credit adds amount to the user's balance
func (s *Store) Credit(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: credit amount must be positive", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[userID] += amount
	return nil
}

// Debit removes amount from the user's balance
func (s *Store) Debit(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: debit amount must be positive", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances[userID] < amount {
		return fmt.Errorf("%w: ledger debit %d", domain.ErrInsufficientFunds, amount)
	}
	s.balances[userID] -= amount
	return nil
}

// Balance returns the user's balance
func (s *Store) Balance(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[userID], nil
}
