package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgInsufficientFunds  = "insufficient funds"
	ErrMsgInvalidTarget      = "invalid target"
	ErrMsgNotReady           = "not ready"
	ErrMsgLimitReached       = "limit reached"
	ErrMsgPersistenceFailure = "persistence failure"
	ErrMsgGardenNotFound     = "garden not found"
	ErrMsgUnknownAsset       = "unknown asset type"
	ErrMsgUnknownModifier    = "unknown garden modifier"
	ErrMsgUnknownEffect      = "unknown timed effect"
	ErrMsgSessionClosed      = "session closed"
	ErrMsgInvalidInput       = "invalid input"
	ErrMsgTxClosed           = "tx is closed"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrInsufficientFunds is returned by plant/upgrade/evolve/modifier purchases and ledger debits
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// ErrInvalidTarget is returned when acting on an empty plot or planting on an occupied one
	ErrInvalidTarget = errors.New(ErrMsgInvalidTarget)

	// ErrNotReady is returned when harvesting or evolving a plant that has not met its gate
	ErrNotReady = errors.New(ErrMsgNotReady)

	// ErrLimitReached is returned for max-level modifiers and plants
	ErrLimitReached = errors.New(ErrMsgLimitReached)

	// ErrPersistenceFailure wraps load/save errors from the storage boundary
	ErrPersistenceFailure = errors.New(ErrMsgPersistenceFailure)

	ErrGardenNotFound  = errors.New(ErrMsgGardenNotFound)
	ErrUnknownAsset    = errors.New(ErrMsgUnknownAsset)
	ErrUnknownModifier = errors.New(ErrMsgUnknownModifier)
	ErrUnknownEffect   = errors.New(ErrMsgUnknownEffect)
	ErrSessionClosed   = errors.New(ErrMsgSessionClosed)
	ErrInvalidInput    = errors.New(ErrMsgInvalidInput)
)
