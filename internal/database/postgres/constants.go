package postgres

import "time"

// Garden document cache
const (
	// CacheSchemaVersion invalidates cached documents when the cached layout changes
	CacheSchemaVersion = "1"

	DefaultCacheSize = 1024
	DefaultCacheTTL  = 5 * time.Minute
)

// Ledger entry kinds
const (
	LedgerKindCredit = "credit"
	LedgerKindDebit  = "debit"
)
