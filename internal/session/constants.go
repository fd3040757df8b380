package session

import "time"

// Defaults for Options fields left zero
const (
	DefaultTickInterval = time.Second
	DefaultSaveTimeout  = 10 * time.Second
)

// Log messages
const (
	LogMsgSessionOpened    = "Garden session opened"
	LogMsgSessionClosed    = "Garden session closed"
	LogMsgCatchUpApplied   = "Offline catch-up applied"
	LogMsgSaveFailed       = "Garden save failed"
	LogMsgStaleSaveDropped = "Stale garden snapshot dropped"
	LogMsgCommandPanicked  = "Garden command panicked"
	LogMsgPublishFailed    = "Garden event publish failed"
	LogMsgWeatherRotated   = "Weather rotated"
	LogMsgLedgerRefund     = "Refunding failed ledger transfer"
	LogMsgLedgerRefundLost = "Ledger refund failed, balance needs manual review"
	LogMsgFlushFailed      = "Garden flush failed"
	LogMsgOpenSaveFailed   = "Initial garden save failed, retrying on next flush"
	LogMsgSessionParked    = "Final garden save failed, parked for retry"
	LogMsgSessionRevived   = "Resuming parked garden"
)
