package event

// EventSchemaVersion is the current event schema version
const EventSchemaVersion = "1.0"

// LogMsgHandlerErrorFormat formats the aggregate error of a publish
const LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"

// Save reasons carried by SavedPayloadV1
const (
	SaveReasonOpen      = "open"
	SaveReasonDebounced = "debounced"
	SaveReasonExplicit  = "explicit"
	SaveReasonClose     = "close"
)
