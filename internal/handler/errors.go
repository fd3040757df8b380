package handler

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
// Both handlers and tests should reference these constants.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query and path parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidQueryParam = "Invalid %s query parameter"
	ErrMsgMissingUserID     = "Missing user id"

	// Garden operation error messages
	ErrMsgOpenGardenFailed   = "Failed to open garden"
	ErrMsgCloseGardenFailed  = "Failed to close garden"
	ErrMsgSaveGardenFailed   = "Failed to save garden"
	ErrMsgGardenActionFailed = "Garden action failed"
)

// Success messages for API responses
const (
	MsgGardenSaved    = "Garden saved"
	MsgGardenClosed   = "Garden closed"
	MsgDepositSuccess = "Deposit complete"
	MsgCashOutSuccess = "Cash-out complete"
)

// Log messages
const (
	LogMsgDecodeFailedFormat  = "Failed to decode %s request"
	LogMsgDecodedFormat       = "%s request decoded"
	LogMsgActionFailed        = "Garden action failed"
	LogMsgReadinessFailed     = "Readiness check failed"
	LogMsgEncodeFailed        = "Failed to encode JSON response"
	LogMsgWriteFailed         = "Failed to write response buffer"
	LogMsgOddRequestFields    = "LogRequestFields called with odd number of arguments"
	LogMsgRequestDetails      = "Request details"
	LogMsgMissingParamFormat  = "Missing %s query parameter"
	LogMsgGardenOpened        = "Garden opened"
	LogMsgGardenClosedRequest = "Garden close requested"
)
