package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/IdleGarden_Go/internal/domain"
	"github.com/osse101/IdleGarden_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and answers with the status and message it maps to
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgActionFailed, "operation", opName, "error", err)
	} else {
		log.Warn(LogMsgActionFailed, "operation", opName, "error", err)
	}
	respondError(w, status, msg)
}

// User-facing error messages derived from domain errors
const (
	ErrMsgGenericServerError   = "Something went wrong"
	ErrMsgUnknownError         = "Unknown error"
	ErrMsgInvalidInputError    = "Invalid request. Please check your inputs."
	ErrMsgNotEnoughMoneyError  = "Not enough money"
	ErrMsgInvalidTargetError   = "Nothing can be done on that plot"
	ErrMsgNotReadyError        = "That plant is not ready yet"
	ErrMsgLimitReachedError    = "Already at the maximum level"
	ErrMsgUnknownAssetError    = "Unknown asset type"
	ErrMsgUnknownModifierError = "Unknown garden modifier"
	ErrMsgUnknownEffectError   = "Unknown timed effect"
	ErrMsgGardenNotFoundError  = "Garden not found"
	ErrMsgSessionClosedError   = "Garden session is closed. Open it again."
	ErrMsgUnavailableError     = "Storage is temporarily unavailable. Please try again later."
	ErrMsgTimeoutError         = "The garden is busy. Please try again."
)

// mapServiceErrorToUserMessage maps domain errors to an HTTP status and a user-facing message.
// Unrecognized errors never leak their text.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired, ErrMsgNotEnoughMoneyError
	case errors.Is(err, domain.ErrInvalidTarget):
		return http.StatusConflict, ErrMsgInvalidTargetError
	case errors.Is(err, domain.ErrNotReady):
		return http.StatusConflict, ErrMsgNotReadyError
	case errors.Is(err, domain.ErrLimitReached):
		return http.StatusConflict, ErrMsgLimitReachedError
	case errors.Is(err, domain.ErrUnknownAsset):
		return http.StatusUnprocessableEntity, ErrMsgUnknownAssetError
	case errors.Is(err, domain.ErrUnknownModifier):
		return http.StatusUnprocessableEntity, ErrMsgUnknownModifierError
	case errors.Is(err, domain.ErrUnknownEffect):
		return http.StatusUnprocessableEntity, ErrMsgUnknownEffectError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrGardenNotFound):
		return http.StatusNotFound, ErrMsgGardenNotFoundError
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusNotFound, ErrMsgSessionClosedError
	case errors.Is(err, domain.ErrPersistenceFailure):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ErrMsgTimeoutError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
