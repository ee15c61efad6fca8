package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gymbooking/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeForbidden          = "forbidden"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodePastBlock          = "past_block"
	ErrCodeDuplicateBooking   = "duplicate_booking"
	ErrCodeBlockFull          = "block_full"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeInternalError      = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

var domainErrors = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
	{domain.ErrPastBlock, http.StatusUnprocessableEntity, ErrCodePastBlock},
	{domain.ErrDuplicateBooking, http.StatusConflict, ErrCodeDuplicateBooking},
	{domain.ErrBlockFull, http.StatusConflict, ErrCodeBlockFull},
	{domain.ErrDuplicateEmail, http.StatusConflict, ErrCodeConflict},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeInvalidCredentials},
	{domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
}

// WriteDomainError maps a service error to its HTTP status and error code.
// Unknown errors are logged and answered with a generic 500.
func WriteDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	for _, m := range domainErrors {
		if errors.Is(err, m.target) {
			WriteJSONError(w, m.status, m.code, err.Error())
			return
		}
	}
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}
