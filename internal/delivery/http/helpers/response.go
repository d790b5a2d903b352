package helpers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"recordpager/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeInvalidPage   = "invalid_page"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeInternalError = "internal_error"
)

// APIError is the error object in the response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the envelope for every API response. Exactly one of Data and Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess writes statusCode and an envelope carrying data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeEnvelope(w, statusCode, APIResponse{Data: data})
}

// WriteJSONError writes statusCode and an envelope carrying the error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	writeEnvelope(w, statusCode, APIResponse{Error: &APIError{Code: code, Message: message}})
}

func writeEnvelope(w http.ResponseWriter, statusCode int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// ClientError maps domain errors that the caller caused onto an HTTP status,
// error code and message. ok is false for anything that should be a 500.
// notFound is the message used for domain.ErrNotFound.
func ClientError(err error, notFound string) (status int, code, message string, ok bool) {
	var cfgErr *domain.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest, ErrCodeInvalidPage, cfgErr.Error(), true
	case errors.Is(err, domain.ErrInvalidInput):
		msg := strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")
		return http.StatusBadRequest, ErrCodeBadRequest, msg, true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, notFound, true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden, "forbidden", true
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, ErrCodeConflict, "email already registered", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials", true
	}
	return 0, "", "", false
}
