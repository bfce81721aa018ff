package devserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
)

// Envelope wraps every JSON response except the roster list.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Total   *int      `json:"total,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError is the error body of a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

func writeRaw(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeRaw(w, status, Envelope{Success: status >= 200 && status < 300, Data: data})
}

func writeList(w http.ResponseWriter, data any, total int) {
	writeRaw(w, http.StatusOK, Envelope{Success: true, Data: data, Total: &total})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeRaw(w, status, Envelope{Error: &APIError{Code: code, Message: message}})
}

// statusFor maps a backend error onto a status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidCategory):
		return http.StatusBadRequest, CodeBadRequest
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
