// Package response provides standardized HTTP response helpers.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Error codes returned by the API.
const (
	ErrCodeEventNotFound   = "EVENT_NOT_FOUND"
	ErrCodeNoStartDate     = "NO_START_DATE"
	ErrCodeValidationError = "VALIDATION_ERROR"
	ErrCodeUpstreamError   = "UPSTREAM_ERROR"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeGoogleAPIError  = "GOOGLE_API_ERROR"
	ErrCodeNotConfigured   = "NOT_CONFIGURED"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// APIError represents a structured API error.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError in the standard response format.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// JSON writes a JSON response.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteErrorWithDetails(w, status, code, message, nil)
}

// WriteErrorWithDetails writes a JSON error response with additional details.
func WriteErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	JSON(w, status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteEventNotFound writes a 404 for an unknown event record.
func WriteEventNotFound(w http.ResponseWriter, eventID string) {
	WriteErrorWithDetails(w, http.StatusNotFound, ErrCodeEventNotFound,
		"Event not found", map[string]any{"event_id": eventID})
}

// WriteNoStartDate writes a 404 for an event without a resolvable start date.
func WriteNoStartDate(w http.ResponseWriter, eventID string) {
	WriteErrorWithDetails(w, http.StatusNotFound, ErrCodeNoStartDate,
		"Event has no usable start date", map[string]any{"event_id": eventID})
}

// WriteValidationError writes a 400 validation error.
func WriteValidationError(w http.ResponseWriter, message string, details map[string]any) {
	WriteErrorWithDetails(w, http.StatusBadRequest, ErrCodeValidationError, message, details)
}

// WriteUpstreamError writes a 502 for record store failures.
func WriteUpstreamError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, ErrCodeUpstreamError, message)
}

// WriteRateLimited writes a 429 rate limited error.
func WriteRateLimited(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	WriteErrorWithDetails(w, http.StatusTooManyRequests, ErrCodeRateLimited,
		"Too many requests, please slow down",
		map[string]any{"retry_after_seconds": retryAfter})
}

// WriteGoogleAPIError writes a 502 Google Calendar API error.
func WriteGoogleAPIError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, ErrCodeGoogleAPIError, message)
}

// WriteNotConfigured writes a 503 for a disabled optional integration.
func WriteNotConfigured(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, ErrCodeNotConfigured, message)
}

// WriteInternalError writes a 500 internal error.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, message)
}
