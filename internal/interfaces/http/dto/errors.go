package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain errors keep their own codes on the
// wire; these cover failures that happen before a request reaches the
// application layer.
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeUnauthorized is used when tenant identification is missing or invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeNotFound is used when a route or resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Domain codes
// appear verbatim so API clients see the same taxonomy the engine raises.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:      http.StatusInternalServerError,
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeNotFound:     http.StatusNotFound,

	// Lookup failures -> 404 Not Found
	"NOT_FOUND":        http.StatusNotFound,
	"UNKNOWN_RESOURCE": http.StatusNotFound,
	"ENTRY_NOT_FOUND":  http.StatusNotFound,

	// Concurrency and duplicates -> 409 Conflict
	"ALREADY_EXISTS":         http.StatusConflict,
	"RESOURCE_CONTENTION":    http.StatusConflict,
	"OPTIMISTIC_LOCK_FAILED": http.StatusConflict,

	// Business rule rejections -> 422 Unprocessable Entity
	"INSUFFICIENT_AVAILABILITY": http.StatusUnprocessableEntity,
	"CAPACITY_EXCEEDED":         http.StatusUnprocessableEntity,
	"INVALID_TRANSITION":        http.StatusUnprocessableEntity,
	"UNIT_NOT_ASSIGNABLE":       http.StatusUnprocessableEntity,
	"RELEASE_EXCEEDS_RESERVED":  http.StatusUnprocessableEntity,
	"NO_CHANGE":                 http.StatusUnprocessableEntity,

	// Downstream delivery failures -> 502 Bad Gateway
	"DISPATCH_FAILURE": http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// INVALID_* codes default to 400 Bad Request, everything else unknown to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode maps a domain error code to its wire form. Known codes
// pass through unchanged; anything unrecognized collapses to ERR_UNKNOWN so
// internal code strings never leak by accident.
func NormalizeErrorCode(code string) string {
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	if strings.HasPrefix(code, "INVALID_") {
		return code
	}
	return ErrCodeUnknown
}
