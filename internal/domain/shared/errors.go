package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors.
//
// ErrResourceContention is the only transient member of the taxonomy: the
// write path retries it internally before surfacing it. Everything else is
// a definitive business rejection and must never be retried automatically.
var (
	ErrNotFound                 = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists            = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput             = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnknownResource          = NewDomainError("UNKNOWN_RESOURCE", "No availability record exists for this resource")
	ErrInvalidQuantity          = NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	ErrInsufficientAvailability = NewDomainError("INSUFFICIENT_AVAILABILITY", "Requested quantity exceeds available quantity")
	ErrCapacityExceeded         = NewDomainError("CAPACITY_EXCEEDED", "Slot capacity would be exceeded")
	ErrResourceContention       = NewDomainError("RESOURCE_CONTENTION", "Resource was modified concurrently, retry the operation")
	ErrInvalidTransition        = NewDomainError("INVALID_TRANSITION", "Unit status transition is not allowed")
	ErrUnitNotAssignable        = NewDomainError("UNIT_NOT_ASSIGNABLE", "Unit status does not permit assignment")
	ErrDispatchFailure          = NewDomainError("DISPATCH_FAILURE", "Alert notification could not be delivered")
	ErrOptimisticLock           = NewDomainError("OPTIMISTIC_LOCK_FAILED", "Row was modified by another transaction")
)

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}
