package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Authentication errors
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("admin access required")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrBadRequest       = errors.New("bad request")

	// Request errors
	ErrRateLimited = errors.New("too many requests")
)

// Alumni errors
var (
	ErrAlumniNotFound         = errors.New("alumni not found")
	ErrEmailAlreadyExists     = errors.New("email already registered")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrMembershipIDConflict   = errors.New("membership ID already issued")
)

// Content errors
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrSpotlightNotFound    = errors.New("spotlight alumni not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAdminNotFound        = errors.New("admin not found")
)

// NewValidationError creates a validation error carrying a user-facing message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// IsNotFound reports whether err is any of the entity not-found errors.
func IsNotFound(err error) bool {
	return Is(err, ErrResourceNotFound,
		ErrAlumniNotFound,
		ErrEventNotFound,
		ErrSpotlightNotFound,
		ErrNotificationNotFound,
		ErrAdminNotFound,
	)
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}
