package core

import "errors"

// Sentinel errors for variable resolution and token validation.
var (
	// ErrTokenMalformed is matched by validation errors that leave the
	// verification variable undefined rather than false.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenInvalid is matched by validation errors that make the
	// verification variable a definite false.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrUnknownVariable is returned when a variable name has no registered
	// evaluator.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrDuplicateVariable is returned when a name or prefix is registered twice.
	ErrDuplicateVariable = errors.New("duplicate variable")

	// ErrVariableCycle is returned when a variable depends on itself while
	// being evaluated.
	ErrVariableCycle = errors.New("variable evaluation cycle")

	// ErrRequestReleased is returned when a released Request is evaluated.
	ErrRequestReleased = errors.New("request already released")

	// ErrNoRequest is returned when a context carries no evaluation scope.
	ErrNoRequest = errors.New("no variable scope in context")
)

// ValidationError wraps token validation failures with a machine-readable
// code. Codes in the malformed class match ErrTokenMalformed; the rest match
// ErrTokenInvalid.
type ValidationError struct {
	// Code is a machine-readable error code (e.g., "token_expired", "digest_too_long")
	Code string

	// Message is a human-readable error message
	Message string

	// Details contains the underlying error
	Details error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Details != nil {
		return e.Message + ": " + e.Details.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ValidationError) Unwrap() error {
	return e.Details
}

// Is allows the error to be compared with ErrTokenMalformed or ErrTokenInvalid.
func (e *ValidationError) Is(target error) bool {
	if e.Malformed() {
		return target == ErrTokenMalformed
	}
	return target == ErrTokenInvalid
}

// Malformed reports whether the error leaves the variable undefined.
func (e *ValidationError) Malformed() bool {
	switch e.Code {
	case ErrorCodeInvalidSignature, ErrorCodeTokenExpired:
		return false
	}
	return true
}

// Common error codes
const (
	ErrorCodeTokenMalformed   = "token_malformed"
	ErrorCodeExpiryInvalid    = "expiry_invalid"
	ErrorCodeDigestTooLong    = "digest_too_long"
	ErrorCodeDigestEncoding   = "digest_encoding"
	ErrorCodeDigestLength     = "digest_length"
	ErrorCodeInvalidSignature = "invalid_signature"
	ErrorCodeTokenExpired     = "token_expired"
	ErrorCodeConfigInvalid    = "config_invalid"
)

// NewValidationError creates a new ValidationError with the given code and message.
func NewValidationError(code, message string, details error) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
