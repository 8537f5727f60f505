package cookiemiddleware

import (
	"errors"
	"net/http"
)

var (
	// ErrCookieMissing is returned when the signed cookie is absent or
	// malformed, or no token expression is configured.
	ErrCookieMissing = errors.New("signed cookie missing")

	// ErrCookieInvalid is returned when the signed cookie has a wrong digest
	// or has expired.
	ErrCookieInvalid = errors.New("signed cookie invalid")

	// ErrBodyTooLarge is returned when the request body exceeds the
	// configured buffer size.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrNotIssuable is returned by IssueCookie when no base-string
	// expression is configured for the request's location.
	ErrNotIssuable = errors.New("signed cookie cannot be issued")
)

// ErrorHandler is a handler which is called when the Middleware rejects a
// request. The err can be checked to be ErrCookieMissing, ErrCookieInvalid or
// ErrBodyTooLarge for specific cases; anything else is a failure evaluating
// the configured variables. If you implement your own ErrorHandler you MUST
// respond to the request, otherwise the client receives an empty 200.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler is the default error handler implementation for the
// Middleware. If an error handler is not provided via the WithErrorHandler
// option this will be used.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status, message := ErrorResponse(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"message":"` + message + `"}`))
}

// ErrorResponse maps an error returned by the Middleware to the HTTP status
// and message DefaultErrorHandler responds with.
func ErrorResponse(err error) (status int, message string) {
	switch {
	case errors.Is(err, ErrCookieMissing):
		return http.StatusUnauthorized, "Signed cookie is missing."
	case errors.Is(err, ErrCookieInvalid):
		return http.StatusForbidden, "Signed cookie is invalid."
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "Request body is too large."
	default:
		return http.StatusInternalServerError, "Something went wrong while checking the signed cookie."
	}
}
