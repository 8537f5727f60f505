package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cookiemiddleware "github.com/auth0/go-cookie-middleware"
)

// ErrorHandler converts middleware errors to gRPC status errors.
type ErrorHandler func(error) error

// DefaultErrorHandler maps middleware errors to gRPC status codes.
func DefaultErrorHandler(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, cookiemiddleware.ErrCookieMissing):
		return status.Error(codes.Unauthenticated, "missing signed cookie")
	case errors.Is(err, cookiemiddleware.ErrCookieInvalid):
		return status.Error(codes.PermissionDenied, "invalid signed cookie")
	default:
		// Evaluation failures are server-side errors; their details stay in the logs.
		return status.Error(codes.Internal, "unable to check signed cookie")
	}
}
