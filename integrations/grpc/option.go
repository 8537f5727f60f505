package grpc

import (
	"errors"

	cookiemiddleware "github.com/auth0/go-cookie-middleware"
)

// Option configures the interceptor.
type Option func(*Interceptor) error

// Logger defines an optional logging interface compatible with log/slog.
type Logger = cookiemiddleware.Logger

// WithMiddleware sets the middleware whose configuration the interceptor
// evaluates (REQUIRED). Enforcement follows the middleware's RequireValid.
func WithMiddleware(m *cookiemiddleware.Middleware) Option {
	return func(i *Interceptor) error {
		if m == nil {
			return errors.New("middleware cannot be nil")
		}
		i.middleware = m
		return nil
	}
}

// WithLogger sets an optional logger for the interceptor.
//
// Example:
//
//	interceptor, _ := grpc.New(
//	    grpc.WithMiddleware(middleware),
//	    grpc.WithLogger(slog.Default()),
//	)
func WithLogger(logger Logger) Option {
	return func(i *Interceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.logger = logger
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler which maps errors to gRPC status codes.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *Interceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods excludes specific gRPC methods from the interceptor.
// Methods should be provided in the format: "/package.Service/Method"
// Example: "/myapp.MyService/PublicMethod", "/grpc.health.v1.Health/Check"
func WithExcludedMethods(methods ...string) Option {
	return func(i *Interceptor) error {
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}
