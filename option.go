package cookiemiddleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/auth0/go-cookie-middleware/config"
	"github.com/auth0/go-cookie-middleware/core"
)

// Option configures the Middleware.
// Returns error for validation failures.
type Option func(*Middleware) error

// WithConfig sets the scope tree the variables are built from. Each location
// of the tree gets its own registry, selected by longest path prefix.
//
// Default: an empty scope (cookie variables not found, recaptcha fields on
// their default names)
func WithConfig(scope *config.Scope) Option {
	return func(m *Middleware) error {
		if scope == nil {
			return ErrConfigNil
		}
		m.scope = scope
		return nil
	}
}

// WithSettings configures a single root scope.
//
// Example:
//
//	middleware, err := cookiemiddleware.New(
//	    cookiemiddleware.WithSettings(config.Settings{
//	        SecureCookie:    config.String("$cookie_auth"),
//	        SecureCookieMD5: config.String("$remote_addr s3cr3t"),
//	    }),
//	)
func WithSettings(s config.Settings) Option {
	return WithConfig(&config.Scope{Settings: s})
}

// WithRequireValid sets whether requests without a valid signed cookie are
// rejected through the error handler.
//
// Default: false (variables are only exposed)
func WithRequireValid(value bool) Option {
	return func(m *Middleware) error {
		m.requireValid = value
		return nil
	}
}

// WithErrorHandler sets the handler called when the middleware rejects a request.
// See the ErrorHandler type for more information.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Middleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithMaxBodySize sets the largest body buffered for form variables. Larger
// bodies are rejected with ErrBodyTooLarge.
//
// Default: DefaultMaxBodySize
func WithMaxBodySize(n int64) Option {
	return func(m *Middleware) error {
		if n <= 0 {
			return ErrMaxBodySizeInvalid
		}
		m.maxBodySize = n
		return nil
	}
}

// WithBodyBuffering sets whether request bodies are buffered. Without
// buffering request_body and every form variable are not found.
//
// Default: true
func WithBodyBuffering(value bool) Option {
	return func(m *Middleware) error {
		m.bufferBody = value
		return nil
	}
}

// WithExclusionUrls configures URL patterns that bypass the middleware.
// URLs can be full URLs or just paths.
func WithExclusionUrls(exclusions []string) Option {
	return func(m *Middleware) error {
		if len(exclusions) == 0 {
			return ErrExclusionUrlsEmpty
		}
		m.exclusionURLHandler = func(r *http.Request) bool {
			requestFullURL := r.URL.String()
			requestPath := r.URL.Path

			for _, exclusion := range exclusions {
				if requestFullURL == exclusion || requestPath == exclusion {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithVariable registers an additional variable in every location. It can be
// referenced from configured expressions.
func WithVariable(name string, e core.Evaluator) Option {
	return func(m *Middleware) error {
		if name == "" || e == nil {
			return ErrVariableInvalid
		}
		m.variables = append(m.variables, variable{name: name, eval: e})
		return nil
	}
}

// WithClock overrides the time source used for expiry checks and issuance.
func WithClock(now func() time.Time) Option {
	return func(m *Middleware) error {
		if now == nil {
			return ErrClockNil
		}
		m.coreOpts = append(m.coreOpts, core.WithClock(now))
		return nil
	}
}

// WithLogger sets an optional logger for the middleware.
// The logger will be used throughout the evaluation flow in both middleware and core.
//
// The logger interface is compatible with log/slog.Logger and similar loggers.
//
// Example:
//
//	middleware, err := cookiemiddleware.New(
//	    cookiemiddleware.WithConfig(scope),
//	    cookiemiddleware.WithLogger(slog.Default()),
//	)
func WithLogger(logger Logger) Option {
	return func(m *Middleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink for variable evaluations.
//
// Default: NoopMetrics
func WithMetrics(metrics Metrics) Option {
	return func(m *Middleware) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		m.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer for variable evaluations.
//
// Default: NoopTracer
func WithTracer(tracer Tracer) Option {
	return func(m *Middleware) error {
		if tracer == nil {
			return ErrTracerNil
		}
		m.tracer = tracer
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrConfigNil          = errors.New("config cannot be nil")
	ErrErrorHandlerNil    = errors.New("errorHandler cannot be nil")
	ErrExclusionUrlsEmpty = errors.New("exclusion URLs list cannot be empty")
	ErrMaxBodySizeInvalid = errors.New("max body size must be positive")
	ErrVariableInvalid    = errors.New("variable needs a name and an evaluator")
	ErrClockNil           = errors.New("clock cannot be nil")
	ErrLoggerNil          = errors.New("logger cannot be nil")
	ErrMetricsNil         = errors.New("metrics cannot be nil")
	ErrTracerNil          = errors.New("tracer cannot be nil")
)
