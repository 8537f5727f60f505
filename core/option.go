package core

import (
	"errors"
	"time"
)

// DefaultExpires is the issuance window used when none is configured.
const DefaultExpires = 86400 * time.Second

// Option is a function that configures the Core.
// Options return errors to enable validation during construction.
type Option func(*Core) error

// New creates a new Core instance with the provided options.
//
// Example:
//
//	c, err := core.New(
//	    core.WithExpires(12 * time.Hour),
//	    core.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Core, error) {
	c := &Core{
		expires: DefaultExpires,
		now:     time.Now,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// WithExpires sets the window added to the current time when issuing a
// token's expiry. It does not affect validation.
//
// Default: 86400 seconds
func WithExpires(d time.Duration) Option {
	return func(c *Core) error {
		if d < 0 {
			return NewValidationError(ErrorCodeConfigInvalid, "expires cannot be negative", nil)
		}
		c.expires = d
		return nil
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Core) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		c.now = now
		return nil
	}
}

// WithLogger sets an optional logger for the Core.
//
// When configured, the Core logs why tokens were rejected at debug level.
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
