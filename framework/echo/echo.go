// Package cookieecho adapts the signed-cookie middleware to Echo.
package cookieecho

import (
	"github.com/labstack/echo/v4"

	cookiemiddleware "github.com/auth0/go-cookie-middleware"
	"github.com/auth0/go-cookie-middleware/core"
)

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	errorHandler func(echo.Context, error) error
}

// NewEchoMiddleware returns an Echo middleware attaching the variable scope
// of m to every request. Errors returned by the Middleware are passed to the
// error handler and next is not called.
func NewEchoMiddleware(m *cookiemiddleware.Middleware, opts ...Option) echo.MiddlewareFunc {
	config := &echoMiddlewareConfig{
		errorHandler: defaultEchoErrorHandler,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r, release, err := m.Attach(c.Request())
			if err != nil {
				return config.errorHandler(c, err)
			}
			defer release()

			c.SetRequest(r)
			return next(c)
		}
	}
}

func defaultEchoErrorHandler(c echo.Context, err error) error {
	status, message := cookiemiddleware.ErrorResponse(err)
	return c.JSON(status, map[string]string{
		"message": message,
	})
}

// Get resolves a variable for the current request.
func Get(c echo.Context, name string) (core.Value, error) {
	return cookiemiddleware.Get(c.Request(), name)
}

// Valid reports whether the current request carries a valid signed cookie.
func Valid(c echo.Context) bool {
	return cookiemiddleware.Valid(c.Request())
}
