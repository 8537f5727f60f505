// Package cookiegin adapts the signed-cookie middleware to Gin.
package cookiegin

import (
	"github.com/gin-gonic/gin"

	cookiemiddleware "github.com/auth0/go-cookie-middleware"
	"github.com/auth0/go-cookie-middleware/core"
)

type ginMiddlewareConfig struct {
	errorHandler func(*gin.Context, error)
}

// NewGinMiddleware returns a Gin middleware attaching the variable scope of m
// to every request. Errors returned by the Middleware (a failed check with
// WithRequireValid, an oversized body) are passed to the error handler and
// abort the chain.
func NewGinMiddleware(m *cookiemiddleware.Middleware, opts ...Option) gin.HandlerFunc {
	config := &ginMiddlewareConfig{
		errorHandler: defaultGinErrorHandler,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c *gin.Context) {
		r, release, err := m.Attach(c.Request)
		if err != nil {
			config.errorHandler(c, err)
			c.Abort()
			return
		}
		defer release()

		c.Request = r
		c.Next()
	}
}

func defaultGinErrorHandler(c *gin.Context, err error) {
	status, message := cookiemiddleware.ErrorResponse(err)
	c.AbortWithStatusJSON(status, gin.H{
		"message": message,
	})
}

// Get resolves a variable for the current request.
func Get(c *gin.Context, name string) (core.Value, error) {
	return cookiemiddleware.Get(c.Request, name)
}

// Valid reports whether the current request carries a valid signed cookie.
func Valid(c *gin.Context) bool {
	return cookiemiddleware.Valid(c.Request)
}
