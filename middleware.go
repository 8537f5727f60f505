package cookiemiddleware

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/auth0/go-cookie-middleware/config"
	"github.com/auth0/go-cookie-middleware/core"
)

// DefaultMaxBodySize is the largest request body buffered for form variables.
const DefaultMaxBodySize = 1 << 20

// Middleware resolves the signed-cookie and form variables for each request
// and makes them available to later handlers through the request context.
type Middleware struct {
	locations           []*location
	errorHandler        ErrorHandler
	exclusionURLHandler ExclusionURLHandler
	logger              Logger
	metrics             Metrics
	tracer              Tracer
	maxBodySize         int64
	bufferBody          bool
	requireValid        bool
	trustedProxies      *TrustedProxyConfig

	// Temporary fields used during construction
	scope     *config.Scope
	coreOpts  []core.Option
	variables []variable
}

type variable struct {
	name string
	eval core.Evaluator
}

// ExclusionURLHandler is a function that takes in a http.Request and returns
// true if the request should skip the middleware entirely.
type ExclusionURLHandler func(r *http.Request) bool

// New constructs a new Middleware instance with the supplied options.
//
// Example:
//
//	scope, err := config.LoadFile("/etc/cookies.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	middleware, err := cookiemiddleware.New(
//	    cookiemiddleware.WithConfig(scope),
//	    cookiemiddleware.WithRequireValid(true),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create middleware: %v", err)
//	}
func New(opts ...Option) (*Middleware, error) {
	m := &Middleware{
		maxBodySize: DefaultMaxBodySize,
		bufferBody:  true,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	m.applyDefaults()

	if err := m.buildLocations(); err != nil {
		return nil, fmt.Errorf("invalid middleware configuration: %w", err)
	}

	return m, nil
}

// applyDefaults sets default values for optional fields not set by options
func (m *Middleware) applyDefaults() {
	if m.errorHandler == nil {
		m.errorHandler = DefaultErrorHandler
	}
	if m.metrics == nil {
		m.metrics = &NoopMetrics{}
	}
	if m.tracer == nil {
		m.tracer = &NoopTracer{}
	}
	if m.scope == nil {
		m.scope = &config.Scope{}
	}
}

func (m *Middleware) buildLocations() error {
	for _, l := range m.scope.Flatten() {
		loc, err := m.buildLocation(l)
		if err != nil {
			return fmt.Errorf("location %q: %w", l.Prefix, err)
		}
		m.locations = append(m.locations, loc)
	}

	// Longest prefix first, so match can return the first hit.
	sort.SliceStable(m.locations, func(i, j int) bool {
		return len(m.locations[i].prefix) > len(m.locations[j].prefix)
	})

	m.scope = nil
	m.variables = nil
	return nil
}

func (m *Middleware) match(path string) *location {
	for _, l := range m.locations {
		if strings.HasPrefix(path, l.prefix) {
			return l
		}
	}
	// The root location is registered under "/" and matches any absolute
	// path; fall back to it for everything else.
	return m.locations[len(m.locations)-1]
}

// NewRequest returns the evaluation scope for a request to path, using the
// registry of the longest matching location. The caller must release it.
func (m *Middleware) NewRequest(ctx context.Context, path string, src core.Source) *core.Request {
	return core.NewRequest(ctx, m.match(path).registry, src)
}

// Check enforces the verification variable: it returns nil for "1",
// ErrCookieMissing when the variable is not found, ErrCookieInvalid for "0"
// and the evaluation error for fatal failures.
func (m *Middleware) Check(r *core.Request) error {
	v, err := r.Get(VarSecureCookie)
	if err != nil {
		return err
	}

	switch {
	case !v.Found:
		return ErrCookieMissing
	case !v.Bool():
		return ErrCookieInvalid
	}
	return nil
}

// RequireValid reports whether Handler rejects requests failing Check.
func (m *Middleware) RequireValid() bool {
	return m.requireValid
}

// Handler wraps next so that every request carries its variable scope.
// The scope, and every Value obtained from it, is released when next returns.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, release, err := m.Attach(r)
		if err != nil {
			m.errorHandler(w, r, err)
			return
		}
		defer release()

		next.ServeHTTP(w, r)
	})
}

// Attach buffers the body of r, builds its variable scope and returns a copy
// of r carrying the scope in its context, together with the function
// releasing it. Excluded URLs are returned unchanged. When RequireValid is
// set, a failing Check is returned as the error and nothing needs releasing.
//
// Attach is the building block of Handler for routers that handle errors
// their own way.
func (m *Middleware) Attach(r *http.Request) (*http.Request, func(), error) {
	if m.exclusionURLHandler != nil && m.exclusionURLHandler(r) {
		if m.logger != nil {
			m.logger.Debug("skipping variables for excluded URL",
				"method", r.Method,
				"path", r.URL.Path)
		}
		return r, func() {}, nil
	}

	body, hasBody, err := m.readBody(r)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("failed to buffer request body",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path)
		}
		return r, nil, err
	}

	creq := m.NewRequest(r.Context(), r.URL.Path, newHTTPSource(r, body, hasBody, m.trustedProxies))

	if m.requireValid {
		if err := m.Check(creq); err != nil {
			creq.Release()
			if m.logger != nil {
				m.logger.Warn("signed cookie check failed",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path)
			}
			return r, nil, err
		}
	}

	return r.WithContext(core.WithRequest(r.Context(), creq)), creq.Release, nil
}

// HandlerWithNext is a special implementation for Negroni, but could be used elsewhere.
func (m *Middleware) HandlerWithNext(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	m.Handler(next).ServeHTTP(w, r)
}

// readBody buffers the body and puts a replayable copy back on r.
func (m *Middleware) readBody(r *http.Request) ([]byte, bool, error) {
	if !m.bufferBody || r.Body == nil || r.Body == http.NoBody {
		return nil, false, nil
	}
	if r.ContentLength > m.maxBodySize {
		return nil, false, ErrBodyTooLarge
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, m.maxBodySize+1))
	_ = r.Body.Close()
	if err != nil {
		return nil, false, fmt.Errorf("reading request body: %w", err)
	}
	if int64(len(body)) > m.maxBodySize {
		return nil, false, ErrBodyTooLarge
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, len(body) > 0, nil
}

// Get resolves a variable for a request passed through Handler.
func Get(r *http.Request, name string) (core.Value, error) {
	return core.Get(r.Context(), name)
}

// Valid reports whether the request carries a valid signed cookie.
func Valid(r *http.Request) bool {
	v, err := Get(r, VarSecureCookie)
	return err == nil && v.Bool()
}

// instrument wraps a module variable with metrics and tracing.
func (m *Middleware) instrument(name string, e core.Evaluator) core.Evaluator {
	return core.EvaluatorFunc(func(r *core.Request) (core.Value, error) {
		span := m.tracer.StartSpan(r.Context(), "cookiemiddleware.evaluate")
		span.SetTag("variable", name)

		start := time.Now()
		v, err := e.Evaluate(r)
		duration := time.Since(start)

		result := resultLabel(name, v, err)
		span.SetTag("result", result)
		if err != nil {
			span.SetError(err)
		}
		span.Finish()

		m.metrics.IncCounter(metricEvaluations, map[string]string{"variable": name, "result": result})
		m.metrics.ObserveHistogram(metricEvaluationDuration, duration.Seconds(), map[string]string{"variable": name})

		return v, err
	})
}

func resultLabel(name string, v core.Value, err error) string {
	switch {
	case err != nil:
		return "error"
	case !v.Found:
		return "not_found"
	case name == VarSecureCookie && v.Bool():
		return "valid"
	case name == VarSecureCookie:
		return "invalid"
	}
	return "found"
}
