package cookiemiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auth0/go-cookie-middleware/config"
	"github.com/auth0/go-cookie-middleware/core"
)

func Test_New_OptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{
			name: "no options",
		},
		{
			name:    "nil config",
			opts:    []Option{WithConfig(nil)},
			wantErr: ErrConfigNil,
		},
		{
			name:    "nil error handler",
			opts:    []Option{WithErrorHandler(nil)},
			wantErr: ErrErrorHandlerNil,
		},
		{
			name:    "zero max body size",
			opts:    []Option{WithMaxBodySize(0)},
			wantErr: ErrMaxBodySizeInvalid,
		},
		{
			name:    "negative max body size",
			opts:    []Option{WithMaxBodySize(-1)},
			wantErr: ErrMaxBodySizeInvalid,
		},
		{
			name:    "empty exclusion list",
			opts:    []Option{WithExclusionUrls(nil)},
			wantErr: ErrExclusionUrlsEmpty,
		},
		{
			name:    "variable without name",
			opts:    []Option{WithVariable("", core.EvaluatorFunc(func(*core.Request) (core.Value, error) { return core.NotFound, nil }))},
			wantErr: ErrVariableInvalid,
		},
		{
			name:    "variable without evaluator",
			opts:    []Option{WithVariable("x", nil)},
			wantErr: ErrVariableInvalid,
		},
		{
			name:    "nil clock",
			opts:    []Option{WithClock(nil)},
			wantErr: ErrClockNil,
		},
		{
			name:    "nil logger",
			opts:    []Option{WithLogger(nil)},
			wantErr: ErrLoggerNil,
		},
		{
			name:    "nil metrics",
			opts:    []Option{WithMetrics(nil)},
			wantErr: ErrMetricsNil,
		},
		{
			name:    "nil tracer",
			opts:    []Option{WithTracer(nil)},
			wantErr: ErrTracerNil,
		},
		{
			name:    "variable clashing with a builtin",
			opts:    []Option{WithVariable(core.VarHost, core.EvaluatorFunc(func(*core.Request) (core.Value, error) { return core.NotFound, nil }))},
			wantErr: core.ErrDuplicateVariable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.opts...)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.NotNil(t, m)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, m)
		})
	}
}

func Test_New_Defaults(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	assert.NotNil(t, m.errorHandler)
	assert.IsType(t, &NoopMetrics{}, m.metrics)
	assert.IsType(t, &NoopTracer{}, m.tracer)
	assert.Equal(t, int64(DefaultMaxBodySize), m.maxBodySize)
	assert.True(t, m.bufferBody)
	assert.False(t, m.RequireValid())
	assert.Nil(t, m.logger)

	require.Len(t, m.locations, 1)
	assert.Equal(t, "/", m.locations[0].prefix)
	assert.Equal(t, config.DefaultExpires, m.locations[0].core.Expires())
	assert.Nil(t, m.scope, "construction state should be dropped")
}

func Test_WithSettings_Expires(t *testing.T) {
	expires := config.Seconds(90 * time.Second)
	m, err := New(WithSettings(config.Settings{SecureCookieExpires: &expires}))
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, m.locations[0].core.Expires())
}

func Test_WithErrorHandler(t *testing.T) {
	var gotErr error
	m, err := New(
		WithRequireValid(true),
		WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			gotErr = err
			w.WriteHeader(http.StatusTeapot)
		}),
	)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	m.Handler(http.NotFoundHandler()).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, recorder.Code)
	assert.ErrorIs(t, gotErr, ErrCookieMissing)
}

func Test_WithVariable(t *testing.T) {
	m, err := New(
		WithVariable("session_secret", core.EvaluatorFunc(func(r *core.Request) (core.Value, error) {
			return core.ValueOf([]byte(testSecret)), nil
		})),
		WithSettings(config.Settings{
			SecureCookie:    config.String("$cookie_auth"),
			SecureCookieMD5: config.String("$remote_addr $session_secret"),
		}),
		WithClock(testClock),
	)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: "auth", Value: digestOf(testBase)})
	recorder := httptest.NewRecorder()

	m.Handler(echoVariables(VarSecureCookie, "session_secret")).ServeHTTP(recorder, request)

	assert.Equal(t, "secure_cookie=1\nsession_secret="+testSecret+"\n", recorder.Body.String())
}

func Test_WithLogger(t *testing.T) {
	logger := &mockLogger{}
	m, err := New(
		WithSettings(testSettings()),
		WithRequireValid(true),
		WithLogger(logger),
		WithExclusionUrls([]string{"/health"}),
	)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	m.Handler(http.NotFoundHandler()).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: "auth", Value: "garbage"})
	m.Handler(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), request)

	assert.Contains(t, logger.messages("debug"), "skipping variables for excluded URL")
	assert.Contains(t, logger.messages("debug"), "token rejected", "core should log through the same logger")
	assert.Contains(t, logger.messages("warn"), "signed cookie check failed")
}

func Test_SentinelErrors(t *testing.T) {
	assert.Equal(t, "config cannot be nil", ErrConfigNil.Error())
	assert.Equal(t, "errorHandler cannot be nil", ErrErrorHandlerNil.Error())
	assert.Equal(t, "exclusion URLs list cannot be empty", ErrExclusionUrlsEmpty.Error())
	assert.Equal(t, "max body size must be positive", ErrMaxBodySizeInvalid.Error())
	assert.Equal(t, "logger cannot be nil", ErrLoggerNil.Error())
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

type mockLogger struct {
	entries []logEntry
}

func (l *mockLogger) Debug(msg string, args ...any) { l.log("debug", msg, args) }
func (l *mockLogger) Info(msg string, args ...any)  { l.log("info", msg, args) }
func (l *mockLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args) }
func (l *mockLogger) Error(msg string, args ...any) { l.log("error", msg, args) }

func (l *mockLogger) log(level, msg string, args []any) {
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *mockLogger) messages(level string) []string {
	var msgs []string
	for _, e := range l.entries {
		if e.level == level {
			msgs = append(msgs, e.msg)
		}
	}
	return msgs
}
