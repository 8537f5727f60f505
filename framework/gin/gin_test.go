package cookiegin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cookiemiddleware "github.com/auth0/go-cookie-middleware"
	"github.com/auth0/go-cookie-middleware/config"
	"github.com/auth0/go-cookie-middleware/core"
)

// httptest.NewRequest uses 192.0.2.1:1234 as the remote address.
var validCookie = core.Sum([]byte("192.0.2.1 s3cr3t")).String()

func newMiddleware(t *testing.T, opts ...cookiemiddleware.Option) *cookiemiddleware.Middleware {
	t.Helper()

	m, err := cookiemiddleware.New(append([]cookiemiddleware.Option{
		cookiemiddleware.WithSettings(config.Settings{
			SecureCookie:    config.String("$cookie_auth"),
			SecureCookieMD5: config.String("$remote_addr s3cr3t"),
		}),
	}, opts...)...)
	require.NoError(t, err)
	return m
}

func Test_NewGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name           string
		middleware     []cookiemiddleware.Option
		options        []Option
		cookie         string
		body           string
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "valid cookie",
			cookie:         validCookie,
			body:           "recaptcha_response_field=r1",
			wantStatusCode: http.StatusOK,
			wantBody:       `{"response":"r1","valid":true}`,
		},
		{
			name:           "variables only without a cookie",
			wantStatusCode: http.StatusOK,
			wantBody:       `{"response":"","valid":false}`,
		},
		{
			name:           "missing cookie with enforcement",
			middleware:     []cookiemiddleware.Option{cookiemiddleware.WithRequireValid(true)},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"message":"Signed cookie is missing."}`,
		},
		{
			name:           "invalid cookie with enforcement",
			middleware:     []cookiemiddleware.Option{cookiemiddleware.WithRequireValid(true)},
			cookie:         core.Sum([]byte("other")).String(),
			wantStatusCode: http.StatusForbidden,
			wantBody:       `{"message":"Signed cookie is invalid."}`,
		},
		{
			name:           "body too large",
			middleware:     []cookiemiddleware.Option{cookiemiddleware.WithMaxBodySize(4)},
			body:           "recaptcha_response_field=r1",
			wantStatusCode: http.StatusRequestEntityTooLarge,
			wantBody:       `{"message":"Request body is too large."}`,
		},
		{
			name:       "custom error handler",
			middleware: []cookiemiddleware.Option{cookiemiddleware.WithRequireValid(true)},
			options: []Option{
				WithErrorHandler(func(c *gin.Context, err error) {
					c.AbortWithStatusJSON(http.StatusTeapot, gin.H{"error": err.Error()})
				}),
			},
			wantStatusCode: http.StatusTeapot,
			wantBody:       `{"error":"signed cookie missing"}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			router := gin.New()
			router.Use(NewGinMiddleware(newMiddleware(t, testCase.middleware...), testCase.options...))
			router.POST("/test", func(c *gin.Context) {
				v, err := Get(c, cookiemiddleware.VarRecaptchaResponse)
				require.NoError(t, err)
				c.JSON(http.StatusOK, gin.H{"valid": Valid(c), "response": v.String()})
			})

			request := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(testCase.body))
			if testCase.cookie != "" {
				request.AddCookie(&http.Cookie{Name: "auth", Value: testCase.cookie})
			}
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, request)

			assert.Equal(t, testCase.wantStatusCode, recorder.Code)
			assert.Equal(t, testCase.wantBody, recorder.Body.String())
		})
	}
}
