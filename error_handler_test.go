package cookiemiddleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/auth0/go-cookie-middleware/core"
)

func TestDefaultErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "ErrCookieMissing",
			err:        ErrCookieMissing,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Signed cookie is missing."}`,
		},
		{
			name:       "ErrCookieInvalid",
			err:        ErrCookieInvalid,
			wantStatus: http.StatusForbidden,
			wantBody:   `{"message":"Signed cookie is invalid."}`,
		},
		{
			name:       "wrapped ErrCookieInvalid",
			err:        fmt.Errorf("location /download: %w", ErrCookieInvalid),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"message":"Signed cookie is invalid."}`,
		},
		{
			name:       "ErrBodyTooLarge",
			err:        ErrBodyTooLarge,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantBody:   `{"message":"Request body is too large."}`,
		},
		{
			name:       "evaluation failure",
			err:        fmt.Errorf("evaluating %q: %w", "secure_cookie", errors.New("backend down")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Something went wrong while checking the signed cookie."}`,
		},
		{
			name:       "no variable scope",
			err:        core.ErrNoRequest,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Something went wrong while checking the signed cookie."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			DefaultErrorHandler(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}
