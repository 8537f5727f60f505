package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/auth0/go-cookie-middleware/config"
	"github.com/auth0/go-cookie-middleware/core"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := BuildRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()
	return out.String(), err
}

func TestIssueAndVerify(t *testing.T) {
	digest := core.Sum([]byte("127.0.0.1 s3cr3t")).String()

	out, err := execute(t, "", "issue", "--base", "127.0.0.1 s3cr3t", "--expires", "1h", "--now", "1700000000")
	require.NoError(t, err)
	assert.Equal(t, digest+",1700003600\n", out)

	out, err = execute(t, "", "issue", "-b", "127.0.0.1 s3cr3t", "--no-expiry")
	require.NoError(t, err)
	assert.Equal(t, digest+"\n", out)

	testCases := []struct {
		name    string
		token   string
		now     string
		want    string
		wantErr bool
	}{
		{
			name:  "valid",
			token: digest + ",1700003600",
			now:   "1700003600",
			want:  "valid\n",
		},
		{
			name:    "expired",
			token:   digest + ",1700003600",
			now:     "1700003601",
			want:    "invalid: token_expired\n",
			wantErr: true,
		},
		{
			name:    "wrong base",
			token:   core.Sum([]byte("other")).String(),
			now:     "1700000000",
			want:    "invalid: invalid_signature\n",
			wantErr: true,
		},
		{
			name:    "malformed",
			token:   "abc,notanumber",
			now:     "1700000000",
			want:    "malformed: expiry_invalid\n",
			wantErr: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			out, err := execute(t, "", "verify", "--base", "127.0.0.1 s3cr3t", "--now", testCase.now, testCase.token)
			assert.Equal(t, testCase.want, out)
			if testCase.wantErr {
				assert.ErrorIs(t, err, errTokenRejected)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIssue_InvalidExpires(t *testing.T) {
	_, err := execute(t, "", "issue", "--base", "x", "--expires", "-5")
	assert.Error(t, err)
}

func TestExtract(t *testing.T) {
	out, err := execute(t, "recaptcha_challenge_field=abc&recaptcha_response_field=xyz", "extract")
	require.NoError(t, err)
	assert.Equal(t, "xyz\n", out)

	out, err = execute(t, "a=1&b=2", "extract", "--field", "$b", "-")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	_, err = execute(t, "a=1", "extract", "-f", "b")
	assert.ErrorIs(t, err, errFieldNotFound)

	path := filepath.Join(t.TempDir(), "body")
	require.NoError(t, os.WriteFile(path, []byte("user=alice\r\n"), 0o600))
	out, err = execute(t, "", "extract", "-f", "user", path)
	require.NoError(t, err)
	assert.Equal(t, "alice\n", out)
}

func TestServeHandler(t *testing.T) {
	scope, err := config.Load(strings.NewReader(`
secure_cookie: "$cookie_auth"
secure_cookie_md5: "$remote_addr s3cr3t"
`))
	require.NoError(t, err)

	handler, err := newServeHandler(scope, prometheus.NewRegistry(), zap.NewNop(), "auth", true)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusNoContent, recorder.Code)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("recaptcha_response_field=r"))
	request.AddCookie(cookies[0])
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var got map[string]*string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.NotNil(t, got["secure_cookie"])
	assert.Equal(t, "1", *got["secure_cookie"])
	require.NotNil(t, got["recaptcha_response"])
	assert.Equal(t, "r", *got["recaptcha_response"])
	assert.Nil(t, got["recaptcha_challenge"])

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `cookiemiddleware_evaluations_total{result="valid",variable="secure_cookie"}`)
}
