package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a map-backed Source for tests.
type fakeSource struct {
	body    []byte
	hasBody bool
	cookies map[string]string
	headers map[string]string
	args    map[string]string
	addr    string
	method  string
	uri     string
	host    string
}

func (s *fakeSource) Body() ([]byte, bool) { return s.body, s.hasBody }

func (s *fakeSource) Cookie(name string) (string, bool) {
	v, ok := s.cookies[name]
	return v, ok
}

func (s *fakeSource) Header(name string) (string, bool) {
	v, ok := s.headers[name]
	return v, ok
}

func (s *fakeSource) Arg(name string) (string, bool) {
	v, ok := s.args[name]
	return v, ok
}

func (s *fakeSource) RemoteAddr() string { return s.addr }
func (s *fakeSource) Method() string     { return s.method }
func (s *fakeSource) URI() string        { return s.uri }
func (s *fakeSource) Host() string       { return s.host }

func TestBuiltinVariables(t *testing.T) {
	src := &fakeSource{
		body:    []byte("a=1"),
		hasBody: true,
		cookies: map[string]string{"auth": "tok"},
		headers: map[string]string{"x-forwarded-for": "10.0.0.1"},
		args:    map[string]string{"page": "2"},
		addr:    "192.0.2.1",
		method:  "POST",
		uri:     "/login",
		host:    "example.com",
	}

	r := NewRequest(context.Background(), NewRegistry(), src)
	defer r.Release()

	for name, want := range map[string]string{
		"request_body":         "a=1",
		"remote_addr":          "192.0.2.1",
		"request_method":       "POST",
		"uri":                  "/login",
		"host":                 "example.com",
		"cookie_auth":          "tok",
		"http_x_forwarded_for": "10.0.0.1",
		"arg_page":             "2",
	} {
		t.Run(name, func(t *testing.T) {
			v, err := r.Get(name)
			require.NoError(t, err)
			assert.True(t, v.Found)
			assert.Equal(t, want, v.String())
		})
	}

	t.Run("missing cookie is not found", func(t *testing.T) {
		v, err := r.Get("cookie_other")
		require.NoError(t, err)
		assert.False(t, v.Found)
	})

	t.Run("absent body is not found", func(t *testing.T) {
		r := NewRequest(context.Background(), NewRegistry(), &fakeSource{})
		defer r.Release()

		v, err := r.Get("request_body")
		require.NoError(t, err)
		assert.False(t, v.Found)
	})
}
