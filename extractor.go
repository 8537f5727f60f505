package cookiemiddleware

import (
	"net/http"
	"net/url"

	"github.com/auth0/go-cookie-middleware/core"
)

// httpSource exposes an *http.Request to the built-in variables.
type httpSource struct {
	r       *http.Request
	body    []byte
	hasBody bool
	query   url.Values
	proxies *TrustedProxyConfig
}

func newHTTPSource(r *http.Request, body []byte, hasBody bool, proxies *TrustedProxyConfig) core.Source {
	return &httpSource{r: r, body: body, hasBody: hasBody, proxies: proxies}
}

// NewHTTPSource returns a core.Source reading from r. The body is taken from
// body and is not found when hasBody is false; r.Body is never read.
// Forwarded headers are not trusted.
func NewHTTPSource(r *http.Request, body []byte, hasBody bool) core.Source {
	return newHTTPSource(r, body, hasBody, nil)
}

func (s *httpSource) Body() ([]byte, bool) {
	return s.body, s.hasBody
}

func (s *httpSource) Cookie(name string) (string, bool) {
	cookie, err := s.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

func (s *httpSource) Header(name string) (string, bool) {
	values := s.r.Header.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (s *httpSource) Arg(name string) (string, bool) {
	if s.query == nil {
		s.query = s.r.URL.Query()
	}
	values, ok := s.query[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (s *httpSource) RemoteAddr() string { return clientAddr(s.r, s.proxies) }
func (s *httpSource) Method() string     { return s.r.Method }
func (s *httpSource) URI() string        { return s.r.URL.Path }
func (s *httpSource) Host() string       { return clientHost(s.r, s.proxies) }
