package grpc

import (
	"context"
	"net"
	"net/http"

	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"

	"github.com/auth0/go-cookie-middleware/core"
)

// metadataSource exposes incoming gRPC metadata to the built-in variables.
type metadataSource struct {
	md      metadata.MD
	method  string
	peer    string
	cookies []*http.Cookie
	parsed  bool
}

// NewMetadataSource returns a core.Source reading from the incoming metadata
// and peer of ctx. method is reported as the request URI.
func NewMetadataSource(ctx context.Context, method string) core.Source {
	md, _ := metadata.FromIncomingContext(ctx)

	s := &metadataSource{md: md, method: method}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		s.peer = p.Addr.String()
	}
	return s
}

func (s *metadataSource) Body() ([]byte, bool) {
	return nil, false
}

func (s *metadataSource) Cookie(name string) (string, bool) {
	if !s.parsed {
		s.parsed = true
		for _, line := range s.md.Get("cookie") {
			cookies, err := http.ParseCookie(line)
			if err != nil {
				continue
			}
			s.cookies = append(s.cookies, cookies...)
		}
	}

	for _, c := range s.cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func (s *metadataSource) Header(name string) (string, bool) {
	values := s.md.Get(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (s *metadataSource) Arg(string) (string, bool) {
	return "", false
}

func (s *metadataSource) RemoteAddr() string {
	host, _, err := net.SplitHostPort(s.peer)
	if err != nil {
		return s.peer
	}
	return host
}

func (s *metadataSource) Method() string { return http.MethodPost }
func (s *metadataSource) URI() string    { return s.method }

func (s *metadataSource) Host() string {
	if v, ok := s.Header(":authority"); ok {
		return v
	}
	v, _ := s.Header("host")
	return v
}
