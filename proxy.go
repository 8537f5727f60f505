package cookiemiddleware

import (
	"net"
	"net/http"
	"strings"
)

// TrustedProxyConfig defines which reverse proxy headers remote_addr and
// host are taken from.
//
// SECURITY WARNING: Only enable when behind a trusted reverse proxy!
// A client that can set these headers directly can choose its remote_addr,
// and with it the base string of an address-bound cookie.
//
// Secure by default: nil config means NO headers are trusted. The RFC 7239
// Forwarded header takes precedence over X-Forwarded-* when both are
// enabled. The leftmost value of a multi-proxy chain is used. Empty or
// malformed headers fall back to the connection values.
type TrustedProxyConfig struct {
	// TrustXForwardedFor enables X-Forwarded-For for remote_addr.
	TrustXForwardedFor bool

	// TrustXForwardedHost enables X-Forwarded-Host for host.
	TrustXForwardedHost bool

	// TrustForwarded enables the for= and host= parameters of the RFC 7239
	// Forwarded header.
	TrustForwarded bool
}

// hasAnyTrustedHeaders returns true if any header trust flags are enabled
func (c *TrustedProxyConfig) hasAnyTrustedHeaders() bool {
	if c == nil {
		return false
	}
	return c.TrustXForwardedFor ||
		c.TrustXForwardedHost ||
		c.TrustForwarded
}

// WithTrustedProxies configures trusted proxy headers for remote_addr and host.
//
// Example:
//
//	middleware, err := cookiemiddleware.New(
//	    cookiemiddleware.WithConfig(scope),
//	    cookiemiddleware.WithTrustedProxies(&cookiemiddleware.TrustedProxyConfig{
//	        TrustXForwardedFor: true,
//	    }),
//	)
func WithTrustedProxies(config *TrustedProxyConfig) Option {
	return func(m *Middleware) error {
		if !config.hasAnyTrustedHeaders() {
			m.trustedProxies = nil
			return nil
		}
		m.trustedProxies = config
		return nil
	}
}

// WithStandardProxy configures trust for standard reverse proxies (Nginx,
// Apache, HAProxy): X-Forwarded-For and X-Forwarded-Host.
func WithStandardProxy() Option {
	return WithTrustedProxies(&TrustedProxyConfig{
		TrustXForwardedFor:  true,
		TrustXForwardedHost: true,
	})
}

// WithRFC7239Proxy configures trust for the RFC 7239 Forwarded header.
func WithRFC7239Proxy() Option {
	return WithTrustedProxies(&TrustedProxyConfig{
		TrustForwarded: true,
	})
}

// clientAddr returns the address remote_addr reports for r.
func clientAddr(r *http.Request, config *TrustedProxyConfig) string {
	if config.hasAnyTrustedHeaders() {
		if config.TrustForwarded {
			if forwarded := r.Header.Get("Forwarded"); forwarded != "" {
				if addr, _ := parseForwardedHeader(forwarded); addr != "" {
					return addr
				}
			}
		}
		if config.TrustXForwardedFor {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				if addr := getLeftmost(xff); addr != "" {
					return addr
				}
			}
		}
	}
	return remoteIP(r.RemoteAddr)
}

// clientHost returns the host the host variable reports for r.
func clientHost(r *http.Request, config *TrustedProxyConfig) string {
	if config.hasAnyTrustedHeaders() {
		if config.TrustForwarded {
			if forwarded := r.Header.Get("Forwarded"); forwarded != "" {
				if _, host := parseForwardedHeader(forwarded); host != "" {
					return host
				}
			}
		}
		if config.TrustXForwardedHost {
			if xfh := r.Header.Get("X-Forwarded-Host"); xfh != "" {
				if host := getLeftmost(xfh); host != "" {
					return host
				}
			}
		}
	}
	return r.Host
}

// getLeftmost extracts the leftmost value from a comma-separated header.
// The leftmost value is closest to the client.
func getLeftmost(header string) string {
	first, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(first)
}

// parseForwardedHeader parses the first element of an RFC 7239 Forwarded
// header, e.g. `for="[2001:db8::1]:4711";proto=https;host=example.com`.
// The port of the for= node is dropped; obfuscated and "unknown" nodes
// yield an empty addr.
func parseForwardedHeader(forwarded string) (addr, host string) {
	entry := getLeftmost(forwarded)

	for _, part := range strings.Split(entry, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)

		switch strings.ToLower(key) {
		case "for":
			addr = forwardedNode(value)
		case "host":
			host = value
		}
	}

	return addr, host
}

func forwardedNode(node string) string {
	if h, _, err := net.SplitHostPort(node); err == nil {
		node = h
	}
	node = strings.TrimSuffix(strings.TrimPrefix(node, "["), "]")
	if net.ParseIP(node) == nil {
		return ""
	}
	return node
}
