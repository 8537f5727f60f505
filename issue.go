package cookiemiddleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/auth0/go-cookie-middleware/core"
)

// IssueCookie sets a freshly signed cookie on w. The value is
// "secure_cookie_set_md5,secure_cookie_set_expires" evaluated for r, and the
// cookie's Expires matches the token expiry. Name, Path, Domain and the
// remaining attributes are taken from tmpl.
//
// r must have passed through Middleware.Handler.
func IssueCookie(w http.ResponseWriter, r *http.Request, tmpl http.Cookie) error {
	creq, ok := core.RequestFromContext(r.Context())
	if !ok {
		return core.ErrNoRequest
	}

	digest, err := creq.Get(VarSecureCookieDigest)
	if err != nil {
		return err
	}
	expires, err := creq.Get(VarSecureCookieExpires)
	if err != nil {
		return err
	}
	if !digest.Found || !expires.Found {
		return ErrNotIssuable
	}

	exp, err := strconv.ParseInt(expires.String(), 10, 64)
	if err != nil {
		return err
	}

	cookie := tmpl
	cookie.Value = digest.String() + "," + expires.String()
	cookie.Expires = time.Unix(exp, 0)
	http.SetCookie(w, &cookie)
	return nil
}

// remoteIP strips the port from a RemoteAddr.
func remoteIP(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
