package cookiemiddleware

import (
	"fmt"

	"github.com/auth0/go-cookie-middleware/config"
	"github.com/auth0/go-cookie-middleware/core"
	"github.com/auth0/go-cookie-middleware/internal/expr"
)

// Names of the variables the middleware registers in every location.
const (
	// VarSecureCookie is "1" for a valid token, "0" for a wrong or expired
	// one, and not found when the token is missing or malformed.
	VarSecureCookie = "secure_cookie"

	// VarSecureCookieDigest is the digest to put in a newly issued cookie.
	VarSecureCookieDigest = "secure_cookie_set_md5"

	// VarSecureCookieExpires is the expiry to put in a newly issued cookie.
	VarSecureCookieExpires = "secure_cookie_set_expires"

	// VarRecaptchaChallenge and VarRecaptchaResponse hold the configured
	// challenge and response fields of a submitted form.
	VarRecaptchaChallenge = "recaptcha_challenge"
	VarRecaptchaResponse  = "recaptcha_response"
)

// location is a configured scope compiled into a registry.
type location struct {
	prefix   string
	settings config.Settings
	core     *core.Core
	registry *core.Registry
}

func (m *Middleware) buildLocation(l config.Location) (*location, error) {
	s := l.Settings

	coreOpts := append([]core.Option{core.WithExpires(s.Expires())}, m.coreOpts...)
	if m.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(m.logger))
	}
	c, err := core.New(coreOpts...)
	if err != nil {
		return nil, err
	}

	reg := core.NewRegistry()
	for _, v := range m.variables {
		if err := reg.Register(v.name, v.eval); err != nil {
			return nil, err
		}
	}

	body, err := reg.Ref(core.VarRequestBody)
	if err != nil {
		return nil, err
	}

	fields := append([]config.Field{
		{Variable: VarRecaptchaChallenge, Name: s.ChallengeField()},
		{Variable: VarRecaptchaResponse, Name: s.ResponseField()},
	}, s.Fields()...)
	for _, f := range fields {
		if err := reg.Register(f.Variable, m.instrument(f.Variable, core.FormFieldEvaluator(body, f.Name))); err != nil {
			return nil, err
		}
	}

	token, err := compile(s.SecureCookie, reg)
	if err != nil {
		return nil, err
	}
	base, err := compile(s.SecureCookieMD5, reg)
	if err != nil {
		return nil, err
	}

	for name, e := range map[string]core.Evaluator{
		VarSecureCookie:        c.ValidEvaluator(token, base),
		VarSecureCookieDigest:  c.DigestEvaluator(base),
		VarSecureCookieExpires: c.ExpiresEvaluator(),
	} {
		if err := reg.Register(name, m.instrument(name, e)); err != nil {
			return nil, err
		}
	}

	return &location{prefix: l.Prefix, settings: s, core: c, registry: reg}, nil
}

// compile returns a nil Evaluator for an unset expression so the
// evaluators built on it report not found.
func compile(src *string, reg *core.Registry) (core.Evaluator, error) {
	if src == nil {
		return nil, nil
	}
	x, err := expr.Compile(*src, reg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}
	return x, nil
}
