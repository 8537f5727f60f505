package core

import (
	"errors"
	"strconv"
	"time"
)

// Logger defines an optional logging interface for the core.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Core verifies and issues signed cookie tokens.
// It is immutable after New and safe for concurrent use.
type Core struct {
	expires time.Duration
	now     func() time.Time
	logger  Logger
}

// CheckToken validates token against the digest of base.
//
// It returns (true, nil) for a matching, unexpired token. Otherwise the
// returned *ValidationError tells the caller which outcome applies: errors
// matching ErrTokenMalformed mean the result is undefined, errors matching
// ErrTokenInvalid mean a definite false.
func (c *Core) CheckToken(token string, base []byte) (bool, error) {
	t, d, err := c.decodeToken(token)
	if err != nil {
		return false, err
	}
	if err := c.verify(t, d, base); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Core) decodeToken(token string) (Token, Digest, error) {
	t, err := ParseToken(token)
	if err != nil {
		return Token{}, Digest{}, err
	}

	d, err := DecodeDigest(t.Digest)
	if err != nil {
		return Token{}, Digest{}, err
	}

	return t, d, nil
}

func (c *Core) verify(t Token, d Digest, base []byte) error {
	if !d.Equal(Sum(base)) {
		return NewValidationError(ErrorCodeInvalidSignature, "digest mismatch", nil)
	}

	if t.HasExpiry() && t.Expiry < c.now().Unix() {
		return NewValidationError(ErrorCodeTokenExpired, "token expired", nil)
	}

	return nil
}

// IssueDigest returns the padded base64 digest of base.
func (c *Core) IssueDigest(base []byte) string {
	return Sum(base).String()
}

// IssueExpiry returns the Unix time a token issued now expires at.
func (c *Core) IssueExpiry() int64 {
	return c.now().Add(c.expires).Unix()
}

// IssueToken returns "digest,expiry" for base, the format CheckToken accepts.
func (c *Core) IssueToken(base []byte) string {
	return Token{Digest: c.IssueDigest(base), Expiry: c.IssueExpiry()}.String()
}

// Expires returns the issuance window.
func (c *Core) Expires() time.Duration {
	return c.expires
}

type validEvaluator struct {
	core  *Core
	token Evaluator
	base  Evaluator
}

// ValidEvaluator returns the verification variable: "1" for a valid token,
// "0" for a wrong digest or an expired token, and not found when either
// expression is unconfigured or the token is malformed.
func (c *Core) ValidEvaluator(token, base Evaluator) Evaluator {
	return &validEvaluator{core: c, token: token, base: base}
}

func (e *validEvaluator) Evaluate(r *Request) (Value, error) {
	if e.token == nil || e.base == nil {
		return NotFound, nil
	}

	tv, err := e.token.Evaluate(r)
	if err != nil {
		return NotFound, err
	}
	if !tv.Found {
		return NotFound, nil
	}

	t, d, err := e.core.decodeToken(string(tv.Data))
	if err != nil {
		e.core.debug("token rejected", err)
		return NotFound, nil
	}

	bv, err := e.base.Evaluate(r)
	if err != nil {
		return NotFound, err
	}
	if !bv.Found {
		return NotFound, nil
	}

	if err := e.core.verify(t, d, bv.Data); err != nil {
		e.core.debug("token not valid", err)
		return BoolValue(false), nil
	}

	return BoolValue(true), nil
}

func (c *Core) debug(msg string, err error) {
	if c.logger == nil {
		return
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		c.logger.Debug(msg, "code", verr.Code, "error", err)
		return
	}
	c.logger.Debug(msg, "error", err)
}

type digestEvaluator struct {
	base Evaluator
}

// DigestEvaluator returns the issuance digest variable for the base-string
// expression. It is not found when base is unconfigured.
func (c *Core) DigestEvaluator(base Evaluator) Evaluator {
	return &digestEvaluator{base: base}
}

func (e *digestEvaluator) Evaluate(r *Request) (Value, error) {
	if e.base == nil {
		return NotFound, nil
	}

	bv, err := e.base.Evaluate(r)
	if err != nil {
		return NotFound, err
	}
	if !bv.Found {
		return NotFound, nil
	}

	return ValueOf(Sum(bv.Data).AppendEncoded(r.Arena().Alloc(EncodedDigestSize))), nil
}

// ExpiresEvaluator returns the issuance expiry variable, the decimal Unix
// time of now plus the configured window.
func (c *Core) ExpiresEvaluator() Evaluator {
	return EvaluatorFunc(func(r *Request) (Value, error) {
		return ValueOf(strconv.AppendInt(r.Arena().Alloc(20), c.IssueExpiry(), 10)), nil
	})
}
