package core

import (
	"strconv"
	"strings"
)

// Token is a parsed cookie value of the form "digest[,expiry]".
type Token struct {
	// Digest is the base64 digest candidate, not yet decoded.
	Digest string

	// Expiry is the Unix time after which the token is stale.
	// Zero means the token does not expire.
	Expiry int64
}

// ParseToken splits s on its first comma. When a comma is present the suffix
// must be a strictly positive decimal integer, otherwise the whole token is
// malformed.
func ParseToken(s string) (Token, error) {
	digest, expiry, ok := strings.Cut(s, ",")
	if !ok {
		return Token{Digest: s}, nil
	}

	exp, err := parseExpiry(expiry)
	if err != nil {
		return Token{}, err
	}

	return Token{Digest: digest, Expiry: exp}, nil
}

// HasExpiry reports whether the token carries an expiry.
func (t Token) HasExpiry() bool {
	return t.Expiry > 0
}

// String returns the cookie form of the token.
func (t Token) String() string {
	if !t.HasExpiry() {
		return t.Digest
	}
	return t.Digest + "," + strconv.FormatInt(t.Expiry, 10)
}

func parseExpiry(s string) (int64, error) {
	if s == "" {
		return 0, NewValidationError(ErrorCodeExpiryInvalid, "expiry is empty", nil)
	}

	// strconv accepts a leading sign; an expiry is digits only.
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, NewValidationError(ErrorCodeExpiryInvalid, "expiry is not a number", nil)
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, NewValidationError(ErrorCodeExpiryInvalid, "expiry is out of range", err)
	}
	if n <= 0 {
		return 0, NewValidationError(ErrorCodeExpiryInvalid, "expiry must be positive", nil)
	}

	return n, nil
}
