package core

import (
	"crypto/md5" //nolint:gosec // the cookie format is fixed to MD5
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

const (
	// DigestSize is the size in bytes of a token digest.
	DigestSize = md5.Size

	// EncodedDigestSize is the length of a padded base64 digest.
	EncodedDigestSize = 24
)

// Digest is the unkeyed MD5 of a base string.
//
// The digest carries no key of its own: it is only as secret as the seed the
// base-string expression mixes in. Tokens issued by earlier deployments depend
// on this exact construction, so it is not replaced by an HMAC here.
type Digest [DigestSize]byte

// Sum hashes base.
func Sum(base []byte) Digest {
	return md5.Sum(base) //nolint:gosec
}

// String returns the padded standard base64 form, always EncodedDigestSize bytes.
func (d Digest) String() string {
	return base64.StdEncoding.EncodeToString(d[:])
}

// AppendEncoded appends the padded standard base64 form to dst.
func (d Digest) AppendEncoded(dst []byte) []byte {
	return base64.StdEncoding.AppendEncode(dst, d[:])
}

// Equal compares two digests in constant time.
func (d Digest) Equal(other Digest) bool {
	return subtle.ConstantTimeCompare(d[:], other[:]) == 1
}

// DecodeDigest decodes a padded standard base64 digest.
// Encodings longer than EncodedDigestSize, non-canonical encodings and
// encodings that do not decode to exactly DigestSize bytes are rejected.
func DecodeDigest(s string) (Digest, error) {
	var d Digest

	if len(s) > EncodedDigestSize {
		return d, NewValidationError(ErrorCodeDigestTooLong, "digest encoding too long", nil)
	}

	// The decoder silently skips CR and LF even in strict mode.
	if strings.ContainsAny(s, "\r\n") {
		return d, NewValidationError(ErrorCodeDigestEncoding, "digest is not valid base64", nil)
	}

	var buf [EncodedDigestSize]byte
	n, err := base64.StdEncoding.Strict().Decode(buf[:], []byte(s))
	if err != nil {
		return d, NewValidationError(ErrorCodeDigestEncoding, "digest is not valid base64", err)
	}
	if n != DigestSize {
		return d, NewValidationError(ErrorCodeDigestLength, "digest has wrong length", nil)
	}

	copy(d[:], buf[:n])
	return d, nil
}
