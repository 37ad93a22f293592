package hash

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // HMAC-SHA1 is mandated by the Duo Web signature format
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	stdhash "hash"
)

// HMACSHA1Size is the length of the lowercase hex digest produced by HMACSHA1.
const HMACSHA1Size = sha1.Size * 2

// HMAC implements Hash as a lowercase hex HMAC digest.
type HMAC struct {
	secret []byte
	digest func() stdhash.Hash
}

// NewHMACSHA1 returns an HMAC-SHA1 hasher keyed with secret. Digests are
// always HMACSHA1Size characters long.
func NewHMACSHA1(secret string) *HMAC {
	return &HMAC{secret: []byte(secret), digest: sha1.New}
}

// NewHMACSHA256 returns an HMAC-SHA256 hasher keyed with secret.
func NewHMACSHA256(secret string) *HMAC {
	return &HMAC{secret: []byte(secret), digest: sha256.New}
}

// Hash returns the hex digest of str. It never fails.
func (s *HMAC) Hash(str string) ([]byte, error) {
	return s.sum(str), nil
}

// Verify checks whether hashed is the hex digest of str, in constant time.
func (s *HMAC) Verify(hashed, str string) bool {
	return subtle.ConstantTimeCompare([]byte(hashed), s.sum(str)) == 1
}

func (s *HMAC) sum(str string) []byte {
	mac := hmac.New(s.digest, s.secret)
	mac.Write([]byte(str))
	return hex.AppendEncode(nil, mac.Sum(nil))
}
