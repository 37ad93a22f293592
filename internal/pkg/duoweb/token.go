package duoweb

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shandysiswandi/duoweb/internal/pkg/hash"
)

// Token prefixes. A prefix is part of the signed body so a token minted for
// one purpose cannot be replayed as another.
const (
	PrefixDuo  = "TX"
	PrefixApp  = "APP"
	PrefixAuth = "AUTH"
)

// Token lifetimes.
const (
	DuoTokenLifetime = 300 * time.Second
	AppTokenLifetime = 3600 * time.Second
)

// Key length constraints enforced by SignRequest.
const (
	IntegrationKeyLength    = 20
	SecretKeyLength         = 40
	MinApplicationKeyLength = 40
)

const (
	fieldSep = "|"
	tokenSep = ":"
)

var errInvalidUTF8 = errors.New("payload is not valid utf-8")

// payload is the plaintext carried inside a token. subject never contains fieldSep.
type payload struct {
	subject   string
	bindingID string
	expiresAt int64
}

func (p payload) String() string {
	return p.subject + fieldSep + p.bindingID + fieldSep + strconv.FormatInt(p.expiresAt, 10)
}

// token is the prefix|payload|signature triple. sig is lowercase hex of
// hash.HMACSHA1Size characters over body().
type token struct {
	prefix  string
	payload string
	sig     string
}

func (t token) body() string {
	return t.prefix + fieldSep + t.payload
}

func (t token) String() string {
	return t.body() + fieldSep + t.sig
}

func splitToken(raw string) (token, error) {
	parts := strings.Split(raw, fieldSep)
	if len(parts) != 3 {
		return token{}, ErrMalformedToken
	}

	return token{prefix: parts[0], payload: parts[1], sig: parts[2]}, nil
}

// buildToken signs subject and bindingID under key with an expiry of now+lifetime.
func buildToken(key, prefix string, lifetime time.Duration, subject, bindingID string, now time.Time) (string, error) {
	p := payload{
		subject:   subject,
		bindingID: bindingID,
		expiresAt: now.Unix() + int64(lifetime/time.Second),
	}

	plain := p.String()
	if !utf8.ValidString(plain) {
		return "", errInvalidUTF8
	}

	t := token{prefix: prefix, payload: Encode([]byte(plain))}

	sig, err := hash.NewHMACSHA1(key).Hash(t.body())
	if err != nil {
		return "", err
	}
	t.sig = string(sig)

	return t.String(), nil
}

// parseToken checks raw against key, prefix, bindingID and now, in that
// order, and returns the subject it carries.
func parseToken(key, raw, prefix, bindingID string, now time.Time) (string, error) {
	t, err := splitToken(raw)
	if err != nil {
		return "", err
	}

	if !hash.NewHMACSHA1(key).Verify(t.sig, t.body()) {
		return "", ErrBadSignature
	}

	if t.prefix != prefix {
		return "", ErrPrefixMismatch
	}

	plain, err := Decode(t.payload)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plain) {
		return "", ErrInvalidUTF8
	}

	fields := strings.Split(string(plain), fieldSep)
	if len(fields) != 3 {
		return "", ErrMalformedPayload
	}

	if fields[1] != bindingID {
		return "", ErrBindingMismatch
	}

	expiresAt, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return "", ErrMalformedExpiry
	}

	// inclusive: a token is already expired at the instant expiresAt
	if now.Unix() >= expiresAt {
		return "", ErrExpired
	}

	return fields[0], nil
}
