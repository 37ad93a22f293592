package duoweb

import (
	"errors"
	"fmt"
)

// Signing errors. They describe operator misconfiguration and must not be
// shown to the end user.
var (
	ErrInvalidUsername       = errors.New("duoweb: the username passed to sign request is invalid")
	ErrInvalidIntegrationKey = fmt.Errorf("duoweb: the integration key must be %d characters", IntegrationKeyLength)
	ErrInvalidSecretKey      = fmt.Errorf("duoweb: the secret key must be %d characters", SecretKeyLength)
	ErrInvalidApplicationKey = fmt.Errorf("duoweb: the application key must be at least %d characters", MinApplicationKeyLength)
	ErrSigningFailed         = errors.New("duoweb: an unknown error has occurred while signing")
)

// ErrVerificationFailed is the only error VerifyResponse returns.
var ErrVerificationFailed = errors.New("duoweb: verification failed")

// Verification failure causes, reported through WithReasonHook only.
var (
	ErrMalformedResponse = errors.New("response is not two colon separated tokens")
	ErrMalformedToken    = errors.New("token is not three pipe separated parts")
	ErrBadSignature      = errors.New("token signature mismatch")
	ErrPrefixMismatch    = errors.New("token prefix mismatch")
	ErrMalformedEncoding = errors.New("token payload is not valid base64")
	ErrInvalidUTF8       = errors.New("token payload is not valid utf-8")
	ErrMalformedPayload  = errors.New("token payload is not three pipe separated fields")
	ErrBindingMismatch   = errors.New("token integration key mismatch")
	ErrMalformedExpiry   = errors.New("token expiry is not an integer")
	ErrExpired           = errors.New("token expired")
	ErrSubjectMismatch   = errors.New("token subjects differ")
)

// SigningError reports an unexpected failure while building the request
// tokens. It matches ErrSigningFailed with errors.Is and unwraps to its cause.
type SigningError struct {
	Cause error
}

// Error implements the error interface.
func (e *SigningError) Error() string {
	if e.Cause == nil {
		return ErrSigningFailed.Error()
	}
	return ErrSigningFailed.Error() + " (" + e.Cause.Error() + ")"
}

// Is reports whether target is ErrSigningFailed.
func (e *SigningError) Is(target error) bool {
	return target == ErrSigningFailed
}

// Unwrap returns the underlying cause.
func (e *SigningError) Unwrap() error {
	return e.Cause
}
