package duoweb

import (
	"fmt"
	"strings"
	"time"
)

// VerificationRequest holds the inputs of one VerifyResponse call.
type VerificationRequest struct {
	IntegrationKey string
	SecretKey      string
	ApplicationKey string
	Response       string
}

// VerifyOption customizes VerifyResponse.
type VerifyOption func(*verifyOptions)

type verifyOptions struct {
	reasonHook func(reason error)
}

// WithReasonHook registers fn to receive the internal cause of a failed
// verification (one of the Err* causes, wrapped with the failing token).
// It is meant for logs and metrics; never forward the reason to the client.
func WithReasonHook(fn func(reason error)) VerifyOption {
	return func(o *verifyOptions) {
		o.reasonHook = fn
	}
}

// VerifyResponse checks the "authToken:appToken" string returned by the Duo
// widget at time now and returns the authenticated username.
//
// Any failure yields ErrVerificationFailed and an empty username.
func VerifyResponse(req VerificationRequest, now time.Time, opts ...VerifyOption) (string, error) {
	o := &verifyOptions{}
	for _, opt := range opts {
		opt(o)
	}

	user, reason := verifyResponse(req, now)
	if reason != nil {
		if o.reasonHook != nil {
			o.reasonHook(reason)
		}
		return "", ErrVerificationFailed
	}

	return user, nil
}

func verifyResponse(req VerificationRequest, now time.Time) (string, error) {
	sigs := strings.Split(req.Response, tokenSep)
	if len(sigs) != 2 {
		return "", ErrMalformedResponse
	}

	authUser, err := parseToken(req.SecretKey, sigs[0], PrefixAuth, req.IntegrationKey, now)
	if err != nil {
		return "", fmt.Errorf("auth token: %w", err)
	}

	appUser, err := parseToken(req.ApplicationKey, sigs[1], PrefixApp, req.IntegrationKey, now)
	if err != nil {
		return "", fmt.Errorf("app token: %w", err)
	}

	if authUser != appUser {
		return "", ErrSubjectMismatch
	}

	return authUser, nil
}
