package duoweb

import (
	"strings"
	"time"
)

// SigningRequest holds the inputs of one SignRequest call.
type SigningRequest struct {
	IntegrationKey string
	SecretKey      string
	ApplicationKey string
	Username       string
}

func (r SigningRequest) validate() error {
	if r.Username == "" || strings.Contains(r.Username, fieldSep) {
		return ErrInvalidUsername
	}
	if len(r.IntegrationKey) != IntegrationKeyLength {
		return ErrInvalidIntegrationKey
	}
	if len(r.SecretKey) != SecretKeyLength {
		return ErrInvalidSecretKey
	}
	if len(r.ApplicationKey) < MinApplicationKeyLength {
		return ErrInvalidApplicationKey
	}

	return nil
}

// SignRequest returns the "duoToken:appToken" string for req.Username,
// with expiries computed from now.
//
// Input problems are reported as ErrInvalidUsername, ErrInvalidIntegrationKey,
// ErrInvalidSecretKey or ErrInvalidApplicationKey, checked in that order.
// Anything else is a *SigningError.
func SignRequest(req SigningRequest, now time.Time) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	duoToken, err := buildToken(req.SecretKey, PrefixDuo, DuoTokenLifetime, req.Username, req.IntegrationKey, now)
	if err != nil {
		return "", &SigningError{Cause: err}
	}

	appToken, err := buildToken(req.ApplicationKey, PrefixApp, AppTokenLifetime, req.Username, req.IntegrationKey, now)
	if err != nil {
		return "", &SigningError{Cause: err}
	}

	return duoToken + tokenSep + appToken, nil
}
