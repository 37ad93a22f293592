package entity

import "github.com/shandysiswandi/duoweb/internal/pkg/duoweb"

// Credentials are the keys of one Duo Web integration plus the API host the
// browser widget talks to.
type Credentials struct {
	IntegrationKey string
	SecretKey      string
	ApplicationKey string
	APIHost        string
}

// SigningRequest builds the core request for username.
func (c Credentials) SigningRequest(username string) duoweb.SigningRequest {
	return duoweb.SigningRequest{
		IntegrationKey: c.IntegrationKey,
		SecretKey:      c.SecretKey,
		ApplicationKey: c.ApplicationKey,
		Username:       username,
	}
}

// VerificationRequest builds the core request for a widget response.
func (c Credentials) VerificationRequest(response string) duoweb.VerificationRequest {
	return duoweb.VerificationRequest{
		IntegrationKey: c.IntegrationKey,
		SecretKey:      c.SecretKey,
		ApplicationKey: c.ApplicationKey,
		Response:       response,
	}
}
