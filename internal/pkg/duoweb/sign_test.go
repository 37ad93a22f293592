package duoweb

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignRequest_Golden(t *testing.T) {
	t.Parallel()

	got, err := SignRequest(signingRequest(testUser), testNow)
	require.NoError(t, err)

	want := "TX|dGVzdHVzZXJ8RElXSjhYNkFFWU9SNU9NQzZUUTF8MTcwMDAwMDMwMA==|d3cb0bf2b3ad73bfbc455c27308ff47bcf6e54dd" +
		":" +
		"APP|dGVzdHVzZXJ8RElXSjhYNkFFWU9SNU9NQzZUUTF8MTcwMDAwMzYwMA==|22a3638199fdb3c0701847fc0378b19ae44201c4"
	assert.Equal(t, want, got)
}

func TestSignRequest_Shape(t *testing.T) {
	t.Parallel()

	got, err := SignRequest(signingRequest(testUser), testNow)
	require.NoError(t, err)

	halves := strings.Split(got, ":")
	require.Len(t, halves, 2)

	duo := strings.Split(halves[0], "|")
	app := strings.Split(halves[1], "|")
	require.Len(t, duo, 3)
	require.Len(t, app, 3)

	assert.Equal(t, PrefixDuo, duo[0])
	assert.Equal(t, PrefixApp, app[0])
	assert.Regexp(t, `^[0-9a-f]{40}$`, duo[2])
	assert.Regexp(t, `^[0-9a-f]{40}$`, app[2])

	assert.Equal(t, testNow.Unix()+300, expiryOf(t, halves[0]))
	assert.Equal(t, testNow.Unix()+3600, expiryOf(t, halves[1]))
}

func TestSignRequest_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(r *SigningRequest)
		wantErr error
	}{
		{name: "empty username", mutate: func(r *SigningRequest) { r.Username = "" }, wantErr: ErrInvalidUsername},
		{name: "username with pipe", mutate: func(r *SigningRequest) { r.Username = "ali|ce" }, wantErr: ErrInvalidUsername},
		{name: "integration key 19", mutate: func(r *SigningRequest) { r.IntegrationKey = testIKey[:19] }, wantErr: ErrInvalidIntegrationKey},
		{name: "integration key 21", mutate: func(r *SigningRequest) { r.IntegrationKey = testIKey + "X" }, wantErr: ErrInvalidIntegrationKey},
		{name: "secret key 39", mutate: func(r *SigningRequest) { r.SecretKey = testSKey[:39] }, wantErr: ErrInvalidSecretKey},
		{name: "secret key 41", mutate: func(r *SigningRequest) { r.SecretKey = testSKey + "X" }, wantErr: ErrInvalidSecretKey},
		{name: "application key 39", mutate: func(r *SigningRequest) { r.ApplicationKey = testAKey[:39] }, wantErr: ErrInvalidApplicationKey},
		{name: "application key empty", mutate: func(r *SigningRequest) { r.ApplicationKey = "" }, wantErr: ErrInvalidApplicationKey},
		{name: "username checked before keys", mutate: func(r *SigningRequest) { r.Username = ""; r.IntegrationKey = "" }, wantErr: ErrInvalidUsername},
		{name: "integration key checked before secret key", mutate: func(r *SigningRequest) { r.IntegrationKey = ""; r.SecretKey = "" }, wantErr: ErrInvalidIntegrationKey},
		{name: "secret key checked before application key", mutate: func(r *SigningRequest) { r.SecretKey = ""; r.ApplicationKey = "" }, wantErr: ErrInvalidSecretKey},
		{name: "exact lengths", mutate: func(*SigningRequest) {}},
		{name: "long application key", mutate: func(r *SigningRequest) { r.ApplicationKey = testAKey + testAKey }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := signingRequest(testUser)
			tt.mutate(&req)

			got, err := SignRequest(req, testNow)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got)
		})
	}
}

func TestSignRequest_SigningFailed(t *testing.T) {
	t.Parallel()

	got, err := SignRequest(signingRequest("bad\xffuser"), testNow)
	assert.Empty(t, got)
	require.ErrorIs(t, err, ErrSigningFailed)

	var serr *SigningError
	require.True(t, errors.As(err, &serr))
	assert.ErrorIs(t, serr.Cause, errInvalidUTF8)
	assert.Contains(t, err.Error(), "utf-8")
}

func TestSignRequest_FreshExpiryPerCall(t *testing.T) {
	t.Parallel()

	first, err := SignRequest(signingRequest(testUser), testNow)
	require.NoError(t, err)

	again, err := SignRequest(signingRequest(testUser), testNow)
	require.NoError(t, err)
	assert.Equal(t, first, again, "same now must give the same tokens")

	later, err := SignRequest(signingRequest(testUser), testNow.Add(time.Second))
	require.NoError(t, err)
	assert.NotEqual(t, first, later)
}
