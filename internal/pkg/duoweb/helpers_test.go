package duoweb

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/duoweb/internal/pkg/hash"
	"github.com/stretchr/testify/require"
)

const (
	testIKey = "DIWJ8X6AEYOR5OMC6TQ1"
	testSKey = "Zh5eGmUq9zpfQnyUIu5OL9iWoMMv5ZNmk3zLJ4Ep"
	testAKey = "useacustomerprovidedapplicationsecretkey"
	testUser = "testuser"
)

var testNow = time.Unix(1_700_000_000, 0)

func signingRequest(user string) SigningRequest {
	return SigningRequest{
		IntegrationKey: testIKey,
		SecretKey:      testSKey,
		ApplicationKey: testAKey,
		Username:       user,
	}
}

func verificationRequest(response string) VerificationRequest {
	return VerificationRequest{
		IntegrationKey: testIKey,
		SecretKey:      testSKey,
		ApplicationKey: testAKey,
		Response:       response,
	}
}

// rawToken signs an arbitrary plaintext payload, bypassing payload formatting.
func rawToken(key, prefix, plain string) string {
	body := prefix + "|" + Encode([]byte(plain))
	sig, _ := hash.NewHMACSHA1(key).Hash(body)
	return body + "|" + string(sig)
}

// duoAnswer plays the third-party service: it checks the TX half of
// sigRequest and answers with an AUTH token issued at authAt plus the
// untouched APP half.
func duoAnswer(t *testing.T, sigRequest string, authAt time.Time) string {
	t.Helper()

	halves := strings.Split(sigRequest, ":")
	require.Len(t, halves, 2)

	// only the subject matters here; the TX expiry is covered elsewhere
	user, err := parseToken(testSKey, halves[0], PrefixDuo, testIKey, time.Unix(0, 0))
	require.NoError(t, err)

	auth, err := buildToken(testSKey, PrefixAuth, DuoTokenLifetime, user, testIKey, authAt)
	require.NoError(t, err)

	return auth + ":" + halves[1]
}

func expiryOf(t *testing.T, tok string) int64 {
	t.Helper()

	parts := strings.Split(tok, "|")
	require.Len(t, parts, 3)

	plain, err := Decode(parts[1])
	require.NoError(t, err)

	fields := strings.Split(string(plain), "|")
	require.Len(t, fields, 3)

	ts, err := strconv.ParseInt(fields[2], 10, 64)
	require.NoError(t, err)

	return ts
}
