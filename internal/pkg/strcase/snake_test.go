package strcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLowerSnake(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                 "",
		"Username":         "username",
		"SigResponse":      "sig_response",
		"ExpectedUsername": "expected_username",
		"APIHost":          "api_host",
		"userID":           "user_id",
		"CacheConn":        "cache_conn",
		"HMAC":             "hmac",
		"Key2Value":        "key2_value",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, want, ToLowerSnake(in))
		})
	}
}
