package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestMaskKeys(t *testing.T) {
	t.Parallel()

	got := MaskKeys([]string{" Sig_Response ", "", "password", "  "})
	assert.Equal(t, map[string]struct{}{"sig_response": {}, "password": {}}, got)
}

func TestMaskData(t *testing.T) {
	t.Parallel()

	keys := MaskKeys([]string{"sig_request"})
	in := map[string]any{
		"username": "alice",
		"data": []any{
			map[string]any{"SIG_REQUEST": "TX|abc|def:APP|ghi|jkl", "host": "api.test"},
		},
	}

	got := MaskData(in, keys)
	assert.Equal(t, map[string]any{
		"username": "alice",
		"data": []any{
			map[string]any{"SIG_REQUEST": "***", "host": "api.test"},
		},
	}, got)
}

func TestMaskText(t *testing.T) {
	t.Parallel()

	keys := MaskKeys([]string{"sig_response", "password"})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "no keys", in: "username is a required field", want: "username is a required field"},
		{name: "key without value", in: "sig_response is a required field", want: "sig_response is a required field"},
		{name: "json trailing", in: `{"sig_response":"AUTH|a|b:APP|a|b"} x`, want: `{"sig_response":***} x`},
		{name: "json truncated", in: `{"SIG_RESPONSE": "AUTH|a|b:AP`, want: `{"SIG_RESPONSE": ***`},
		{name: "form", in: "password=hunter2&sig_response=AUTH%7Ca&next=%2F", want: "password=***&sig_response=***&next=%2F"},
		{name: "other key untouched", in: `{"old_password":"x"`, want: `{"old_password":"x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, MaskText(tt.in, keys))
		})
	}
}

func TestHandler(t *testing.T) {
	t.Parallel()

	t.Run("MasksAttributesAndJSONStrings", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger := slog.New(newHandler(buf, "duoweb", nil, []string{"sig_response", "password"}))

		logger.Info("verify",
			"sig_response", "AUTH|x|y:APP|x|y",
			"body", `{"sig_response":"AUTH|x|y","username":"alice"}`,
			slog.Group("req", slog.String("password", "secret")),
		)

		line := decodeLine(t, buf)
		assert.Equal(t, "***", line["sig_response"])
		assert.JSONEq(t, `{"sig_response":"***","username":"alice"}`, line["body"].(string))
		assert.Equal(t, map[string]any{"password": "***"}, line["req"])
		assert.Equal(t, "duoweb", line["service"])
		assert.Equal(t, "INFO", line["severity"])
		assert.Contains(t, line, "ts")
	})

	t.Run("MasksBrokenJSONStrings", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger := slog.New(newHandler(buf, "duoweb", nil, []string{"sig_response"}))

		logger.Info("http request", "request", `{"sig_response":"AUTH|c2VjcmV0|abcdef:APP|c2VjcmV0|abcdef"} trailing`)

		line := decodeLine(t, buf)
		assert.Equal(t, `{"sig_response":***} trailing`, line["request"])
	})

	t.Run("AddsCorrelationID", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger := slog.New(newHandler(buf, "duoweb", nil, nil))

		ctx := SetCorrelationID(context.Background(), "cid-123")
		logger.InfoContext(ctx, "sign")

		line := decodeLine(t, buf)
		assert.Equal(t, "cid-123", line["_cID"])
	})

	t.Run("NoCorrelationID", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger := slog.New(newHandler(buf, "duoweb", nil, nil))
		logger.InfoContext(context.Background(), "sign")

		assert.NotContains(t, decodeLine(t, buf), "_cID")
	})
}

func TestCorrelationID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "abc", GetCorrelationID(SetCorrelationID(context.Background(), "abc")))
}

func TestNewNoop(t *testing.T) {
	t.Parallel()

	ins := NewNoop()
	_, span := ins.Tracer("test").Start(context.Background(), "op")
	span.End()

	counter, err := ins.Meter("test").Int64Counter("c")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	assert.NoError(t, ins.Shutdown(context.Background()))
}
