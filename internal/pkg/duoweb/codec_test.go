package duoweb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "empty", in: []byte{}, want: ""},
		{name: "one byte pads twice", in: []byte("a"), want: "YQ=="},
		{name: "payload", in: []byte("alice|DIWJ8X6AEYOR5OMC6TQ1|1615727243"), want: "YWxpY2V8RElXSjhYNkFFWU9SNU9NQzZUUTF8MTYxNTcyNzI0Mw=="},
		{name: "binary", in: []byte{0x00, 0xff, 0x10, 0x80}, want: "AP8QgA=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Encode(tt.in)
			assert.Equal(t, tt.want, got)

			back, err := Decode(got)
			require.NoError(t, err)
			assert.Equal(t, tt.in, back)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"YQ", "Y===", "not base64!", "YQ==YQ==", "-_-_"} {
		_, err := Decode(in)
		assert.ErrorIs(t, err, ErrMalformedEncoding, "input %q", in)
	}
}
