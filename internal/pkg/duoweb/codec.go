package duoweb

import (
	"encoding/base64"
)

// Encode renders b with the standard base64 alphabet, padded, without line wrapping.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Decode reverses Encode. It fails with ErrMalformedEncoding on an invalid
// alphabet or padding.
func Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, ErrMalformedEncoding
	}

	return b, nil
}
