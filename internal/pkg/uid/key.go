package uid

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const keyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrKeyTooShort indicates a requested key length below the generator minimum.
var ErrKeyTooShort = errors.New("uid: key length below minimum")

// KeyGenerator produces random alphanumeric secrets from crypto/rand.
type KeyGenerator struct {
	length int
}

// NewKeyGenerator returns a generator of keys that are length characters
// long. length must be at least minLength.
func NewKeyGenerator(length, minLength int) (*KeyGenerator, error) {
	if length < minLength {
		return nil, ErrKeyTooShort
	}

	return &KeyGenerator{length: length}, nil
}

// Generate returns a new key. It panics only if the system entropy source fails.
func (g *KeyGenerator) Generate() string {
	key, err := g.generate()
	if err != nil {
		panic(err)
	}

	return key
}

func (g *KeyGenerator) generate() (string, error) {
	max := big.NewInt(int64(len(keyAlphabet)))
	buf := make([]byte, g.length)

	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = keyAlphabet[n.Int64()]
	}

	return string(buf), nil
}
