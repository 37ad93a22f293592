package uid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID_Generate(t *testing.T) {
	t.Parallel()

	g := NewUUID()
	a, b := g.Generate(), g.Generate()

	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.NotEqual(t, a, b)
}

func TestUUID_GenerateFallback(t *testing.T) {
	t.Parallel()

	g := &UUID{newV7: func() (uuid.UUID, error) { return uuid.Nil, assert.AnError }}

	id, err := uuid.Parse(g.Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
}

func TestKeyGenerator(t *testing.T) {
	t.Parallel()

	t.Run("Length", func(t *testing.T) {
		t.Parallel()

		g, err := NewKeyGenerator(48, 40)
		require.NoError(t, err)

		key := g.Generate()
		assert.Len(t, key, 48)
		for _, c := range key {
			assert.Contains(t, keyAlphabet, string(c))
		}
		assert.NotEqual(t, key, g.Generate())
	})

	t.Run("TooShort", func(t *testing.T) {
		t.Parallel()

		g, err := NewKeyGenerator(39, 40)
		assert.ErrorIs(t, err, ErrKeyTooShort)
		assert.Nil(t, g)
	})
}
