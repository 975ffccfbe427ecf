package entrypoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFSecret(t *testing.T) {
	t.Run("hex secret is decoded", func(t *testing.T) {
		secret, err := csrfSecret("00ff10")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xff, 0x10}, secret)
	})

	t.Run("non-hex secret is used as is", func(t *testing.T) {
		secret, err := csrfSecret("not hex at all")
		require.NoError(t, err)
		assert.Equal(t, []byte("not hex at all"), secret)
	})

	t.Run("empty secret is generated", func(t *testing.T) {
		a, err := csrfSecret("")
		require.NoError(t, err)
		b, err := csrfSecret("")
		require.NoError(t, err)

		assert.Len(t, a, 32)
		assert.NotEqual(t, a, b)
	})
}
