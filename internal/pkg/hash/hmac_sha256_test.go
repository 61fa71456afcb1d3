package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHMACSHA256(t *testing.T) {
	h := NewHMACSHA256("test-secret")

	hashed, err := h.Hash("184810")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	require.NotEqual(t, "184810", string(hashed))

	t.Run("Deterministic", func(t *testing.T) {
		again, err := h.Hash("184810")
		require.NoError(t, err)
		require.Equal(t, hashed, again)
	})

	t.Run("Verify", func(t *testing.T) {
		require.True(t, h.Verify(string(hashed), "184810"))
		require.False(t, h.Verify(string(hashed), "184811"))
		require.False(t, h.Verify("", "184810"))
	})

	t.Run("SecretChangesDigest", func(t *testing.T) {
		other, err := NewHMACSHA256("other-secret").Hash("184810")
		require.NoError(t, err)
		require.NotEqual(t, hashed, other)
	})
}
