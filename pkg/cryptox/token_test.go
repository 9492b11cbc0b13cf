package cryptox_test

import (
	"encoding/base64"
	"testing"

	"github.com/avalonfair/gatehouse/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("produces url-safe tokens of the expected length", func(t *testing.T) {
		token, err := cryptox.GenerateToken(cryptox.TokenSize128)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, cryptox.TokenSize128)
	})

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := cryptox.GenerateToken(0)
		require.Error(t, err)

		_, err = cryptox.GenerateToken(-1)
		require.Error(t, err)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			token, err := cryptox.GenerateToken(cryptox.TokenSize128)
			require.NoError(t, err)

			_, dup := seen[token]
			require.False(t, dup, "duplicate token %q", token)
			seen[token] = struct{}{}
		}
	})
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := cryptox.Fingerprint("198.51.100.7")
	b := cryptox.Fingerprint("198.51.100.7")
	c := cryptox.Fingerprint("198.51.100.8")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 43) // base64url of 32 bytes, no padding
}
