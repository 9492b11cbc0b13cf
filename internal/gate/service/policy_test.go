package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
)

func TestEvaluatePolicy(t *testing.T) {
	t.Parallel()

	open := domain.DefaultSettings()

	t.Run("open mode accepts any well-formed address", func(t *testing.T) {
		require.NoError(t, EvaluatePolicy(open, "a@example.com", false))
	})

	t.Run("rejects malformed addresses", func(t *testing.T) {
		for _, email := range []string{"", "not-an-email", "a@", "@example.com", "a b@example.com", "Named <a@example.com>"} {
			require.ErrorIs(t, EvaluatePolicy(open, email, false), ErrInvalidEmail, "email %q", email)
		}
	})

	t.Run("rejects disposable domains", func(t *testing.T) {
		require.ErrorIs(t, EvaluatePolicy(open, "a@mailinator.com", false), ErrDisposableDomain)
		require.ErrorIs(t, EvaluatePolicy(open, "a@YOPMAIL.com", false), ErrDisposableDomain)
	})

	t.Run("mandatory key rejects missing code", func(t *testing.T) {
		settings := domain.Settings{InviteOnly: true, RequireInviteKey: true}
		require.ErrorIs(t, EvaluatePolicy(settings, "a@example.com", false), ErrInviteRequired)
		require.NoError(t, EvaluatePolicy(settings, "a@example.com", true))
	})

	t.Run("supplied code defers to the registry", func(t *testing.T) {
		settings := domain.Settings{DomainAllowlist: []string{"example.org"}}
		// The allowlist would reject this address, but a code bypasses it.
		require.NoError(t, EvaluatePolicy(settings, "a@other.com", true))
	})

	t.Run("allowlist applies without a code", func(t *testing.T) {
		settings := domain.Settings{DomainAllowlist: []string{"example.org"}}
		require.NoError(t, EvaluatePolicy(settings, "a@example.org", false))
		require.NoError(t, EvaluatePolicy(settings, "a@EXAMPLE.ORG", false))
		require.ErrorIs(t, EvaluatePolicy(settings, "a@other.com", false), ErrDomainNotAllowed)
	})

	t.Run("invite-only without mandatory key still honors allowlist", func(t *testing.T) {
		settings := domain.Settings{InviteOnly: true, DomainAllowlist: []string{"example.org"}}
		require.NoError(t, EvaluatePolicy(settings, "a@example.org", false))
		require.ErrorIs(t, EvaluatePolicy(settings, "a@other.com", false), ErrDomainNotAllowed)
	})
}
