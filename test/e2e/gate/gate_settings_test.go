package gate_test

import (
	"testing"

	"github.com/avalonfair/gatehouse/pkg/gatesdk"
	"github.com/stretchr/testify/require"
)

// TestSettingsRoundTrip verifies the admin settings surface and confirms the
// public endpoint mirrors it without leaking the allowlist.
func TestSettingsRoundTrip(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	admin := newAdminClient(baseURL)
	public := gatesdk.NewClient(baseURL)
	ctx := t.Context()

	// A fresh service starts in open signup mode
	mode, err := admin.GetInviteMode(ctx)
	require.NoError(t, err)
	require.False(t, mode.InviteOnly)

	pub, err := public.PublicSettings(ctx)
	require.NoError(t, err)
	require.False(t, pub.InviteOnly)
	require.False(t, pub.MustSupplyInviteKey)

	// Flip to invite-only with a domain allowlist and mandatory key
	require.NoError(t, admin.SetInviteMode(ctx, gatesdk.InviteModeSettings{InviteOnly: true}))
	require.NoError(t, admin.SetInviteRequirements(ctx, gatesdk.InviteRequirements{
		EmailDomainWhitelist: []string{"Example.COM", "@example.org"},
		MustSupplyInviteKey:  true,
	}))

	reqs, err := admin.GetInviteRequirements(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"example.com", "example.org"}, reqs.EmailDomainWhitelist)
	require.True(t, reqs.MustSupplyInviteKey)

	// Public view reflects the flags but never the allowlist
	pub, err = public.PublicSettings(ctx)
	require.NoError(t, err)
	require.True(t, pub.InviteOnly)
	require.True(t, pub.MustSupplyInviteKey)
}
