package gate_test

import (
	"net/http"
	"testing"

	"github.com/avalonfair/gatehouse/pkg/gatesdk"
	"github.com/stretchr/testify/require"
)

// TestSignupRequestCodeOpenMode verifies a fresh service mails a code for any
// plausible address in open signup mode.
func TestSignupRequestCodeOpenMode(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)

	res, err := client.RequestCode(t.Context(), gatesdk.RequestCodeRequest{
		Email: "newcomer@example.com",
	})
	require.NoError(t, err)
	require.Greater(t, res.ExpiresIn, 0, "code lifetime should be reported")
}

// TestSignupRejectsDisposableDomain verifies throwaway mail providers are
// refused before any code is issued.
func TestSignupRejectsDisposableDomain(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)

	_, err := client.RequestCode(t.Context(), gatesdk.RequestCodeRequest{
		Email: "burner@mailinator.com",
	})
	assertAPIError(t, err, http.StatusBadRequest, gatesdk.ErrorCodePolicyRejected)
}

// TestSignupInviteOnlyRequiresCode flips the service to invite-only with a
// mandatory key and verifies uninvited requests are refused while a valid
// invite opens the gate.
func TestSignupInviteOnlyRequiresCode(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	admin := newAdminClient(baseURL)
	client := gatesdk.NewClient(baseURL)
	ctx := t.Context()

	require.NoError(t, admin.SetInviteMode(ctx, gatesdk.InviteModeSettings{InviteOnly: true}))
	require.NoError(t, admin.SetInviteRequirements(ctx, gatesdk.InviteRequirements{
		MustSupplyInviteKey: true,
	}))

	// Without a code the gate stays shut
	_, err := client.RequestCode(ctx, gatesdk.RequestCodeRequest{
		Email: "hopeful@example.com",
	})
	assertAPIError(t, err, http.StatusBadRequest, gatesdk.ErrorCodePolicyRejected)

	// A minted invite gets through
	invite, err := admin.CreateInvite(ctx, gatesdk.CreateInviteRequest{MaxUses: 1})
	require.NoError(t, err)

	res, err := client.RequestCode(ctx, gatesdk.RequestCodeRequest{
		Email:      "hopeful@example.com",
		InviteCode: invite.Code,
	})
	require.NoError(t, err)
	require.Greater(t, res.ExpiresIn, 0)

	// A bogus code is refused even in invite-only mode
	_, err = client.RequestCode(ctx, gatesdk.RequestCodeRequest{
		Email:      "other@example.com",
		InviteCode: "definitely-not-a-code",
	})
	assertAPIError(t, err, http.StatusBadRequest, gatesdk.ErrorCodePolicyRejected)
}

// TestSignupVerifyWrongCode verifies a wrong guess is refused without
// completing the signup.
func TestSignupVerifyWrongCode(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)
	ctx := t.Context()

	_, err := client.RequestCode(ctx, gatesdk.RequestCodeRequest{
		Email: "guesser@example.com",
	})
	require.NoError(t, err)

	_, err = client.VerifyCode(ctx, gatesdk.VerifyCodeRequest{
		Email: "guesser@example.com",
		Code:  "000000",
	})
	assertAPIError(t, err, http.StatusBadRequest, gatesdk.ErrorCodeCodeRejected)
}

// TestSignupResendCooldown verifies an immediate resend is refused with a
// retry-after hint.
func TestSignupResendCooldown(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)
	ctx := t.Context()

	_, err := client.RequestCode(ctx, gatesdk.RequestCodeRequest{
		Email: "eager@example.com",
	})
	require.NoError(t, err)

	_, err = client.ResendCode(ctx, "eager@example.com")
	require.Error(t, err)

	var apiErr *gatesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.True(t, apiErr.IsRateLimited())
	require.Greater(t, apiErr.RetryAfter, 0, "cooldown should carry a retry-after hint")
}
