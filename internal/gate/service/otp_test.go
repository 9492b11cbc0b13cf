package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
)

func TestOTPService_IssueAndVerify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rec, err := env.otp.Issue(ctx, "a@example.com", "", "origin-1")
	require.NoError(t, err)
	require.Equal(t, 1, env.mailer.sendCount())
	require.Equal(t, "a@example.com", env.mailer.to)

	code := env.mailer.lastCode()
	require.Len(t, code, 6)
	require.NotContains(t, rec.CodeHash, code, "plaintext code must not be stored")

	got, err := env.otp.Verify(ctx, "a@example.com", code, "")
	require.NoError(t, err)
	require.True(t, got.Consumed)
	require.NotNil(t, got.ConsumedAt)
	require.Equal(t, 1, got.Attempts)
}

func TestOTPService_VerifyFailsClosed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("no code found", func(t *testing.T) {
		_, err := env.otp.Verify(ctx, "nobody@example.com", "123456", "")
		require.ErrorIs(t, err, ErrCodeNotFound)
	})

	t.Run("already used on second verify", func(t *testing.T) {
		_, err := env.otp.Issue(ctx, "b@example.com", "", "")
		require.NoError(t, err)
		code := env.mailer.lastCode()

		_, err = env.otp.Verify(ctx, "b@example.com", code, "")
		require.NoError(t, err)

		_, err = env.otp.Verify(ctx, "b@example.com", code, "")
		require.ErrorIs(t, err, ErrCodeAlreadyUsed)
	})

	t.Run("expired code never verifies", func(t *testing.T) {
		_, err := env.otp.Issue(ctx, "c@example.com", "", "")
		require.NoError(t, err)
		code := env.mailer.lastCode()

		env.clock.Advance(domain.OTPTTL + time.Second)

		_, err = env.otp.Verify(ctx, "c@example.com", code, "")
		require.ErrorIs(t, err, ErrCodeExpired)
	})

	t.Run("sixth attempt fails even with the right code", func(t *testing.T) {
		_, err := env.otp.Issue(ctx, "d@example.com", "", "")
		require.NoError(t, err)
		code := env.mailer.lastCode()

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		for i := 0; i < domain.OTPMaxAttempts; i++ {
			_, err = env.otp.Verify(ctx, "d@example.com", wrong, "")
			require.ErrorIs(t, err, ErrCodeMismatch)
		}

		_, err = env.otp.Verify(ctx, "d@example.com", code, "")
		require.ErrorIs(t, err, ErrTooManyAttempts)
	})
}

func TestOTPService_InviteBinding(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("mismatched binding spends the code", func(t *testing.T) {
		_, err := env.otp.Issue(ctx, "e@example.com", "invite-abc", "")
		require.NoError(t, err)
		code := env.mailer.lastCode()

		_, err = env.otp.Verify(ctx, "e@example.com", code, "invite-xyz")
		require.ErrorIs(t, err, ErrInviteMismatch)

		// The one-time status is gone; even the right binding fails now.
		_, err = env.otp.Verify(ctx, "e@example.com", code, "invite-abc")
		require.ErrorIs(t, err, ErrCodeAlreadyUsed)
	})

	t.Run("matching binding verifies", func(t *testing.T) {
		_, err := env.otp.Issue(ctx, "f@example.com", "invite-abc", "")
		require.NoError(t, err)
		code := env.mailer.lastCode()

		got, err := env.otp.Verify(ctx, "f@example.com", code, "invite-abc")
		require.NoError(t, err)
		require.True(t, got.Consumed)
	})
}

func TestOTPService_Supersede(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.otp.Issue(ctx, "g@example.com", "", "")
	require.NoError(t, err)
	first := env.mailer.lastCode()

	env.clock.Advance(domain.ResendCooldown + time.Second)

	_, err = env.otp.Issue(ctx, "g@example.com", "", "")
	require.NoError(t, err)
	second := env.mailer.lastCode()

	// The superseded code no longer verifies; the fresh one does. When the
	// generator happens to repeat the code the first check is vacuous, so
	// only assert on the second unless they differ.
	if first != second {
		_, err = env.otp.Verify(ctx, "g@example.com", first, "")
		require.ErrorIs(t, err, ErrCodeMismatch)
	}

	_, err = env.otp.Verify(ctx, "g@example.com", second, "")
	require.NoError(t, err)
}

func TestOTPService_Cooldown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	remaining, err := env.otp.CooldownRemaining(ctx, "h@example.com")
	require.NoError(t, err)
	require.Zero(t, remaining)

	_, err = env.otp.Issue(ctx, "h@example.com", "", "")
	require.NoError(t, err)

	remaining, err = env.otp.CooldownRemaining(ctx, "h@example.com")
	require.NoError(t, err)
	require.Greater(t, remaining, time.Duration(0))
	require.LessOrEqual(t, remaining, domain.ResendCooldown)

	env.clock.Advance(domain.ResendCooldown + time.Second)

	remaining, err = env.otp.CooldownRemaining(ctx, "h@example.com")
	require.NoError(t, err)
	require.Zero(t, remaining)
}

func TestOTPService_DispatchFailureKeepsRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mailer.fail = true
	rec, err := env.otp.Issue(ctx, "i@example.com", "", "")
	require.ErrorIs(t, err, ErrMailDispatch)
	require.NotEmpty(t, rec.ID)

	// The record survived the failed send and is still the active slot.
	got, err := env.store.OTPCodes().GetActiveOTPByEmail(ctx, "i@example.com")
	require.NoError(t, err)
	require.Equal(t, rec.ID, got.ID)
	require.False(t, got.Consumed)
}

// hangingMailer blocks until the dispatch context is cancelled.
type hangingMailer struct{}

func (hangingMailer) Send(ctx context.Context, to, subject, html, text string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestOTPService_DispatchTimeoutBoundsSlowMailer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.otp.Mailer = hangingMailer{}
	env.otp.MailTimeout = 50 * time.Millisecond

	start := time.Now()
	rec, err := env.otp.Issue(ctx, "j@example.com", "", "")
	require.ErrorIs(t, err, ErrMailDispatch)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 5*time.Second)

	// Same contract as any failed dispatch: the record survives and is
	// still the active slot, so a resend can pick it up.
	got, err := env.store.OTPCodes().GetActiveOTPByEmail(ctx, "j@example.com")
	require.NoError(t, err)
	require.Equal(t, rec.ID, got.ID)
	require.False(t, got.Consumed)
}

func TestOTPService_DeleteExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.otp.Issue(ctx, "j@example.com", "", "")
	require.NoError(t, err)

	n, err := env.otp.DeleteExpired(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	env.clock.Advance(domain.OTPTTL + time.Minute)

	n, err = env.otp.DeleteExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}
