package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
	"github.com/avalonfair/gatehouse/pkg/idx"
)

func TestHousekeepingService_Sweep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// An already-expired code and an already-stale invite.
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	require.NoError(t, env.store.OTPCodes().CreateOTP(ctx, domain.OTPRecord{
		ID:        idx.New().String(),
		Email:     "stale@example.com",
		CodeHash:  "hash",
		SentAt:    past,
		ExpiresAt: past.Add(domain.OTPTTL),
		Active:    true,
		CreatedAt: past,
	}))
	require.NoError(t, env.store.Invites().CreateInvite(ctx, domain.Invite{
		ID:        idx.New().String(),
		Code:      "stale-invite",
		MaxUses:   1,
		ExpiresAt: &past,
		Status:    domain.InviteStatusActive,
		CreatedAt: past,
		UpdatedAt: past,
	}))

	hk := NewHousekeepingService(env.store, slog.Default(), 50*time.Millisecond)
	hk.Start()
	time.Sleep(100 * time.Millisecond)
	hk.Stop()

	_, err := env.store.OTPCodes().GetActiveOTPByEmail(ctx, "stale@example.com")
	require.Error(t, err)

	inv, err := env.store.Invites().GetInviteByCode(ctx, "stale-invite")
	require.NoError(t, err)
	require.Equal(t, domain.InviteStatusExpired, inv.Status)
}

func TestHousekeepingService_DefaultInterval(t *testing.T) {
	hk := NewHousekeepingService(newTestStore(t), slog.Default(), 0)
	require.Equal(t, 15*time.Minute, hk.Interval)
}
