package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
	"github.com/avalonfair/gatehouse/internal/gate/store"
	"github.com/avalonfair/gatehouse/pkg/idx"
	"github.com/avalonfair/gatehouse/pkg/jwtx"
	"github.com/avalonfair/gatehouse/pkg/slogx"
)

// ErrCooldown is returned when a code is re-requested before the resend
// cooldown has elapsed. Reported as a rate-limit with a retry-after.
var ErrCooldown = errors.New("a code was sent recently")

// SignupService sequences policy -> rate limiting -> code issuance ->
// verification -> invite consumption -> user creation. It holds no state of
// its own; each attempt walks Requested -> CodeSent -> Verified -> Completed
// with Rejected absorbing any failure.
type SignupService struct {
	Store    store.Store
	OTP      *OTPService
	Invites  *InviteService
	Limits   *RateLimitService
	Sessions *jwtx.Signer

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *SignupService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// RequestCodeResult reports a successful issuance.
type RequestCodeResult struct {
	ExpiresIn time.Duration
}

// RequestCode starts a signup attempt: evaluates gating policy, checks both
// rate windows and the per-email cooldown, then issues and mails a code.
// When err is ErrRateLimited or ErrCooldown, retryAfter carries the wait.
func (s *SignupService) RequestCode(ctx context.Context, email, inviteCode, originHash string) (RequestCodeResult, time.Duration, error) {
	log := slogx.FromContext(ctx)
	email = normalizeEmail(email)
	state := domain.SignupRequested

	// 1. Gating policy decides whether this attempt may proceed at all.
	settings, err := s.Store.Settings().GetSettings(ctx)
	if err != nil {
		log.Error("failed to load settings", slog.Any("error", err))
		return RequestCodeResult{}, 0, err
	}
	if err := EvaluatePolicy(settings, email, inviteCode != ""); err != nil {
		s.reject(ctx, state, err)
		return RequestCodeResult{}, 0, err
	}

	// 2. A supplied invite must be consumable right now; the registry's
	// verdict is authoritative.
	if inviteCode != "" {
		if err := s.Invites.Validate(ctx, inviteCode, email); err != nil {
			s.reject(ctx, state, err)
			return RequestCodeResult{}, 0, err
		}
	}

	// 3. Re-requesting before the cooldown is rejected, not silently
	// deduplicated.
	cooldown, err := s.OTP.CooldownRemaining(ctx, email)
	if err != nil {
		return RequestCodeResult{}, 0, err
	}
	if cooldown > 0 {
		s.reject(ctx, state, ErrCooldown)
		return RequestCodeResult{}, cooldown, ErrCooldown
	}

	// 4. Both rate windows must pass before any record is created.
	retryAfter, err := s.Limits.Check(ctx, email, originHash, s.now())
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			s.reject(ctx, state, err)
			return RequestCodeResult{}, retryAfter, err
		}
		return RequestCodeResult{}, 0, err
	}

	// 5. Issue and dispatch.
	rec, err := s.OTP.Issue(ctx, email, inviteCode, originHash)
	if err != nil {
		s.reject(ctx, state, err)
		return RequestCodeResult{}, 0, err
	}

	log.Debug("signup attempt advanced",
		slog.String("from", string(state)),
		slog.String("to", string(domain.SignupCodeSent)),
	)
	return RequestCodeResult{ExpiresIn: rec.ExpiresAt.Sub(s.now())}, 0, nil
}

// VerifyCodeResult is the completed signup: a user stub and a session token.
type VerifyCodeResult struct {
	User     domain.User
	Token    string
	TokenTTL time.Duration
}

// VerifyCode finishes a signup attempt. Policy is re-evaluated here because
// settings or invite state may have changed since the code was requested.
// A bound invite is consumed before the attempt counts as completed; if that
// consumption loses a race the whole attempt is rejected with the code
// already spent, so a valid OTP cannot be re-rolled for free.
func (s *SignupService) VerifyCode(ctx context.Context, email, code, inviteCode string) (VerifyCodeResult, error) {
	log := slogx.FromContext(ctx)
	email = normalizeEmail(email)
	state := domain.SignupCodeSent

	// 1. Shape checks happen before any store access and have no side
	// effects, not even an attempt increment.
	if !validCodeShape(code) {
		s.reject(ctx, state, ErrCodeMismatch)
		return VerifyCodeResult{}, ErrCodeMismatch
	}

	// 2. Re-evaluate gating policy to close the request/verify TOCTOU
	// window.
	settings, err := s.Store.Settings().GetSettings(ctx)
	if err != nil {
		log.Error("failed to load settings", slog.Any("error", err))
		return VerifyCodeResult{}, err
	}
	if err := EvaluatePolicy(settings, email, inviteCode != ""); err != nil {
		s.reject(ctx, state, err)
		return VerifyCodeResult{}, err
	}

	// 3. Spend the one-time code.
	rec, err := s.OTP.Verify(ctx, email, code, inviteCode)
	if err != nil {
		s.reject(ctx, state, err)
		return VerifyCodeResult{}, err
	}
	state = domain.SignupVerified

	// 4. Consume the bound invite before treating the attempt as complete.
	// The email code is already spent either way; a failure here rejects
	// the attempt without creating a user, and the invite itself stays
	// independently retryable with a fresh code.
	var inviteID string
	if rec.InviteCode != "" {
		inv, err := s.Invites.Consume(ctx, rec.InviteCode, email)
		if err != nil {
			s.reject(ctx, state, err)
			return VerifyCodeResult{}, err
		}
		inviteID = inv.ID
	}

	// 5. Create the user stub and mint a session.
	user, err := s.createUser(ctx, email, inviteID)
	if err != nil {
		s.reject(ctx, state, err)
		return VerifyCodeResult{}, err
	}

	token, err := s.Sessions.Mint(user.ID, user.Email)
	if err != nil {
		log.Error("failed to mint session token", slog.Any("error", err))
		s.reject(ctx, state, err)
		return VerifyCodeResult{}, err
	}

	tokenTTL := s.Sessions.TTL
	if tokenTTL == 0 {
		tokenTTL = jwtx.DefaultSessionTTL
	}

	log.Info("signup completed",
		slog.String("user_id", user.ID),
		slog.String("invite_id", inviteID),
		slog.String("state", string(domain.SignupCompleted)),
	)
	return VerifyCodeResult{User: user, Token: token, TokenTTL: tokenTTL}, nil
}

// ResendCode re-issues a code for email after the 60-second cooldown,
// carrying forward any invite binding from the outstanding record. The new
// record supersedes the old one.
func (s *SignupService) ResendCode(ctx context.Context, email, originHash string) (RequestCodeResult, time.Duration, error) {
	email = normalizeEmail(email)

	inviteCode, err := s.OTP.ActiveInviteBinding(ctx, email)
	if err != nil {
		return RequestCodeResult{}, 0, err
	}

	return s.RequestCode(ctx, email, inviteCode, originHash)
}

func (s *SignupService) createUser(ctx context.Context, email, inviteID string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	user := domain.User{
		ID:        idx.New().String(),
		Email:     email,
		InviteID:  inviteID,
		CreatedAt: s.now(),
	}
	err := s.Store.Users().CreateUser(ctx, user)
	if errors.Is(err, store.ErrAlreadyExists) {
		// The address verified before; hand back the existing stub.
		return s.Store.Users().GetUserByEmail(ctx, email)
	}
	if err != nil {
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}
	return user, nil
}

func (s *SignupService) reject(ctx context.Context, from domain.SignupState, reason error) {
	slogx.FromContext(ctx).Warn("signup attempt rejected",
		slog.String("from", string(from)),
		slog.String("to", string(domain.SignupRejected)),
		slog.String("reason", reason.Error()),
	)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validCodeShape accepts exactly six ASCII digits.
func validCodeShape(code string) bool {
	if len(code) != 6 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
