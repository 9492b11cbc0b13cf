package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
	"github.com/avalonfair/gatehouse/internal/gate/mail"
	"github.com/avalonfair/gatehouse/internal/gate/store"
	"github.com/avalonfair/gatehouse/pkg/cryptox"
	"github.com/avalonfair/gatehouse/pkg/idx"
	"github.com/avalonfair/gatehouse/pkg/slogx"
)

// Verification failures carry the exact reason strings the API reports, so
// handlers can surface err.Error() directly.
var (
	ErrCodeNotFound    = errors.New("no code found")
	ErrCodeAlreadyUsed = errors.New("already used")
	ErrCodeExpired     = errors.New("expired")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrCodeMismatch    = errors.New("invalid code")
	ErrInviteMismatch  = errors.New("invite mismatch")

	// ErrMailDispatch wraps a failed send. The issued record stays valid so
	// the client can ask for a resend without burning a rate-limit slot.
	ErrMailDispatch = errors.New("failed to send verification email")
)

// DefaultMailTimeout bounds a single dispatch attempt so a hung provider
// cannot stall the request.
const DefaultMailTimeout = 10 * time.Second

// OTPService owns the one-time-code ledger: issuing codes, superseding old
// ones, and the single-use verification transition.
type OTPService struct {
	Store  store.Store
	Mailer mail.Mailer

	// MailTimeout bounds each dispatch. Zero means DefaultMailTimeout.
	MailTimeout time.Duration

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *OTPService) mailTimeout() time.Duration {
	if s.MailTimeout > 0 {
		return s.MailTimeout
	}
	return DefaultMailTimeout
}

func (s *OTPService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Issue generates a fresh 6-digit code for email, supersedes any outstanding
// one, persists the hashed record, and dispatches the mail. A dispatch
// failure is returned wrapped in ErrMailDispatch with the record already
// persisted and still valid.
func (s *OTPService) Issue(ctx context.Context, email, inviteCode, originHash string) (domain.OTPRecord, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	// 1. Generate the code and hash it; only the hash is stored.
	code, err := cryptox.GenerateNumericCode()
	if err != nil {
		log.Error("failed to generate verification code", slog.Any("error", err))
		return domain.OTPRecord{}, err
	}
	codeHash, err := cryptox.HashCode(code)
	if err != nil {
		log.Error("failed to hash verification code", slog.Any("error", err))
		return domain.OTPRecord{}, err
	}

	rec := domain.OTPRecord{
		ID:         idx.New().String(),
		Email:      email,
		CodeHash:   codeHash,
		SentAt:     now,
		ExpiresAt:  now.Add(domain.OTPTTL),
		OriginHash: originHash,
		InviteCode: inviteCode,
		Active:     true,
		CreatedAt:  now,
	}

	// 2. Supersede the previous record and insert the new one atomically,
	// so the one-active-slot invariant holds even across crashed issues.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.OTPCodes().DeactivateOTPs(ctx, email); err != nil {
			return err
		}
		return tx.OTPCodes().CreateOTP(ctx, rec)
	})
	if err != nil {
		log.Error("failed to persist verification code", slog.Any("error", err))
		return domain.OTPRecord{}, err
	}

	// 3. Dispatch out-of-band state: a failed send leaves the record valid.
	subject, html, text, err := mail.RenderSignupCode(code, domain.OTPTTL)
	if err != nil {
		log.Error("failed to render verification email", slog.Any("error", err))
		return rec, fmt.Errorf("%w: %w", ErrMailDispatch, err)
	}
	sendCtx, cancel := context.WithTimeout(ctx, s.mailTimeout())
	defer cancel()
	if err := s.Mailer.Send(sendCtx, email, subject, html, text); err != nil {
		log.Error("failed to send verification email", slog.Any("error", err))
		return rec, fmt.Errorf("%w: %w", ErrMailDispatch, err)
	}

	log.Info("verification code issued",
		slog.String("otp_id", rec.ID),
		slog.Time("expires_at", rec.ExpiresAt),
	)
	return rec, nil
}

// Verify checks code against the active record for email and spends it on
// success. Every located record has its attempt counter incremented exactly
// once per call, before the code comparison, so guessing is bounded even
// when the guess is correct on the 6th try.
//
// A mismatched invite binding also spends the record: the one-time code
// cannot be re-rolled against a different invite.
func (s *OTPService) Verify(ctx context.Context, email, code, inviteCode string) (domain.OTPRecord, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	// 1. Only the latest (active) record for the email is eligible.
	rec, err := s.Store.OTPCodes().GetActiveOTPByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.OTPRecord{}, ErrCodeNotFound
		}
		log.Error("failed to fetch verification code", slog.Any("error", err))
		return domain.OTPRecord{}, err
	}

	// 2. Terminal states fail closed before any comparison.
	if rec.Consumed {
		return rec, ErrCodeAlreadyUsed
	}
	if rec.ExpiredAt(now) {
		return rec, ErrCodeExpired
	}

	// 3. Count this attempt before comparing. The increment is atomic, so
	// concurrent guesses each land on a distinct count.
	attempts, err := s.Store.OTPCodes().IncrementOTPAttempts(ctx, rec.ID)
	if err != nil {
		log.Error("failed to count verification attempt", slog.Any("error", err))
		return rec, err
	}
	rec.Attempts = attempts
	if attempts > domain.OTPMaxAttempts {
		log.Warn("verification attempts exhausted",
			slog.String("otp_id", rec.ID),
			slog.Int("attempts", attempts),
		)
		return rec, ErrTooManyAttempts
	}

	// 4. Compare the code.
	if err := cryptox.VerifyCode(code, rec.CodeHash); err != nil {
		return rec, ErrCodeMismatch
	}

	// 5. The invite binding must match what was recorded at issuance. A
	// mismatch spends the record anyway so the proven code cannot be
	// replayed with a different invite.
	if inviteCode != rec.InviteCode {
		if err := s.markConsumed(ctx, &rec, now); err != nil {
			return rec, err
		}
		log.Warn("verification with mismatched invite binding", slog.String("otp_id", rec.ID))
		return rec, ErrInviteMismatch
	}

	// 6. Spend the record. The guarded update loses against a concurrent
	// verify that got here first.
	if err := s.markConsumed(ctx, &rec, now); err != nil {
		return rec, err
	}

	log.Info("verification code accepted",
		slog.String("otp_id", rec.ID),
		slog.Int("attempts", attempts),
	)
	return rec, nil
}

func (s *OTPService) markConsumed(ctx context.Context, rec *domain.OTPRecord, now time.Time) error {
	err := s.Store.OTPCodes().MarkOTPConsumed(ctx, rec.ID, now)
	if errors.Is(err, store.ErrConflict) {
		return ErrCodeAlreadyUsed
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to mark code consumed",
			slog.String("otp_id", rec.ID),
			slog.Any("error", err),
		)
		return err
	}
	rec.Consumed = true
	rec.ConsumedAt = &now
	return nil
}

// CooldownRemaining reports how long until email may be sent another code,
// measured from the latest record's sent-at. Zero means no cooldown applies.
func (s *OTPService) CooldownRemaining(ctx context.Context, email string) (time.Duration, error) {
	rec, err := s.Store.OTPCodes().GetActiveOTPByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	remaining := domain.ResendCooldown - s.now().Sub(rec.SentAt)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// ActiveInviteBinding returns the invite code recorded on email's active OTP,
// empty when there is none. Used by resend to carry the binding forward.
func (s *OTPService) ActiveInviteBinding(ctx context.Context, email string) (string, error) {
	rec, err := s.Store.OTPCodes().GetActiveOTPByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.InviteCode, nil
}

// DeleteExpired sweeps records past their expiry. Housekeeping only; expired
// records are already unusable per Verify's checks.
func (s *OTPService) DeleteExpired(ctx context.Context) (int64, error) {
	return s.Store.OTPCodes().DeleteExpiredOTPs(ctx, s.now())
}
