package service

import (
	"context"
	"errors"
	"time"

	"github.com/avalonfair/gatehouse/internal/gate/store"
)

// Two independent issuance policies. Both must pass before a code is sent.
const (
	EmailWindow       = 15 * time.Minute
	EmailMaxAttempts  = 5
	OriginWindow      = 60 * time.Minute
	OriginMaxAttempts = 10
)

var ErrRateLimited = errors.New("rate limit exceeded")

// IsLimited reports whether count attempts within a window breach the cap.
func IsLimited(count, maxAttempts int) bool {
	return count >= maxAttempts
}

// RemainingWindow is how long until the oldest in-window attempt ages out,
// i.e. the retry-after duration to report. Never negative.
func RemainingWindow(now, oldest time.Time, window time.Duration) time.Duration {
	remaining := window - now.Sub(oldest)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RateLimitService bounds code issuance per email and per network origin. It
// keeps no counters of its own; the timestamped OTP records are the history.
type RateLimitService struct {
	Store store.Store
}

// Check applies both policies and returns the retry-after duration of the
// first breached one together with ErrRateLimited. A zero duration with a
// nil error means the request may proceed.
func (s *RateLimitService) Check(ctx context.Context, email, originHash string, now time.Time) (time.Duration, error) {
	// 1. Per-email window.
	count, err := s.Store.OTPCodes().CountIssuedSince(ctx, email, now.Add(-EmailWindow))
	if err != nil {
		return 0, err
	}
	if IsLimited(count, EmailMaxAttempts) {
		oldest, err := s.Store.OTPCodes().OldestIssuedSince(ctx, email, now.Add(-EmailWindow))
		if err != nil {
			return 0, err
		}
		return RemainingWindow(now, oldest, EmailWindow), ErrRateLimited
	}

	// 2. Per-origin window, independent of the email.
	if originHash != "" {
		count, err = s.Store.OTPCodes().CountIssuedByOriginSince(ctx, originHash, now.Add(-OriginWindow))
		if err != nil {
			return 0, err
		}
		if IsLimited(count, OriginMaxAttempts) {
			oldest, err := s.Store.OTPCodes().OldestIssuedByOriginSince(ctx, originHash, now.Add(-OriginWindow))
			if err != nil {
				return 0, err
			}
			return RemainingWindow(now, oldest, OriginWindow), ErrRateLimited
		}
	}

	return 0, nil
}
