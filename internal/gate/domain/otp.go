package domain

import "time"

// OTPMaxAttempts bounds verification tries per record; the counter is
// incremented before the code comparison so guesses are bounded even under
// concurrent calls.
const OTPMaxAttempts = 5

// OTPTTL is how long a mailed code remains valid.
const OTPTTL = 10 * time.Minute

// ResendCooldown is the minimum gap between sends to the same address.
const ResendCooldown = 60 * time.Second

// OTPRecord is a single-use email verification code. Exactly one record per
// email is active at a time; issuing a new code supersedes the previous one.
type OTPRecord struct {
	ID       string
	Email    string
	CodeHash string // Argon2id hash, never the plaintext code
	SentAt   time.Time
	ExpiresAt time.Time
	Consumed  bool
	// ConsumedAt is nil until the record is spent
	ConsumedAt *time.Time
	OriginHash string // SHA-256 fingerprint of the requesting network origin
	Attempts   int
	InviteCode string // invite bound at issuance, empty when none
	Active     bool
	CreatedAt  time.Time
}

// ExpiredAt reports whether the record's expiry has passed at the given time.
func (o OTPRecord) ExpiredAt(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
