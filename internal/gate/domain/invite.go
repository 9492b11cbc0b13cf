package domain

import "time"

// InviteStatus is the lifecycle state of an invite. Revoked and expired are
// terminal.
type InviteStatus string

const (
	InviteStatusActive  InviteStatus = "active"
	InviteStatusRevoked InviteStatus = "revoked"
	InviteStatusExpired InviteStatus = "expired"
)

// Invite is a scarce, admin-issued credential permitting signup. It may be
// restricted to an exact email or a domain (never both), bounded by a use
// count, and optionally time-boxed.
type Invite struct {
	ID      string
	Code    string // opaque, high-entropy, unique
	Email   string // optional exact-email restriction
	Domain  string // optional domain restriction, exclusive with Email
	MaxUses int
	Uses    int
	// ExpiresAt is nil for invites that never expire
	ExpiresAt *time.Time
	Status    InviteStatus
	Notes     string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Exhausted reports whether every use has been consumed.
func (i Invite) Exhausted() bool {
	return i.Uses >= i.MaxUses
}

// ExpiredAt reports whether the invite's expiry has passed at the given time.
func (i Invite) ExpiredAt(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}
