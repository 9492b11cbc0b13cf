package domain

import "time"

// Settings is the singleton gating configuration. It is created once with
// safe defaults (invite-only off) and mutated only by administrators.
type Settings struct {
	// InviteOnly gates signup behind the invite registry when true
	InviteOnly bool

	// DomainAllowlist restricts acceptable email domains; empty means no
	// restriction
	DomainAllowlist []string

	// RequireInviteKey makes supplying a code mandatory while InviteOnly
	// is on; when false an allowlisted domain may sign up without one
	RequireInviteKey bool

	UpdatedAt time.Time
}

// DefaultSettings are the safe defaults seeded at first boot.
func DefaultSettings() Settings {
	return Settings{
		InviteOnly:       false,
		DomainAllowlist:  nil,
		RequireInviteKey: false,
	}
}
