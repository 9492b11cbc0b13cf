package service

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
)

var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrDisposableDomain = errors.New("disposable email addresses are not allowed")
	ErrInviteRequired   = errors.New("invite code required")
	ErrDomainNotAllowed = errors.New("email domain not allowed")
)

// Throwaway providers we refuse outright. Kept short on purpose; this is a
// speed bump, not a blocklist service.
var disposableDomains = map[string]struct{}{
	"mailinator.com":    {},
	"guerrillamail.com": {},
	"10minutemail.com":  {},
	"tempmail.com":      {},
	"trashmail.com":     {},
	"yopmail.com":       {},
	"sharklasers.com":   {},
	"dispostable.com":   {},
}

// EvaluatePolicy decides whether a signup attempt for email may proceed,
// given the current settings and whether an invite code was supplied. It is a
// pure function; when a code was supplied its actual validity is judged
// separately by the invite registry.
//
// The orchestrator re-evaluates this at verification time as well, since
// settings may change between requesting a code and submitting it.
func EvaluatePolicy(settings domain.Settings, email string, hasInviteCode bool) error {
	// 1. The address must be well-formed and from a real provider.
	emailDomain, err := emailDomain(email)
	if err != nil {
		return err
	}
	if _, ok := disposableDomains[emailDomain]; ok {
		return ErrDisposableDomain
	}

	// 2. Invite-only mode with a mandatory key admits nothing without one.
	if settings.InviteOnly && settings.RequireInviteKey && !hasInviteCode {
		return ErrInviteRequired
	}

	// 3. A supplied code defers to the invite registry's verdict.
	if hasInviteCode {
		return nil
	}

	// 4. Without a code, the domain allowlist decides. Empty list means no
	// restriction.
	if len(settings.DomainAllowlist) == 0 {
		return nil
	}
	for _, allowed := range settings.DomainAllowlist {
		if strings.EqualFold(emailDomain, allowed) {
			return nil
		}
	}
	return ErrDomainNotAllowed
}

// emailDomain validates the address shape and returns its lowercased domain.
func emailDomain(email string) (string, error) {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(email[at+1:]), nil
}
