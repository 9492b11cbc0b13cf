package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
	"github.com/avalonfair/gatehouse/internal/gate/store"
	"github.com/avalonfair/gatehouse/pkg/cryptox"
	"github.com/avalonfair/gatehouse/pkg/idx"
	"github.com/avalonfair/gatehouse/pkg/slogx"
)

var (
	ErrInvalidInviteRequest = errors.New("invalid invite request")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrInviteRevoked        = errors.New("invite revoked")
	ErrInviteExpired        = errors.New("invite expired")
	ErrInviteExhausted      = errors.New("invite exhausted")
	ErrInviteEmailMismatch  = errors.New("invite restricted to a different email")
	ErrInviteDomainMismatch = errors.New("invite restricted to a different domain")

	// ErrInviteCodeGeneration means the entropy source kept colliding with
	// existing codes. Configuration-level failure, not a user error.
	ErrInviteCodeGeneration = errors.New("could not generate a unique invite code")
)

// maxCodeAttempts bounds code-generation retries on unique-index collision.
const maxCodeAttempts = 5

// CreateInviteParams are the admin-supplied attributes of a new invite.
type CreateInviteParams struct {
	Email     string
	Domain    string
	MaxUses   int
	ExpiresAt *time.Time
	Notes     string
	CreatedBy string
}

// InviteService owns the invite registry: minting, validation, consumption,
// and the admin CRUD surface.
type InviteService struct {
	Store store.Store

	// BaseURL is the public site root used for shareable links.
	BaseURL string

	// NewCode overrides code generation in tests. Nil means the default
	// high-entropy generator.
	NewCode func() (string, error)
}

// Create mints a new invite with a code guaranteed unique against existing
// ones, retrying generation a bounded number of times on collision.
func (s *InviteService) Create(ctx context.Context, p CreateInviteParams) (domain.Invite, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate constraints. Email and domain restrictions are mutually
	// exclusive; a use budget below one makes no sense.
	if p.Email != "" && p.Domain != "" {
		return domain.Invite{}, fmt.Errorf("%w: email and domain restrictions are mutually exclusive", ErrInvalidInviteRequest)
	}
	if p.MaxUses <= 0 {
		p.MaxUses = 1
	}
	now := time.Now().UTC()
	if p.ExpiresAt != nil && p.ExpiresAt.Before(now) {
		return domain.Invite{}, fmt.Errorf("%w: expiry is in the past", ErrInvalidInviteRequest)
	}

	newCode := s.NewCode
	if newCode == nil {
		newCode = func() (string, error) {
			return cryptox.GenerateToken(cryptox.TokenSize128)
		}
	}

	// 2. Generate and insert, retrying on code collision.
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := newCode()
		if err != nil {
			log.Error("failed to generate invite code", slog.Any("error", err))
			return domain.Invite{}, err
		}

		inv := domain.Invite{
			ID:        idx.New().String(),
			Code:      code,
			Email:     strings.ToLower(p.Email),
			Domain:    strings.ToLower(p.Domain),
			MaxUses:   p.MaxUses,
			Uses:      0,
			ExpiresAt: p.ExpiresAt,
			Status:    domain.InviteStatusActive,
			Notes:     p.Notes,
			CreatedBy: p.CreatedBy,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = s.Store.Invites().CreateInvite(ctx, inv)
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("invite code collision, regenerating", slog.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			log.Error("failed to create invite", slog.Any("error", err))
			return domain.Invite{}, err
		}

		log.Info("invite created",
			slog.String("invite_id", inv.ID),
			slog.String("created_by", inv.CreatedBy),
			slog.Int("max_uses", inv.MaxUses),
		)
		return inv, nil
	}

	log.Error("exhausted invite code generation attempts", slog.Int("attempts", maxCodeAttempts))
	return domain.Invite{}, ErrInviteCodeGeneration
}

// Validate is the read-only consumability check. It is also the one read
// path allowed to mutate: an invite discovered past its expiry is flipped to
// expired before the verdict is returned.
//
// An empty email skips the email/domain restriction checks; admin validation
// may probe a code without naming a recipient.
func (s *InviteService) Validate(ctx context.Context, code, email string) error {
	log := slogx.FromContext(ctx)

	inv, err := s.Store.Invites().GetInviteByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInviteNotFound
		}
		log.Error("failed to fetch invite", slog.Any("error", err))
		return err
	}

	return s.checkInvite(ctx, inv, email)
}

func (s *InviteService) checkInvite(ctx context.Context, inv domain.Invite, email string) error {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	// 1. Revocation wins over everything, including remaining uses. A spent
	// invite also lands in the expired status (the consume transition flips
	// it when the last use goes), so exhaustion has to be told apart here:
	// the caller needs to know whether a fresh code would help.
	switch inv.Status {
	case domain.InviteStatusRevoked:
		return ErrInviteRevoked
	case domain.InviteStatusExpired:
		if inv.Exhausted() {
			return ErrInviteExhausted
		}
		return ErrInviteExpired
	}

	// 2. Lazy expiry: a stale invite found active is expired on sight.
	if inv.ExpiredAt(now) {
		inv.Status = domain.InviteStatusExpired
		inv.UpdatedAt = now
		if err := s.Store.Invites().UpdateInvite(ctx, inv); err != nil {
			log.Error("failed to expire stale invite",
				slog.String("invite_id", inv.ID),
				slog.Any("error", err),
			)
		}
		return ErrInviteExpired
	}

	// 3. Exhaustion is reported distinctly from expiry so the client knows
	// whether a fresh code would help.
	if inv.Exhausted() {
		return ErrInviteExhausted
	}

	// 4. Recipient restrictions.
	if email != "" {
		if inv.Email != "" && !strings.EqualFold(inv.Email, email) {
			return ErrInviteEmailMismatch
		}
		if inv.Domain != "" && !strings.HasSuffix(strings.ToLower(email), "@"+inv.Domain) {
			return ErrInviteDomainMismatch
		}
	}

	return nil
}

// Consume spends one use of the invite for email, atomically against
// concurrent consumers. Returns the invite as it was before the spend so the
// caller can bind its id.
func (s *InviteService) Consume(ctx context.Context, code, email string) (domain.Invite, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	// 1. Full validation first for a precise reason on the common failures.
	inv, err := s.Store.Invites().GetInviteByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invite{}, ErrInviteNotFound
		}
		log.Error("failed to fetch invite", slog.Any("error", err))
		return domain.Invite{}, err
	}
	if err := s.checkInvite(ctx, inv, email); err != nil {
		return domain.Invite{}, err
	}

	// 2. The guarded update is the actual arbiter; validation above can
	// race. A conflicting write means someone else spent the last use (or
	// revoked it) between our read and this write.
	if err := s.Store.Invites().ConsumeInvite(ctx, code, now); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Invite{}, s.conflictReason(ctx, code, email)
		}
		log.Error("failed to consume invite",
			slog.String("invite_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.Invite{}, err
	}

	log.Info("invite consumed",
		slog.String("invite_id", inv.ID),
		slog.Int("use", inv.Uses+1),
		slog.Int("max_uses", inv.MaxUses),
	)
	return inv, nil
}

// conflictReason re-reads a losing invite to name why the guarded consume
// matched nothing.
func (s *InviteService) conflictReason(ctx context.Context, code, email string) error {
	if err := s.Validate(ctx, code, email); err != nil {
		return err
	}
	// Validation passes but the write lost; treat as exhausted by a racer.
	return ErrInviteExhausted
}

// Get returns an invite by id.
func (s *InviteService) Get(ctx context.Context, id string) (domain.Invite, error) {
	inv, err := s.Store.Invites().GetInviteByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invite{}, ErrInviteNotFound
		}
		return domain.Invite{}, err
	}
	return inv, nil
}

// List returns all invites, newest first.
func (s *InviteService) List(ctx context.Context) ([]domain.Invite, error) {
	return s.Store.Invites().ListInvites(ctx)
}

// UpdateInviteParams are the mutable fields of an invite. Nil means leave
// unchanged.
type UpdateInviteParams struct {
	Email     *string
	Domain    *string
	MaxUses   *int
	ExpiresAt *time.Time
	Status    *domain.InviteStatus
	Notes     *string
}

// Update patches an invite's mutable fields. Setting status to revoked here
// is how administrative revocation happens.
func (s *InviteService) Update(ctx context.Context, id string, p UpdateInviteParams) (domain.Invite, error) {
	log := slogx.FromContext(ctx)

	inv, err := s.Get(ctx, id)
	if err != nil {
		return domain.Invite{}, err
	}

	if p.Email != nil {
		inv.Email = strings.ToLower(*p.Email)
	}
	if p.Domain != nil {
		inv.Domain = strings.ToLower(*p.Domain)
	}
	if inv.Email != "" && inv.Domain != "" {
		return domain.Invite{}, fmt.Errorf("%w: email and domain restrictions are mutually exclusive", ErrInvalidInviteRequest)
	}
	if p.MaxUses != nil {
		if *p.MaxUses < 1 {
			return domain.Invite{}, fmt.Errorf("%w: max_uses must be at least 1", ErrInvalidInviteRequest)
		}
		inv.MaxUses = *p.MaxUses
	}
	if p.ExpiresAt != nil {
		inv.ExpiresAt = p.ExpiresAt
	}
	if p.Status != nil {
		switch *p.Status {
		case domain.InviteStatusActive, domain.InviteStatusRevoked, domain.InviteStatusExpired:
			inv.Status = *p.Status
		default:
			return domain.Invite{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInviteRequest, *p.Status)
		}
	}
	if p.Notes != nil {
		inv.Notes = *p.Notes
	}
	inv.UpdatedAt = time.Now().UTC()

	if err := s.Store.Invites().UpdateInvite(ctx, inv); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invite{}, ErrInviteNotFound
		}
		log.Error("failed to update invite", slog.String("invite_id", id), slog.Any("error", err))
		return domain.Invite{}, err
	}

	log.Info("invite updated", slog.String("invite_id", id))
	return inv, nil
}

// Delete removes an invite permanently.
func (s *InviteService) Delete(ctx context.Context, id string) error {
	log := slogx.FromContext(ctx)

	if err := s.Store.Invites().DeleteInvite(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInviteNotFound
		}
		log.Error("failed to delete invite", slog.String("invite_id", id), slog.Any("error", err))
		return err
	}

	log.Info("invite deleted", slog.String("invite_id", id))
	return nil
}

// ShareLink returns the shareable signup URL embedding an invite's code.
func (s *InviteService) ShareLink(ctx context.Context, id string) (string, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/signup?invite=%s", strings.TrimRight(s.BaseURL, "/"), url.QueryEscape(inv.Code)), nil
}
