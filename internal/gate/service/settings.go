package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
	"github.com/avalonfair/gatehouse/internal/gate/store"
	"github.com/avalonfair/gatehouse/pkg/slogx"
)

// SettingsService reads and mutates the singleton gating configuration.
type SettingsService struct {
	Store store.Store
}

// Get returns the current settings.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	return s.Store.Settings().GetSettings(ctx)
}

// SetInviteMode flips invite-only mode.
func (s *SettingsService) SetInviteMode(ctx context.Context, inviteOnly bool) (domain.Settings, error) {
	log := slogx.FromContext(ctx)

	settings, err := s.Store.Settings().GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	settings.InviteOnly = inviteOnly
	settings.UpdatedAt = time.Now().UTC()
	if err := s.Store.Settings().UpdateSettings(ctx, settings); err != nil {
		log.Error("failed to update settings", slog.Any("error", err))
		return domain.Settings{}, err
	}

	log.Info("invite mode updated", slog.Bool("invite_only", inviteOnly))
	return settings, nil
}

// SetRequirements replaces the domain allowlist and the mandatory-key flag.
// Allowlist entries are lowercased and deduplicated; empty entries dropped.
func (s *SettingsService) SetRequirements(ctx context.Context, allowlist []string, requireInviteKey bool) (domain.Settings, error) {
	log := slogx.FromContext(ctx)

	settings, err := s.Store.Settings().GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	cleaned := make([]string, 0, len(allowlist))
	seen := make(map[string]struct{}, len(allowlist))
	for _, d := range allowlist {
		d = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(d, "@")))
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		cleaned = append(cleaned, d)
	}

	settings.DomainAllowlist = cleaned
	settings.RequireInviteKey = requireInviteKey
	settings.UpdatedAt = time.Now().UTC()
	if err := s.Store.Settings().UpdateSettings(ctx, settings); err != nil {
		log.Error("failed to update settings", slog.Any("error", err))
		return domain.Settings{}, err
	}

	log.Info("invite requirements updated",
		slog.Int("allowlist_size", len(cleaned)),
		slog.Bool("require_invite_key", requireInviteKey),
	)
	return settings, nil
}
