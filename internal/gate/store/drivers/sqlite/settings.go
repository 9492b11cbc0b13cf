package sqlite

import (
	"context"
	"strings"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
	"github.com/avalonfair/gatehouse/internal/gate/store"
)

type settingsRepo struct {
	db dbtx
}

// The settings table holds a single row with id=1, seeded by the initial
// migration. The allowlist is stored space-separated.

func (r *settingsRepo) GetSettings(ctx context.Context) (domain.Settings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT invite_only, domain_allowlist, require_invite_key, updated_at
		FROM settings WHERE id = 1`)

	var (
		s         domain.Settings
		allowlist string
	)
	if err := row.Scan(&s.InviteOnly, &allowlist, &s.RequireInviteKey, &s.UpdatedAt); err != nil {
		return domain.Settings{}, mapNotFound(err)
	}
	s.DomainAllowlist = splitAndFilter(allowlist)
	return s, nil
}

func (r *settingsRepo) UpdateSettings(ctx context.Context, s domain.Settings) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE settings
		SET invite_only = ?, domain_allowlist = ?, require_invite_key = ?, updated_at = ?
		WHERE id = 1`,
		s.InviteOnly,
		strings.Join(s.DomainAllowlist, " "),
		s.RequireInviteKey,
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
