package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
	"github.com/avalonfair/gatehouse/internal/gate/store"
)

type invitesRepo struct {
	db dbtx
}

const inviteColumns = `id, code, email, domain, max_uses, uses, expires_at, status, notes, created_by, created_at, updated_at`

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invites (id, code, email, domain, max_uses, uses, expires_at, status, notes, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.Code,
		inv.Email,
		inv.Domain,
		inv.MaxUses,
		inv.Uses,
		mapOptionalTime(inv.ExpiresAt),
		string(inv.Status),
		inv.Notes,
		inv.CreatedBy,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	return mapUnique(err)
}

func (r *invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+inviteColumns+` FROM invites WHERE id = ?`, id)
	return scanInvite(row)
}

func (r *invitesRepo) GetInviteByCode(ctx context.Context, code string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+inviteColumns+` FROM invites WHERE code = ?`, code)
	return scanInvite(row)
}

func (r *invitesRepo) ListInvites(ctx context.Context) ([]domain.Invite, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+inviteColumns+` FROM invites ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// ConsumeInvite spends one use in a single guarded UPDATE. The WHERE clause
// re-checks every consumability condition so concurrent consumers race on the
// row itself; the loser matches zero rows and gets ErrConflict.
func (r *invitesRepo) ConsumeInvite(ctx context.Context, code string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invites
		SET uses = uses + 1,
		    status = CASE WHEN uses + 1 >= max_uses THEN 'expired' ELSE status END,
		    updated_at = ?
		WHERE code = ?
		  AND status = 'active'
		  AND uses < max_uses
		  AND (expires_at IS NULL OR expires_at > ?)`,
		now, code, now,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *invitesRepo) UpdateInvite(ctx context.Context, inv domain.Invite) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invites
		SET email = ?, domain = ?, max_uses = ?, expires_at = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		inv.Email,
		inv.Domain,
		inv.MaxUses,
		mapOptionalTime(inv.ExpiresAt),
		string(inv.Status),
		inv.Notes,
		inv.UpdatedAt,
		inv.ID,
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

func (r *invitesRepo) DeleteInvite(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invites WHERE id = ?`, id)
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

func (r *invitesRepo) ExpireInvites(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invites
		SET status = 'expired', updated_at = ?
		WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at <= ?`,
		now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInvite(s scanner) (domain.Invite, error) {
	var (
		inv       domain.Invite
		expiresAt sql.NullTime
		status    string
	)
	err := s.Scan(
		&inv.ID,
		&inv.Code,
		&inv.Email,
		&inv.Domain,
		&inv.MaxUses,
		&inv.Uses,
		&expiresAt,
		&status,
		&inv.Notes,
		&inv.CreatedBy,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	inv.ExpiresAt = mapNullTimePtr(expiresAt)
	inv.Status = domain.InviteStatus(strings.TrimSpace(status))
	return inv, nil
}
