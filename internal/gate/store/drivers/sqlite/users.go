package sqlite

import (
	"context"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, invite_id, created_at)
		VALUES (?, ?, ?, ?)`,
		u.ID,
		u.Email,
		u.InviteID,
		u.CreatedAt,
	)
	return mapUnique(err)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, invite_id, created_at FROM users WHERE email = ?`, email)

	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.InviteID, &u.CreatedAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}
