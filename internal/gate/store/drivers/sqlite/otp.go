package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
	"github.com/avalonfair/gatehouse/internal/gate/store"
)

type otpRepo struct {
	db dbtx
}

const otpColumns = `id, email, code_hash, sent_at, expires_at, consumed, consumed_at, origin_hash, attempts, invite_code, active, created_at`

func (r *otpRepo) CreateOTP(ctx context.Context, rec domain.OTPRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO otp_records (id, email, code_hash, sent_at, expires_at, consumed, consumed_at, origin_hash, attempts, invite_code, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Email,
		rec.CodeHash,
		rec.SentAt,
		rec.ExpiresAt,
		rec.Consumed,
		mapOptionalTime(rec.ConsumedAt),
		rec.OriginHash,
		rec.Attempts,
		rec.InviteCode,
		rec.Active,
		rec.CreatedAt,
	)
	return mapUnique(err)
}

func (r *otpRepo) GetActiveOTPByEmail(ctx context.Context, email string) (domain.OTPRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+otpColumns+` FROM otp_records WHERE email = ? AND active = 1`, email)
	return scanOTP(row)
}

func (r *otpRepo) DeactivateOTPs(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE otp_records SET active = 0 WHERE email = ? AND active = 1`, email)
	return err
}

// IncrementOTPAttempts bumps the counter and reads the new value back in one
// statement so concurrent verifiers each observe a distinct count.
func (r *otpRepo) IncrementOTPAttempts(ctx context.Context, id string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE otp_records SET attempts = attempts + 1 WHERE id = ? RETURNING attempts`, id)
	var attempts int
	if err := row.Scan(&attempts); err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

func (r *otpRepo) MarkOTPConsumed(ctx context.Context, id string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE otp_records
		SET consumed = 1, consumed_at = ?
		WHERE id = ? AND consumed = 0`,
		now, id,
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

func (r *otpRepo) CountIssuedSince(ctx context.Context, email string, cutoff time.Time) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM otp_records WHERE email = ? AND sent_at >= ?`, email, cutoff)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *otpRepo) OldestIssuedSince(ctx context.Context, email string, cutoff time.Time) (time.Time, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT MIN(sent_at) FROM otp_records WHERE email = ? AND sent_at >= ?`, email, cutoff)
	var oldest sql.NullTime
	if err := row.Scan(&oldest); err != nil {
		return time.Time{}, err
	}
	if !oldest.Valid {
		return time.Time{}, store.ErrNotFound
	}
	return oldest.Time, nil
}

func (r *otpRepo) CountIssuedByOriginSince(ctx context.Context, originHash string, cutoff time.Time) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM otp_records WHERE origin_hash = ? AND sent_at >= ?`, originHash, cutoff)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *otpRepo) OldestIssuedByOriginSince(ctx context.Context, originHash string, cutoff time.Time) (time.Time, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT MIN(sent_at) FROM otp_records WHERE origin_hash = ? AND sent_at >= ?`, originHash, cutoff)
	var oldest sql.NullTime
	if err := row.Scan(&oldest); err != nil {
		return time.Time{}, err
	}
	if !oldest.Valid {
		return time.Time{}, store.ErrNotFound
	}
	return oldest.Time, nil
}

func (r *otpRepo) DeleteExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM otp_records WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanOTP(s scanner) (domain.OTPRecord, error) {
	var (
		rec        domain.OTPRecord
		consumedAt sql.NullTime
	)
	err := s.Scan(
		&rec.ID,
		&rec.Email,
		&rec.CodeHash,
		&rec.SentAt,
		&rec.ExpiresAt,
		&rec.Consumed,
		&consumedAt,
		&rec.OriginHash,
		&rec.Attempts,
		&rec.InviteCode,
		&rec.Active,
		&rec.CreatedAt,
	)
	if err != nil {
		return domain.OTPRecord{}, mapNotFound(err)
	}
	rec.ConsumedAt = mapNullTimePtr(consumedAt)
	return rec, nil
}
