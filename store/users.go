package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/mbolis/quick-brief/model"
)

const RoleAdmin = "admin"

// Credentials returns an active admin user and its password hash.
func (s *Store) Credentials(ctx context.Context, email string) (user model.User, hash []byte, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT id, email, role, is_active, password_hash
		FROM users
		WHERE email = ?
			AND is_active = 1
			AND role = ?`,
		email, RoleAdmin,
	).Scan(&user.ID, &user.Email, &user.Role, &user.IsActive, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return user, nil, &model.NotFoundError{What: "user", ID: email}
	}
	if err != nil {
		return user, nil, errors.Wrap(err, "db.get_credentials")
	}
	return user, hash, nil
}

// SaveAdmin creates an admin user or resets the password and role of an existing one.
func (s *Store) SaveAdmin(ctx context.Context, email string, hash []byte) (id int64, err error) {
	err = s.withTx(ctx, "db.save_admin", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (email, password_hash, role, is_active, created_at)
			VALUES (?, ?, ?, 1, ?)
			ON CONFLICT (email) DO UPDATE SET
				password_hash = excluded.password_hash,
				role = excluded.role,
				is_active = 1`,
			email, hash, RoleAdmin, s.now(),
		)
		if err != nil {
			return errors.Wrap(err, "db.save_admin.upsert")
		}
		return errors.Wrap(
			tx.QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, email).Scan(&id),
			"db.save_admin.id",
		)
	})
	return
}

// StoreToken records an issued access/refresh pair so the refresh token can be redeemed once.
func (s *Store) StoreToken(ctx context.Context, username, tokenID, refreshTokenID string, expiration time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO token (username, token_id, refresh_token_id, expiration)
		VALUES (?, ?, ?, ?)`,
		username, tokenID, refreshTokenID, expiration.UTC(),
	)
	return errors.Wrap(err, "db.store_token")
}

// RedeemToken deletes a recorded pair and fails if it was unknown or expired.
func (s *Store) RedeemToken(ctx context.Context, username, tokenID, refreshTokenID string) error {
	return s.withTx(ctx, "db.redeem_token", func(tx *sql.Tx) error {
		var expiration time.Time
		err := tx.QueryRowContext(ctx, `
			SELECT expiration
			FROM token
			WHERE username = ?
				AND token_id = ?
				AND refresh_token_id = ?`,
			username, tokenID, refreshTokenID,
		).Scan(&expiration)
		if errors.Is(err, sql.ErrNoRows) {
			return errors.WithMessage(model.ErrUnauthorized, "could not refresh")
		}
		if err != nil {
			return errors.Wrap(err, "db.redeem_token.get")
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM token
			WHERE token_id = ?
				AND refresh_token_id = ?`,
			tokenID, refreshTokenID,
		)
		if err != nil {
			return errors.Wrap(err, "db.redeem_token.delete")
		}

		if expiration.Before(s.now()) {
			return errors.WithMessage(model.ErrUnauthorized, "refresh token expired")
		}
		return nil
	})
}
