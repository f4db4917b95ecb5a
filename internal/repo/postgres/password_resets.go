package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rakshithjm97/ivms3/internal/domain/reset"
	"github.com/rakshithjm97/ivms3/internal/observability"
)

type PasswordResetsRepo struct {
	pool  *pgxpool.Pool
	prom  *observability.Prom
	users *UsersRepo
}

func NewPasswordResetsRepo(pool *pgxpool.Pool, prom *observability.Prom, users *UsersRepo) *PasswordResetsRepo {
	return &PasswordResetsRepo{pool: pool, prom: prom, users: users}
}

// Issue stores a new token for the user. Every token still active for that user is
// invalidated in the same transaction, so at most one is usable at a time.
func (r *PasswordResetsRepo) Issue(ctx context.Context, userID, tokenHash string, ttl time.Duration) (reset.Token, error) {
	now := time.Now().UTC()
	t := reset.Token{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: tokenHash,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	err := r.prom.ObserveDB("password_resets.issue", func() error {
		return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `
				UPDATE password_reset_tokens SET used_at = $2
				WHERE user_id = $1 AND used_at IS NULL
			`, userID, now); err != nil {
				return err
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO password_reset_tokens (id, user_id, token_hash, created_at, expires_at)
				VALUES ($1, $2, $3, $4, $5)
			`, t.ID, t.UserID, t.TokenHash, t.CreatedAt, t.ExpiresAt)
			return err
		})
	})
	if err != nil {
		return reset.Token{}, err
	}

	return t, nil
}

// Consume validates the token by hash, sets the new password hash and marks the token used.
// Unknown, used and expired tokens all yield reset.ErrInvalidToken.
func (r *PasswordResetsRepo) Consume(ctx context.Context, tokenHash, newPasswordHash string) error {
	return r.prom.ObserveDB("password_resets.consume", func() error {
		return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
			var t reset.Token

			err := tx.QueryRow(ctx, `
				SELECT id, user_id, token_hash, created_at, expires_at, used_at
				FROM password_reset_tokens
				WHERE token_hash = $1
				FOR UPDATE
			`, tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt, &t.UsedAt)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return reset.ErrInvalidToken
				}
				return err
			}

			if err := t.Consume(time.Now().UTC()); err != nil {
				return err
			}

			if err := r.users.UpdatePasswordTx(ctx, tx, t.UserID, newPasswordHash); err != nil {
				if errors.Is(err, ErrUserNotFound) {
					return reset.ErrInvalidToken
				}
				return err
			}

			_, err = tx.Exec(ctx, `UPDATE password_reset_tokens SET used_at = $2 WHERE id = $1`, t.ID, *t.UsedAt)
			return err
		})
	})
}
