package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rakshithjm97/ivms3/internal/observability"
)

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenRevoked  = errors.New("refresh token revoked")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
	ErrRefreshTokenMismatch = errors.New("refresh token hash mismatch")
)

type RefreshTokenRow struct {
	ID         string
	UserID     string
	TokenHash  string
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	ReplacedBy *string
	CreatedAt  time.Time
}

type RefreshTokensRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRefreshTokensRepo(pool *pgxpool.Pool, prom *observability.Prom) *RefreshTokensRepo {
	return &RefreshTokensRepo{pool: pool, prom: prom}
}

func (r *RefreshTokensRepo) Create(ctx context.Context, row RefreshTokenRow) error {
	return r.prom.ObserveDB("refresh_tokens.create", func() error {
		return insertRefreshToken(ctx, r.pool, row)
	})
}

// Rotate revokes the presented token and stores its replacement in one transaction. The old
// row is locked so two concurrent refreshes cannot both succeed. It returns the user id.
func (r *RefreshTokensRepo) Rotate(ctx context.Context, oldID, presentedHash string, next RefreshTokenRow) (string, error) {
	var userID string

	err := r.prom.ObserveDB("refresh_tokens.rotate", func() error {
		return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
			row, err := getRefreshForUpdate(ctx, tx, oldID)
			if err != nil {
				return err
			}

			switch {
			case row.RevokedAt != nil:
				return ErrRefreshTokenRevoked
			case time.Now().UTC().After(row.ExpiresAt):
				return ErrRefreshTokenExpired
			case row.TokenHash != presentedHash:
				return ErrRefreshTokenMismatch
			}

			if _, err := tx.Exec(ctx, `
				UPDATE refresh_tokens SET revoked_at = NOW(), replaced_by = $2 WHERE id = $1
			`, row.ID, next.ID); err != nil {
				return err
			}

			next.UserID = row.UserID
			if err := insertRefreshToken(ctx, tx, next); err != nil {
				return err
			}

			userID = row.UserID
			return nil
		})
	})

	return userID, err
}

// Revoke marks the token revoked. Revoking an unknown or already revoked token is not an error.
func (r *RefreshTokensRepo) Revoke(ctx context.Context, id string) error {
	return r.prom.ObserveDB("refresh_tokens.revoke", func() error {
		_, err := r.pool.Exec(ctx, `
			UPDATE refresh_tokens SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL
		`, id)
		return err
	})
}

func insertRefreshToken(ctx context.Context, db pgxExecer, row RefreshTokenRow) error {
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	_, err := db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked_at, replaced_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, row.ID, row.UserID, row.TokenHash, row.ExpiresAt, row.RevokedAt, row.ReplacedBy, row.CreatedAt)
	return err
}

func getRefreshForUpdate(ctx context.Context, tx pgx.Tx, id string) (RefreshTokenRow, error) {
	var row RefreshTokenRow

	err := tx.QueryRow(ctx, `
		SELECT id, user_id, token_hash, expires_at, revoked_at, replaced_by, created_at
		FROM refresh_tokens
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&row.ID, &row.UserID, &row.TokenHash, &row.ExpiresAt, &row.RevokedAt, &row.ReplacedBy, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RefreshTokenRow{}, ErrRefreshTokenNotFound
		}
		return RefreshTokenRow{}, err
	}

	return row, nil
}
