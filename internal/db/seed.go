package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rakshithjm97/ivms3/internal/config"
	"github.com/rakshithjm97/ivms3/internal/domain/user"
	"github.com/rakshithjm97/ivms3/internal/security"
)

type seedUser struct {
	email string
	name  string
	role  user.Role
}

var sampleUsers = []seedUser{
	{"user1@aidash.com", "User One", user.RoleUser},
	{"user2@aidash.com", "User Two", user.RoleUser},
	{"manager1@aidash.com", "Manager One", user.RoleManager},
	{"team_lead1@aidash.com", "Team Lead One", user.RoleTeamLead},
}

// EnsureAdminUser creates the configured admin account if it does not exist yet. With
// SeedSampleUsers set and no other accounts present, a few sample accounts sharing the
// admin password are added too. It returns the number of accounts created.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) (int, error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return 0, nil
	}

	hash, err := security.HashPassword(cfg.AdminPassword)
	if err != nil {
		return 0, fmt.Errorf("hash admin password: %w", err)
	}

	created := 0

	ok, err := insertIfMissing(ctx, pool, cfg.AdminEmail, cfg.AdminName, user.RoleAdmin, hash)
	if err != nil {
		return 0, err
	}
	if ok {
		created++
	}

	if !cfg.SeedSampleUsers {
		return created, nil
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		return created, err
	}
	if count > 1 {
		return created, nil
	}

	for _, s := range sampleUsers {
		ok, err := insertIfMissing(ctx, pool, s.email, s.name, s.role, hash)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	return created, nil
}

func insertIfMissing(ctx context.Context, pool *pgxpool.Pool, email, name string, role user.Role, hash string) (bool, error) {
	tag, err := pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING
	`, uuid.NewString(), email, hash, name, string(role), time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("seed user %s: %w", email, err)
	}
	return tag.RowsAffected() == 1, nil
}
