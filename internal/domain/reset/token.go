// Package reset models password reset tokens. Only the hash of a token's secret is ever stored.
package reset

import (
	"errors"
	"time"
)

// ErrInvalidToken covers unknown, used and expired tokens alike.
var ErrInvalidToken = errors.New("invalid or expired token")

const GenericMessage = "If this email exists, a reset link has been sent."

type State int

const (
	StateActive State = iota
	StateUsed
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateUsed:
		return "used"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

type Token struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// StateAt reports the token state at now. A token is still active at exactly ExpiresAt.
func (t Token) StateAt(now time.Time) State {
	if t.UsedAt != nil {
		return StateUsed
	}
	if now.After(t.ExpiresAt) {
		return StateExpired
	}
	return StateActive
}

// Consume marks the token used, or fails if it is no longer active.
func (t *Token) Consume(now time.Time) error {
	if t.StateAt(now) != StateActive {
		return ErrInvalidToken
	}
	used := now
	t.UsedAt = &used
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"omitempty,max=255"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}
