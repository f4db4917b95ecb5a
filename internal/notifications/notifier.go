package notifications

import "context"

// PasswordResetInput is what a user needs to finish a reset. Link carries the raw secret and
// must never be logged outside development.
type PasswordResetInput struct {
	Email     string
	Name      string
	Link      string
	ExpiresIn string
}

type Notifier interface {
	SendPasswordReset(ctx context.Context, input PasswordResetInput) error
}
