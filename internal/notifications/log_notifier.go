package notifications

import (
	"context"
	"log/slog"
)

// LogNotifier writes reset links to the log. With exposeLinks false only the recipient is
// logged, which is what non-development environments get when SMTP is not configured.
type LogNotifier struct {
	logger      *slog.Logger
	exposeLinks bool
}

func NewLogNotifier(logger *slog.Logger, exposeLinks bool) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger, exposeLinks: exposeLinks}
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, in PasswordResetInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	attrs := []any{"email", in.Email, "expires_in", in.ExpiresIn}
	if n.exposeLinks {
		attrs = append(attrs, "link", in.Link)
	}

	n.logger.InfoContext(ctx, "notification.password_reset", attrs...)
	return nil
}
