package notifications

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// mailSender is satisfied by *gomail.Dialer.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPNotifier struct {
	from   string
	sender mailSender
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		from:   cfg.From,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, in PasswordResetInput) error {
	m := buildResetMessage(n.from, in)

	// gomail has no context support; run the send so the caller's deadline still applies
	done := make(chan error, 1)
	go func() { done <- n.sender.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildResetMessage(from string, in PasswordResetInput) *gomail.Message {
	name := in.Name
	if name == "" {
		name = in.Email
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", in.Email)
	m.SetHeader("Subject", "Reset your password")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nUse the link below to choose a new password. It expires in %s.\n\n%s\n\n"+
			"If you did not ask for a reset you can ignore this email.\n",
		name, in.ExpiresIn, in.Link,
	))
	return m
}
