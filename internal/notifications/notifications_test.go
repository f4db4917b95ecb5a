package notifications

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"gopkg.in/gomail.v2"
)

type fakeNotifier struct {
	calls int
	err   error
	block bool
}

func (f *fakeNotifier) SendPasswordReset(ctx context.Context, _ PasswordResetInput) error {
	f.calls++
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func TestProtectedNotifier_OpensAfterThreshold(t *testing.T) {
	inner := &fakeNotifier{err: errors.New("provider down")}
	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{FailureThreshold: 2, Cooldown: time.Hour})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := n.SendPasswordReset(ctx, PasswordResetInput{}); err == nil {
			t.Fatalf("expected provider error on call %d", i)
		}
	}

	if err := n.SendPasswordReset(ctx, PasswordResetInput{}); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("open circuit must not call the provider, calls=%d", inner.calls)
	}
	if n.State() != "open" {
		t.Fatalf("expected open, got %s", n.State())
	}
}

func TestProtectedNotifier_HalfOpenRecovers(t *testing.T) {
	inner := &fakeNotifier{err: errors.New("provider down")}
	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{FailureThreshold: 1, Cooldown: time.Millisecond})
	ctx := context.Background()

	_ = n.SendPasswordReset(ctx, PasswordResetInput{})
	time.Sleep(5 * time.Millisecond)

	inner.err = nil
	if err := n.SendPasswordReset(ctx, PasswordResetInput{}); err != nil {
		t.Fatalf("expected trial call to succeed, got %v", err)
	}
	if n.State() != "closed" {
		t.Fatalf("expected closed, got %s", n.State())
	}
}

func TestProtectedNotifier_Timeout(t *testing.T) {
	inner := &fakeNotifier{block: true}
	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{Timeout: 10 * time.Millisecond})

	err := n.SendPasswordReset(context.Background(), PasswordResetInput{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestLogNotifier_HidesLinkOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	in := PasswordResetInput{Email: "u@x.com", Link: "https://app/reset?token=secret", ExpiresIn: "30m0s"}

	if err := NewLogNotifier(logger, false).SendPasswordReset(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "secret") {
		t.Fatalf("link leaked into log: %s", buf.String())
	}

	buf.Reset()
	if err := NewLogNotifier(logger, true).SendPasswordReset(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "token=secret") {
		t.Fatalf("expected link in dev log: %s", buf.String())
	}
}

type fakeSender struct {
	msgs []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.msgs = append(f.msgs, m...)
	return f.err
}

func TestSMTPNotifier_BuildsMessage(t *testing.T) {
	sender := &fakeSender{}
	n := &SMTPNotifier{from: "no-reply@aidash.com", sender: sender}

	err := n.SendPasswordReset(context.Background(), PasswordResetInput{
		Email: "u@x.com", Name: "U", Link: "https://app/reset?token=abc", ExpiresIn: "30m0s",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.msgs))
	}

	m := sender.msgs[0]
	if got := m.GetHeader("To"); len(got) != 1 || got[0] != "u@x.com" {
		t.Fatalf("unexpected To header %v", got)
	}

	var body bytes.Buffer
	if _, err := m.WriteTo(&body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body.String(), "token=3Dabc") && !strings.Contains(body.String(), "token=abc") {
		t.Fatalf("reset link missing from body: %s", body.String())
	}
}

func TestSMTPNotifier_WrapsSendError(t *testing.T) {
	n := &SMTPNotifier{from: "a@b.c", sender: &fakeSender{err: errors.New("refused")}}
	if err := n.SendPasswordReset(context.Background(), PasswordResetInput{Email: "u@x.com"}); err == nil {
		t.Fatalf("expected error")
	}
}
