package mailer

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"union-officer/backend/config"
)

func TestVerificationMessage(t *testing.T) {
	msg := VerificationMessage("http://localhost:5173/", "abc123")

	if !strings.Contains(msg.Body, "http://localhost:5173/verify-email?token=abc123") {
		t.Errorf("body should contain verification link, got:\n%s", msg.Body)
	}
	if !strings.Contains(msg.Body, "24 giờ") {
		t.Error("body should mention the 24h expiry")
	}
	if msg.Subject == "" {
		t.Error("subject should not be empty")
	}
}

func TestPasswordResetMessage(t *testing.T) {
	msg := PasswordResetMessage("https://union.example.vn", "tok en")

	if !strings.Contains(msg.Body, "https://union.example.vn/reset-password?token=tok+en") {
		t.Errorf("body should contain escaped reset link, got:\n%s", msg.Body)
	}
	if !strings.Contains(msg.Body, "1 giờ") {
		t.Error("body should mention the 1h expiry")
	}
}

func TestNew_LogMailerWithoutHost(t *testing.T) {
	m := New(&config.MailConfig{}, "http://localhost:5173", zap.NewNop())

	if _, ok := m.(*LogMailer); !ok {
		t.Fatalf("expected LogMailer, got %T", m)
	}
	if err := m.SendEmailVerification(context.Background(), "a@union.vn", "t"); err != nil {
		t.Errorf("log mailer should not fail: %v", err)
	}
	if err := m.SendPasswordReset(context.Background(), "a@union.vn", "t"); err != nil {
		t.Errorf("log mailer should not fail: %v", err)
	}
}

func TestNew_SMTPMailerWithHost(t *testing.T) {
	m := New(&config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587}, "", zap.NewNop())
	if _, ok := m.(*SMTPMailer); !ok {
		t.Fatalf("expected SMTPMailer, got %T", m)
	}
}
