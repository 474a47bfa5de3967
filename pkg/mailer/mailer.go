// Package mailer sends account emails (verification, password reset).
package mailer

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"union-officer/backend/config"
)

// Mailer delivers account emails.
type Mailer interface {
	SendEmailVerification(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// Message is a rendered plain-text email.
type Message struct {
	Subject string
	Body    string
}

// New returns an SMTP mailer, or a log-only mailer when no SMTP host is configured.
func New(cfg *config.MailConfig, frontendURL string, logger *zap.Logger) Mailer {
	if cfg.SMTPHost == "" {
		logger.Warn("mail.smtp_host not set, emails will only be logged")
		return &LogMailer{frontendURL: frontendURL, logger: logger}
	}
	return &SMTPMailer{cfg: cfg, frontendURL: frontendURL, logger: logger}
}

// ── templates ──

func link(frontendURL, path, token string) string {
	return strings.TrimRight(frontendURL, "/") + path + "?token=" + url.QueryEscape(token)
}

// VerificationMessage renders the verify-email mail.
func VerificationMessage(frontendURL, token string) Message {
	return Message{
		Subject: "Xác thực tài khoản - Union Officer Management",
		Body: fmt.Sprintf(`Xin chào,

Cảm ơn bạn đã đăng ký tài khoản tại Union Officer Management System.

Vui lòng click vào link dưới đây để xác thực email của bạn:
%s

Link này sẽ hết hạn sau 24 giờ.

Nếu bạn không đăng ký tài khoản này, vui lòng bỏ qua email này.

Trân trọng,
Union Officer Management Team
`, link(frontendURL, "/verify-email", token)),
	}
}

// PasswordResetMessage renders the reset-password mail.
func PasswordResetMessage(frontendURL, token string) Message {
	return Message{
		Subject: "Đặt lại mật khẩu - Union Officer Management",
		Body: fmt.Sprintf(`Xin chào,

Chúng tôi nhận được yêu cầu đặt lại mật khẩu cho tài khoản của bạn.

Vui lòng click vào link dưới đây để đặt lại mật khẩu:
%s

Link này sẽ hết hạn sau 1 giờ.

Nếu bạn không yêu cầu đặt lại mật khẩu, vui lòng bỏ qua email này.

Trân trọng,
Union Officer Management Team
`, link(frontendURL, "/reset-password", token)),
	}
}

// ── SMTP ──

// SMTPMailer sends through go-mail with opportunistic STARTTLS.
type SMTPMailer struct {
	cfg         *config.MailConfig
	frontendURL string
	logger      *zap.Logger
}

func (m *SMTPMailer) SendEmailVerification(ctx context.Context, to, token string) error {
	return m.send(ctx, to, VerificationMessage(m.frontendURL, token))
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, token string) error {
	return m.send(ctx, to, PasswordResetMessage(m.frontendURL, token))
}

func (m *SMTPMailer) send(ctx context.Context, to string, msg Message) error {
	em := mail.NewMsg()
	if err := em.From(m.cfg.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := em.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	em.Subject(msg.Subject)
	em.SetBodyString(mail.TypeTextPlain, msg.Body)

	opts := []mail.Option{
		mail.WithPort(m.cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, em); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.Info("mail sent", zap.String("to", to), zap.String("subject", msg.Subject))
	return nil
}

// ── log only ──

// LogMailer writes the rendered link to the log. Used in development.
type LogMailer struct {
	frontendURL string
	logger      *zap.Logger
}

func (m *LogMailer) SendEmailVerification(_ context.Context, to, _ string) error {
	m.logger.Info("verification mail not delivered (smtp disabled)",
		zap.String("to", to),
		zap.String("link_base", link(m.frontendURL, "/verify-email", "")),
	)
	return nil
}

func (m *LogMailer) SendPasswordReset(_ context.Context, to, _ string) error {
	m.logger.Info("password reset mail not delivered (smtp disabled)",
		zap.String("to", to),
		zap.String("link_base", link(m.frontendURL, "/reset-password", "")),
	)
	return nil
}
