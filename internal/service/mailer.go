package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hirewire/hirewire-backend/internal/config"
	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/observability"

	"github.com/wneessen/go-mail"
)

// OTPMailer delivers one-time passcodes out of band. Delivery failure is
// independent of the persisted OTP state.
type OTPMailer interface {
	SendOTPEmail(ctx context.Context, email, code string, purpose domain.OTPPurpose, ttl time.Duration) error
}

type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, email, name string) error
}

// DevMailer logs outbound mail instead of sending it. Default outside of
// SMTP-enabled deployments.
type DevMailer struct {
	logger *slog.Logger
}

func NewDevMailer(logger *slog.Logger) *DevMailer {
	return &DevMailer{logger: logger}
}

func (m *DevMailer) SendOTPEmail(ctx context.Context, email, code string, purpose domain.OTPPurpose, ttl time.Duration) error {
	m.logger.InfoContext(ctx, "otp email issued",
		"email", email,
		"purpose", purpose,
		"code", code,
		"ttl", ttl,
	)
	return nil
}

func (m *DevMailer) SendWelcomeEmail(ctx context.Context, email, name string) error {
	m.logger.InfoContext(ctx, "welcome email issued", "email", email, "name", name)
	return nil
}

type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.SMTPPort),
		mail.WithUsername(cfg.SMTPUsername),
		mail.WithPassword(cfg.SMTPPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.SMTPFrom}, nil
}

var otpSubjects = map[domain.OTPPurpose]string{
	domain.PurposeEmailVerification: "Verify your HireWire email",
	domain.PurposePasswordReset:     "Reset your HireWire password",
	domain.PurposeEmailChange:       "Confirm your new HireWire email",
}

func (m *SMTPMailer) SendOTPEmail(ctx context.Context, email, code string, purpose domain.OTPPurpose, ttl time.Duration) error {
	subject, ok := otpSubjects[purpose]
	if !ok {
		subject = "Your HireWire passcode"
	}
	body := fmt.Sprintf("Your passcode is %s. It expires in %d minutes.", code, int(ttl.Minutes()))
	return m.send(ctx, email, subject, body, "otp")
}

func (m *SMTPMailer) SendWelcomeEmail(ctx context.Context, email, name string) error {
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf("Hi %s,\n\nYour email is verified and your HireWire account is ready.", name)
	return m.send(ctx, email, "Welcome to HireWire", body, "welcome")
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body, kind string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set mail sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set mail recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		observability.RecordMailDelivery(ctx, kind, "error")
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	observability.RecordMailDelivery(ctx, kind, "success")
	return nil
}
