// Package email provides outbound email delivery for the application.
package email

import (
	"context"
	"time"

	"voicedesk_backend/platform/config"
	"voicedesk_backend/platform/logger"
)

// Sender delivers the application's transactional emails.
type Sender interface {
	SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error
	SendHandoffAlertEmail(ctx context.Context, toEmail, businessName, callID, summary string) error
	SendAppointmentReminderEmail(ctx context.Context, toEmail, customerName, customerPhone string, startsAt time.Time) error
}

// NewSender picks the configured implementation: SMTP when a host is
// set, otherwise a logging no-op so development environments work
// without a mail server.
func NewSender(cfg config.EmailConfig, log *logger.Logger) Sender {
	if !cfg.GetEmailEnabled() {
		return &NoopSender{log: log}
	}
	return NewSMTPSender(cfg)
}

// NoopSender logs instead of delivering. Used when email is disabled.
type NoopSender struct {
	log *logger.Logger
}

func (s *NoopSender) SendVerificationEmail(_ context.Context, toEmail, verifyURL string) error {
	s.log.Info("email disabled, skipping verification email", "to", toEmail, "url", verifyURL)
	return nil
}

func (s *NoopSender) SendHandoffAlertEmail(_ context.Context, toEmail, _, callID, _ string) error {
	s.log.Info("email disabled, skipping handoff alert", "to", toEmail, "call_id", callID)
	return nil
}

func (s *NoopSender) SendAppointmentReminderEmail(_ context.Context, toEmail, _, _ string, _ time.Time) error {
	s.log.Info("email disabled, skipping appointment reminder", "to", toEmail)
	return nil
}
