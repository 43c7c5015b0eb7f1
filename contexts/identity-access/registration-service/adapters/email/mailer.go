package emailadapter

import (
	"context"
	"log/slog"

	"eduvote/contexts/identity-access/registration-service/ports"
)

// LogMailer writes the verification link to the log instead of sending
// mail. Production deployments swap in a real delivery adapter behind the
// same port.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendVerificationEmail(_ context.Context, email string, token string) error {
	m.logger.Info("verification email queued",
		"event", "registration_email_queued",
		"module", "identity-access/registration-service",
		"layer", "adapter",
		"email", email,
		"token", token,
	)
	return nil
}

var _ ports.Mailer = (*LogMailer)(nil)
