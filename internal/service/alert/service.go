// Package alert notifies operators about internal faults that the end user
// only ever sees as a generic error, most importantly a canonical branch
// name missing from the database.
package alert

import (
	"context"

	"go.uber.org/zap"
)

// Provider defines the interface for alert delivery backends
type Provider interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Service struct {
	provider   Provider
	adminEmail string
	log        *zap.Logger
}

// NewService builds the alert service. A nil provider (alerting not
// configured) degrades to logging only.
func NewService(provider Provider, adminEmail string, log *zap.Logger) *Service {
	return &Service{
		provider:   provider,
		adminEmail: adminEmail,
		log:        log,
	}
}

func (s *Service) Send(ctx context.Context, subject, body string) error {
	if s.provider == nil || s.adminEmail == "" {
		s.log.Warn("Alert raised without configured provider",
			zap.String("subject", subject),
			zap.String("body", body),
		)
		return nil
	}

	if err := s.provider.Send(ctx, s.adminEmail, subject, body); err != nil {
		s.log.Error("Failed to deliver alert", zap.String("subject", subject), zap.Error(err))
		return err
	}
	return nil
}
