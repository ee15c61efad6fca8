package services

import (
	"context"
	"fmt"
	"log/slog"

	"gymbooking/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, data *domain.BookingEmailData) error {
	return s.send(ctx, "booking_confirmed", data)
}

func (s *emailService) SendBookingCancellation(ctx context.Context, data *domain.BookingEmailData) error {
	return s.send(ctx, "booking_cancelled", data)
}

func (s *emailService) SendBookingReminder(ctx context.Context, data *domain.BookingEmailData) error {
	return s.send(ctx, "booking_reminder", data)
}

func (s *emailService) send(ctx context.Context, templateName string, data *domain.BookingEmailData) error {
	if data == nil {
		return fmt.Errorf("%s email data is nil", templateName)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateName, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", templateName, "to", data.Email)
	return nil
}
