package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// BookingEmailData holds the fields shown in booking emails.
type BookingEmailData struct {
	Email     string
	Name      string
	BlockName string
	Date      string
	StartTime string
	EndTime   string
}

// EmailService defines the booking-related emails.
type EmailService interface {
	SendBookingConfirmation(ctx context.Context, data *BookingEmailData) error
	SendBookingCancellation(ctx context.Context, data *BookingEmailData) error
	SendBookingReminder(ctx context.Context, data *BookingEmailData) error
}
