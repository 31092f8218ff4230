package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeEmailData holds data for the signup welcome email.
type WelcomeEmailData struct {
	Email string
	Name  string
}

// EventStatusEmailData holds data for the approval-workflow notification email.
type EventStatusEmailData struct {
	Email      string
	Organizer  string
	EventTitle string
	Location   string
	StartDate  string
	Status     string
	Reason     string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeEmailData) error
	SendEventStatusNotice(ctx context.Context, data *EventStatusEmailData) error
}
