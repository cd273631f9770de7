package mailer

import "context"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Subject/Text/HTML are set directly, or Template and Data name an
// embedded template set that the worker renders.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "user_registered"
	Data     map[string]any `json:"data,omitempty"`
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}
