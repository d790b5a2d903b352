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

// PageDigestEmailData holds data for the page digest email.
type PageDigestEmailData struct {
	Email          string
	SenderName     string
	CollectionName string
	PageNumber     int
	LastPage       int
	FirstIndex     int // 1-based, for display
	LastIndex      int // 1-based, for display
	TotalRecords   int
	Summary        string
	Records        []*Record
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendPageDigest(ctx context.Context, data *PageDigestEmailData) error
}
