package services

import (
	"context"
	"fmt"
	"log/slog"

	"recordpager/internal/domain"
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

// SendPageDigest sends one page of a collection using the "page_digest" template.
func (s *emailService) SendPageDigest(ctx context.Context, data *domain.PageDigestEmailData) error {
	if data == nil {
		return fmt.Errorf("page digest data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("page_digest", data)
	if err != nil {
		return fmt.Errorf("failed to render page_digest template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send page digest email: %w", err)
	}
	s.logger.InfoContext(ctx, "page digest sent", "to", data.Email, "collection", data.CollectionName, "page", data.PageNumber)
	return nil
}
