package notify

import (
	"context"

	"example.com/ecosangam/internal/certificate"
	"example.com/ecosangam/internal/mail"
)

// NewGmailNotifier builds a Notifier that renders certificates signed by issuer and
// sends them through Gmail.
func NewGmailNotifier(ctx context.Context, cfg mail.GmailConfig, issuer string, opts ...Option) (*Notifier, error) {
	sender, err := mail.NewGmailSender(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewNotifier(certificate.NewRenderer(issuer), sender, opts...), nil
}
