package main

import (
	"context"
	"fmt"

	"github.com/wolfman30/debt-relief-intake/cmd/mainconfig"
	appconfig "github.com/wolfman30/debt-relief-intake/internal/config"
	"github.com/wolfman30/debt-relief-intake/internal/notify"
	"github.com/wolfman30/debt-relief-intake/pkg/logging"
)

// newEmailSender builds the transport named by the resolved provider. The
// constructors return typed nils when unconfigured, so each result is checked
// before it becomes an interface value.
func newEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, error) {
	from := notify.Identity{Email: cfg.EmailFrom, Name: cfg.EmailFromName}
	switch provider := cfg.ResolvedEmailProvider(); provider {
	case appconfig.EmailProviderSendGrid:
		s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey: cfg.SendGridAPIKey,
			From:   from,
		}, logger)
		if s == nil {
			return nil, fmt.Errorf("sendgrid: SENDGRID_API_KEY is required")
		}
		return s, nil

	case appconfig.EmailProviderResend:
		s := notify.NewResendSender(notify.ResendConfig{
			APIKey: cfg.ResendAPIKey,
			From:   from,
		}, logger)
		if s == nil {
			return nil, fmt.Errorf("resend: RESEND_API_KEY is required")
		}
		return s, nil

	case appconfig.EmailProviderSMTP:
		s := notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Password: cfg.SMTPPassword,
			From:     from,
		}, logger)
		if s == nil {
			return nil, fmt.Errorf("smtp: SMTP_HOST is required")
		}
		return s, nil

	case appconfig.EmailProviderSES:
		client, err := mainconfig.NewSESClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ses: load aws config: %w", err)
		}
		return notify.NewSESSender(client, notify.SESConfig{
			From: from,
		}, logger), nil

	case appconfig.EmailProviderStub:
		logger.Warn("no email transport configured; submissions will only be logged")
		return notify.NewStubEmailSender(logger), nil

	default:
		return nil, fmt.Errorf("unknown email provider %q", provider)
	}
}
