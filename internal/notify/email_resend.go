package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v3"
	"github.com/wolfman30/debt-relief-intake/pkg/logging"
)

// resendEmails is satisfied by the Emails service of a resend.Client.
type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendConfig configures the Resend transport.
type ResendConfig struct {
	APIKey string
	From   Identity
}

// ResendSender delivers intake notifications through the Resend API.
type ResendSender struct {
	emails resendEmails
	from   Identity
	logger *logging.Logger
}

// NewResendSender returns nil without an API key.
func NewResendSender(cfg ResendConfig, logger *logging.Logger) *ResendSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ResendSender{
		emails: resend.NewClient(cfg.APIKey).Emails,
		from:   cfg.From.withDefaults(),
		logger: logger,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.emails == nil {
		return errors.New("notify: resend sender not configured")
	}

	resp, err := s.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from.Header(),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Body,
	})
	if err != nil {
		s.logger.Error("resend rejected submission email", "error", err, "to", msg.To)
		return fmt.Errorf("notify: resend: %w", err)
	}

	var id string
	if resp != nil {
		id = resp.Id
	}
	s.logger.Info("submission email accepted by resend", "to", msg.To, "message_id", id)
	return nil
}

var _ EmailSender = (*ResendSender)(nil)
