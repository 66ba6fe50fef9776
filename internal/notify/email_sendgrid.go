package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/wolfman30/debt-relief-intake/pkg/logging"
)

// sendGridAPI is satisfied by *sendgrid.Client.
type sendGridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridConfig configures the SendGrid transport.
type SendGridConfig struct {
	APIKey string
	From   Identity
}

// SendGridSender delivers intake notifications through the SendGrid v3 API.
type SendGridSender struct {
	api    sendGridAPI
	from   Identity
	logger *logging.Logger
}

// NewSendGridSender returns nil when no API key is configured.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridSender{
		api:    sendgrid.NewSendClient(cfg.APIKey),
		from:   cfg.From.withDefaults(),
		logger: logger,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.api == nil {
		return errors.New("notify: sendgrid sender not configured")
	}

	resp, err := s.api.SendWithContext(ctx, s.compose(msg))
	if err != nil {
		s.logger.Error("sendgrid request failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: sendgrid: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		s.logger.Error("sendgrid rejected submission email", "status", resp.StatusCode, "body", resp.Body, "to", msg.To)
		return fmt.Errorf("notify: sendgrid: status %d", resp.StatusCode)
	}

	s.logger.Info("submission email accepted by sendgrid", "to", msg.To, "status", resp.StatusCode)
	return nil
}

// compose builds the v3 payload. SendGrid requires an HTML part, so the
// plain text stands in when the message has none.
func (s *SendGridSender) compose(msg EmailMessage) *mail.SGMailV3 {
	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	return mail.NewSingleEmail(
		mail.NewEmail(s.from.Name, s.from.Email),
		msg.Subject,
		mail.NewEmail(msg.ToName, msg.To),
		msg.Body,
		html,
	)
}

var _ EmailSender = (*SendGridSender)(nil)
