package notify

import (
	"context"
	"fmt"

	"github.com/wolfman30/debt-relief-intake/pkg/logging"
)

// DefaultSenderName labels intake emails when no display name is configured.
const DefaultSenderName = "Debt Relief Leads"

// EmailSender hands one message to a mail transport. Every transport is built
// with a fixed sender Identity; only the recipient travels with the message.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a rendered notification addressed to one recipient.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string // plain text
	HTML    string // optional
}

// Identity is the From of every intake notification.
type Identity struct {
	Email string
	Name  string
}

func (id Identity) withDefaults() Identity {
	if id.Name == "" {
		id.Name = DefaultSenderName
	}
	return id
}

// Header renders the identity as "Name <email>".
func (id Identity) Header() string {
	return fmt.Sprintf("%s <%s>", id.Name, id.Email)
}

// StubEmailSender only logs. It is the transport when no provider is
// configured, so local runs accept submissions without mail credentials.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("stub transport: submission email not delivered", "to", msg.To, "subject", msg.Subject)
	return nil
}

var _ EmailSender = (*StubEmailSender)(nil)
