package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
	"github.com/wolfman30/debt-relief-intake/pkg/logging"
)

const (
	smtpSubmissionPort  = 587
	smtpImplicitTLSPort = 465
	smtpTimeout         = 10 * time.Second
)

// SMTPConfig configures an SMTP relay such as Gmail. Username defaults to the
// sender address.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     Identity
}

// SMTPSender delivers intake notifications over SMTP: implicit TLS on 465,
// STARTTLS whenever the server offers it otherwise.
type SMTPSender struct {
	cfg    SMTPConfig
	logger *logging.Logger
}

// NewSMTPSender returns nil without a host.
func NewSMTPSender(cfg SMTPConfig, logger *logging.Logger) *SMTPSender {
	if cfg.Host == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Port == 0 {
		cfg.Port = smtpSubmissionPort
	}
	cfg.From = cfg.From.withDefaults()
	if cfg.Username == "" {
		cfg.Username = cfg.From.Email
	}
	return &SMTPSender{cfg: cfg, logger: logger}
}

func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil {
		return errors.New("notify: smtp sender not configured")
	}

	m, err := s.message(msg)
	if err != nil {
		return fmt.Errorf("notify: smtp: build message: %w", err)
	}
	client, err := gomail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("notify: smtp: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		s.logger.Error("smtp relay rejected submission email", "error", err, "host", s.cfg.Host, "to", msg.To)
		return fmt.Errorf("notify: smtp: %w", err)
	}

	s.logger.Info("submission email accepted by smtp relay", "to", msg.To, "host", s.cfg.Host)
	return nil
}

func (s *SMTPSender) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTimeout(smtpTimeout),
	}
	if s.cfg.Port == smtpImplicitTLSPort {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if s.cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}

// message renders msg as multipart/alternative: the text part first, the
// HTML part when present.
func (s *SMTPSender) message(msg EmailMessage) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.FromFormat(s.cfg.From.Name, s.cfg.From.Email); err != nil {
		return nil, err
	}
	var err error
	if msg.ToName != "" {
		err = m.AddToFormat(msg.ToName, msg.To)
	} else {
		err = m.To(msg.To)
	}
	if err != nil {
		return nil, err
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}

var _ EmailSender = (*SMTPSender)(nil)
