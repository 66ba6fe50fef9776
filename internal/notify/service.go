package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/debt-relief-intake/internal/submissions"
	"github.com/wolfman30/debt-relief-intake/pkg/logging"
)

var submissionTracer = otel.Tracer("debtrelief.internal.notify.submission")

var (
	// ErrSenderNotConfigured is returned when no transport was wired in.
	ErrSenderNotConfigured = errors.New("notify: email sender not configured")

	// ErrRecipientMissing is returned when the owner address is empty.
	ErrRecipientMissing = errors.New("notify: recipient email required")
)

// SubmissionConfig fixes who receives submission emails and how they are
// stamped. It is built once at startup.
type SubmissionConfig struct {
	Recipient     string
	RecipientName string
	Location      *time.Location
}

// Service relays form submissions to the business owner by email.
type Service struct {
	email  EmailSender
	cfg    SubmissionConfig
	now    func() time.Time
	logger *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, cfg SubmissionConfig, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Service{
		email:  email,
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
}

var _ submissions.Notifier = (*Service)(nil)

// NotifySubmission formats sub and hands it to the transport. A nil return
// means the transport accepted the message, not that it was delivered.
func (s *Service) NotifySubmission(ctx context.Context, sub submissions.Submission) error {
	if s.email == nil {
		return ErrSenderNotConfigured
	}
	if s.cfg.Recipient == "" {
		return ErrRecipientMissing
	}

	ctx, span := submissionTracer.Start(ctx, "notify.submission.send")
	defer span.End()
	span.SetAttributes(attribute.String("debtrelief.state", sub.State))

	msg, err := ComposeSubmissionEmail(sub, s.now().In(s.cfg.Location))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compose failed")
		return err
	}
	msg.To = s.cfg.Recipient
	msg.ToName = s.cfg.RecipientName

	if err := s.email.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		s.logger.Error("notify: submission email failed", "error", err)
		return fmt.Errorf("notify: send submission email: %w", err)
	}

	s.logger.Info("notify: submission email handed off", "to", msg.To)
	return nil
}
