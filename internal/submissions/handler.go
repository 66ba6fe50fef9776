package submissions

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wolfman30/debt-relief-intake/internal/observability/metrics"
	"github.com/wolfman30/debt-relief-intake/pkg/logging"
)

const maxBodyBytes = 1 << 20

// Notifier relays an accepted submission to the business owner.
type Notifier interface {
	NotifySubmission(ctx context.Context, sub Submission) error
}

// Handler serves the form endpoints.
type Handler struct {
	notifier        Notifier
	metrics         *metrics.SubmissionMetrics
	dispatchTimeout time.Duration
	logger          *logging.Logger
}

// NewHandler creates a submissions handler. metrics may be nil; a zero
// dispatchTimeout leaves the dispatch unbounded.
func NewHandler(notifier Notifier, m *metrics.SubmissionMetrics, dispatchTimeout time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		notifier:        notifier,
		metrics:         m,
		dispatchTimeout: dispatchTimeout,
		logger:          logger,
	}
}

// HealthCheck handles GET /api/health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "OK", Message: MessageServerRunning})
}

// SubmitForm handles POST /api/submit-form. The notification is sent before
// the response is written; a client that disconnects early does not cancel it.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&sub); err != nil {
		h.logger.Warn("failed to decode submission", "error", err)
		h.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: MessageInvalidBody})
		return
	}

	if sub.MissingRequired() {
		h.logger.Info("submission rejected: missing required fields",
			"has_name", sub.FullName != "",
			"has_email", sub.Email != "",
			"has_phone", sub.Phone != "",
		)
		h.metrics.ObserveSubmission(metrics.OutcomeRejected)
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: MessageMissingFields})
		return
	}

	ctx := context.WithoutCancel(r.Context())
	if h.dispatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.dispatchTimeout)
		defer cancel()
	}

	start := time.Now()
	err := h.notifier.NotifySubmission(ctx, sub)
	h.metrics.ObserveDispatch(time.Since(start).Seconds(), err == nil)
	if err != nil {
		h.logger.Error("failed to process form submission", "error", err, "state", sub.State)
		h.metrics.ObserveSubmission(metrics.OutcomeFailed)
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: MessageDispatchFailure})
		return
	}

	h.logger.Info("form submission notified", "state", sub.State, "duration_ms", time.Since(start).Milliseconds())
	h.metrics.ObserveSubmission(metrics.OutcomeAccepted)
	writeJSON(w, http.StatusOK, Response{Success: true, Message: MessageSubmitted})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
