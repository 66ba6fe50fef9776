// Package formclient drives the debt relief form from Go: it keeps field
// values and errors, validates locally and posts one submission per attempt.
package formclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/debt-relief-intake/internal/submissions"
	"github.com/wolfman30/debt-relief-intake/pkg/logging"
)

// FailureNotice is shown when the server rejects a submission or cannot be
// reached.
const FailureNotice = "Failed to submit form. Please try again."

var (
	// ErrInvalid is returned when local validation blocks the submission.
	ErrInvalid = errors.New("formclient: form has validation errors")

	// ErrBusy is returned while a previous submission is still in flight.
	ErrBusy = errors.New("formclient: submission already in progress")

	// ErrSubmitFailed is returned when the server reports failure or the
	// request never completed.
	ErrSubmitFailed = errors.New("formclient: submission failed")

	// ErrUnknownField is returned by Set for names the form does not have.
	ErrUnknownField = errors.New("formclient: unknown field")
)

// Form holds the state of one visitor's form.
type Form struct {
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger

	mu         sync.Mutex
	values     submissions.Submission
	errors     submissions.FieldErrors
	submitting bool
	success    bool
	notice     string
}

// New creates a form that posts to endpoint (the full submit-form URL).
func New(endpoint string, httpClient *http.Client, logger *logging.Logger) *Form {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Form{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Set updates one field by its wire name and clears that field's error.
func (f *Form) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := &f.values
	switch field {
	case submissions.FieldFullName:
		v.FullName = value
	case submissions.FieldEmail:
		v.Email = value
	case submissions.FieldPhone:
		v.Phone = value
	case submissions.FieldTotalDebt:
		v.TotalDebt = submissions.Amount(value)
	case submissions.FieldCreditCardDebt:
		v.CreditCardDebt = submissions.Amount(value)
	case submissions.FieldPersonalLoanDebt:
		v.PersonalLoanDebt = submissions.Amount(value)
	case submissions.FieldOtherDebt:
		v.OtherDebt = submissions.Amount(value)
	case submissions.FieldEmployed:
		v.Employed = value
	case submissions.FieldBankruptcy:
		v.Bankruptcy = value
	case submissions.FieldMonthlyIncome:
		v.MonthlyIncome = submissions.Amount(value)
	case submissions.FieldState:
		v.State = value
	case submissions.FieldAgreeToTerms:
		v.AgreeToTerms = submissions.ParseCheckbox(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	delete(f.errors, field)
	return nil
}

// Values returns a copy of the current field values.
func (f *Form) Values() submissions.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Errors returns a copy of the current field errors.
func (f *Form) Errors() submissions.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errors) == 0 {
		return nil
	}
	out := make(submissions.FieldErrors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Submitting reports whether a request is in flight; the submit control is
// disabled while it is true.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Success reports whether the confirmation view is showing.
func (f *Form) Success() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.success
}

// Notice returns the blocking message from the last failed attempt.
func (f *Form) Notice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// SubmitAnother leaves the confirmation view.
func (f *Form) SubmitAnother() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.success = false
}

// Validate runs every rule and replaces the error map. It reports whether the
// form may be submitted.
func (f *Form) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = submissions.ValidateForm(f.values)
	return len(f.errors) == 0
}

// Submit validates and, if the form is clean, posts it once. On success the
// fields are reset and Success turns true; on failure the fields are kept and
// Notice holds FailureNotice.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrBusy
	}
	f.errors = submissions.ValidateForm(f.values)
	if len(f.errors) > 0 {
		f.mu.Unlock()
		return ErrInvalid
	}
	f.submitting = true
	f.notice = ""
	payload := f.values
	f.mu.Unlock()

	resp, err := f.post(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if err != nil {
		f.logger.Error("error submitting form", "error", err)
		f.notice = FailureNotice
		return fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	if !resp.Success {
		f.logger.Warn("form submission rejected", "message", resp.Message)
		f.notice = FailureNotice
		return fmt.Errorf("%w: %s", ErrSubmitFailed, resp.Message)
	}

	f.values = submissions.Submission{}
	f.errors = nil
	f.success = true
	return nil
}

func (f *Form) post(ctx context.Context, payload submissions.Submission) (*submissions.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var resp submissions.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", httpResp.StatusCode, err)
	}
	return &resp, nil
}
