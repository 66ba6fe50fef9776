package formclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/debt-relief-intake/internal/submissions"
	"github.com/wolfman30/debt-relief-intake/pkg/logging"
)

func fillValid(t *testing.T, f *Form) {
	t.Helper()
	fields := map[string]string{
		submissions.FieldFullName:         "Jane Doe",
		submissions.FieldEmail:            "jane@x.com",
		submissions.FieldPhone:            "555-1234",
		submissions.FieldTotalDebt:        "10000",
		submissions.FieldCreditCardDebt:   "5000",
		submissions.FieldPersonalLoanDebt: "3000",
		submissions.FieldOtherDebt:        "2000",
		submissions.FieldEmployed:         "yes",
		submissions.FieldBankruptcy:       "no",
		submissions.FieldMonthlyIncome:    "3000",
		submissions.FieldState:            "Texas",
		submissions.FieldAgreeToTerms:     "on",
	}
	for k, v := range fields {
		require.NoError(t, f.Set(k, v))
	}
}

type recorder struct {
	mu     sync.Mutex
	bodies []map[string]any
}

func (r *recorder) hits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies)
}

func (r *recorder) last() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bodies[len(r.bodies)-1]
}

// countingServer answers every POST with resp and records what it received.
func countingServer(t *testing.T, status int, resp submissions.Response) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		rec.mu.Lock()
		rec.bodies = append(rec.bodies, body)
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestSubmit_InvalidFormMakesNoRequest(t *testing.T) {
	srv, rec := countingServer(t, http.StatusOK, submissions.Response{Success: true})
	f := New(srv.URL, srv.Client(), logging.New("error"))
	require.NoError(t, f.Set(submissions.FieldFullName, "Jane"))

	err := f.Submit(context.Background())

	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, 0, rec.hits())
	errs := f.Errors()
	assert.Len(t, errs, len(submissions.FieldOrder)-1)
	assert.NotContains(t, errs, submissions.FieldFullName)
	assert.Equal(t, "Email is required", errs[submissions.FieldEmail])
	assert.False(t, f.Submitting())
}

func TestSubmit_TermsNotAccepted(t *testing.T) {
	srv, rec := countingServer(t, http.StatusOK, submissions.Response{Success: true})
	f := New(srv.URL, srv.Client(), logging.New("error"))
	fillValid(t, f)
	require.NoError(t, f.Set(submissions.FieldAgreeToTerms, "false"))

	assert.ErrorIs(t, f.Submit(context.Background()), ErrInvalid)
	assert.Equal(t, 0, rec.hits())
	assert.Equal(t, "You must agree to terms", f.Errors()[submissions.FieldAgreeToTerms])
}

func TestSubmit_MalformedEmail(t *testing.T) {
	srv, rec := countingServer(t, http.StatusOK, submissions.Response{Success: true})
	f := New(srv.URL, srv.Client(), logging.New("error"))
	fillValid(t, f)
	require.NoError(t, f.Set(submissions.FieldEmail, "jane@x"))

	assert.ErrorIs(t, f.Submit(context.Background()), ErrInvalid)
	assert.Equal(t, 0, rec.hits())
	assert.Equal(t, "Email is invalid", f.Errors()[submissions.FieldEmail])
}

func TestSet_ClearsFieldError(t *testing.T) {
	f := New("http://unused", nil, logging.New("error"))
	assert.False(t, f.Validate())
	require.Contains(t, f.Errors(), submissions.FieldPhone)

	require.NoError(t, f.Set(submissions.FieldPhone, "555"))
	assert.NotContains(t, f.Errors(), submissions.FieldPhone)
	assert.Contains(t, f.Errors(), submissions.FieldEmail)

	assert.ErrorIs(t, f.Set("nickname", "JD"), ErrUnknownField)
}

func TestSubmit_SuccessResetsForm(t *testing.T) {
	srv, rec := countingServer(t, http.StatusOK, submissions.Response{Success: true, Message: submissions.MessageSubmitted})
	f := New(srv.URL, srv.Client(), logging.New("error"))
	fillValid(t, f)

	require.NoError(t, f.Submit(context.Background()))

	assert.Equal(t, 1, rec.hits())
	assert.True(t, f.Success())
	assert.False(t, f.Submitting())
	assert.Empty(t, f.Notice())
	assert.Equal(t, submissions.Submission{}, f.Values())

	sent := rec.last()
	assert.Equal(t, "Jane Doe", sent["fullName"])
	assert.Equal(t, float64(10000), sent["totalDebt"])
	assert.Equal(t, true, sent["agreeToTerms"])

	f.SubmitAnother()
	assert.False(t, f.Success())
}

func TestSubmit_ServerFailureKeepsFields(t *testing.T) {
	srv, rec := countingServer(t, http.StatusInternalServerError,
		submissions.Response{Success: false, Message: submissions.MessageDispatchFailure})
	f := New(srv.URL, srv.Client(), logging.New("error"))
	fillValid(t, f)

	err := f.Submit(context.Background())

	assert.ErrorIs(t, err, ErrSubmitFailed)
	assert.Equal(t, 1, rec.hits())
	assert.Equal(t, FailureNotice, f.Notice())
	assert.False(t, f.Success())
	assert.False(t, f.Submitting())
	assert.Equal(t, "Jane Doe", f.Values().FullName)
}

func TestSubmit_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := New(url, nil, logging.New("error"))
	fillValid(t, f)

	err := f.Submit(context.Background())

	assert.ErrorIs(t, err, ErrSubmitFailed)
	assert.Equal(t, FailureNotice, f.Notice())
	assert.Equal(t, "Jane Doe", f.Values().FullName)
	assert.False(t, f.Submitting())
}

func TestSubmit_RejectsConcurrentSubmission(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		_ = json.NewEncoder(w).Encode(submissions.Response{Success: true})
	}))
	defer srv.Close()

	f := New(srv.URL, srv.Client(), logging.New("error"))
	fillValid(t, f)

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()

	<-arrived
	assert.True(t, f.Submitting())
	assert.True(t, errors.Is(f.Submit(context.Background()), ErrBusy))
	close(release)

	require.NoError(t, <-done)
	assert.False(t, f.Submitting())
}
