package cmds

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/debt-relief-intake/internal/formclient"
	"github.com/wolfman30/debt-relief-intake/internal/submissions"
)

var validArgs = []string{
	"--full-name", "Jane Doe",
	"--email", "jane@x.com",
	"--phone", "555-1234",
	"--total-debt", "10000",
	"--credit-card-debt", "5000",
	"--personal-loan-debt", "3000",
	"--other-debt", "2000",
	"--employed", "yes",
	"--bankruptcy", "no",
	"--monthly-income", "3000",
	"--state", "Texas",
	"--agree-to-terms", "true",
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "full-name", flagName(submissions.FieldFullName))
	assert.Equal(t, "agree-to-terms", flagName(submissions.FieldAgreeToTerms))
	assert.Equal(t, "email", flagName(submissions.FieldEmail))
}

func TestValidateCommand_ReportsEveryError(t *testing.T) {
	out, err := run(t, "validate", "--full-name", "Jane Doe", "--email", "nope")

	require.ErrorIs(t, err, formclient.ErrInvalid)
	assert.NotContains(t, out, "fullName:")
	assert.Contains(t, out, "email: Email is invalid\n")
	assert.Contains(t, out, "phone: Phone number is required\n")
	assert.Contains(t, out, "agreeToTerms: You must agree to terms\n")
}

func TestValidateCommand_Valid(t *testing.T) {
	out, err := run(t, append([]string{"validate"}, validArgs...)...)

	require.NoError(t, err)
	assert.Equal(t, "Form is valid\n", out)
}

func TestValidateCommand_ReadsEnvironment(t *testing.T) {
	t.Setenv("LEADFORM_FULL_NAME", "")
	t.Setenv("LEADFORM_PHONE", "555-0000")

	out, err := run(t, "validate")

	require.ErrorIs(t, err, formclient.ErrInvalid)
	assert.NotContains(t, out, "phone:")
	assert.Contains(t, out, "fullName: Full name is required")
}

func TestSubmitCommand_Success(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(submissions.Response{Success: true, Message: submissions.MessageSubmitted})
	}))
	t.Cleanup(srv.Close)

	out, err := run(t, append([]string{"submit", "--endpoint", srv.URL}, validArgs...)...)

	require.NoError(t, err)
	assert.Equal(t, "Form submitted successfully\n", out)
	assert.Equal(t, "Jane Doe", got["fullName"])
	assert.Equal(t, true, got["agreeToTerms"])
}

func TestSubmitCommand_ServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(submissions.Response{Success: false, Message: submissions.MessageDispatchFailure})
	}))
	t.Cleanup(srv.Close)

	out, err := run(t, append([]string{"submit", "--endpoint", srv.URL}, validArgs...)...)

	require.ErrorIs(t, err, formclient.ErrSubmitFailed)
	assert.Equal(t, formclient.FailureNotice+"\n", out)
}

func TestSubmitCommand_InvalidSkipsNetwork(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	t.Cleanup(srv.Close)

	out, err := run(t, "submit", "--endpoint", srv.URL, "--full-name", "Jane Doe")

	require.ErrorIs(t, err, formclient.ErrInvalid)
	assert.Contains(t, out, "email: Email is required")
	assert.Zero(t, hits)
}
