package submissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() Submission {
	return Submission{
		FullName:         "Jane Doe",
		Email:            "jane@x.com",
		Phone:            "555-1234",
		TotalDebt:        "10000",
		CreditCardDebt:   "5000",
		PersonalLoanDebt: "3000",
		OtherDebt:        "2000",
		Employed:         AnswerYes,
		Bankruptcy:       AnswerNo,
		MonthlyIncome:    "3000",
		State:            "Texas",
		AgreeToTerms:     true,
	}
}

func TestValidateForm_Valid(t *testing.T) {
	assert.Nil(t, ValidateForm(validSubmission()))
}

func TestValidateForm_ZeroAmountsAllowed(t *testing.T) {
	sub := validSubmission()
	sub.OtherDebt = "0"
	sub.MonthlyIncome = "0.00"
	assert.Nil(t, ValidateForm(sub))
}

func TestValidateForm_EmptyReportsEveryField(t *testing.T) {
	errs := ValidateForm(Submission{})
	require.NotNil(t, errs)

	assert.Equal(t, FieldOrder, errs.Fields())
	assert.Equal(t, "Full name is required", errs[FieldFullName])
	assert.Equal(t, "Email is required", errs[FieldEmail])
	assert.Equal(t, "Phone number is required", errs[FieldPhone])
	assert.Equal(t, "Total debt is required", errs[FieldTotalDebt])
	assert.Equal(t, "Credit card debt is required", errs[FieldCreditCardDebt])
	assert.Equal(t, "Personal loan debt is required", errs[FieldPersonalLoanDebt])
	assert.Equal(t, "Other debt is required", errs[FieldOtherDebt])
	assert.Equal(t, "Employment status is required", errs[FieldEmployed])
	assert.Equal(t, "Bankruptcy status is required", errs[FieldBankruptcy])
	assert.Equal(t, "Monthly income is required", errs[FieldMonthlyIncome])
	assert.Equal(t, "State is required", errs[FieldState])
	assert.Equal(t, "You must agree to terms", errs[FieldAgreeToTerms])
}

func TestValidateForm_WhitespaceIsBlank(t *testing.T) {
	sub := validSubmission()
	sub.FullName = "   "
	sub.Email = " \t"
	errs := ValidateForm(sub)
	require.Len(t, errs, 2)
	assert.Equal(t, "Full name is required", errs[FieldFullName])
	assert.Equal(t, "Email is required", errs[FieldEmail])
}

func TestValidateForm_MalformedEmail(t *testing.T) {
	for _, email := range []string{"jane", "jane@x", "jane.x.com", "@x.com", "jane@.com"} {
		t.Run(email, func(t *testing.T) {
			sub := validSubmission()
			sub.Email = email
			errs := ValidateForm(sub)
			require.Len(t, errs, 1)
			assert.Equal(t, "Email is invalid", errs[FieldEmail])
		})
	}
}

func TestValidateForm_TermsRequired(t *testing.T) {
	sub := validSubmission()
	sub.AgreeToTerms = false
	errs := ValidateForm(sub)
	require.Len(t, errs, 1)
	assert.Equal(t, "You must agree to terms", errs[FieldAgreeToTerms])
}

func TestValidateForm_BadValues(t *testing.T) {
	sub := validSubmission()
	sub.TotalDebt = "-1"
	sub.CreditCardDebt = "lots"
	sub.Employed = "maybe"
	sub.State = "Ontario"
	errs := ValidateForm(sub)
	require.Len(t, errs, 4)
	assert.Equal(t, "Total debt must be a non-negative number", errs[FieldTotalDebt])
	assert.Equal(t, "Credit card debt must be a non-negative number", errs[FieldCreditCardDebt])
	assert.Equal(t, "Employment status must be yes or no", errs[FieldEmployed])
	assert.Equal(t, "State is invalid", errs[FieldState])
}

func TestFieldErrors_Error(t *testing.T) {
	errs := FieldErrors{FieldPhone: "Phone number is required", FieldFullName: "Full name is required"}
	assert.Equal(t, "fullName: Full name is required; phone: Phone number is required", errs.Error())
}

func TestIsUSState(t *testing.T) {
	assert.Len(t, USStates, 50)
	assert.True(t, IsUSState("New Hampshire"))
	assert.True(t, IsUSState(" Texas "))
	assert.False(t, IsUSState("Puerto Rico"))
}
