package submissions

import (
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names as they appear on the wire and in FieldErrors.
const (
	FieldFullName         = "fullName"
	FieldEmail            = "email"
	FieldPhone            = "phone"
	FieldTotalDebt        = "totalDebt"
	FieldCreditCardDebt   = "creditCardDebt"
	FieldPersonalLoanDebt = "personalLoanDebt"
	FieldOtherDebt        = "otherDebt"
	FieldEmployed         = "employed"
	FieldBankruptcy       = "bankruptcy"
	FieldMonthlyIncome    = "monthlyIncome"
	FieldState            = "state"
	FieldAgreeToTerms     = "agreeToTerms"
)

// FieldOrder is the order the form renders its fields in.
var FieldOrder = []string{
	FieldFullName, FieldEmail, FieldPhone,
	FieldTotalDebt, FieldCreditCardDebt, FieldPersonalLoanDebt, FieldOtherDebt,
	FieldEmployed, FieldBankruptcy, FieldMonthlyIncome, FieldState, FieldAgreeToTerms,
}

var fieldLabels = map[string]string{
	FieldFullName:         "Full name",
	FieldEmail:            "Email",
	FieldPhone:            "Phone number",
	FieldTotalDebt:        "Total debt",
	FieldCreditCardDebt:   "Credit card debt",
	FieldPersonalLoanDebt: "Personal loan debt",
	FieldOtherDebt:        "Other debt",
	FieldEmployed:         "Employment status",
	FieldBankruptcy:       "Bankruptcy status",
	FieldMonthlyIncome:    "Monthly income",
	FieldState:            "State",
}

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// FieldErrors maps a field name to the message shown next to it.
type FieldErrors map[string]string

// Error joins the messages in form order.
func (fe FieldErrors) Error() string {
	msgs := make([]string, 0, len(fe))
	for _, field := range fe.Fields() {
		msgs = append(msgs, field+": "+fe[field])
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the failing field names in form order. Unknown names sort
// after the known ones.
func (fe FieldErrors) Fields() []string {
	pos := make(map[string]int, len(FieldOrder))
	for i, f := range FieldOrder {
		pos[f] = i
	}
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		pi, iok := pos[fields[i]]
		pj, jok := pos[fields[j]]
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		default:
			return fields[i] < fields[j]
		}
	})
	return fields
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	must("basicemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	must("amount", func(fl validator.FieldLevel) bool {
		f, ok := Amount(fl.Field().String()).Float()
		return ok && f >= 0
	})
	must("usstate", func(fl validator.FieldLevel) bool {
		return IsUSState(fl.Field().String())
	})
	return v
}

// ValidateForm applies every form rule at once and returns one message per
// failing field, or nil when the submission may be sent.
func ValidateForm(s Submission) FieldErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = fieldMessage(fe.Field(), fe.Tag())
	}
	return out
}

func fieldMessage(field, tag string) string {
	if field == FieldAgreeToTerms {
		return "You must agree to terms"
	}
	label := fieldLabels[field]
	switch tag {
	case "required", "nonblank":
		return label + " is required"
	case "basicemail":
		return "Email is invalid"
	case "amount":
		return label + " must be a non-negative number"
	case "oneof":
		return label + " must be yes or no"
	default:
		return label + " is invalid"
	}
}
