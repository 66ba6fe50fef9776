package submissions

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Yes/no answers used by the employed and bankruptcy questions.
const (
	AnswerYes = "yes"
	AnswerNo  = "no"
)

// Submission is the payload a visitor sends from the debt relief form. It is
// never stored; the notifier consumes it and it is dropped.
type Submission struct {
	FullName         string `json:"fullName" validate:"nonblank"`
	Email            string `json:"email" validate:"nonblank,basicemail"`
	Phone            string `json:"phone" validate:"nonblank"`
	TotalDebt        Amount `json:"totalDebt" validate:"required,amount"`
	CreditCardDebt   Amount `json:"creditCardDebt" validate:"required,amount"`
	PersonalLoanDebt Amount `json:"personalLoanDebt" validate:"required,amount"`
	OtherDebt        Amount `json:"otherDebt" validate:"required,amount"`
	Employed         string `json:"employed" validate:"required,oneof=yes no"`
	Bankruptcy       string `json:"bankruptcy" validate:"required,oneof=yes no"`
	MonthlyIncome    Amount `json:"monthlyIncome" validate:"required,amount"`
	State            string `json:"state" validate:"nonblank,usstate"`
	AgreeToTerms     bool   `json:"agreeToTerms" validate:"required"`
}

// UnmarshalJSON decodes a submission without type checks on individual
// fields: only malformed JSON is an error. Whatever a field holds becomes
// text, except agreeToTerms which becomes a checkbox state.
func (s *Submission) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	text := func(field string) string {
		v, _ := looseText(raw[field])
		return v
	}
	*s = Submission{
		FullName:         text(FieldFullName),
		Email:            text(FieldEmail),
		Phone:            text(FieldPhone),
		TotalDebt:        Amount(strings.TrimSpace(text(FieldTotalDebt))),
		CreditCardDebt:   Amount(strings.TrimSpace(text(FieldCreditCardDebt))),
		PersonalLoanDebt: Amount(strings.TrimSpace(text(FieldPersonalLoanDebt))),
		OtherDebt:        Amount(strings.TrimSpace(text(FieldOtherDebt))),
		Employed:         text(FieldEmployed),
		Bankruptcy:       text(FieldBankruptcy),
		MonthlyIncome:    Amount(strings.TrimSpace(text(FieldMonthlyIncome))),
		State:            text(FieldState),
		AgreeToTerms:     looseBool(raw[FieldAgreeToTerms]),
	}
	return nil
}

// looseText renders one JSON value as text: string contents for strings,
// "" for null or absent, the compact literal for anything else.
func looseText(data json.RawMessage) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func looseBool(data json.RawMessage) bool {
	text, err := looseText(data)
	if err != nil {
		return false
	}
	return ParseCheckbox(text)
}

// ParseCheckbox reads a checkbox value: "on", "yes", or anything
// strconv.ParseBool accepts as true.
func ParseCheckbox(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "on" || value == AnswerYes {
		return true
	}
	b, _ := strconv.ParseBool(value)
	return b
}

// MissingRequired reports whether the fields the endpoint insists on are
// absent. Only fullName, email and phone are checked here; the complete rule
// set lives in ValidateForm and is applied by the form client.
func (s *Submission) MissingRequired() bool {
	return s.FullName == "" || s.Email == "" || s.Phone == ""
}

// Amount is a dollar figure as the visitor typed it. Browsers post amounts
// as strings and API callers post numbers; both decode into the same literal
// text so "10000" and 10000 render identically.
type Amount string

// Float parses the amount. ok is false for empty or non-numeric text.
func (a Amount) Float() (float64, bool) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String returns the literal text.
func (a Amount) String() string {
	return string(a)
}

// UnmarshalJSON accepts any JSON value. Strings keep their contents, null
// is empty, and every other value keeps its literal text (a number, or
// "true" for a stray boolean) so the notification shows what was sent.
func (a *Amount) UnmarshalJSON(data []byte) error {
	text, err := looseText(data)
	if err != nil {
		return err
	}
	*a = Amount(strings.TrimSpace(text))
	return nil
}

// MarshalJSON emits numeric text as a JSON number and anything else as a
// string, so the server sees what the visitor typed.
func (a Amount) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return []byte("null"), nil
	}
	if _, ok := a.Float(); ok && json.Valid([]byte(s)) {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

// Response is the envelope returned by the submission endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Endpoint messages.
const (
	MessageSubmitted       = "Form submitted successfully"
	MessageMissingFields   = "Missing required fields"
	MessageInvalidBody     = "Invalid request body"
	MessageDispatchFailure = "Failed to process form submission"
	MessageServerRunning   = "Server is running"
)

// USStates lists the values accepted for the state field.
var USStates = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado",
	"Connecticut", "Delaware", "Florida", "Georgia", "Hawaii", "Idaho",
	"Illinois", "Indiana", "Iowa", "Kansas", "Kentucky", "Louisiana", "Maine",
	"Maryland", "Massachusetts", "Michigan", "Minnesota", "Mississippi",
	"Missouri", "Montana", "Nebraska", "Nevada", "New Hampshire", "New Jersey",
	"New Mexico", "New York", "North Carolina", "North Dakota", "Ohio",
	"Oklahoma", "Oregon", "Pennsylvania", "Rhode Island", "South Carolina",
	"South Dakota", "Tennessee", "Texas", "Utah", "Vermont", "Virginia",
	"Washington", "West Virginia", "Wisconsin", "Wyoming",
}

var stateSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(USStates))
	for _, s := range USStates {
		m[s] = struct{}{}
	}
	return m
}()

// IsUSState reports whether name is one of USStates.
func IsUSState(name string) bool {
	_, ok := stateSet[strings.TrimSpace(name)]
	return ok
}
