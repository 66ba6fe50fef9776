package notify

import (
	"bytes"
	"fmt"
	"html"
	htmltemplate "html/template"
	"strings"
	"sync"
	texttemplate "text/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/wolfman30/debt-relief-intake/internal/submissions"
)

// SubmissionSubject is the subject line of every submission email.
const SubmissionSubject = "New Debt Relief Submission"

// TimestampLayout renders the dispatch time in the email footer.
const TimestampLayout = "January 2, 2006 at 3:04 PM MST"

var (
	stripPolicy     *bluemonday.Policy
	stripPolicyOnce sync.Once
)

// plainText removes any markup a visitor typed into a form field.
func plainText(s string) string {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

type submissionView struct {
	FullName         string
	Email            string
	Phone            string
	State            string
	TotalDebt        string
	CreditCardDebt   string
	PersonalLoanDebt string
	OtherDebt        string
	Employed         string
	Bankruptcy       string
	MonthlyIncome    string
	SubmittedAt      string
}

func newSubmissionView(sub submissions.Submission, at time.Time) submissionView {
	return submissionView{
		FullName:         plainText(sub.FullName),
		Email:            plainText(sub.Email),
		Phone:            plainText(sub.Phone),
		State:            plainText(sub.State),
		TotalDebt:        dollars(sub.TotalDebt),
		CreditCardDebt:   dollars(sub.CreditCardDebt),
		PersonalLoanDebt: dollars(sub.PersonalLoanDebt),
		OtherDebt:        dollars(sub.OtherDebt),
		Employed:         yesNo(sub.Employed),
		Bankruptcy:       yesNo(sub.Bankruptcy),
		MonthlyIncome:    dollars(sub.MonthlyIncome),
		SubmittedAt:      at.Format(TimestampLayout),
	}
}

func dollars(a submissions.Amount) string {
	return "$" + plainText(a.String())
}

func yesNo(answer string) string {
	if answer == submissions.AnswerYes {
		return "Yes"
	}
	return "No"
}

const submissionText = `New Debt Relief Form Submission

Contact Information
Name: {{.FullName}}
Email: {{.Email}}
Phone: {{.Phone}}
State: {{.State}}

Debt Information
Total Unsecured Debt: {{.TotalDebt}}
Credit Card Debt: {{.CreditCardDebt}}
Personal Loan Debt: {{.PersonalLoanDebt}}
Other Debt: {{.OtherDebt}}

Financial Status
Employment Status: {{.Employed}}
Bankruptcy in Last 7 Years: {{.Bankruptcy}}
Monthly Income: {{.MonthlyIncome}}

Submitted on {{.SubmittedAt}}
`

const submissionHTML = `<h2>New Debt Relief Form Submission</h2>
<hr>
<h3>Contact Information</h3>
<p><strong>Name:</strong> {{.FullName}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>State:</strong> {{.State}}</p>

<h3>Debt Information</h3>
<p><strong>Total Unsecured Debt:</strong> {{.TotalDebt}}</p>
<p><strong>Credit Card Debt:</strong> {{.CreditCardDebt}}</p>
<p><strong>Personal Loan Debt:</strong> {{.PersonalLoanDebt}}</p>
<p><strong>Other Debt:</strong> {{.OtherDebt}}</p>

<h3>Financial Status</h3>
<p><strong>Employment Status:</strong> {{.Employed}}</p>
<p><strong>Bankruptcy in Last 7 Years:</strong> {{.Bankruptcy}}</p>
<p><strong>Monthly Income:</strong> {{.MonthlyIncome}}</p>

<hr>
<p><em>Submitted on {{.SubmittedAt}}</em></p>
`

var (
	submissionTextTmpl = texttemplate.Must(texttemplate.New("submission_text").Option("missingkey=error").Parse(submissionText))
	submissionHTMLTmpl = htmltemplate.Must(htmltemplate.New("submission_html").Option("missingkey=error").Parse(submissionHTML))
)

// ComposeSubmissionEmail renders the owner notification for sub, stamped at.
func ComposeSubmissionEmail(sub submissions.Submission, at time.Time) (EmailMessage, error) {
	view := newSubmissionView(sub, at)

	var text bytes.Buffer
	if err := submissionTextTmpl.Execute(&text, view); err != nil {
		return EmailMessage{}, fmt.Errorf("notify: render text: %w", err)
	}
	var body bytes.Buffer
	if err := submissionHTMLTmpl.Execute(&body, view); err != nil {
		return EmailMessage{}, fmt.Errorf("notify: render html: %w", err)
	}

	return EmailMessage{
		Subject: SubmissionSubject,
		Body:    text.String(),
		HTML:    body.String(),
	}, nil
}
