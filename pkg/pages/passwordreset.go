package pages

import (
	"strings"

	"github.com/devicelab-dev/authflow-runner/pkg/browser"
	"github.com/devicelab-dev/authflow-runner/pkg/element"
)

// resetURLPatterns identify a password reset page by URL.
var resetURLPatterns = []string{
	"/u/login/password-reset-start",
	"/password-reset",
	"/reset-password",
	"/forgot-password",
}

var (
	resetEmailField = element.MustChain("email field",
		element.Locator{Strategy: element.ByName, Value: "email"},
		element.Locator{Strategy: element.ByID, Value: "email"},
		element.Locator{Strategy: element.ByCSS, Value: "input[type='email']"},
		element.Locator{Strategy: element.ByCSS, Value: "input[name*='email' i]"},
		element.Locator{Strategy: element.ByCSS, Value: "input[placeholder*='email' i]"},
	)
	resetSubmitButton = element.MustChain("submit button",
		element.Locator{Strategy: element.ByCSS, Value: "button[type='submit']"},
		element.Locator{Strategy: element.ByCSS, Value: "input[type='submit']"},
		element.Locator{Strategy: element.ByText, Value: "Reset"},
		element.Locator{Strategy: element.ByText, Value: "Send"},
	)
	resetSuccessMessage = element.MustChain("success message",
		element.Locator{Strategy: element.ByCSS, Value: ".success, .alert-success, [class*='success']"},
	)
	resetErrorMessage = element.MustChain("error message",
		element.Locator{Strategy: element.ByCSS, Value: ".error, .alert-error, .alert-danger, [class*='error']"},
	)
	resetBackToLogin = element.MustChain("back to login link",
		element.Locator{Strategy: element.ByCSS, Value: "a[href*='login']"},
	)
)

// PasswordResetPage drives the forgot-password flow.
type PasswordResetPage struct {
	*Base
	exec *element.Executor
}

func NewPasswordResetPage(session browser.Session, timeouts Timeouts) *PasswordResetPage {
	base := NewBase(session, timeouts)
	return &PasswordResetPage{Base: base, exec: base.executor}
}

// Open navigates directly to the password reset page.
func (p *PasswordResetPage) Open(baseURL string) error {
	return p.Navigate(strings.TrimRight(baseURL, "/") + "/u/login/password-reset-start")
}

// OnResetPage reports whether the current URL matches a reset page.
func (p *PasswordResetPage) OnResetPage() bool {
	current, err := p.CurrentURL()
	if err != nil {
		return false
	}
	lower := strings.ToLower(current)
	for _, pattern := range resetURLPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func (p *PasswordResetPage) EnterEmail(email string) error {
	return p.exec.TypeText(resetEmailField, email, true)
}

// Submit sends the reset request.
func (p *PasswordResetPage) Submit() error {
	return p.exec.Click(resetSubmitButton)
}

// HasResetForm reports whether the page carries a usable reset form.
func (p *PasswordResetPage) HasResetForm() bool {
	t := p.timeouts.ErrorDetection
	return p.present(resetEmailField, t) && p.present(resetSubmitButton, t)
}

// SuccessMessage returns the confirmation text shown after submitting, or
// "" when none rendered.
func (p *PasswordResetPage) SuccessMessage() string {
	return p.readOptional(resetSuccessMessage)
}

// ErrorMessage returns the reset page's error text, or "".
func (p *PasswordResetPage) ErrorMessage() string {
	return p.readOptional(resetErrorMessage)
}

// ClickBackToLogin follows the link back to the login page.
func (p *PasswordResetPage) ClickBackToLogin() error {
	return p.exec.Click(resetBackToLogin)
}
