package pages

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/authflow-runner/pkg/browser"
	"github.com/devicelab-dev/authflow-runner/pkg/core"
	"github.com/devicelab-dev/authflow-runner/pkg/element"
	"github.com/devicelab-dev/authflow-runner/pkg/logger"
)

// Login page locator chains. Primary locators target the identifier step of
// the hosted login flow; the fallbacks cover markup variants.
var (
	loginEmailField = element.MustChain("email field",
		element.Locator{Strategy: element.ByName, Value: "username"},
		element.Locator{Strategy: element.ByID, Value: "username"},
		element.Locator{Strategy: element.ByCSS, Value: "input[type='email']"},
		element.Locator{Strategy: element.ByCSS, Value: "input[name*='email' i]"},
		element.Locator{Strategy: element.ByCSS, Value: "input[placeholder*='email' i]"},
	)
	loginPasswordField = element.MustChain("password field",
		element.Locator{Strategy: element.ByName, Value: "password"},
		element.Locator{Strategy: element.ByID, Value: "password"},
		element.Locator{Strategy: element.ByCSS, Value: "input[type='password']"},
		element.Locator{Strategy: element.ByCSS, Value: "input[name*='password' i]"},
		element.Locator{Strategy: element.ByCSS, Value: "input[placeholder*='password' i]"},
	)
	loginContinueButton = element.MustChain("continue button",
		element.Locator{Strategy: element.ByCSS, Value: "button[type='submit']"},
		element.Locator{Strategy: element.ByName, Value: "action"},
	)
	loginShowHideButton = element.MustChain("show/hide password button",
		element.Locator{Strategy: element.ByCSS, Value: "button[data-action='toggle']"},
	)
	loginForgotPasswordLink = element.MustChain("forgot password link",
		element.Locator{Strategy: element.ByCSS, Value: "a[href*='/u/login/password-reset-start']"},
	)
	loginSignUpLink = element.MustChain("sign up link",
		element.Locator{Strategy: element.ByCSS, Value: ".ulp-alternate-action a"},
	)

	loginInlineError = element.MustChain("inline error",
		element.Locator{Strategy: element.ByCSS, Value: ".ulp-input-error-message"},
	)
	loginEmailError = element.MustChain("email error",
		element.Locator{Strategy: element.ByID, Value: "error-element-username"},
	)
	loginPasswordError = element.MustChain("password error",
		element.Locator{Strategy: element.ByID, Value: "error-element-password"},
	)
	loginGenericError = element.MustChain("generic login error",
		element.Locator{Strategy: element.ByCSS, Value: "[data-qa-id='login-error']"},
	)
	loginCredentialsError = element.MustChain("invalid credentials error",
		element.Locator{Strategy: element.ByCSS, Value: ".ulp-error-message"},
	)

	loginDisplayName = element.MustChain("display name",
		element.Locator{Strategy: element.ByCSS, Value: ".hui-globaluseritem__display-name span"},
	)
)

func providerButton(provider string) (element.Chain, error) {
	provider = strings.ToLower(strings.Trim(provider, `"'`))
	switch provider {
	case "google", "facebook", "apple":
		return element.MustChain(provider+" login button",
			element.Locator{Strategy: element.ByCSS, Value: fmt.Sprintf("button[data-provider='%s']", provider)},
		), nil
	default:
		return element.Chain{}, core.ErrInvalidConfig.WithMessage(
			fmt.Sprintf("unsupported social login provider: %s", provider))
	}
}

// LoginPage drives the application's login form.
type LoginPage struct {
	*Base
	exec *element.Executor
}

func NewLoginPage(session browser.Session, timeouts Timeouts) *LoginPage {
	base := NewBase(session, timeouts)
	return &LoginPage{Base: base, exec: base.executor}
}

// Open navigates to the login URL.
func (p *LoginPage) Open(loginURL string) error {
	return p.Navigate(loginURL)
}

// Loaded reports whether the browser is on a login page.
func (p *LoginPage) Loaded() bool {
	current, err := p.CurrentURL()
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(current), "login")
}

func (p *LoginPage) EnterEmail(email string) error {
	return p.exec.TypeText(loginEmailField, email, true)
}

func (p *LoginPage) EnterPassword(password string) error {
	return p.exec.TypeText(loginPasswordField, password, true)
}

func (p *LoginPage) ClearEmail() error {
	return p.exec.Clear(loginEmailField)
}

func (p *LoginPage) ClearPassword() error {
	return p.exec.Clear(loginPasswordField)
}

// Submit clicks the continue/login button.
func (p *LoginPage) Submit() error {
	return p.exec.Click(loginContinueButton)
}

func (p *LoginPage) ClickForgotPassword() error {
	return p.exec.Click(loginForgotPasswordLink)
}

func (p *LoginPage) ClickSignUp() error {
	return p.exec.Click(loginSignUpLink)
}

// TogglePasswordVisibility clicks the show/hide control on the password
// field.
func (p *LoginPage) TogglePasswordVisibility() error {
	return p.exec.Click(loginShowHideButton)
}

// ClickProvider clicks the social login button for the named provider.
func (p *LoginPage) ClickProvider(provider string) error {
	chain, err := providerButton(provider)
	if err != nil {
		return err
	}
	return p.exec.Click(chain)
}

// FieldError returns the error message scoped to the named field, or ""
// when no error is shown. Field-scoped messages are authoritative over
// page-level scans.
func (p *LoginPage) FieldError(field string) (string, error) {
	switch strings.ToLower(field) {
	case "email":
		return p.readOptional(loginEmailError), nil
	case "password":
		return p.readOptional(loginPasswordError), nil
	default:
		return "", core.ErrInvalidConfig.WithMessage(fmt.Sprintf("unsupported field: %s", field))
	}
}

// InvalidCredentialsError returns the message shown for a failed login.
// The application renders it against the password field.
func (p *LoginPage) InvalidCredentialsError() string {
	if text := p.readOptional(loginPasswordError); text != "" {
		return text
	}
	return p.readOptional(loginCredentialsError)
}

// ErrorMessage returns the first error found on the page. Dedicated error
// elements are consulted first, then a vocabulary scan over visible text.
func (p *LoginPage) ErrorMessage() string {
	for _, chain := range []element.Chain{loginInlineError, loginGenericError, loginEmailError, loginPasswordError} {
		if text := p.readOptional(chain); text != "" {
			logger.Debug("Found error message via %s: %s", chain.Name, text)
			return text
		}
	}
	return p.scanForErrorText()
}

// HasError reports whether any error element is visible.
func (p *LoginPage) HasError() bool {
	t := p.timeouts.ErrorDetection
	return p.visible(loginInlineError, t) ||
		p.visible(loginEmailError, t) ||
		p.visible(loginPasswordError, t) ||
		p.visible(loginGenericError, t)
}

// ValidationMessage returns the browser's native validation message for
// the named field, or "" when the field validates.
func (p *LoginPage) ValidationMessage(field string) (string, error) {
	var chain element.Chain
	switch strings.ToLower(field) {
	case "email":
		chain = loginEmailField
	case "password":
		chain = loginPasswordField
	default:
		return "", core.ErrInvalidConfig.WithMessage(fmt.Sprintf("unsupported field: %s", field))
	}
	res, err := p.resolveWithin(chain, element.Presence, p.timeouts.ErrorDetection)
	if err != nil {
		return "", nil
	}
	// validationMessage is a DOM property the browser computes; it never
	// appears as a markup attribute.
	raw, err := res.Element.Property("validationMessage")
	if err != nil {
		return "", nil
	}
	return raw, nil
}

// PasswordVisible reports whether the password input currently renders its
// value in clear text.
func (p *LoginPage) PasswordVisible() (bool, error) {
	fieldType, err := p.exec.ReadAttribute(loginPasswordField, "type")
	if err != nil {
		return false, err
	}
	return fieldType == "text", nil
}

// PasswordValue returns the current contents of the password field. The
// live value is a property; the value attribute only holds the markup
// default.
func (p *LoginPage) PasswordValue() (string, error) {
	res, err := p.resolveWithin(loginPasswordField, element.Presence, p.timeouts.Element)
	if err != nil {
		return "", err
	}
	return res.Element.Property("value")
}

// SubmitEnabled reports whether the continue button accepts clicks.
func (p *LoginPage) SubmitEnabled() bool {
	res, err := p.resolveWithin(loginContinueButton, element.Presence, p.timeouts.ErrorDetection)
	if err != nil {
		return false
	}
	enabled, err := res.Element.Enabled()
	return err == nil && enabled
}

// HasSocialOptions reports whether any social login button renders.
func (p *LoginPage) HasSocialOptions() bool {
	google, _ := providerButton("google")
	facebook, _ := providerButton("facebook")
	t := p.timeouts.SocialLogin
	return p.present(google, t) || p.present(facebook, t)
}

// DisplayName returns the logged-in user's display name, or "" before a
// successful login.
func (p *LoginPage) DisplayName() string {
	res, err := p.resolveWithin(loginDisplayName, element.VisibleMode, p.timeouts.PageLoad)
	if err != nil {
		return ""
	}
	text, err := res.Element.Text()
	if err != nil {
		return ""
	}
	return text
}

// DisplayNameVisible reports whether the display name rendered, the
// signal a login completed.
func (p *LoginPage) DisplayNameVisible() bool {
	return p.present(loginDisplayName, p.timeouts.ErrorDetection)
}
