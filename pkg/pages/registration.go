package pages

import (
	"strings"

	"github.com/devicelab-dev/authflow-runner/pkg/browser"
	"github.com/devicelab-dev/authflow-runner/pkg/element"
	"github.com/devicelab-dev/authflow-runner/pkg/logger"
)

var (
	registrationFirstName = element.MustChain("first name field",
		element.Locator{Strategy: element.ByName, Value: "ulp-first-name"},
		element.Locator{Strategy: element.ByID, Value: "first-name"},
		element.Locator{Strategy: element.ByCSS, Value: "input[name*='first' i]"},
	)
	registrationLastName = element.MustChain("last name field",
		element.Locator{Strategy: element.ByName, Value: "ulp-last-name"},
		element.Locator{Strategy: element.ByID, Value: "last-name"},
		element.Locator{Strategy: element.ByCSS, Value: "input[name*='last' i]"},
	)
	registrationEmail = element.MustChain("email field",
		element.Locator{Strategy: element.ByName, Value: "email"},
		element.Locator{Strategy: element.ByID, Value: "email"},
		element.Locator{Strategy: element.ByCSS, Value: "input[type='email']"},
		element.Locator{Strategy: element.ByCSS, Value: "input[name*='email' i]"},
		element.Locator{Strategy: element.ByCSS, Value: "input[placeholder*='email' i]"},
	)
	registrationLoginLink = element.MustChain("login link",
		element.Locator{Strategy: element.ByCSS, Value: "a[href*='/login']"},
	)
)

// RegistrationPage drives the account creation form.
type RegistrationPage struct {
	*Base
	exec *element.Executor
}

func NewRegistrationPage(session browser.Session, timeouts Timeouts) *RegistrationPage {
	base := NewBase(session, timeouts)
	return &RegistrationPage{Base: base, exec: base.executor}
}

// Open navigates to the registration page under the base URL.
func (p *RegistrationPage) Open(baseURL string) error {
	return p.Navigate(strings.TrimRight(baseURL, "/") + "/register")
}

func (p *RegistrationPage) EnterFirstName(name string) error {
	return p.exec.TypeText(registrationFirstName, name, true)
}

func (p *RegistrationPage) EnterLastName(name string) error {
	return p.exec.TypeText(registrationLastName, name, true)
}

func (p *RegistrationPage) EnterEmail(email string) error {
	return p.exec.TypeText(registrationEmail, email, true)
}

// ClickLoginLink follows the link back to the login page.
func (p *RegistrationPage) ClickLoginLink() error {
	return p.exec.Click(registrationLoginLink)
}

// ClickProvider clicks the social sign-up button for the named provider.
// The registration form reuses the login form's provider buttons.
func (p *RegistrationPage) ClickProvider(provider string) error {
	chain, err := providerButton(provider)
	if err != nil {
		return err
	}
	return p.exec.Click(chain)
}

// RequiredFields reports, per field, whether the form renders it.
func (p *RegistrationPage) RequiredFields() map[string]bool {
	t := p.timeouts.ErrorDetection
	results := map[string]bool{
		"first_name": p.visible(registrationFirstName, t),
		"last_name":  p.visible(registrationLastName, t),
		"email":      p.visible(registrationEmail, t),
	}
	for field, present := range results {
		if !present {
			logger.Warn("Registration form is missing the %s field", field)
		}
	}
	return results
}

// AllRequiredFieldsPresent reports whether every required field rendered.
func (p *RegistrationPage) AllRequiredFieldsPresent() bool {
	for _, present := range p.RequiredFields() {
		if !present {
			return false
		}
	}
	return true
}
