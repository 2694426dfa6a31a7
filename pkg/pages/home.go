package pages

import (
	"strings"

	"github.com/devicelab-dev/authflow-runner/pkg/browser"
	"github.com/devicelab-dev/authflow-runner/pkg/element"
)

var homeLoginButton = element.MustChain("login button",
	element.Locator{Strategy: element.ByCSS, Value: "[data-qa-id='login-select']"},
)

// HomePage is the public landing page before authentication.
type HomePage struct {
	*Base
	exec *element.Executor
}

func NewHomePage(session browser.Session, timeouts Timeouts) *HomePage {
	base := NewBase(session, timeouts)
	return &HomePage{Base: base, exec: base.executor}
}

// Open navigates to the site root.
func (p *HomePage) Open(baseURL string) error {
	return p.Navigate(baseURL)
}

// ClickLogin clicks through to the login page.
func (p *HomePage) ClickLogin() error {
	return p.exec.Click(homeLoginButton)
}

// LoginButtonVisible reports whether the login entry point rendered.
func (p *HomePage) LoginButtonVisible() bool {
	return p.visible(homeLoginButton, p.timeouts.ErrorDetection)
}

// LoginButtonText returns the label of the login entry point, or "".
func (p *HomePage) LoginButtonText() string {
	return p.readOptional(homeLoginButton)
}

// OnHomePage reports whether the browser is on the landing page.
func (p *HomePage) OnHomePage() bool {
	current, err := p.CurrentURL()
	if err == nil && strings.HasSuffix(strings.TrimRight(current, "?#"), "/") {
		return true
	}
	return p.present(homeLoginButton, p.timeouts.ErrorDetection)
}

// WaitReady waits for the login entry point to render.
func (p *HomePage) WaitReady() error {
	return p.wait.Await(p.wait.Visible(homeLoginButton, p.timeouts.PageLoad))
}
