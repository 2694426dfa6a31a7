package pages

import (
	"strings"

	"github.com/devicelab-dev/authflow-runner/pkg/browser"
	"github.com/devicelab-dev/authflow-runner/pkg/element"
	"github.com/devicelab-dev/authflow-runner/pkg/logger"
)

var (
	dashboardUserMenu = element.MustChain("user menu",
		element.Locator{Strategy: element.ByCSS, Value: ".hui-globalusermenu"},
		element.Locator{Strategy: element.ByCSS, Value: ".user-dropdown"},
	)
	dashboardDisplayName = element.MustChain("display name",
		element.Locator{Strategy: element.ByCSS, Value: ".hui-globaluseritem__display-name"},
		element.Locator{Strategy: element.ByCSS, Value: ".user-display-name"},
	)
	dashboardLogoutButton = element.MustChain("logout button",
		element.Locator{Strategy: element.ByCSS, Value: "[data-qa-id='webnav-usermenu-logout']"},
		element.Locator{Strategy: element.ByText, Value: "Log Out"},
		element.Locator{Strategy: element.ByText, Value: "Sign Out"},
	)
	dashboardContent = element.MustChain("dashboard content",
		element.Locator{Strategy: element.ByCSS, Value: ".dashboard-content"},
	)
	dashboardNavigation = element.MustChain("main navigation",
		element.Locator{Strategy: element.ByCSS, Value: ".main-nav"},
	)
)

// DashboardPage verifies the post-login state and drives logout.
type DashboardPage struct {
	*Base
	exec *element.Executor
}

func NewDashboardPage(session browser.Session, timeouts Timeouts) *DashboardPage {
	base := NewBase(session, timeouts)
	return &DashboardPage{Base: base, exec: base.executor}
}

// OnDashboard reports whether the browser landed on a post-login page,
// judged by URL or by dashboard content presence.
func (p *DashboardPage) OnDashboard() bool {
	current, err := p.CurrentURL()
	if err == nil {
		lower := strings.ToLower(current)
		if strings.Contains(lower, "/home") || strings.Contains(lower, "/dashboard") {
			return true
		}
	}
	return p.present(dashboardContent, p.timeouts.ErrorDetection)
}

// LoggedIn reports whether the user menu rendered.
func (p *DashboardPage) LoggedIn() bool {
	return p.present(dashboardUserMenu, p.timeouts.ErrorDetection)
}

// DisplayName returns the user's display name shown in the header.
func (p *DashboardPage) DisplayName() (string, error) {
	return p.exec.ReadText(dashboardDisplayName)
}

// WaitReady waits for the dashboard shell to render.
func (p *DashboardPage) WaitReady() error {
	return p.wait.Await(p.wait.Present(dashboardUserMenu, p.timeouts.PageLoad))
}

// OpenUserMenu opens the header dropdown that holds logout.
func (p *DashboardPage) OpenUserMenu() error {
	return p.exec.Click(dashboardUserMenu)
}

// Logout clicks through the logout control and waits for the login page.
// The logout button may live behind the user menu dropdown.
func (p *DashboardPage) Logout() error {
	if !p.visible(dashboardLogoutButton, p.timeouts.SocialLogin) {
		if err := p.OpenUserMenu(); err != nil {
			return err
		}
	}
	if err := p.exec.Click(dashboardLogoutButton); err != nil {
		return err
	}
	logger.Info("Logout clicked, waiting for login page")
	return p.wait.Await(p.wait.URLContains("/login", p.timeouts.PageLoad))
}

// Healthy reports whether the critical dashboard elements all rendered.
func (p *DashboardPage) Healthy() bool {
	t := p.timeouts.ErrorDetection
	return p.present(dashboardUserMenu, t) &&
		p.present(dashboardContent, t) &&
		p.present(dashboardNavigation, t)
}
