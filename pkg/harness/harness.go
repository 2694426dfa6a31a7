// Package harness orchestrates scenario execution: one fresh browser
// session per scenario, step sequencing, artifact capture on failure, and
// run metrics.
package harness

import (
	"time"

	"github.com/devicelab-dev/authflow-runner/pkg/browser"
	"github.com/devicelab-dev/authflow-runner/pkg/config"
	"github.com/devicelab-dev/authflow-runner/pkg/pages"
)

// Context carries everything a step needs: the live session, the page
// objects bound to it, the run settings, and scenario-local data.
type Context struct {
	Session       browser.Session
	Login         *pages.LoginPage
	Dashboard     *pages.DashboardPage
	Home          *pages.HomePage
	Registration  *pages.RegistrationPage
	PasswordReset *pages.PasswordResetPage

	Settings *config.Settings

	// Data is scenario-local scratch space, discarded at teardown.
	Data map[string]interface{}
}

// newContext binds fresh page objects to a session.
func newContext(session browser.Session, settings *config.Settings) *Context {
	timeouts := pages.Timeouts{
		Element:        settings.ImplicitWait(),
		ErrorDetection: settings.ErrorDetectionTimeout(),
		SocialLogin:    settings.SocialLoginTimeout(),
		PageLoad:       settings.PageLoadTimeout(),
	}
	return &Context{
		Session:       session,
		Login:         pages.NewLoginPage(session, timeouts),
		Dashboard:     pages.NewDashboardPage(session, timeouts),
		Home:          pages.NewHomePage(session, timeouts),
		Registration:  pages.NewRegistrationPage(session, timeouts),
		PasswordReset: pages.NewPasswordResetPage(session, timeouts),
		Settings:      settings,
		Data:          make(map[string]interface{}),
	}
}

// Step is one named action within a scenario.
type Step struct {
	Name string
	Run  func(*Context) error
}

// Scenario is an ordered list of steps run against one browser session.
type Scenario struct {
	Name  string
	Tags  []string
	Steps []Step
}

// HasTag reports whether the scenario carries the tag.
func (s Scenario) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// FilterByTags keeps scenarios matching the include list and drops those
// matching the exclude list. An empty include list matches everything.
func FilterByTags(scenarios []Scenario, include, exclude []string) []Scenario {
	out := make([]Scenario, 0, len(scenarios))
	for _, sc := range scenarios {
		if len(include) > 0 {
			matched := false
			for _, tag := range include {
				if sc.HasTag(tag) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		excluded := false
		for _, tag := range exclude {
			if sc.HasTag(tag) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, sc)
		}
	}
	return out
}

// browserConfig maps runner settings onto a session launch config.
func browserConfig(settings *config.Settings) browser.Config {
	return browser.Config{
		Kind:            settings.Browser.Name,
		Headless:        settings.Browser.Headless,
		WindowWidth:     settings.Browser.Width,
		WindowHeight:    settings.Browser.Height,
		NavTimeout:      settings.PageLoadTimeout(),
		DefaultTimeout:  settings.ImplicitWait(),
		SlowMo:          time.Duration(settings.Browser.SlowMoMs) * time.Millisecond,
		IgnoreTLSErrors: settings.Browser.IgnoreTLS,
	}
}
