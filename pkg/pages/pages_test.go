package pages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/authflow-runner/pkg/browser"
	"github.com/devicelab-dev/authflow-runner/pkg/core"
)

// testTimeouts keeps negative probes fast.
func testTimeouts() Timeouts {
	return Timeouts{
		Element:        50 * time.Millisecond,
		ErrorDetection: 10 * time.Millisecond,
		SocialLogin:    10 * time.Millisecond,
		PageLoad:       50 * time.Millisecond,
	}
}

func readySession() *browser.MockSession {
	s := browser.NewMockSession()
	s.EvaluateResults["document.readyState"] = "complete"
	return s
}

func TestVerifyRedirectPath(t *testing.T) {
	session := readySession()
	base := NewBase(session, testTimeouts())

	session.URL = "https://app.example.com/u/login/Password-Reset-Start?state=abc"
	assert.NoError(t, base.VerifyRedirectPath("password-reset"))

	session.URL = "https://app.example.com/home?next=password-reset"
	err := base.VerifyRedirectPath("password-reset")
	require.Error(t, err, "fragment in query string must not satisfy a path check")
	assert.True(t, core.IsAssertionFailure(err))
}

func TestVerifyProviderRedirect(t *testing.T) {
	session := readySession()
	base := NewBase(session, testTimeouts())

	session.URL = "https://accounts.google.com/o/oauth2/v2/auth?client_id=x"
	assert.NoError(t, base.VerifyProviderRedirect("https://accounts.google.com"))
	assert.NoError(t, base.VerifyProviderRedirect(`"https://accounts.google.com/signin"`),
		"path differences and quoting must not affect the host check")

	err := base.VerifyProviderRedirect("https://www.facebook.com")
	require.Error(t, err)
	assert.True(t, core.IsAssertionFailure(err))
}

func TestLoginEnterEmailUsesFallbackChain(t *testing.T) {
	session := readySession()
	field := browser.NewMockElement("")
	// Only the type-based selector matches this markup variant.
	session.Register("input[type='email']", field)

	page := NewLoginPage(session, testTimeouts())
	require.NoError(t, page.EnterEmail("user@example.com"))
	assert.Equal(t, []string{"user@example.com"}, field.Filled)
	assert.Equal(t, 1, field.Cleared)
}

func TestLoginInvalidCredentialsError(t *testing.T) {
	session := readySession()
	session.Register("#error-element-password", browser.NewMockElement("Incorrect username or password."))

	page := NewLoginPage(session, testTimeouts())
	assert.Equal(t, "Incorrect username or password.", page.InvalidCredentialsError())
}

func TestLoginFieldErrorScoping(t *testing.T) {
	session := readySession()
	session.Register("#error-element-username", browser.NewMockElement("Email is required"))

	page := NewLoginPage(session, testTimeouts())

	msg, err := page.FieldError("email")
	require.NoError(t, err)
	assert.Equal(t, "Email is required", msg)

	msg, err = page.FieldError("password")
	require.NoError(t, err)
	assert.Empty(t, msg, "password scope must not see the email error")

	_, err = page.FieldError("phone")
	assert.Error(t, err)
}

func TestLoginErrorMessageFallsBackToTextScan(t *testing.T) {
	session := readySession()
	session.Register("text=incorrect", browser.NewMockElement("We could not log you in, incorrect password"))

	page := NewLoginPage(session, testTimeouts())
	assert.Equal(t, "We could not log you in, incorrect password", page.ErrorMessage())
}

func TestLoginErrorTextScanSkipsHiddenMatches(t *testing.T) {
	session := readySession()
	template := browser.NewMockElement("error placeholder template")
	template.IsVisible = false
	banner := browser.NewMockElement("Something went wrong, error code 401")
	session.Register("text=error", template, banner)

	page := NewLoginPage(session, testTimeouts())
	assert.Equal(t, "Something went wrong, error code 401", page.ErrorMessage())
}

func TestLoginValidationMessage(t *testing.T) {
	session := readySession()
	field := browser.NewMockElement("")
	field.Properties["validationMessage"] = "Please fill out this field."
	session.Register(`[name="username"]`, field)

	page := NewLoginPage(session, testTimeouts())
	msg, err := page.ValidationMessage("email")
	require.NoError(t, err)
	assert.Equal(t, "Please fill out this field.", msg)

	_, err = page.ValidationMessage("phone")
	assert.Error(t, err)
}

func TestLoginPasswordVisibility(t *testing.T) {
	session := readySession()
	field := browser.NewMockElement("")
	field.Attributes["type"] = "password"
	field.Properties["value"] = "secret"
	session.Register(`[name="password"]`, field)

	page := NewLoginPage(session, testTimeouts())

	visible, err := page.PasswordVisible()
	require.NoError(t, err)
	assert.False(t, visible)

	field.Attributes["type"] = "text"
	visible, err = page.PasswordVisible()
	require.NoError(t, err)
	assert.True(t, visible)

	value, err := page.PasswordValue()
	require.NoError(t, err)
	assert.Equal(t, "secret", value)
}

func TestLoginClickProviderRejectsUnknown(t *testing.T) {
	page := NewLoginPage(readySession(), testTimeouts())
	err := page.ClickProvider("myspace")
	require.Error(t, err)
	assert.Equal(t, core.ErrCategoryConfig, core.CategoryOf(err))
}

func TestLoginClickProviderQuoteStripping(t *testing.T) {
	session := readySession()
	button := browser.NewMockElement("")
	session.Register("button[data-provider='google']", button)

	page := NewLoginPage(session, testTimeouts())
	require.NoError(t, page.ClickProvider(`"Google"`))
	assert.Equal(t, 1, button.Clicks)
}

func TestDashboardLogout(t *testing.T) {
	session := readySession()
	session.URL = "https://app.example.com/login"

	menu := browser.NewMockElement("")
	session.Register(".hui-globalusermenu", menu)
	logout := browser.NewMockElement("")
	session.Register("[data-qa-id='webnav-usermenu-logout']", logout)

	page := NewDashboardPage(session, testTimeouts())
	require.NoError(t, page.Logout())
	assert.Equal(t, 1, logout.Clicks)
	assert.Equal(t, 0, menu.Clicks, "visible logout button should not require opening the menu")
}

func TestDashboardOpenUserMenu(t *testing.T) {
	session := readySession()
	menu := browser.NewMockElement("")
	session.Register(".user-dropdown", menu)

	page := NewDashboardPage(session, testTimeouts())
	require.NoError(t, page.OpenUserMenu())
	assert.Equal(t, 1, menu.Clicks)
}

func TestDashboardOnDashboardByURL(t *testing.T) {
	session := readySession()
	session.URL = "https://app.example.com/home"

	page := NewDashboardPage(session, testTimeouts())
	assert.True(t, page.OnDashboard())

	session.URL = "https://app.example.com/login"
	assert.False(t, page.OnDashboard())
}

func TestHomeLoginButton(t *testing.T) {
	session := readySession()
	session.Register("[data-qa-id='login-select']", browser.NewMockElement("Log in"))

	page := NewHomePage(session, testTimeouts())
	assert.True(t, page.LoginButtonVisible())
	assert.Equal(t, "Log in", page.LoginButtonText())
	require.NoError(t, page.ClickLogin())
}

func TestRegistrationRequiredFields(t *testing.T) {
	session := readySession()
	session.Register(`[name="ulp-first-name"]`, browser.NewMockElement(""))
	session.Register("#last-name", browser.NewMockElement(""))

	page := NewRegistrationPage(session, testTimeouts())
	fields := page.RequiredFields()
	assert.True(t, fields["first_name"])
	assert.True(t, fields["last_name"], "fallback locator should find the last name field")
	assert.False(t, fields["email"])
	assert.False(t, page.AllRequiredFieldsPresent())

	session.Register(`[name="email"]`, browser.NewMockElement(""))
	assert.True(t, page.AllRequiredFieldsPresent())
}

func TestRegistrationOpenBuildsURL(t *testing.T) {
	session := readySession()
	page := NewRegistrationPage(session, testTimeouts())
	require.NoError(t, page.Open("https://app.example.com/"))
	assert.Equal(t, []string{"https://app.example.com/register"}, session.NavigatedTo)
}

func TestPasswordResetPageDetection(t *testing.T) {
	session := readySession()
	page := NewPasswordResetPage(session, testTimeouts())

	for _, u := range []string{
		"https://app.example.com/u/login/password-reset-start?state=1",
		"https://app.example.com/password-reset",
		"https://app.example.com/forgot-password",
	} {
		session.URL = u
		assert.True(t, page.OnResetPage(), "url %s should be a reset page", u)
	}

	session.URL = "https://app.example.com/login"
	assert.False(t, page.OnResetPage())
}

func TestPasswordResetFormAndMessages(t *testing.T) {
	session := readySession()
	session.Register(`[name="email"]`, browser.NewMockElement(""))
	session.Register("button[type='submit']", browser.NewMockElement(""))
	session.Register(".success, .alert-success, [class*='success']",
		browser.NewMockElement("Check your email for a reset link"))

	page := NewPasswordResetPage(session, testTimeouts())
	assert.True(t, page.HasResetForm())
	assert.Equal(t, "Check your email for a reset link", page.SuccessMessage())
	assert.Empty(t, page.ErrorMessage())
}
