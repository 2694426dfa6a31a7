// Package suite declares the authentication scenarios the runner executes.
package suite

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/authflow-runner/pkg/core"
	"github.com/devicelab-dev/authflow-runner/pkg/harness"
)

// providerHosts maps the supported social providers to the hosts their
// login buttons redirect to.
var providerHosts = map[string]string{
	"google":   "https://accounts.google.com",
	"facebook": "https://www.facebook.com",
	"apple":    "https://appleid.apple.com",
}

// AuthScenarios returns the full authentication suite.
func AuthScenarios() []harness.Scenario {
	scenarios := []harness.Scenario{
		validLogin(),
		invalidEmail(),
		invalidPassword(),
		emptyEmailValidation(),
		passwordVisibilityToggle(),
		forgotPassword(),
		signUpNavigation(),
		logout(),
	}
	for provider := range providerHosts {
		scenarios = append(scenarios, providerRedirect(provider))
	}
	return scenarios
}

func openLogin() harness.Step {
	return harness.Step{Name: "open the login page", Run: func(c *harness.Context) error {
		return c.Login.Open(c.Settings.LoginURL())
	}}
}

// enterValidEmail submits the identifier step of the hosted login flow.
func enterValidEmail() harness.Step {
	return harness.Step{Name: "enter a valid email address", Run: func(c *harness.Context) error {
		if err := c.Login.EnterEmail(c.Settings.TestData.Valid.Email); err != nil {
			return err
		}
		return c.Login.Submit()
	}}
}

func enterValidPassword() harness.Step {
	return harness.Step{Name: "enter a valid password", Run: func(c *harness.Context) error {
		if err := c.Login.EnterPassword(c.Settings.TestData.Valid.Password); err != nil {
			return err
		}
		return c.Login.Submit()
	}}
}

func validLogin() harness.Scenario {
	return harness.Scenario{
		Name: "Valid login with correct credentials",
		Tags: []string{"smoke", "login"},
		Steps: []harness.Step{
			openLogin(),
			enterValidEmail(),
			enterValidPassword(),
			{Name: "verify redirect to the dashboard", Run: func(c *harness.Context) error {
				if err := c.Dashboard.WaitReady(); err != nil {
					return err
				}
				if !c.Dashboard.OnDashboard() {
					url, _ := c.Dashboard.CurrentURL()
					return core.NewAssertionError(
						fmt.Sprintf("expected to land on the dashboard, got %s", url), "dashboard", url)
				}
				return nil
			}},
			{Name: "verify the display name is shown", Run: func(c *harness.Context) error {
				name, err := c.Dashboard.DisplayName()
				if err != nil {
					return err
				}
				if name == "" {
					return core.NewAssertionError("display name is empty after login", "non-empty display name", "")
				}
				c.Data["display_name"] = name
				return nil
			}},
		},
	}
}

func invalidEmail() harness.Scenario {
	return harness.Scenario{
		Name: "Login with an invalid email address",
		Tags: []string{"login", "negative"},
		Steps: []harness.Step{
			openLogin(),
			{Name: "enter an invalid email address", Run: func(c *harness.Context) error {
				if err := c.Login.EnterEmail(c.Settings.TestData.Invalid.Email); err != nil {
					return err
				}
				return c.Login.Submit()
			}},
			{Name: "verify an error message appears", Run: func(c *harness.Context) error {
				// Field-scoped errors are authoritative; the page-wide scan
				// is the fallback for markup variants.
				msg, err := c.Login.FieldError("email")
				if err != nil {
					return err
				}
				if msg == "" {
					msg = c.Login.ErrorMessage()
				}
				if msg == "" {
					return core.NewAssertionError("no error shown for invalid email", "error message", "")
				}
				return nil
			}},
			remainOnLoginPage(),
		},
	}
}

func invalidPassword() harness.Scenario {
	return harness.Scenario{
		Name: "Login with an invalid password",
		Tags: []string{"login", "negative"},
		Steps: []harness.Step{
			openLogin(),
			enterValidEmail(),
			{Name: "enter an invalid password", Run: func(c *harness.Context) error {
				if err := c.Login.EnterPassword(c.Settings.TestData.Invalid.Password); err != nil {
					return err
				}
				return c.Login.Submit()
			}},
			{Name: "verify the invalid credentials error", Run: func(c *harness.Context) error {
				if msg := c.Login.InvalidCredentialsError(); msg == "" {
					return core.NewAssertionError("no error shown for invalid password", "invalid credentials error", "")
				}
				return nil
			}},
			remainOnLoginPage(),
		},
	}
}

func remainOnLoginPage() harness.Step {
	return harness.Step{Name: "verify still on the login page", Run: func(c *harness.Context) error {
		if !c.Login.Loaded() {
			url, _ := c.Login.CurrentURL()
			return core.NewAssertionError(
				fmt.Sprintf("expected to remain on the login page, got %s", url), "login page", url)
		}
		return nil
	}}
}

func emptyEmailValidation() harness.Scenario {
	return harness.Scenario{
		Name: "Submitting an empty email triggers field validation",
		Tags: []string{"login", "negative"},
		Steps: []harness.Step{
			openLogin(),
			{Name: "leave the email field empty and submit", Run: func(c *harness.Context) error {
				if err := c.Login.ClearEmail(); err != nil {
					return err
				}
				return c.Login.Submit()
			}},
			{Name: "verify the email field reports a validation message", Run: func(c *harness.Context) error {
				msg, err := c.Login.ValidationMessage("email")
				if err != nil {
					return err
				}
				if msg == "" {
					// Some variants render an inline error instead of the
					// native validation bubble.
					if fieldMsg, ferr := c.Login.FieldError("email"); ferr == nil && fieldMsg != "" {
						return nil
					}
					return core.NewAssertionError("empty email was accepted", "validation message", "")
				}
				return nil
			}},
			remainOnLoginPage(),
		},
	}
}

func passwordVisibilityToggle() harness.Scenario {
	return harness.Scenario{
		Name: "Password visibility toggle shows and hides the value",
		Tags: []string{"login", "ui"},
		Steps: []harness.Step{
			openLogin(),
			enterValidEmail(),
			{Name: "enter a masked password", Run: func(c *harness.Context) error {
				if err := c.Login.EnterPassword(c.Settings.TestData.Valid.Password); err != nil {
					return err
				}
				visible, err := c.Login.PasswordVisible()
				if err != nil {
					return err
				}
				if visible {
					return core.NewAssertionError("password renders in clear text before toggling", "masked", "visible")
				}
				return nil
			}},
			{Name: "toggle the password to plain text", Run: func(c *harness.Context) error {
				if err := c.Login.TogglePasswordVisibility(); err != nil {
					return err
				}
				visible, err := c.Login.PasswordVisible()
				if err != nil {
					return err
				}
				if !visible {
					return core.NewAssertionError("password stayed masked after toggle", "visible", "masked")
				}
				return nil
			}},
			{Name: "toggle the password back to masked", Run: func(c *harness.Context) error {
				if err := c.Login.TogglePasswordVisibility(); err != nil {
					return err
				}
				visible, err := c.Login.PasswordVisible()
				if err != nil {
					return err
				}
				if visible {
					return core.NewAssertionError("password stayed visible after second toggle", "masked", "visible")
				}
				value, err := c.Login.PasswordValue()
				if err != nil {
					return err
				}
				if value != c.Settings.TestData.Valid.Password {
					return core.NewAssertionError("toggling changed the field value",
						c.Settings.TestData.Valid.Password, value)
				}
				return nil
			}},
		},
	}
}

func providerRedirect(provider string) harness.Scenario {
	host := providerHosts[provider]
	title := strings.ToUpper(provider[:1]) + provider[1:]
	return harness.Scenario{
		Name: fmt.Sprintf("Social login with %s redirects to the provider", title),
		Tags: []string{"login", "social"},
		Steps: []harness.Step{
			openLogin(),
			{Name: fmt.Sprintf("click the %s login button", provider), Run: func(c *harness.Context) error {
				return c.Login.ClickProvider(provider)
			}},
			{Name: "verify the provider redirect", Run: func(c *harness.Context) error {
				return c.Login.VerifyProviderRedirect(host)
			}},
		},
	}
}

func forgotPassword() harness.Scenario {
	return harness.Scenario{
		Name: "Forgot password link opens the reset page",
		Tags: []string{"password-reset"},
		Steps: []harness.Step{
			openLogin(),
			{Name: "click the forgot password link", Run: func(c *harness.Context) error {
				return c.Login.ClickForgotPassword()
			}},
			{Name: "verify redirect to the password reset page", Run: func(c *harness.Context) error {
				if err := c.PasswordReset.VerifyRedirectPath("password-reset"); err != nil {
					return err
				}
				if !c.PasswordReset.OnResetPage() {
					url, _ := c.PasswordReset.CurrentURL()
					return core.NewAssertionError(
						fmt.Sprintf("URL does not match a reset page: %s", url), "password reset page", url)
				}
				return nil
			}},
			{Name: "verify the page has reset functionality", Run: func(c *harness.Context) error {
				if !c.PasswordReset.HasResetForm() {
					return core.NewAssertionError("reset page lacks an email field or submit button",
						"email field and submit button", "missing")
				}
				return nil
			}},
		},
	}
}

func signUpNavigation() harness.Scenario {
	return harness.Scenario{
		Name: "Sign up link opens the registration page",
		Tags: []string{"registration"},
		Steps: []harness.Step{
			openLogin(),
			{Name: "click the sign up link", Run: func(c *harness.Context) error {
				return c.Login.ClickSignUp()
			}},
			{Name: "verify redirect to the registration page", Run: func(c *harness.Context) error {
				return c.Registration.VerifyRedirectPath("sign")
			}},
			{Name: "verify the registration form fields", Run: func(c *harness.Context) error {
				fields := c.Registration.RequiredFields()
				missing := make([]string, 0, len(fields))
				for field, present := range fields {
					if !present {
						missing = append(missing, field)
					}
				}
				if len(missing) > 0 {
					return core.NewAssertionError(
						fmt.Sprintf("registration form is missing fields: %s", strings.Join(missing, ", ")),
						"first name, last name and email fields", missing)
				}
				return nil
			}},
		},
	}
}

func logout() harness.Scenario {
	return harness.Scenario{
		Name: "Logout returns to the login page and clears the session",
		Tags: []string{"logout"},
		Steps: []harness.Step{
			openLogin(),
			enterValidEmail(),
			enterValidPassword(),
			{Name: "wait for the dashboard", Run: func(c *harness.Context) error {
				return c.Dashboard.WaitReady()
			}},
			{Name: "click the logout button", Run: func(c *harness.Context) error {
				return c.Dashboard.Logout()
			}},
			{Name: "verify the session is cleared", Run: func(c *harness.Context) error {
				// Revisiting the dashboard after logout must not show a
				// logged-in state.
				base := strings.TrimRight(c.Settings.URLs.Base, "/")
				if err := c.Session.Navigate(base + "/home"); err != nil {
					return err
				}
				if c.Dashboard.LoggedIn() {
					return core.NewAssertionError("user menu still renders after logout", "logged out", "logged in")
				}
				return nil
			}},
		},
	}
}
