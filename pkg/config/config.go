// Package config handles configuration for authflow-runner.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/authflow-runner/pkg/core"
)

// Browser holds browser launch settings.
type Browser struct {
	Name      string `yaml:"name"` // chrome, firefox, webkit
	Headless  bool   `yaml:"headless"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	SlowMoMs  int    `yaml:"slowMo"` // Per-action delay for debugging
	IgnoreTLS bool   `yaml:"ignoreTLS"`
}

// URLs holds the application entry points.
type URLs struct {
	Base  string `yaml:"base"`
	Login string `yaml:"login"` // Defaults to Base + /login
}

// Timeouts holds the named wait budgets, in seconds.
type Timeouts struct {
	Implicit       int `yaml:"implicit"`
	Explicit       int `yaml:"explicit"`
	PageLoad       int `yaml:"pageLoad"`
	ErrorDetection int `yaml:"errorDetection"`
	SocialLogin    int `yaml:"socialLogin"`
}

// Reporting controls artifact capture and output location.
type Reporting struct {
	OutputDir           string `yaml:"outputDir"`
	ScreenshotOnFailure bool   `yaml:"screenshotOnFailure"`
	PageSourceOnFailure bool   `yaml:"pageSourceOnFailure"`
	ConsoleLogOnFailure bool   `yaml:"consoleLogOnFailure"`
}

// Credentials is one email/password pair used by scenarios.
type Credentials struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// TestData holds the credential sets scenarios run with.
type TestData struct {
	Valid   Credentials `yaml:"valid"`
	Invalid Credentials `yaml:"invalid"`
}

// Settings is the full runner configuration (config.yaml).
type Settings struct {
	Browser   Browser   `yaml:"browser"`
	URLs      URLs      `yaml:"urls"`
	Timeouts  Timeouts  `yaml:"timeouts"`
	Reporting Reporting `yaml:"reporting"`
	TestData  TestData  `yaml:"testData"`

	// Execution settings
	Parallelism int  `yaml:"parallelism"` // Max concurrent scenarios (0 = sequential)
	StopOnFail  bool `yaml:"stopOnFail"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() *Settings {
	return &Settings{
		Browser: Browser{
			Name:     "chrome",
			Headless: false,
			Width:    1920,
			Height:   1080,
		},
		URLs: URLs{
			Base: "https://www.hudl.com",
		},
		Timeouts: Timeouts{
			Implicit:       10,
			Explicit:       20,
			PageLoad:       30,
			ErrorDetection: 3,
			SocialLogin:    2,
		},
		Reporting: Reporting{
			OutputDir:           "reports",
			ScreenshotOnFailure: true,
			PageSourceOnFailure: true,
		},
		TestData: TestData{
			Valid: Credentials{
				Email:    "test.user@example.com",
				Password: "TestPassword123!",
			},
			Invalid: Credentials{
				Email:    "invalid.user@example.com",
				Password: "WrongPassword",
			},
		},
	}
}

// Load reads settings from a YAML file, layered over defaults, then applies
// environment overrides. A .env file in the working directory is loaded
// first so both sources feed the same override pass.
func Load(path string) (*Settings, error) {
	// Missing .env is the common case
	_ = godotenv.Load()

	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
		if err != nil {
			return nil, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("could not read config file %s", path)).WithCause(err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("could not parse config file %s", path)).WithCause(err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
func LoadFromDir(dir string) (*Settings, error) {
	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Load("")
}

// applyEnv overlays environment variables on top of file settings.
func (s *Settings) applyEnv() {
	if v := os.Getenv("BROWSER"); v != "" {
		s.Browser.Name = strings.ToLower(v)
	}
	if v := os.Getenv("HEADLESS"); v != "" {
		s.Browser.Headless = envBool(v)
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		s.URLs.Base = v
	}
	if v := os.Getenv("LOGIN_URL"); v != "" {
		s.URLs.Login = v
	}
	if v := os.Getenv("REPORTS_DIR"); v != "" {
		s.Reporting.OutputDir = v
	}
	if v := os.Getenv("VALID_EMAIL"); v != "" {
		s.TestData.Valid.Email = v
	}
	if v := os.Getenv("VALID_PASSWORD"); v != "" {
		s.TestData.Valid.Password = v
	}
	if v := os.Getenv("INVALID_EMAIL"); v != "" {
		s.TestData.Invalid.Email = v
	}
	if v := os.Getenv("INVALID_PASSWORD"); v != "" {
		s.TestData.Invalid.Password = v
	}
	if v := os.Getenv("PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.Parallelism = n
		}
	}
}

func envBool(v string) bool {
	return strings.EqualFold(v, "true") || v == "1"
}

// Validate rejects settings the runner cannot start with.
func (s *Settings) Validate() error {
	if s.URLs.Base == "" {
		return core.ErrMissingRequired.WithMessage("base URL is required")
	}
	switch s.Browser.Name {
	case "chrome", "chromium", "firefox", "webkit", "safari":
	default:
		return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("unsupported browser: %s", s.Browser.Name))
	}
	if s.Browser.Width < 0 || s.Browser.Height < 0 {
		return core.ErrInvalidConfig.WithMessage("window size must not be negative")
	}
	for name, t := range map[string]int{
		"implicit":       s.Timeouts.Implicit,
		"explicit":       s.Timeouts.Explicit,
		"pageLoad":       s.Timeouts.PageLoad,
		"errorDetection": s.Timeouts.ErrorDetection,
		"socialLogin":    s.Timeouts.SocialLogin,
	} {
		if t < 0 {
			return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("timeout %s must not be negative", name))
		}
	}
	return nil
}

// LoginURL returns the configured login URL, built from the base URL when
// not set explicitly.
func (s *Settings) LoginURL() string {
	if s.URLs.Login != "" {
		return s.URLs.Login
	}
	return strings.TrimRight(s.URLs.Base, "/") + "/login"
}

// ImplicitWait returns the per-element wait budget.
func (s *Settings) ImplicitWait() time.Duration {
	return time.Duration(s.Timeouts.Implicit) * time.Second
}

// ExplicitWait returns the page-transition wait budget.
func (s *Settings) ExplicitWait() time.Duration {
	return time.Duration(s.Timeouts.Explicit) * time.Second
}

// PageLoadTimeout returns the navigation budget.
func (s *Settings) PageLoadTimeout() time.Duration {
	return time.Duration(s.Timeouts.PageLoad) * time.Second
}

// ErrorDetectionTimeout returns the budget for error element probes.
func (s *Settings) ErrorDetectionTimeout() time.Duration {
	return time.Duration(s.Timeouts.ErrorDetection) * time.Second
}

// SocialLoginTimeout returns the budget for social button probes.
func (s *Settings) SocialLoginTimeout() time.Duration {
	return time.Duration(s.Timeouts.SocialLogin) * time.Second
}

func (s *Settings) String() string {
	return fmt.Sprintf("Settings(browser=%s, base_url=%s)", s.Browser.Name, s.URLs.Base)
}
