package browser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/devicelab-dev/authflow-runner/pkg/core"
)

// One driver process serves every session in the run; each session still
// gets its own browser, context and page so scenarios stay isolated.
var (
	pwMu     sync.Mutex
	pwDriver *playwright.Playwright
)

func driver() (*playwright.Playwright, error) {
	pwMu.Lock()
	defer pwMu.Unlock()

	if pwDriver != nil {
		return pwDriver, nil
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, core.ErrSessionCreate.WithCause(err)
	}
	pwDriver = pw
	return pwDriver, nil
}

// StopDriver shuts down the shared automation driver. Called once at
// process end, after all sessions are closed.
func StopDriver() {
	pwMu.Lock()
	defer pwMu.Unlock()

	if pwDriver != nil {
		pwDriver.Stop()
		pwDriver = nil
	}
}

type playwrightSession struct {
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	consoleMu sync.Mutex
	console   []string

	closed bool
}

// NewSession launches a fresh browser session for one scenario.
func NewSession(cfg Config) (Session, error) {
	pw, err := driver()
	if err != nil {
		return nil, err
	}

	var browserType playwright.BrowserType
	switch strings.ToLower(cfg.Kind) {
	case "", "chromium", "chrome":
		browserType = pw.Chromium
	case "firefox":
		browserType = pw.Firefox
	case "webkit", "safari":
		browserType = pw.WebKit
	default:
		return nil, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("unsupported browser kind: %s", cfg.Kind))
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-notifications",
		},
	}
	if cfg.SlowMo > 0 {
		launchOpts.SlowMo = playwright.Float(float64(cfg.SlowMo.Milliseconds()))
	}

	b, err := browserType.Launch(launchOpts)
	if err != nil {
		return nil, core.ErrSessionCreate.WithCause(err)
	}

	width, height := cfg.WindowWidth, cfg.WindowHeight
	if width <= 0 || height <= 0 {
		width, height = 1920, 1080
	}

	ctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		Viewport:          &playwright.Size{Width: width, Height: height},
		IgnoreHttpsErrors: playwright.Bool(cfg.IgnoreTLSErrors),
	})
	if err != nil {
		b.Close()
		return nil, core.ErrSessionCreate.WithCause(err)
	}

	page, err := ctx.NewPage()
	if err != nil {
		ctx.Close()
		b.Close()
		return nil, core.ErrSessionCreate.WithCause(err)
	}

	if cfg.DefaultTimeout > 0 {
		page.SetDefaultTimeout(float64(cfg.DefaultTimeout.Milliseconds()))
	}
	if cfg.NavTimeout > 0 {
		page.SetDefaultNavigationTimeout(float64(cfg.NavTimeout.Milliseconds()))
	}

	s := &playwrightSession{
		browser: b,
		context: ctx,
		page:    page,
	}

	page.OnConsole(func(msg playwright.ConsoleMessage) {
		s.consoleMu.Lock()
		defer s.consoleMu.Unlock()
		s.console = append(s.console, fmt.Sprintf("%s: %s", msg.Type(), msg.Text()))
	})
	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})

	return s, nil
}

func (s *playwrightSession) Navigate(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return classifyErr(err)
	}
	return nil
}

func (s *playwrightSession) Query(selector string) (Element, error) {
	handle, err := s.page.QuerySelector(selector)
	if err != nil {
		return nil, classifyErr(err)
	}
	if handle == nil {
		return nil, core.ErrResolutionTimeout.WithMessage(fmt.Sprintf("no element matches %q", selector))
	}
	return &playwrightElement{handle: handle}, nil
}

func (s *playwrightSession) QueryAll(selector string) ([]Element, error) {
	handles, err := s.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, classifyErr(err)
	}
	elements := make([]Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &playwrightElement{handle: h})
	}
	return elements, nil
}

func (s *playwrightSession) Evaluate(script string) (interface{}, error) {
	result, err := s.page.Evaluate(script)
	if err != nil {
		return nil, classifyErr(err)
	}
	return result, nil
}

func (s *playwrightSession) CurrentURL() (string, error) {
	return s.page.URL(), nil
}

func (s *playwrightSession) Title() (string, error) {
	title, err := s.page.Title()
	if err != nil {
		return "", classifyErr(err)
	}
	return title, nil
}

func (s *playwrightSession) PageSource() (string, error) {
	content, err := s.page.Content()
	if err != nil {
		return "", classifyErr(err)
	}
	return content, nil
}

func (s *playwrightSession) Screenshot() ([]byte, error) {
	data, err := s.page.Screenshot(playwright.PageScreenshotOptions{})
	if err != nil {
		return nil, classifyErr(err)
	}
	return data, nil
}

func (s *playwrightSession) ConsoleLog() []string {
	s.consoleMu.Lock()
	defer s.consoleMu.Unlock()
	out := make([]string, len(s.console))
	copy(out, s.console)
	return out
}

func (s *playwrightSession) Cookies() ([]Cookie, error) {
	raw, err := s.context.Cookies()
	if err != nil {
		return nil, classifyErr(err)
	}
	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		})
	}
	return cookies, nil
}

func (s *playwrightSession) SetWindowSize(width, height int) error {
	if err := s.page.SetViewportSize(width, height); err != nil {
		return classifyErr(err)
	}
	return nil
}

func (s *playwrightSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var closeErr error
	if err := s.context.Close(); err != nil && !isAlreadyClosed(err) {
		closeErr = core.ErrSessionClosed.WithCause(err)
	}
	if err := s.browser.Close(); err != nil && !isAlreadyClosed(err) {
		if closeErr != nil {
			closeErr = fmt.Errorf("%v; failed to close browser: %w", closeErr, err)
		} else {
			closeErr = core.ErrSessionClosed.WithCause(err)
		}
	}
	return closeErr
}

type playwrightElement struct {
	handle playwright.ElementHandle
}

func (e *playwrightElement) Click() error {
	return classifyErr(e.handle.Click())
}

func (e *playwrightElement) ScriptClick() error {
	_, err := e.handle.Evaluate("el => el.click()")
	return classifyErr(err)
}

func (e *playwrightElement) Fill(text string) error {
	return classifyErr(e.handle.Fill(text))
}

func (e *playwrightElement) Clear() error {
	return classifyErr(e.handle.Fill(""))
}

func (e *playwrightElement) Text() (string, error) {
	text, err := e.handle.InnerText()
	if err != nil {
		return "", classifyErr(err)
	}
	return strings.TrimSpace(text), nil
}

func (e *playwrightElement) Attribute(name string) (string, error) {
	value, err := e.handle.GetAttribute(name)
	if err != nil {
		// Missing attributes surface as an error in the protocol; callers
		// that tolerate absence expect "".
		return "", nil
	}
	return value, nil
}

func (e *playwrightElement) Property(name string) (string, error) {
	value, err := e.handle.Evaluate("(el, name) => { const v = el[name]; return v == null ? '' : String(v) }", name)
	if err != nil {
		return "", classifyErr(err)
	}
	s, ok := value.(string)
	if !ok {
		return "", nil
	}
	return s, nil
}

func (e *playwrightElement) Visible() (bool, error) {
	visible, err := e.handle.IsVisible()
	if err != nil {
		return false, classifyErr(err)
	}
	return visible, nil
}

func (e *playwrightElement) Enabled() (bool, error) {
	enabled, err := e.handle.IsEnabled()
	if err != nil {
		return false, classifyErr(err)
	}
	return enabled, nil
}

// classifyErr maps protocol errors onto the runner's error taxonomy so the
// retry layers can react without knowing the protocol's message formats.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not attached") || strings.Contains(msg, "stale"):
		return core.ErrStaleReference.WithCause(err)
	case strings.Contains(msg, "not visible"),
		strings.Contains(msg, "intercepts pointer events"),
		strings.Contains(msg, "outside of the viewport"),
		strings.Contains(msg, "element is disabled"):
		return core.ErrNotInteractable.WithCause(err)
	case strings.Contains(msg, "timeout"):
		return core.ErrWaitTimeout.WithCause(err)
	case strings.Contains(msg, "target closed") || strings.Contains(msg, "browser has been closed"):
		return core.ErrSessionClosed.WithCause(err)
	default:
		return err
	}
}

func isAlreadyClosed(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "closed")
}
