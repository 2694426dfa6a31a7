// Package pages models the authentication surfaces of the application under
// test. Each page owns its locator chains and exposes the interactions the
// scenario layer scripts against.
package pages

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/devicelab-dev/authflow-runner/pkg/browser"
	"github.com/devicelab-dev/authflow-runner/pkg/core"
	"github.com/devicelab-dev/authflow-runner/pkg/element"
	"github.com/devicelab-dev/authflow-runner/pkg/logger"
)

// Timeouts carries the named budgets the pages poll with.
type Timeouts struct {
	Element        time.Duration
	ErrorDetection time.Duration
	SocialLogin    time.Duration
	PageLoad       time.Duration
}

// DefaultTimeouts mirrors the budgets tuned against the real application.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Element:        10 * time.Second,
		ErrorDetection: 3 * time.Second,
		SocialLogin:    2 * time.Second,
		PageLoad:       10 * time.Second,
	}
}

// errorPatterns is the vocabulary scanned for when no dedicated error
// element surfaces a message.
var errorPatterns = []string{
	"incorrect", "invalid", "wrong", "error", "failed",
	"not found", "does not exist", "try again",
}

// Base bundles the collaborators every page shares.
type Base struct {
	session  browser.Session
	resolver *element.Resolver
	executor *element.Executor
	wait     *element.WaitEngine
	timeouts Timeouts
}

// NewBase wires a page base against a live session.
func NewBase(session browser.Session, timeouts Timeouts) *Base {
	resolver := element.NewResolver(session)
	return &Base{
		session:  session,
		resolver: resolver,
		executor: element.NewExecutor(resolver),
		wait:     element.NewWaitEngine(session),
		timeouts: timeouts,
	}
}

// Session exposes the underlying session for artifact capture.
func (b *Base) Session() browser.Session {
	return b.session
}

// Navigate opens the URL and waits for the document to settle.
func (b *Base) Navigate(target string) error {
	logger.Info("Navigating to %s", target)
	if err := b.session.Navigate(target); err != nil {
		return err
	}
	if err := b.wait.Await(b.wait.PageReady(b.timeouts.PageLoad)); err != nil {
		// Pages with long-polling scripts may never reach readyState
		// complete; navigation itself already succeeded.
		logger.Warn("Document did not reach ready state: %v", err)
	}
	final, _ := b.session.CurrentURL()
	if final != "" && final != target {
		logger.Debug("Redirected from %s to %s", target, final)
	}
	return nil
}

// VerifyRedirectPath asserts that the current URL's path contains the
// fragment, case-insensitively. Query parameters and host are ignored.
func (b *Base) VerifyRedirectPath(fragment string) error {
	if err := b.wait.Await(b.wait.PageReady(b.timeouts.PageLoad)); err != nil {
		logger.Debug("Proceeding with redirect check before ready state: %v", err)
	}
	current, err := b.session.CurrentURL()
	if err != nil {
		return err
	}
	parsed, err := url.Parse(current)
	if err != nil {
		return core.ErrAssertionFailed.WithMessage(fmt.Sprintf("current URL %q does not parse", current)).WithCause(err)
	}
	path := strings.ToLower(parsed.Path)
	if !strings.Contains(path, strings.ToLower(fragment)) {
		return core.NewAssertionError(
			fmt.Sprintf("expected URL path to contain %q, got path %q (full URL %s)", fragment, path, current),
			fragment, path)
	}
	return nil
}

// VerifyProviderRedirect asserts that the current URL's host matches the
// expected provider URL's host. Paths and OAuth parameters are ignored.
func (b *Base) VerifyProviderRedirect(expectedURL string) error {
	if err := b.wait.Await(b.wait.PageReady(b.timeouts.PageLoad)); err != nil {
		logger.Debug("Proceeding with provider check before ready state: %v", err)
	}
	current, err := b.session.CurrentURL()
	if err != nil {
		return err
	}
	currentParsed, err := url.Parse(current)
	if err != nil {
		return core.ErrAssertionFailed.WithMessage(fmt.Sprintf("current URL %q does not parse", current)).WithCause(err)
	}
	expectedParsed, err := url.Parse(strings.Trim(expectedURL, `"'`))
	if err != nil {
		return core.ErrAssertionFailed.WithMessage(fmt.Sprintf("expected URL %q does not parse", expectedURL)).WithCause(err)
	}
	currentHost := strings.ToLower(currentParsed.Host)
	expectedHost := strings.ToLower(expectedParsed.Host)
	if currentHost != expectedHost && !strings.Contains(currentHost, expectedHost) {
		return core.NewAssertionError(
			fmt.Sprintf("expected redirect to host %q, got host %q (full URL %s)", expectedHost, currentHost, current),
			expectedHost, currentHost)
	}
	return nil
}

// CurrentURL returns the browser's current location.
func (b *Base) CurrentURL() (string, error) {
	return b.session.CurrentURL()
}

// resolveWithin runs one resolution under its own budget so probe lookups
// never disturb the executor's shared resolver.
func (b *Base) resolveWithin(chain element.Chain, mode element.ResolveMode, timeout time.Duration) (*element.Resolved, error) {
	return element.NewResolver(b.session).WithStrategyTimeout(timeout).Resolve(chain, mode)
}

// readOptional returns the chain's trimmed text, or "" when the element is
// absent. Absence of an error element is not a failure.
func (b *Base) readOptional(chain element.Chain) string {
	res, err := b.resolveWithin(chain, element.VisibleMode, b.timeouts.ErrorDetection)
	if err != nil {
		return ""
	}
	text, err := res.Element.Text()
	if err != nil {
		return ""
	}
	return text
}

// present reports whether the chain resolves within the timeout.
func (b *Base) present(chain element.Chain, timeout time.Duration) bool {
	_, err := b.resolveWithin(chain, element.Presence, timeout)
	return err == nil
}

// visible reports whether the chain resolves to a displayed element.
func (b *Base) visible(chain element.Chain, timeout time.Duration) bool {
	_, err := b.resolveWithin(chain, element.VisibleMode, timeout)
	return err == nil
}

// scanForErrorText searches the page for the error vocabulary and returns
// the first visible match's text. Every match per pattern is inspected;
// hidden matches, like templates holding the word "error", are skipped.
func (b *Base) scanForErrorText() string {
	for _, pattern := range errorPatterns {
		matches, err := b.session.QueryAll("text=" + pattern)
		if err != nil {
			continue
		}
		for _, el := range matches {
			visible, err := el.Visible()
			if err != nil || !visible {
				continue
			}
			text, err := el.Text()
			if err != nil || text == "" {
				continue
			}
			logger.Debug("Error text matched pattern %q: %s", pattern, text)
			return text
		}
	}
	return ""
}
