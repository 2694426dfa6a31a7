package element

import (
	"fmt"
	"strings"
	"time"

	"github.com/devicelab-dev/authflow-runner/pkg/browser"
	"github.com/devicelab-dev/authflow-runner/pkg/core"
	"github.com/devicelab-dev/authflow-runner/pkg/logger"
)

// DefaultPollInterval is how often a wait re-evaluates its predicate.
const DefaultPollInterval = 250 * time.Millisecond

// Condition is a named predicate polled until true or timeout.
type Condition struct {
	Name    string
	Timeout time.Duration
	// Check reports whether the condition holds. A returned error aborts
	// the wait immediately.
	Check func() (bool, error)
}

// WaitEngine polls conditions against a live session.
type WaitEngine struct {
	session  browser.Session
	interval time.Duration
}

func NewWaitEngine(session browser.Session) *WaitEngine {
	return &WaitEngine{session: session, interval: DefaultPollInterval}
}

// WithInterval overrides the poll interval. Used by tests to keep waits
// fast.
func (w *WaitEngine) WithInterval(interval time.Duration) *WaitEngine {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

// Await polls the condition until it holds, the predicate errors, or the
// timeout elapses. A timeout is reported as a wait-timeout failure, not a
// predicate error.
func (w *WaitEngine) Await(cond Condition) error {
	deadline := time.Now().Add(cond.Timeout)
	for {
		ok, err := cond.Check()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			logger.Debug("Wait timed out: %s after %s", cond.Name, cond.Timeout)
			return core.ErrWaitTimeout.WithMessage(
				fmt.Sprintf("condition %q not met within %s", cond.Name, cond.Timeout))
		}
		time.Sleep(w.interval)
	}
}

// Present holds when at least one element matches any locator in the chain.
func (w *WaitEngine) Present(chain Chain, timeout time.Duration) Condition {
	return Condition{
		Name:    "present:" + chain.Name,
		Timeout: timeout,
		Check: func() (bool, error) {
			for _, loc := range chain.Locators {
				if _, err := w.session.Query(loc.Selector()); err == nil {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

// Visible holds when a matching element reports itself displayed.
func (w *WaitEngine) Visible(chain Chain, timeout time.Duration) Condition {
	return Condition{
		Name:    "visible:" + chain.Name,
		Timeout: timeout,
		Check: func() (bool, error) {
			for _, loc := range chain.Locators {
				el, err := w.session.Query(loc.Selector())
				if err != nil {
					continue
				}
				visible, err := el.Visible()
				if err != nil {
					continue
				}
				if visible {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

// Clickable holds when a matching element is both visible and enabled.
func (w *WaitEngine) Clickable(chain Chain, timeout time.Duration) Condition {
	return Condition{
		Name:    "clickable:" + chain.Name,
		Timeout: timeout,
		Check: func() (bool, error) {
			for _, loc := range chain.Locators {
				el, err := w.session.Query(loc.Selector())
				if err != nil {
					continue
				}
				visible, err := el.Visible()
				if err != nil || !visible {
					continue
				}
				enabled, err := el.Enabled()
				if err != nil {
					continue
				}
				if enabled {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

// TextContains holds when the element's text contains the fragment,
// case-insensitively.
func (w *WaitEngine) TextContains(chain Chain, fragment string, timeout time.Duration) Condition {
	want := strings.ToLower(fragment)
	return Condition{
		Name:    fmt.Sprintf("text-contains:%s:%s", chain.Name, fragment),
		Timeout: timeout,
		Check: func() (bool, error) {
			for _, loc := range chain.Locators {
				el, err := w.session.Query(loc.Selector())
				if err != nil {
					continue
				}
				text, err := el.Text()
				if err != nil {
					continue
				}
				if strings.Contains(strings.ToLower(text), want) {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

// URLContains holds when the current URL contains the fragment,
// case-insensitively.
func (w *WaitEngine) URLContains(fragment string, timeout time.Duration) Condition {
	want := strings.ToLower(fragment)
	return Condition{
		Name:    "url-contains:" + fragment,
		Timeout: timeout,
		Check: func() (bool, error) {
			url, err := w.session.CurrentURL()
			if err != nil {
				return false, err
			}
			return strings.Contains(strings.ToLower(url), want), nil
		},
	}
}

// PageReady holds when the document has finished loading.
func (w *WaitEngine) PageReady(timeout time.Duration) Condition {
	return Condition{
		Name:    "page-ready",
		Timeout: timeout,
		Check: func() (bool, error) {
			state, err := w.session.Evaluate("document.readyState")
			if err != nil {
				return false, err
			}
			s, ok := state.(string)
			return ok && s == "complete", nil
		},
	}
}
