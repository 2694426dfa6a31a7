package element

import (
	"time"

	"github.com/cenkalti/backoff"

	"github.com/devicelab-dev/authflow-runner/pkg/core"
	"github.com/devicelab-dev/authflow-runner/pkg/logger"
)

const (
	// staleRetries is how many times an interaction is retried after a
	// stale element reference, re-resolving each time.
	staleRetries = 3
	// staleRetryPause is the fixed pause between stale retries.
	staleRetryPause = 500 * time.Millisecond
)

// Executor performs element interactions with recovery for the two
// transient failures browsers throw at automation: stale references and
// elements the pointer cannot reach.
type Executor struct {
	resolver   *Resolver
	retryPause time.Duration
}

func NewExecutor(resolver *Resolver) *Executor {
	return &Executor{resolver: resolver, retryPause: staleRetryPause}
}

// WithRetryPause overrides the pause between stale retries. Used by tests.
func (e *Executor) WithRetryPause(pause time.Duration) *Executor {
	if pause > 0 {
		e.retryPause = pause
	}
	return e
}

// withStaleRetry runs op, re-resolving the chain and retrying when the
// interaction hits a stale reference. Any other failure aborts the loop.
func (e *Executor) withStaleRetry(chain Chain, mode ResolveMode, op func(res *Resolved) error) error {
	attempt := 0
	run := func() error {
		attempt++
		res, err := e.resolver.Resolve(chain, mode)
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := op(res); err != nil {
			if core.IsStaleReference(err) {
				logger.Debug("Stale reference on %s, attempt %d", chain.Name, attempt)
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(e.retryPause), staleRetries-1)
	return backoff.Retry(run, policy)
}

// Click clicks the element. A not-interactable failure falls back to a
// single scripted click before giving up.
func (e *Executor) Click(chain Chain) error {
	return e.withStaleRetry(chain, ClickableMode, func(res *Resolved) error {
		err := res.Element.Click()
		if err == nil {
			return nil
		}
		if core.IsNotInteractable(err) {
			logger.Debug("Pointer click on %s blocked, falling back to scripted click", chain.Name)
			return res.Element.ScriptClick()
		}
		return err
	})
}

// TypeText types text into the element, clearing any existing value first
// when clearFirst is set. Interaction failures are propagated, never
// retried: repeating a fill against a field in an unknown state can type
// into the wrong element.
func (e *Executor) TypeText(chain Chain, text string, clearFirst bool) error {
	res, err := e.resolver.Resolve(chain, VisibleMode)
	if err != nil {
		return err
	}
	if clearFirst {
		if err := res.Element.Clear(); err != nil {
			return err
		}
	}
	return res.Element.Fill(text)
}

// Clear empties the element's value. Like TypeText, failures propagate
// without retry.
func (e *Executor) Clear(chain Chain) error {
	res, err := e.resolver.Resolve(chain, VisibleMode)
	if err != nil {
		return err
	}
	return res.Element.Clear()
}

// ReadText returns the element's trimmed text. The element must resolve;
// absence is a failure, unlike attribute reads.
func (e *Executor) ReadText(chain Chain) (string, error) {
	var text string
	err := e.withStaleRetry(chain, Presence, func(res *Resolved) error {
		t, err := res.Element.Text()
		if err != nil {
			return err
		}
		text = t
		return nil
	})
	return text, err
}

// ReadAttribute returns the named attribute, or "" when the attribute is
// absent from a resolved element.
func (e *Executor) ReadAttribute(chain Chain, name string) (string, error) {
	var value string
	err := e.withStaleRetry(chain, Presence, func(res *Resolved) error {
		v, err := res.Element.Attribute(name)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, err
}
