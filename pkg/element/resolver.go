package element

import (
	"fmt"
	"time"

	"github.com/devicelab-dev/authflow-runner/pkg/browser"
	"github.com/devicelab-dev/authflow-runner/pkg/core"
	"github.com/devicelab-dev/authflow-runner/pkg/logger"
)

// ResolveMode is the readiness bar an element must clear to resolve.
type ResolveMode int

const (
	// Presence requires only that the element exists in the DOM.
	Presence ResolveMode = iota
	// VisibleMode additionally requires the element to be displayed.
	VisibleMode
	// ClickableMode requires the element to be displayed and enabled.
	ClickableMode
)

func (m ResolveMode) String() string {
	switch m {
	case Presence:
		return "presence"
	case VisibleMode:
		return "visible"
	case ClickableMode:
		return "clickable"
	default:
		return "unknown"
	}
}

// DefaultStrategyTimeout bounds how long one strategy in a chain may poll
// before the resolver moves to the next.
const DefaultStrategyTimeout = 3 * time.Second

// Resolved is a successfully located element plus which strategy found it.
type Resolved struct {
	Element browser.Element
	Locator Locator
	// Index is the position of the winning locator within the chain.
	Index int
}

// Resolver walks a locator chain in order, giving each strategy a short
// budget, and returns the first element that clears the requested mode.
type Resolver struct {
	session         browser.Session
	wait            *WaitEngine
	strategyTimeout time.Duration
}

func NewResolver(session browser.Session) *Resolver {
	return &Resolver{
		session:         session,
		wait:            NewWaitEngine(session),
		strategyTimeout: DefaultStrategyTimeout,
	}
}

// WithStrategyTimeout overrides the per-strategy budget.
func (r *Resolver) WithStrategyTimeout(timeout time.Duration) *Resolver {
	if timeout > 0 {
		r.strategyTimeout = timeout
	}
	return r
}

// WithPollInterval overrides the poll interval of the underlying waits.
func (r *Resolver) WithPollInterval(interval time.Duration) *Resolver {
	r.wait.WithInterval(interval)
	return r
}

// Resolve tries each locator in the chain in order. Exhausting the chain
// yields a resolution-timeout failure carrying every attempted locator.
func (r *Resolver) Resolve(chain Chain, mode ResolveMode) (*Resolved, error) {
	if len(chain.Locators) == 0 {
		return nil, core.ErrInvalidConfig.WithMessage(
			fmt.Sprintf("element %q has no locators", chain.Name))
	}

	attempts := make([]string, 0, len(chain.Locators))
	for i, loc := range chain.Locators {
		el, err := r.tryLocator(loc, mode)
		if err == nil {
			if i > 0 {
				logger.Debug("Resolved %s via fallback locator %s", chain.Name, loc)
			}
			return &Resolved{Element: el, Locator: loc, Index: i}, nil
		}
		attempts = append(attempts, fmt.Sprintf("%s: %v", loc, err))
	}

	resErr := core.ErrResolutionTimeout.WithMessage(
		fmt.Sprintf("element %q not %s after trying %d locators", chain.Name, mode, len(chain.Locators)))
	resErr.Details = map[string]interface{}{
		"element":  chain.Name,
		"mode":     mode.String(),
		"attempts": attempts,
	}
	return nil, resErr
}

func (r *Resolver) tryLocator(loc Locator, mode ResolveMode) (browser.Element, error) {
	selector := loc.Selector()
	single := Chain{Name: loc.String(), Locators: []Locator{loc}}

	var cond Condition
	switch mode {
	case VisibleMode:
		cond = r.wait.Visible(single, r.strategyTimeout)
	case ClickableMode:
		cond = r.wait.Clickable(single, r.strategyTimeout)
	default:
		cond = r.wait.Present(single, r.strategyTimeout)
	}
	if err := r.wait.Await(cond); err != nil {
		return nil, err
	}
	return r.session.Query(selector)
}
