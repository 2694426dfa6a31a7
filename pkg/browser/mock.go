package browser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/devicelab-dev/authflow-runner/pkg/core"
)

// MockSession is a scripted in-memory Session used by tests. Elements are
// registered per selector and failures can be injected per call.
type MockSession struct {
	mu sync.Mutex

	URL        string
	PageTitle  string
	Source     string
	Console    []string
	CookieList []Cookie

	elements map[string][]*MockElement

	NavigateErr   error
	QueryErr      error
	EvaluateErr   error
	ScreenshotErr error
	CloseErr      error

	// EvaluateResults maps a script to its canned result.
	EvaluateResults map[string]interface{}

	NavigatedTo []string
	Evaluated   []string
	CloseCalls  int
	Width       int
	Height      int
}

func NewMockSession() *MockSession {
	return &MockSession{
		elements:        make(map[string][]*MockElement),
		EvaluateResults: make(map[string]interface{}),
	}
}

// Register makes the element answer queries for the given selector.
func (m *MockSession) Register(selector string, elements ...*MockElement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.elements[selector] = append(m.elements[selector], elements...)
}

func (m *MockSession) Navigate(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.NavigateErr != nil {
		return m.NavigateErr
	}
	m.NavigatedTo = append(m.NavigatedTo, url)
	m.URL = url
	return nil
}

func (m *MockSession) Query(selector string) (Element, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	found, ok := m.elements[selector]
	if !ok || len(found) == 0 {
		return nil, core.ErrResolutionTimeout.WithMessage(fmt.Sprintf("no element matches %q", selector))
	}
	return found[0], nil
}

func (m *MockSession) QueryAll(selector string) ([]Element, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	found := m.elements[selector]
	out := make([]Element, 0, len(found))
	for _, e := range found {
		out = append(out, e)
	}
	return out, nil
}

func (m *MockSession) Evaluate(script string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Evaluated = append(m.Evaluated, script)
	if m.EvaluateErr != nil {
		return nil, m.EvaluateErr
	}
	if result, ok := m.EvaluateResults[script]; ok {
		return result, nil
	}
	return nil, nil
}

func (m *MockSession) CurrentURL() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.URL, nil
}

func (m *MockSession) Title() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PageTitle, nil
}

func (m *MockSession) PageSource() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Source, nil
}

func (m *MockSession) Screenshot() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ScreenshotErr != nil {
		return nil, m.ScreenshotErr
	}
	return []byte("PNG"), nil
}

func (m *MockSession) ConsoleLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Console))
	copy(out, m.Console)
	return out
}

func (m *MockSession) Cookies() ([]Cookie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Cookie, len(m.CookieList))
	copy(out, m.CookieList)
	return out, nil
}

func (m *MockSession) SetWindowSize(width, height int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Width, m.Height = width, height
	return nil
}

func (m *MockSession) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	if m.CloseCalls > 1 {
		return nil
	}
	return m.CloseErr
}

// MockElement is a scripted Element. StaleFor makes the first N
// interactions fail with a stale reference; NotInteractableFor does the
// same with a not-interactable failure.
type MockElement struct {
	mu sync.Mutex

	TextValue  string
	Attributes map[string]string
	Properties map[string]string
	IsVisible  bool
	IsEnabled  bool

	StaleFor           int
	NotInteractableFor int

	Clicks       int
	ScriptClicks int
	Filled       []string
	Cleared      int
}

func NewMockElement(text string) *MockElement {
	return &MockElement{
		TextValue:  text,
		Attributes: make(map[string]string),
		Properties: make(map[string]string),
		IsVisible:  true,
		IsEnabled:  true,
	}
}

func (e *MockElement) interact() error {
	if e.StaleFor > 0 {
		e.StaleFor--
		return core.ErrStaleReference.WithMessage("element is not attached to the DOM")
	}
	if e.NotInteractableFor > 0 {
		e.NotInteractableFor--
		return core.ErrNotInteractable.WithMessage("element intercepts pointer events")
	}
	return nil
}

func (e *MockElement) Click() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.interact(); err != nil {
		return err
	}
	e.Clicks++
	return nil
}

func (e *MockElement) ScriptClick() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ScriptClicks++
	return nil
}

func (e *MockElement) Fill(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.interact(); err != nil {
		return err
	}
	e.Filled = append(e.Filled, text)
	return nil
}

func (e *MockElement) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.interact(); err != nil {
		return err
	}
	e.Cleared++
	return nil
}

func (e *MockElement) Text() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.StaleFor > 0 {
		e.StaleFor--
		return "", core.ErrStaleReference.WithMessage("element is not attached to the DOM")
	}
	return strings.TrimSpace(e.TextValue), nil
}

func (e *MockElement) Attribute(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Attributes[name], nil
}

func (e *MockElement) Property(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Properties[name], nil
}

func (e *MockElement) Visible() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.IsVisible, nil
}

func (e *MockElement) Enabled() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.IsEnabled, nil
}
