// Package browser defines the capability boundary to a remote-controlled
// browser and its Playwright-backed implementation.
//
// The rest of the runner depends only on Session and Element; nothing above
// this package imports the automation protocol directly.
package browser

import "time"

// Session owns one browser process/session.
// Implementations: Playwright (chromium/firefox/webkit), mock.
type Session interface {
	// Navigate loads a URL and waits for the navigation to commit
	Navigate(url string) error

	// Query returns a live handle for the first element matching the
	// selector, without waiting. Absence is reported as an error so that
	// polling layers can distinguish "not there yet" from protocol failures.
	Query(selector string) (Element, error)

	// QueryAll returns handles for every element matching the selector.
	// An empty result is not an error.
	QueryAll(selector string) ([]Element, error)

	// Evaluate runs a script in the page and returns its result
	Evaluate(script string) (interface{}, error)

	// CurrentURL returns the URL of the active page
	CurrentURL() (string, error)

	// Title returns the active page title
	Title() (string, error)

	// PageSource returns the serialized DOM of the active page
	PageSource() (string, error)

	// Screenshot captures the current viewport as PNG
	Screenshot() ([]byte, error)

	// ConsoleLog returns console messages collected since session start
	ConsoleLog() []string

	// Cookies returns the cookies visible to the active page
	Cookies() ([]Cookie, error)

	// SetWindowSize resizes the viewport
	SetWindowSize(width, height int) error

	// Close tears the session down. Safe to call more than once.
	Close() error
}

// Element is a live handle to a resolved element. Handles can go stale when
// the page re-renders; operations on a stale handle fail with a
// stale-reference error kind.
type Element interface {
	// Click performs a native click
	Click() error

	// ScriptClick dispatches a click through page script, bypassing
	// hit-testing. Escape hatch for overlapped or animating elements.
	ScriptClick() error

	// Fill replaces the element content with the literal text
	Fill(text string) error

	// Clear empties the element content
	Clear() error

	// Text returns the trimmed visible text of the element
	Text() (string, error)

	// Attribute returns the named attribute, "" when absent
	Attribute(name string) (string, error)

	// Property returns the named DOM property as a string, "" when unset.
	// Browser-computed values like validationMessage live on the element
	// object, not in its attributes.
	Property(name string) (string, error)

	// Visible reports whether the element is rendered and visible
	Visible() (bool, error)

	// Enabled reports whether the element accepts input
	Enabled() (bool, error)
}

// Cookie is a minimal view of a browser cookie
type Cookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
	Path   string `json:"path"`
}

// Config carries the per-session browser options. The harness builds one
// from the resolved settings; the session never reads configuration itself.
type Config struct {
	Kind            string // chromium, firefox, webkit
	Headless        bool
	WindowWidth     int
	WindowHeight    int
	NavTimeout      time.Duration // page-load timeout
	DefaultTimeout  time.Duration // implicit per-operation timeout
	SlowMo          time.Duration // optional per-action delay for debugging
	IgnoreTLSErrors bool
}
