package element

import (
	"testing"
	"time"

	"github.com/devicelab-dev/authflow-runner/pkg/browser"
	"github.com/devicelab-dev/authflow-runner/pkg/core"
)

func newTestExecutor(session browser.Session) *Executor {
	resolver := NewResolver(session).
		WithStrategyTimeout(20 * time.Millisecond).
		WithPollInterval(5 * time.Millisecond)
	return NewExecutor(resolver).WithRetryPause(time.Millisecond)
}

func TestClickHappyPath(t *testing.T) {
	session := browser.NewMockSession()
	el := browser.NewMockElement("")
	session.Register("#go", el)

	chain := MustChain("go", Locator{ByID, "go"})
	if err := newTestExecutor(session).Click(chain); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if el.Clicks != 1 {
		t.Errorf("clicks = %d, want 1", el.Clicks)
	}
}

func TestClickRetriesStaleReference(t *testing.T) {
	session := browser.NewMockSession()
	el := browser.NewMockElement("")
	el.StaleFor = 2
	session.Register("#go", el)

	chain := MustChain("go", Locator{ByID, "go"})
	if err := newTestExecutor(session).Click(chain); err != nil {
		t.Fatalf("Click() error = %v, should recover within retry budget", err)
	}
	if el.Clicks != 1 {
		t.Errorf("clicks = %d, want 1 after retries", el.Clicks)
	}
}

func TestClickGivesUpAfterRetryBudget(t *testing.T) {
	session := browser.NewMockSession()
	el := browser.NewMockElement("")
	el.StaleFor = 10
	session.Register("#go", el)

	chain := MustChain("go", Locator{ByID, "go"})
	err := newTestExecutor(session).Click(chain)
	if !core.IsStaleReference(err) {
		t.Errorf("Click() error = %v, want stale reference after exhausting retries", err)
	}
}

func TestClickFallsBackToScriptedClick(t *testing.T) {
	session := browser.NewMockSession()
	el := browser.NewMockElement("")
	el.NotInteractableFor = 1
	session.Register("#go", el)

	chain := MustChain("go", Locator{ByID, "go"})
	if err := newTestExecutor(session).Click(chain); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if el.ScriptClicks != 1 {
		t.Errorf("scripted clicks = %d, want 1", el.ScriptClicks)
	}
	if el.Clicks != 0 {
		t.Errorf("pointer clicks = %d, want 0", el.Clicks)
	}
}

func TestClickUnresolvableElement(t *testing.T) {
	session := browser.NewMockSession()

	chain := MustChain("missing", Locator{ByID, "missing"})
	err := newTestExecutor(session).Click(chain)
	if !core.IsResolutionTimeout(err) {
		t.Errorf("Click() error = %v, want resolution timeout", err)
	}
}

func TestTypeTextClearsFirst(t *testing.T) {
	session := browser.NewMockSession()
	el := browser.NewMockElement("")
	session.Register(`[name="email"]`, el)

	chain := MustChain("email", Locator{ByName, "email"})
	exec := newTestExecutor(session)
	if err := exec.TypeText(chain, "user@example.com", true); err != nil {
		t.Fatalf("TypeText() error = %v", err)
	}
	if el.Cleared != 1 {
		t.Errorf("cleared = %d, want 1", el.Cleared)
	}
	if len(el.Filled) != 1 || el.Filled[0] != "user@example.com" {
		t.Errorf("filled = %v, want [user@example.com]", el.Filled)
	}

	if err := exec.TypeText(chain, "more", false); err != nil {
		t.Fatalf("TypeText() error = %v", err)
	}
	if el.Cleared != 1 {
		t.Errorf("cleared = %d after append-mode type, want still 1", el.Cleared)
	}
}

func TestTypeTextDoesNotRetryStaleFill(t *testing.T) {
	session := browser.NewMockSession()
	el := browser.NewMockElement("")
	el.StaleFor = 1
	session.Register(`[name="email"]`, el)

	chain := MustChain("email", Locator{ByName, "email"})
	err := newTestExecutor(session).TypeText(chain, "user@example.com", false)
	if !core.IsStaleReference(err) {
		t.Fatalf("TypeText() error = %v, want stale reference propagated", err)
	}
	if len(el.Filled) != 0 {
		t.Errorf("filled = %v, want nothing after failed fill", el.Filled)
	}
}

func TestClearDoesNotRetryStaleElement(t *testing.T) {
	session := browser.NewMockSession()
	el := browser.NewMockElement("")
	el.StaleFor = 1
	session.Register(`[name="email"]`, el)

	chain := MustChain("email", Locator{ByName, "email"})
	err := newTestExecutor(session).Clear(chain)
	if !core.IsStaleReference(err) {
		t.Fatalf("Clear() error = %v, want stale reference propagated", err)
	}
	if el.Cleared != 0 {
		t.Errorf("cleared = %d, want 0 after failed clear", el.Cleared)
	}
}

func TestReadTextTrims(t *testing.T) {
	session := browser.NewMockSession()
	session.Register("#banner", browser.NewMockElement("  Invalid password  "))

	chain := MustChain("banner", Locator{ByID, "banner"})
	got, err := newTestExecutor(session).ReadText(chain)
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if got != "Invalid password" {
		t.Errorf("ReadText() = %q, want %q", got, "Invalid password")
	}
}

func TestReadTextRequiresPresence(t *testing.T) {
	session := browser.NewMockSession()

	chain := MustChain("banner", Locator{ByID, "banner"})
	if _, err := newTestExecutor(session).ReadText(chain); !core.IsResolutionTimeout(err) {
		t.Errorf("ReadText() error = %v, want resolution timeout", err)
	}
}

func TestReadAttributeAbsentIsEmpty(t *testing.T) {
	session := browser.NewMockSession()
	el := browser.NewMockElement("")
	el.Attributes["type"] = "password"
	session.Register("#pw", el)

	chain := MustChain("pw", Locator{ByID, "pw"})
	exec := newTestExecutor(session)

	got, err := exec.ReadAttribute(chain, "type")
	if err != nil || got != "password" {
		t.Errorf("ReadAttribute(type) = %q, %v, want password, nil", got, err)
	}

	got, err = exec.ReadAttribute(chain, "placeholder")
	if err != nil || got != "" {
		t.Errorf("ReadAttribute(placeholder) = %q, %v, want empty, nil", got, err)
	}
}
