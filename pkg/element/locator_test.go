package element

import (
	"strings"
	"testing"
)

func TestLocatorSelector(t *testing.T) {
	tests := []struct {
		name    string
		locator Locator
		want    string
	}{
		{"name strategy", Locator{ByName, "email"}, `[name="email"]`},
		{"id strategy", Locator{ByID, "login-button"}, "#login-button"},
		{"css strategy", Locator{ByCSS, "input[type='password']"}, "input[type='password']"},
		{"text strategy", Locator{ByText, "Sign in"}, "text=Sign in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.locator.Selector(); got != tt.want {
				t.Errorf("Selector() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewChainRejectsEmpty(t *testing.T) {
	if _, err := NewChain("email"); err == nil {
		t.Error("NewChain() with no locators should return an error")
	}
}

func TestChainDescribe(t *testing.T) {
	chain := MustChain("email",
		Locator{ByName, "email"},
		Locator{ByID, "email"},
	)
	got := chain.Describe()
	if !strings.Contains(got, "email") {
		t.Errorf("Describe() = %q, missing element name", got)
	}
	if !strings.Contains(got, "name=email") || !strings.Contains(got, "id=email") {
		t.Errorf("Describe() = %q, missing locator entries", got)
	}
}

func TestMustChainPanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustChain() with no locators should panic")
		}
	}()
	MustChain("empty")
}
