// Package element locates and drives page elements. A Chain carries the
// ordered lookup strategies for one logical element; the Resolver walks the
// chain and the Executor layers retry behavior on top of raw interactions.
package element

import (
	"fmt"
	"strings"
)

// Strategy identifies how a locator value is matched against the page.
type Strategy string

const (
	ByName Strategy = "name"
	ByID   Strategy = "id"
	ByCSS  Strategy = "css"
	ByText Strategy = "text"
)

// Locator pairs a strategy with its value.
type Locator struct {
	Strategy Strategy
	Value    string
}

// Selector translates the locator into a query string the session
// understands.
func (l Locator) Selector() string {
	switch l.Strategy {
	case ByName:
		return fmt.Sprintf("[name=%q]", l.Value)
	case ByID:
		return "#" + l.Value
	case ByText:
		return "text=" + l.Value
	default:
		return l.Value
	}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}

// Chain is an ordered list of locators for one logical element. Earlier
// entries are preferred; later ones are fallbacks for markup variants.
type Chain struct {
	Name     string
	Locators []Locator
}

// NewChain builds a chain and rejects an empty locator list.
func NewChain(name string, locators ...Locator) (Chain, error) {
	if len(locators) == 0 {
		return Chain{}, fmt.Errorf("element %q: locator chain must not be empty", name)
	}
	return Chain{Name: name, Locators: locators}, nil
}

// MustChain is NewChain for statically known chains.
func MustChain(name string, locators ...Locator) Chain {
	c, err := NewChain(name, locators...)
	if err != nil {
		panic(err)
	}
	return c
}

// Describe renders the chain for error messages and logs.
func (c Chain) Describe() string {
	parts := make([]string, 0, len(c.Locators))
	for _, l := range c.Locators {
		parts = append(parts, l.String())
	}
	return fmt.Sprintf("%s [%s]", c.Name, strings.Join(parts, ", "))
}
