// Package goquery implements content extraction on top of goquery: it scores
// candidate elements, filters noise and converts the winner into a document.
package goquery

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Filter is a CSS selector that compiled successfully.
type Filter struct {
	// Raw is the selector as configured.
	Raw string

	sel cascadia.Selector
}

// Match reports whether n matches the selector.
func (f Filter) Match(n *html.Node) bool {
	return f.sel.Match(n)
}

// CompileFilters compiles selectors in order. Selectors that fail to parse
// are returned in invalid and otherwise ignored.
func CompileFilters(selectors []string) (filters []Filter, invalid []string) {
	for _, raw := range selectors {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		sel, err := compile(raw)
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		filters = append(filters, Filter{Raw: raw, sel: sel})
	}
	return filters, invalid
}

// compile wraps cascadia.Compile. A panic is reported as an invalid selector.
func compile(raw string) (sel cascadia.Selector, err error) {
	defer func() {
		if r := recover(); r != nil {
			sel, err = nil, &invalidSelectorError{raw: raw}
		}
	}()
	return cascadia.Compile(raw)
}

type invalidSelectorError struct {
	raw string
}

func (e *invalidSelectorError) Error() string {
	return "invalid selector: " + e.raw
}

// ValidSelector reports whether raw is a valid CSS selector.
func ValidSelector(raw string) bool {
	_, err := compile(strings.TrimSpace(raw))
	return err == nil
}
