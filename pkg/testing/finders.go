package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/widgets"
)

// Finder locates elements in the widget tree.
type Finder interface {
	// Evaluate returns the matches under root in depth-first pre-order.
	Evaluate(root core.Element) []core.Element
	// Description names the finder in failure messages.
	Description() string
}

// FinderResult holds the elements a finder matched.
type FinderResult struct {
	elements []core.Element
	finder   Finder
}

// First returns the first match and panics when there is none.
func (r FinderResult) First() core.Element {
	if len(r.elements) == 0 {
		panic(fmt.Sprintf("finder matched no elements: %s", describe(r.finder)))
	}
	return r.elements[0]
}

func (r FinderResult) All() []core.Element { return r.elements }

func (r FinderResult) Count() int { return len(r.elements) }

func (r FinderResult) Exists() bool { return len(r.elements) > 0 }

// Widget returns the widget of the first match.
func (r FinderResult) Widget() core.Widget { return r.First().Widget() }

func describe(f Finder) string {
	if f == nil {
		return "unknown"
	}
	return f.Description()
}

// matcher is a finder driven by a per-element predicate.
type matcher struct {
	desc  string
	match func(core.Element) bool
}

func (m matcher) Evaluate(root core.Element) []core.Element {
	var found []core.Element
	walk(root, func(e core.Element) {
		if m.match(e) {
			found = append(found, e)
		}
	})
	return found
}

func (m matcher) Description() string { return m.desc }

// ByType matches elements whose widget has type T.
func ByType[T core.Widget]() Finder {
	want := reflect.TypeFor[T]()
	return matcher{
		desc:  fmt.Sprintf("ByType(%s)", want),
		match: func(e core.Element) bool { return reflect.TypeOf(e.Widget()) == want },
	}
}

// ByKey matches elements whose widget key equals key.
func ByKey(key any) Finder {
	return matcher{
		desc: fmt.Sprintf("ByKey(%v)", key),
		match: func(e core.Element) bool {
			return reflect.DeepEqual(e.Widget().Key(), key)
		},
	}
}

// ByText matches [widgets.Text] with exactly this content.
func ByText(text string) Finder {
	return textMatcher(fmt.Sprintf("ByText(%q)", text), func(s string) bool { return s == text })
}

// ByTextContaining matches [widgets.Text] whose content contains substring.
func ByTextContaining(substring string) Finder {
	return textMatcher(fmt.Sprintf("ByTextContaining(%q)", substring), func(s string) bool {
		return strings.Contains(s, substring)
	})
}

func textMatcher(desc string, accept func(string) bool) Finder {
	return matcher{
		desc: desc,
		match: func(e core.Element) bool {
			t, ok := e.Widget().(widgets.Text)
			return ok && accept(t.Content)
		},
	}
}

type descendantFinder struct {
	of, matching Finder
}

// Descendant matches elements found by matching strictly below any element
// found by of. Each element is reported once.
func Descendant(of, matching Finder) Finder {
	return descendantFinder{of: of, matching: matching}
}

func (f descendantFinder) Evaluate(root core.Element) []core.Element {
	var found []core.Element
	seen := make(map[core.Element]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		ancestor.VisitChildren(func(child core.Element) bool {
			for _, e := range f.matching.Evaluate(child) {
				if !seen[e] {
					seen[e] = true
					found = append(found, e)
				}
			}
			return true
		})
	}
	return found
}

func (f descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

func walk(e core.Element, visit func(core.Element)) {
	visit(e)
	e.VisitChildren(func(child core.Element) bool {
		walk(child, visit)
		return true
	})
}
