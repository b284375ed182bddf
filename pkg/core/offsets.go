package core

import (
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// GlobalRectOf returns the bounds of the element's render object in root
// coordinates, or an empty rect when it has none.
func GlobalRectOf(element Element) graphics.Rect {
	ro := element.RenderObject()
	if ro == nil {
		return graphics.Rect{}
	}
	return layout.GlobalRect(ro)
}

// VisitDescendants walks the subtree below element depth-first, stopping
// early when visitor returns false.
func VisitDescendants(element Element, visitor func(Element) bool) bool {
	keepGoing := true
	element.VisitChildren(func(child Element) bool {
		if !visitor(child) || !VisitDescendants(child, visitor) {
			keepGoing = false
		}
		return keepGoing
	})
	return keepGoing
}
