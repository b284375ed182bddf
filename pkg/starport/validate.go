package starport

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/errors"
)

// ValidatePort reports whether port can identify a starport. Ports must be
// non-blank UTF-8 without control characters.
func ValidatePort(port string) error {
	switch {
	case strings.TrimSpace(port) == "":
		return &errors.InvalidPortError{Port: port, Reason: "port must not be blank"}
	case !utf8.ValidString(port):
		return &errors.InvalidPortError{Port: port, Reason: "port must be valid UTF-8"}
	case strings.ContainsFunc(port, unicode.IsControl):
		return &errors.InvalidPortError{Port: port, Reason: "port must not contain control characters"}
	}
	return nil
}

// IsComponent reports whether w can be carried: it must be a stateless or
// stateful widget. Render object and inherited widgets are rejected since
// they are layout primitives rather than components with an identity.
func IsComponent(w core.Widget) bool {
	if w == nil {
		return false
	}
	switch w.(type) {
	case core.RenderObjectWidget, core.InheritedWidget:
		return false
	case core.StatefulWidget, core.StatelessWidget:
		return true
	}
	return false
}

// componentOf returns the identity of a carried widget: its dynamic type.
func componentOf(w core.Widget) reflect.Type {
	if w == nil {
		return nil
	}
	return reflect.TypeOf(w)
}

func typeName(w core.Widget) string {
	if w == nil {
		return "<nil>"
	}
	return reflect.TypeOf(w).String()
}

// resolveSlot picks the single carried widget out of a proxy's Child and
// Children fields.
func resolveSlot(port string, child core.Widget, children []core.Widget) (core.Widget, error) {
	slots := make([]core.Widget, 0, 1+len(children))
	if child != nil {
		slots = append(slots, child)
	}
	for _, c := range children {
		if c != nil {
			slots = append(slots, c)
		}
	}
	switch len(slots) {
	case 0:
		return nil, &errors.MissingSlotError{Port: port}
	case 1:
	default:
		return nil, &errors.SlotArityError{Port: port, Got: len(slots)}
	}
	if !IsComponent(slots[0]) {
		return nil, &errors.InvalidSlotContentError{Port: port, Type: typeName(slots[0])}
	}
	return slots[0], nil
}
