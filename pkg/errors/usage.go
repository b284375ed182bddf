package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrUsage matches every usage error via errors.Is. Usage errors are
// programmer errors: they are raised at the point of misuse and never retried.
var ErrUsage = stderrors.New("starport: usage error")

// MissingCarrierError is raised when a Starport builds without a Carrier
// ancestor providing the port registry.
type MissingCarrierError struct {
	Port string
}

func (e *MissingCarrierError) Error() string {
	return fmt.Sprintf("starport %q: no Carrier found in ancestors, mount one Carrier at the application root", e.Port)
}

func (e *MissingCarrierError) Is(target error) bool { return target == ErrUsage }

// MissingSlotError is raised when a Starport has no child widget.
type MissingSlotError struct {
	Port string
}

func (e *MissingSlotError) Error() string {
	return fmt.Sprintf("starport %q: a child widget is required", e.Port)
}

func (e *MissingSlotError) Is(target error) bool { return target == ErrUsage }

// SlotArityError is raised when a Starport has more than one child widget.
type SlotArityError struct {
	Port string
	Got  int
}

func (e *SlotArityError) Error() string {
	return fmt.Sprintf("starport %q: requires exactly one child widget, got %d", e.Port, e.Got)
}

func (e *SlotArityError) Is(target error) bool { return target == ErrUsage }

// InvalidSlotContentError is raised when a Starport child is not a component
// (a stateless or stateful widget), e.g. a primitive render object widget.
type InvalidSlotContentError struct {
	Port string
	Type string
}

func (e *InvalidSlotContentError) Error() string {
	return fmt.Sprintf("starport %q: child %s must be a stateless or stateful widget", e.Port, e.Type)
}

func (e *InvalidSlotContentError) Is(target error) bool { return target == ErrUsage }

// InvalidPortError is raised for an empty or malformed port identifier.
type InvalidPortError struct {
	Port   string
	Reason string
}

func (e *InvalidPortError) Error() string {
	return fmt.Sprintf("invalid port %q: %s", e.Port, e.Reason)
}

func (e *InvalidPortError) Is(target error) bool { return target == ErrUsage }
