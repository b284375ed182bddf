// Package core provides the widget and element framework interfaces and lifecycle.
//
// Widget is an immutable description of part of the UI. Element is the
// instantiation of a Widget at a particular location in the tree; it owns the
// widget's identity and, for stateful widgets, its State.
//
// # Reconciliation
//
// When a parent rebuilds, each new child widget is matched against the
// existing child elements. A widget updates an existing element when both have
// the same dynamic type and equal keys; otherwise the old element is unmounted
// and a new one is mounted. Multi-child parents match keyed children by key,
// independent of position, so inserting or removing a keyed sibling never
// remounts the others. Keys must be comparable values.
//
// # Stateful Widgets
//
// For widgets that need mutable state, embed StateBase in your state struct:
//
//	type myState struct {
//	    core.StateBase
//	    count int
//	}
//
//	func (s *myState) Build(ctx core.BuildContext) core.Widget {
//	    return widgets.Text{Content: fmt.Sprintf("Count: %d", s.count)}
//	}
//
// # Frame Work
//
// BuildOwner tracks dirty elements and two queues that run inside a frame:
// microtasks, drained after each build pass, and frame callbacks, run once
// after layout and paint. Microtasks let a batch of synchronous changes settle
// before anyone observes them.
package core
