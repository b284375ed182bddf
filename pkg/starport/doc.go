// Package starport lets a widget declared at one place in the tree move to
// another place, across unrelated parents, without its state being
// destroyed.
//
// A [Carrier] near the root owns a [Registry] and mounts exactly one real
// instance per port. Each [Starport] proxy reserves a placeholder in the
// layout, registers its port and publishes the placeholder's global rect
// after every layout. The carrier draws the instance over the most recently
// attached proxy, gliding between rects according to [Options].
//
//	page := widgets.ColumnOf(
//	    widgets.SizedBox{Width: 120, Height: 80, Child: starport.Starport{
//	        Port:  "player",
//	        Child: Player{},
//	    }},
//	)
//	app := starport.Carrier{Defaults: starport.DefaultOptions(), Child: page}
//
// Moving the Starport to another parent within one frame unmounts the old
// proxy and mounts the new one before the pending teardown runs, so the
// Player state survives. The instance is destroyed only after every proxy
// for its port has been unmounted for a full microtask tick.
//
// Geometry measured in one frame is applied in the next.
package starport
