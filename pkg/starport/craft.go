package starport

import (
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/widgets"
)

// craft positions the real instance of one port inside the carrier.
//
// Its subtree is always AnimatedPositioned > Offstage > Opacity > ClipRRect >
// instance, whatever the geometry or style, so the instance element is
// reconciled in place rather than remounted.
type craft struct {
	core.StatefulBase
	entry   Entry
	options Options
	origin  graphics.Offset
}

// Key keeps each craft attached to its port when entries are added, removed
// or reordered.
func (c craft) Key() any { return c.entry.Port }

func (c craft) CreateState() core.State {
	return &craftState{}
}

type craftState struct {
	core.StateBase
	// snap is set for the update that first gives the entry a valid
	// geometry, so the instance appears in place instead of flying in from
	// the origin.
	snap bool
}

func (s *craftState) DidUpdateWidget(oldWidget core.StatefulWidget) {
	s.snap = !oldWidget.(craft).entry.Geometry.Valid
}

func (s *craftState) Build(ctx core.BuildContext) core.Widget {
	w := s.Widget().(craft)
	geometry := w.entry.Geometry
	rect := geometry.Rect.Translate(-w.origin.X, -w.origin.Y)

	return widgets.AnimatedPositioned{
		Left:     rect.Left,
		Top:      rect.Top,
		Width:    rect.Width(),
		Height:   rect.Height(),
		Duration: w.options.Duration,
		Curve:    w.options.Curve(),
		Snap:     s.snap || !geometry.Valid,
		Child: widgets.Offstage{
			Offstage: !geometry.Valid,
			Child: widgets.Opacity{
				Opacity: geometry.Style.Opacity,
				Child: widgets.ClipRRect{
					Radius: geometry.Style.BorderRadius,
					Child:  w.entry.Props,
				},
			},
		},
	}
}
