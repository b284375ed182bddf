package widgets

import (
	"time"

	"github.com/go-drift/starport/pkg/animation"
	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
)

// AnimatedPositioned is a Positioned that animates changes to its rect.
//
// When Left, Top, Width or Height change, the child glides from its current
// on-screen rect (mid-flight if an animation is already running) to the new
// rect over Duration, shaped by Curve. A Duration of zero or less, or Snap,
// applies the new rect immediately.
//
// Example:
//
//	widgets.AnimatedPositioned{
//	    Duration: 300 * time.Millisecond,
//	    Curve:    animation.EaseInOut,
//	    Left:     target.Left,
//	    Top:      target.Top,
//	    Width:    target.Width(),
//	    Height:   target.Height(),
//	    Child:    child,
//	}
type AnimatedPositioned struct {
	core.StatefulBase

	Left   float64
	Top    float64
	Width  float64
	Height float64

	// Duration is the length of the animation.
	Duration time.Duration
	// Curve transforms the animation progress. If nil, uses linear interpolation.
	Curve animation.Curve
	// Snap jumps to the new rect without animating.
	Snap bool
	// OnEnd is called when an animation completes.
	OnEnd func()

	Child core.Widget
}

// Rect returns the target rect.
func (a AnimatedPositioned) Rect() graphics.Rect {
	return graphics.RectFromLTWH(a.Left, a.Top, a.Width, a.Height)
}

func (a AnimatedPositioned) CreateState() core.State {
	return &animatedPositionedState{}
}

type animatedPositionedState struct {
	core.StateBase
	controller *animation.AnimationController
	tween      *animation.Tween[graphics.Rect]
	current    graphics.Rect
}

func (s *animatedPositionedState) widget() AnimatedPositioned {
	return s.Widget().(AnimatedPositioned)
}

func (s *animatedPositionedState) InitState() {
	w := s.widget()
	s.controller = core.UseController(s, func() *animation.AnimationController {
		c := animation.NewAnimationController(w.Duration)
		if w.Curve != nil {
			c.Curve = w.Curve
		}
		return c
	})
	core.UseListenable(s, s.controller)
	s.controller.AddStatusListener(func(status animation.AnimationStatus) {
		if status == animation.AnimationCompleted {
			if onEnd := s.widget().OnEnd; onEnd != nil {
				onEnd()
			}
		}
	})
	s.current = w.Rect()
}

func (s *animatedPositionedState) DidUpdateWidget(oldWidget core.StatefulWidget) {
	old := oldWidget.(AnimatedPositioned)
	w := s.widget()

	s.controller.Duration = w.Duration
	if w.Curve != nil {
		s.controller.Curve = w.Curve
	} else {
		s.controller.Curve = animation.LinearCurve
	}

	if old.Rect() == w.Rect() {
		return
	}
	if w.Snap || w.Duration <= 0 {
		s.controller.Stop()
		s.tween = nil
		s.current = w.Rect()
		return
	}
	// Start from wherever the child is drawn now, so retargeting mid-flight
	// does not jump.
	s.tween = animation.TweenRect(s.current, w.Rect())
	s.controller.ForwardFrom(0)
}

// IsAnimating reports whether a transition is in flight.
func (s *animatedPositionedState) IsAnimating() bool {
	return s.controller.IsAnimating()
}

func (s *animatedPositionedState) Build(ctx core.BuildContext) core.Widget {
	w := s.widget()
	if s.tween != nil && s.controller.IsAnimating() {
		s.current = s.tween.Transform(s.controller)
	} else {
		s.tween = nil
		s.current = w.Rect()
	}
	return PositionedFromRect(s.current, w.Child)
}
