// Package testbed provides stateful fixture widgets for tests that need to
// observe whether state survives reconciliation.
package testbed

import (
	"fmt"
	"sync/atomic"

	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/widgets"
)

// Lifecycle counts state creations and disposals across every Counter that
// shares it.
type Lifecycle struct {
	inits    atomic.Int32
	disposes atomic.Int32
}

// Inits returns how many states have been initialized.
func (l *Lifecycle) Inits() int { return int(l.inits.Load()) }

// Disposes returns how many states have been disposed.
func (l *Lifecycle) Disposes() int { return int(l.disposes.Load()) }

// Live returns the number of states initialized but not yet disposed.
func (l *Lifecycle) Live() int { return l.Inits() - l.Disposes() }

// Counter is a stateful widget that displays "Label: n" and increments on tap.
type Counter struct {
	core.StatefulBase
	Label     string
	Initial   int
	Color     graphics.Color
	OnTap     func(count int)
	Lifecycle *Lifecycle
}

func (c Counter) CreateState() core.State {
	return &CounterState{}
}

// CounterState holds the count of a Counter.
type CounterState struct {
	core.StateBase
	count int
}

// Count returns the current count.
func (s *CounterState) Count() int {
	return s.count
}

// Increment adds one to the count and schedules a rebuild.
func (s *CounterState) Increment() {
	s.SetState(func() {
		s.count++
	})
}

func (s *CounterState) InitState() {
	w := s.Widget().(Counter)
	s.count = w.Initial
	if w.Lifecycle != nil {
		w.Lifecycle.inits.Add(1)
	}
}

func (s *CounterState) Dispose() {
	if w, ok := s.Widget().(Counter); ok && w.Lifecycle != nil {
		w.Lifecycle.disposes.Add(1)
	}
	s.StateBase.Dispose()
}

func (s *CounterState) Build(ctx core.BuildContext) core.Widget {
	w := s.Widget().(Counter)
	label := fmt.Sprintf("%d", s.count)
	if w.Label != "" {
		label = fmt.Sprintf("%s: %d", w.Label, s.count)
	}
	return widgets.GestureDetector{
		OnTap: func() {
			s.Increment()
			if w.OnTap != nil {
				w.OnTap(s.count)
			}
		},
		Child: widgets.Container{
			Color: w.Color,
			Child: widgets.Text{Content: label},
		},
	}
}
