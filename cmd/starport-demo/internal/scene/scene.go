// Package scene builds the demo widget tree: three slots, one carried badge
// that flies between them, and the engine that renders it.
package scene

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/engine"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
	"github.com/go-drift/starport/pkg/starport"
	"github.com/go-drift/starport/pkg/widgets"
)

// Port is the port of the carried badge.
const Port = "badge"

// Slots is the number of slots the badge can occupy.
const Slots = 3

var (
	BackgroundColor = graphics.RGB(0x12, 0x12, 0x16)
	SlotColor       = graphics.RGB(0x30, 0x30, 0x3A)
	BadgeColor      = graphics.RGB(0x7D, 0x56, 0xF4)
	LabelColor      = graphics.RGB(0x9A, 0x9A, 0xA6)
)

// Config configures a Scene.
type Config struct {
	Size   graphics.Size
	Flight starport.Options
	Label  string
	Logger zerolog.Logger
	// Registerer receives the registry metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
	// FrameTrace is the number of frame samples to keep; zero disables it.
	FrameTrace int
}

// Scene owns an engine and the port registry of the demo tree.
type Scene struct {
	engine   *engine.Engine
	registry *starport.Registry
	flight   starport.Options
	label    string
	logger   zerolog.Logger
	slot     int
}

// New creates a scene with the badge in slot 0. No frame is produced until
// Frame is called.
func New(cfg Config) *Scene {
	opts := []engine.Option{engine.WithLogger(cfg.Logger)}
	if cfg.FrameTrace > 0 {
		opts = append(opts, engine.WithFrameTrace(cfg.FrameTrace))
	}
	eng := engine.New(cfg.Size, opts...)
	label := cfg.Label
	if label == "" {
		label = "taps"
	}
	s := &Scene{
		engine: eng,
		registry: starport.NewRegistry(eng.Owner(),
			starport.WithLogger(cfg.Logger),
			starport.WithMetrics(starport.NewMetrics(cfg.Registerer)),
		),
		flight: cfg.Flight,
		label:  label,
		logger: cfg.Logger,
	}
	eng.SetApp(s.build())
	return s
}

// Engine returns the scene's engine.
func (s *Scene) Engine() *engine.Engine { return s.engine }

// Registry returns the scene's port registry.
func (s *Scene) Registry() *starport.Registry { return s.registry }

// Slot returns the slot that currently hosts the badge proxy.
func (s *Scene) Slot() int { return s.slot }

// MoveTo places the badge proxy in slot. The badge flies there over the
// following frames.
func (s *Scene) MoveTo(slot int) error {
	if slot < 0 || slot >= Slots {
		return fmt.Errorf("slot %d out of range [0,%d)", slot, Slots)
	}
	if slot == s.slot {
		return nil
	}
	s.logger.Debug().Int("from", s.slot).Int("to", slot).Msg("moving badge")
	s.slot = slot
	s.engine.SetApp(s.build())
	return nil
}

// Next moves the badge one slot to the right, wrapping around.
func (s *Scene) Next() error { return s.MoveTo((s.slot + 1) % Slots) }

// Prev moves the badge one slot to the left, wrapping around.
func (s *Scene) Prev() error { return s.MoveTo((s.slot + Slots - 1) % Slots) }

// Frame renders one frame.
func (s *Scene) Frame() (*engine.FrameSnapshot, error) {
	return s.engine.Frame()
}

// NeedsFrame reports whether the scene has pending work.
func (s *Scene) NeedsFrame() bool {
	return s.engine.NeedsFrame()
}

// BadgeRect returns where the badge was painted in the last frame.
func (s *Scene) BadgeRect() (graphics.Rect, bool) {
	for _, cmd := range s.engine.LastFrame().Visible() {
		if cmd.Kind == graphics.DrawKindRect && cmd.Color == BadgeColor {
			return cmd.Rect, true
		}
	}
	return graphics.Rect{}, false
}

// TapBadge taps the center of the badge as it was last painted.
func (s *Scene) TapBadge() error {
	rect, ok := s.BadgeRect()
	if !ok {
		return fmt.Errorf("badge is not visible")
	}
	if !s.engine.Tap(rect.Center()) {
		return fmt.Errorf("tap at (%.0f, %.0f) was not handled", rect.Center().X, rect.Center().Y)
	}
	return nil
}

// SlotRect returns the placeholder rect of slot i in global coordinates.
func (s *Scene) SlotRect(i int) graphics.Rect {
	size := s.engine.Size()
	column := size.Width / Slots
	return graphics.RectFromLTWH(float64(i)*column+16, 40, column-32, size.Height-56)
}

// DebugHandler serves the engine debug routes plus /metrics from gatherer
// and /ports from the registry.
func (s *Scene) DebugHandler(gatherer prometheus.Gatherer) http.Handler {
	return s.engine.DebugHandler(
		engine.DebugRoute{Pattern: "/metrics", Handler: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})},
		engine.DebugRoute{Pattern: "/ports", Handler: http.HandlerFunc(s.servePorts)},
	)
}

// PortView is the JSON shape of a registry entry on /ports.
type PortView struct {
	Port      string            `json:"port" yaml:"port"`
	Component string            `json:"component" yaml:"component"`
	RefCount  int               `json:"refCount" yaml:"refCount"`
	Active    string            `json:"active" yaml:"active"`
	Geometry  starport.Geometry `json:"geometry" yaml:"geometry"`
	Options   starport.Options  `json:"options" yaml:"options"`
}

// Ports returns the registry entries in insertion order.
func (s *Scene) Ports() []PortView {
	entries := s.registry.Entries()
	views := make([]PortView, 0, len(entries))
	for _, e := range entries {
		view := PortView{
			Port:     e.Port,
			RefCount: e.RefCount,
			Active:   e.Active.String(),
			Geometry: e.Geometry,
			Options:  e.Options,
		}
		if e.Component != nil {
			view.Component = e.Component.String()
		}
		views = append(views, view)
	}
	return views
}

func (s *Scene) servePorts(w http.ResponseWriter, r *http.Request) {
	data, err := json.MarshalIndent(s.Ports(), "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// Dispose unmounts the tree.
func (s *Scene) Dispose() {
	s.engine.Dispose()
}

func (s *Scene) build() core.Widget {
	children := []core.Widget{
		widgets.Positioned{Left: 16, Top: 8, Width: s.engine.Size().Width - 32, Height: 16,
			Child: widgets.Text{Content: "starport: the badge keeps its state as it moves", Color: LabelColor},
		},
	}
	for i := range Slots {
		rect := s.SlotRect(i)
		children = append(children,
			widgets.Positioned{Left: rect.Left, Top: rect.Top - 16, Width: rect.Width(), Height: 16,
				Child: widgets.Text{Content: slotTitle(i), Color: LabelColor},
			},
			widgets.PositionedFromRect(rect, widgets.Container{
				Color:   SlotColor,
				Padding: layout.EdgeInsetsAll(8),
				Child:   slotFrame(i, s.slotContent(i)),
			}),
		)
	}
	return starport.Carrier{
		Registry: s.registry,
		Defaults: s.flight,
		Child: widgets.Container{
			Color: BackgroundColor,
			Child: widgets.Stack{Fit: widgets.StackFitExpand, Children: children},
		},
	}
}

func (s *Scene) slotContent(i int) core.Widget {
	if i != s.slot {
		return widgets.SizedBox{}
	}
	return starport.Starport{Port: Port, Child: Badge{Label: s.label}}
}

func slotTitle(i int) string {
	switch i {
	case 1:
		return "faded"
	case 2:
		return "rounded"
	default:
		return "plain"
	}
}

// slotFrame gives each slot a different ancestor style so the badge picks up
// opacity or a rounded clip from wherever its proxy sits.
func slotFrame(i int, child core.Widget) core.Widget {
	switch i {
	case 1:
		return widgets.Opacity{Opacity: 0.6, Child: child}
	case 2:
		return widgets.ClipRRect{Radius: 12, Child: child}
	default:
		return child
	}
}
