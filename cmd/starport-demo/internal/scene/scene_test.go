package scene

import (
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/go-drift/starport/pkg/animation"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/starport"
	sptest "github.com/go-drift/starport/pkg/testing"
)

func newScene(t *testing.T, reg prometheus.Registerer) (*Scene, *sptest.FakeClock) {
	t.Helper()
	clock := sptest.NewFakeClock()
	prev := animation.SetClock(clock)
	s := New(Config{
		Size:       graphics.Size{Width: 480, Height: 192},
		Flight:     starport.Options{Duration: 100 * time.Millisecond, Easing: "linear"},
		Logger:     zerolog.Nop(),
		Registerer: reg,
		FrameTrace: 32,
	})
	t.Cleanup(func() {
		s.Dispose()
		animation.SetClock(prev)
	})
	return s, clock
}

func settle(t *testing.T, s *Scene, clock *sptest.FakeClock) {
	t.Helper()
	for range 200 {
		if _, err := s.Frame(); err != nil {
			t.Fatalf("Frame: %v", err)
		}
		if !s.NeedsFrame() {
			return
		}
		clock.Advance(sptest.FrameInterval)
	}
	t.Fatal("scene did not settle")
}

func gatherValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() == name {
			m := f.GetMetric()[0]
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func TestBadgeKeepsTapsAcrossSlots(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, clock := newScene(t, reg)
	settle(t, s, clock)

	entry, ok := s.Registry().Lookup(Port)
	if !ok || !entry.Geometry.Valid {
		t.Fatalf("badge entry = %+v, %v; want a measured entry", entry, ok)
	}
	rect, ok := s.BadgeRect()
	if !ok || !rect.ApproxEqual(entry.Geometry.Rect) {
		t.Fatalf("badge rect = %+v, want %+v", rect, entry.Geometry.Rect)
	}

	if err := s.TapBadge(); err != nil {
		t.Fatal(err)
	}
	settle(t, s, clock)
	if texts := s.Engine().LastFrame().Texts(); !slices.Contains(texts, "taps 1") {
		t.Fatalf("texts = %v, want taps 1", texts)
	}

	for _, slot := range []int{1, 2, 0} {
		if err := s.MoveTo(slot); err != nil {
			t.Fatal(err)
		}
		settle(t, s, clock)
		rect, ok := s.BadgeRect()
		if !ok {
			t.Fatalf("badge not painted in slot %d", slot)
		}
		if !s.SlotRect(slot).Contains(rect.Center()) {
			t.Errorf("badge %+v not inside slot %d %+v", rect, slot, s.SlotRect(slot))
		}
		if texts := s.Engine().LastFrame().Texts(); !slices.Contains(texts, "taps 1") {
			t.Errorf("slot %d texts = %v, want taps 1", slot, texts)
		}
	}

	if got := gatherValue(t, reg, "starport_instances_created_total"); got != 1 {
		t.Errorf("instances created = %v, want 1", got)
	}
	if got := gatherValue(t, reg, "starport_instances_destroyed_total"); got != 0 {
		t.Errorf("instances destroyed = %v, want 0", got)
	}
}

func TestBadgeFliesBetweenSlots(t *testing.T) {
	s, clock := newScene(t, nil)
	settle(t, s, clock)
	from, _ := s.BadgeRect()

	s.Next()
	// One frame to rebuild the proxy, one to measure it.
	s.Frame()
	s.Frame()
	clock.Advance(50 * time.Millisecond)
	s.Frame()
	mid, ok := s.BadgeRect()
	if !ok {
		t.Fatal("badge not painted mid-flight")
	}
	settle(t, s, clock)
	to, _ := s.BadgeRect()

	if !(mid.Left > from.Left && mid.Left < to.Left) {
		t.Errorf("mid-flight left %v not between %v and %v", mid.Left, from.Left, to.Left)
	}
}

func TestMoveToRejectsOutOfRange(t *testing.T) {
	s, _ := newScene(t, nil)
	for _, slot := range []int{-1, Slots} {
		if err := s.MoveTo(slot); err == nil {
			t.Errorf("MoveTo(%d) succeeded", slot)
		}
	}
	s.Prev()
	if s.Slot() != Slots-1 {
		t.Errorf("Prev from 0 = %d, want %d", s.Slot(), Slots-1)
	}
}

func TestDebugHandlerServesPortsAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, clock := newScene(t, reg)
	settle(t, s, clock)

	server := httptest.NewServer(s.DebugHandler(reg))
	defer server.Close()

	for path, want := range map[string]string{
		"/ports":   `"component": "scene.Badge"`,
		"/metrics": "starport_ports 1",
		"/health":  `"ok"`,
	} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d", path, resp.StatusCode)
		}
		if !strings.Contains(string(body), want) {
			t.Errorf("GET %s missing %q:\n%s", path, want, body)
		}
	}
}
