package engine

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/errors"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/widgets"
)

type silentHandler struct{}

func (silentHandler) HandleError(*errors.StarportError) {}
func (silentHandler) HandlePanic(*errors.PanicError)    {}
func (silentHandler) HandleBuildError(*errors.BuildError) {}

func silence(t *testing.T) {
	t.Helper()
	errors.SetHandler(silentHandler{})
	t.Cleanup(func() { errors.SetHandler(nil) })
}

type failing struct {
	core.StatelessBase
}

var errBoom = stderrors.New("boom")

func (failing) Build(ctx core.BuildContext) core.Widget { panic(errBoom) }

func TestFrameMountsAppAndPaints(t *testing.T) {
	e := New(graphics.Size{Width: 40, Height: 20})
	if e.NeedsFrame() {
		t.Fatal("an engine without an app should be idle")
	}
	e.SetApp(widgets.Container{Color: graphics.ColorBlack})
	if !e.NeedsFrame() {
		t.Fatal("setting the app should request a frame")
	}

	snapshot, err := e.Frame()
	if err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	if snapshot.FrameID != 1 {
		t.Errorf("FrameID = %d, want 1", snapshot.FrameID)
	}
	visible := snapshot.Visible()
	if len(visible) != 1 || visible[0].Rect != graphics.RectFromLTWH(0, 0, 40, 20) {
		t.Fatalf("visible = %+v", visible)
	}
	if e.NeedsFrame() {
		t.Error("engine should be idle after a clean frame")
	}
}

func TestDispatchRunsBeforeBuild(t *testing.T) {
	e := New(graphics.Size{Width: 10, Height: 10})
	e.SetApp(widgets.SizedBox{})
	var order []string
	e.Dispatch(func() { order = append(order, "dispatch") })
	e.Owner().ScheduleMicrotask(func() { order = append(order, "microtask") })
	if _, err := e.Frame(); err != nil {
		t.Fatal(err)
	}
	if strings.Join(order, ",") != "dispatch,microtask" {
		t.Fatalf("order = %v", order)
	}
}

func TestFrameReturnsBuildErrors(t *testing.T) {
	silence(t)
	e := New(graphics.Size{Width: 10, Height: 10})
	e.SetApp(failing{})

	snapshot, err := e.Frame()
	if snapshot == nil {
		t.Fatal("build errors must not abort the frame")
	}
	if !stderrors.Is(err, errBoom) {
		t.Fatalf("err = %v, want errBoom in chain", err)
	}
	var buildErr *errors.BuildError
	if !stderrors.As(err, &buildErr) || !strings.Contains(buildErr.Widget, "failing") {
		t.Fatalf("expected BuildError for failing widget, got %v", err)
	}
}

func TestTapReachesGestureDetector(t *testing.T) {
	e := New(graphics.Size{Width: 100, Height: 100})
	taps := 0
	e.SetApp(widgets.Center{Child: widgets.Tap(func() { taps++ }, widgets.SizedBox{Width: 10, Height: 10})})
	if _, err := e.Frame(); err != nil {
		t.Fatal(err)
	}
	if !e.Tap(graphics.Offset{X: 50, Y: 50}) {
		t.Fatal("tap at the center should be handled")
	}
	if e.Tap(graphics.Offset{X: 1, Y: 1}) {
		t.Fatal("tap outside the detector should not be handled")
	}
	if taps != 1 {
		t.Fatalf("taps = %d, want 1", taps)
	}
}

func TestResizeRelaysOut(t *testing.T) {
	e := New(graphics.Size{Width: 10, Height: 10})
	e.SetApp(widgets.Container{Color: graphics.ColorWhite})
	e.Frame()
	e.Resize(graphics.Size{Width: 30, Height: 5})
	snapshot, _ := e.Frame()
	if got := snapshot.Visible()[0].Rect; got != graphics.RectFromLTWH(0, 0, 30, 5) {
		t.Fatalf("rect after resize = %v", got)
	}
}

func TestFrameTraceRecordsSamples(t *testing.T) {
	e := New(graphics.Size{Width: 10, Height: 10}, WithFrameTrace(4))
	e.SetApp(widgets.SizedBox{})
	for range 6 {
		e.RequestFrame()
		e.Frame()
	}
	timeline := e.Trace().Snapshot()
	if len(timeline.Samples) != 4 {
		t.Fatalf("samples = %d, want ring capacity 4", len(timeline.Samples))
	}
	if timeline.Samples[0].Counts.RenderNodeCount != 2 {
		t.Errorf("render nodes = %d, want 2 (view + sized box)", timeline.Samples[0].Counts.RenderNodeCount)
	}
}

func TestDebugHandlerServesTrees(t *testing.T) {
	e := New(graphics.Size{Width: 10, Height: 10}, WithFrameTrace(8))
	server := httptest.NewServer(e.DebugHandler(DebugRoute{
		Pattern: "/extra",
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }),
	}))
	defer server.Close()

	resp, err := http.Get(server.URL + "/render-tree")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("render tree before first frame: status %d, want 503", resp.StatusCode)
	}

	e.SetApp(widgets.SizedBox{Width: 4, Height: 4})
	e.Frame()

	resp, err = http.Get(server.URL + "/render-tree")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var tree RenderTreeNode
	if err := json.NewDecoder(resp.Body).Decode(&tree); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tree.Type, "renderView") || len(tree.Children) != 1 {
		t.Fatalf("tree = %+v", tree)
	}

	post, err := http.Post(server.URL+"/health", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /health status = %d, want 405", post.StatusCode)
	}

	extra, err := http.Get(server.URL + "/extra")
	if err != nil {
		t.Fatal(err)
	}
	extra.Body.Close()
	if extra.StatusCode != http.StatusTeapot {
		t.Errorf("extra route status = %d", extra.StatusCode)
	}
}
