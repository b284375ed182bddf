package graphics

import "testing"

func TestRectContainsIsHalfOpen(t *testing.T) {
	r := RectFromLTWH(10, 10, 20, 20)
	if !r.Contains(Offset{X: 10, Y: 10}) {
		t.Error("top-left corner should be inside")
	}
	if r.Contains(Offset{X: 30, Y: 15}) {
		t.Error("right edge should be outside")
	}
	if got := r.Center(); got != (Offset{X: 20, Y: 20}) {
		t.Errorf("Center() = %v", got)
	}
}

func TestRectIntersect(t *testing.T) {
	a := RectFromLTWH(0, 0, 10, 10)
	b := RectFromLTWH(5, 5, 10, 10)
	if got, want := a.Intersect(b), RectFromLTWH(5, 5, 5, 5); got != want {
		t.Errorf("Intersect = %v, want %v", got, want)
	}
	if got := a.Intersect(RectFromLTWH(20, 20, 1, 1)); !got.IsEmpty() {
		t.Errorf("disjoint Intersect = %v, want empty", got)
	}
}

func TestColorWithAlpha(t *testing.T) {
	c := RGB(10, 20, 30).WithAlpha(0.5)
	r, g, b := c.Components()
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("components changed: %d %d %d", r, g, b)
	}
	if a := c.Alpha(); a < 0.49 || a > 0.51 {
		t.Errorf("Alpha() = %v, want ~0.5", a)
	}
}

func TestLayoutTextWraps(t *testing.T) {
	word := MeasureText("hello")
	layout := LayoutText("hello world again", TextStyle{Color: ColorBlack}, word*2)
	if len(layout.Lines) != 3 {
		t.Fatalf("lines = %d, want 3: %+v", len(layout.Lines), layout.Lines)
	}
	if layout.Size.Height != 3*LineHeight() {
		t.Errorf("height = %v, want %v", layout.Size.Height, 3*LineHeight())
	}

	single := LayoutText("hello world", TextStyle{}, 0)
	if len(single.Lines) != 1 {
		t.Errorf("unbounded layout should not wrap, got %d lines", len(single.Lines))
	}
	if single.Size.Width != MeasureText("hello world") {
		t.Errorf("width = %v, want %v", single.Size.Width, MeasureText("hello world"))
	}
}

func TestFlattenResolvesTransformAlphaAndClip(t *testing.T) {
	var recorder PictureRecorder
	canvas := recorder.BeginRecording(Size{Width: 100, Height: 100})
	canvas.DrawRect(RectFromLTWH(0, 0, 100, 100), ColorWhite)
	canvas.Save()
	canvas.Translate(10, 20)
	canvas.SaveLayerAlpha(RectFromLTWH(0, 0, 30, 30), 0.5)
	canvas.ClipRRect(RectFromLTWH(0, 0, 30, 30), 4)
	canvas.DrawRect(RectFromLTWH(5, 5, 10, 10), ColorBlack)
	canvas.Restore()
	canvas.Restore()
	canvas.DrawRect(RectFromLTWH(1, 1, 2, 2), ColorBlack)
	list := recorder.EndRecording()

	cmds := list.Flatten()
	if len(cmds) != 3 {
		t.Fatalf("commands = %d, want 3", len(cmds))
	}
	inner := cmds[1]
	if want := RectFromLTWH(15, 25, 10, 10); inner.Rect != want {
		t.Errorf("inner rect = %v, want %v", inner.Rect, want)
	}
	if inner.Alpha != 0.5 {
		t.Errorf("inner alpha = %v, want 0.5", inner.Alpha)
	}
	if inner.Clip == nil || *inner.Clip != RectFromLTWH(10, 20, 30, 30) || inner.ClipRadius != 4 {
		t.Errorf("inner clip = %v radius %v", inner.Clip, inner.ClipRadius)
	}
	last := cmds[2]
	if last.Rect != RectFromLTWH(1, 1, 2, 2) || last.Alpha != 1 || last.Clip != nil {
		t.Errorf("state not restored: %+v", last)
	}
}
