package testing

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
)

// UpdateSnapshotsEnv names the environment variable that rewrites golden
// files instead of comparing against them.
const UpdateSnapshotsEnv = "STARPORT_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the render tree structure and resolved draw commands.
type Snapshot struct {
	RenderTree *RenderNode `yaml:"renderTree"`
	DrawOps    []DrawOp    `yaml:"drawOps,omitempty"`
}

// RenderNode represents a node in the serialized render tree.
type RenderNode struct {
	ID         string         `yaml:"id"`
	Type       string         `yaml:"type"`
	Size       [2]float64     `yaml:"size,flow"`
	Offset     [2]float64     `yaml:"offset,flow"`
	Properties map[string]any `yaml:"props,omitempty"`
	Children   []*RenderNode  `yaml:"children,omitempty"`
}

// DrawOp is a draw command in global coordinates.
type DrawOp struct {
	Kind  string     `yaml:"kind"`
	Rect  [4]float64 `yaml:"rect,flow"`
	Color string     `yaml:"color,omitempty"`
	Text  string     `yaml:"text,omitempty"`
	Alpha float64    `yaml:"alpha"`
	Clip  []float64  `yaml:"clip,flow,omitempty"`
}

// CaptureSnapshot captures the current render tree and the draw commands of
// the last frame.
func (t *WidgetTester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{}
	if root := t.engine.Owner().Pipeline().Root(); root != nil {
		snap.RenderTree = captureRenderNode(root, &typeCounter{})
	}
	if frame := t.engine.LastFrame(); frame != nil {
		for _, cmd := range frame.Commands {
			snap.DrawOps = append(snap.DrawOps, captureDrawOp(cmd))
		}
	}
	return snap
}

// MatchesFile compares the snapshot with the YAML golden file at path. When
// STARPORT_UPDATE_SNAPSHOTS is set the file is written instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) != "" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to path, creating directories as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between other (expected) and this snapshot, or
// the empty string if they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

// typeCounter assigns stable IDs like "RenderStack#0", "RenderStack#1".
type typeCounter struct {
	counts map[string]int
}

func (c *typeCounter) next(typeName string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[typeName]
	c.counts[typeName] = n + 1
	return fmt.Sprintf("%s#%d", typeName, n)
}

func captureRenderNode(ro layout.RenderObject, counter *typeCounter) *RenderNode {
	typeName := renderTypeName(ro)
	size := ro.Size()
	offset := layout.ChildOffset(ro)

	node := &RenderNode{
		ID:     counter.next(typeName),
		Type:   typeName,
		Size:   [2]float64{round2(size.Width), round2(size.Height)},
		Offset: [2]float64{round2(offset.X), round2(offset.Y)},
	}
	if props := captureProperties(ro); len(props) > 0 {
		node.Properties = props
	}
	if visitor, ok := ro.(layout.ChildVisitor); ok {
		visitor.VisitChildren(func(child layout.RenderObject) {
			node.Children = append(node.Children, captureRenderNode(child, counter))
		})
	}
	return node
}

func renderTypeName(ro layout.RenderObject) string {
	t := reflect.TypeOf(ro)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	// Unexported types like renderStack are reported as RenderStack.
	if len(name) > 0 {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return name
}

// captureProperties reads the properties render objects expose through
// accessor methods.
func captureProperties(ro layout.RenderObject) map[string]any {
	props := make(map[string]any)
	if v, ok := ro.(interface{ Alpha() float64 }); ok {
		props["alpha"] = round2(v.Alpha())
	}
	if v, ok := ro.(interface{ CornerRadius() float64 }); ok {
		props["radius"] = round2(v.CornerRadius())
	}
	if v, ok := ro.(interface{ Content() string }); ok {
		props["text"] = v.Content()
	}
	if v, ok := ro.(interface{ IsOffstage() bool }); ok && v.IsOffstage() {
		props["offstage"] = true
	}
	return props
}

func captureDrawOp(cmd graphics.DrawCommand) DrawOp {
	op := DrawOp{
		Kind:  cmd.Kind.String(),
		Rect:  rectArray(cmd.Rect),
		Text:  cmd.Text,
		Alpha: round2(cmd.Alpha),
	}
	if cmd.Kind == graphics.DrawKindRect {
		op.Color = serializeColor(cmd.Color)
	}
	if cmd.Clip != nil {
		clip := rectArray(*cmd.Clip)
		op.Clip = append(clip[:], round2(cmd.ClipRadius))
	}
	return op
}

func rectArray(r graphics.Rect) [4]float64 {
	return [4]float64{round2(r.Left), round2(r.Top), round2(r.Right), round2(r.Bottom)}
}

func serializeColor(c graphics.Color) string {
	return fmt.Sprintf("#%08X", uint32(c))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot YAML: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	maxLen := max(len(expectedLines), len(actualLines))
	for i := range maxLen {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
	}
	return buf.String()
}
