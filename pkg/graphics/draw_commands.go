package graphics

// DrawKind identifies the primitive of a resolved draw command.
type DrawKind int

const (
	DrawKindRect DrawKind = iota
	DrawKindText
)

func (k DrawKind) String() string {
	if k == DrawKindText {
		return "text"
	}
	return "rect"
}

// DrawCommand is a drawing operation resolved to global coordinates, with the
// effective layer alpha and clip bounds applied at the time it was issued.
type DrawCommand struct {
	Kind  DrawKind
	Rect  Rect
	Color Color
	Text  string
	Alpha float64
	// Clip is the intersected clip in global coordinates, nil when unclipped.
	Clip *Rect
	// ClipRadius is the corner radius of the innermost rounded clip.
	ClipRadius float64
}

// Visible reports whether the command would produce pixels.
func (c DrawCommand) Visible() bool {
	if c.Alpha <= 0 || c.Rect.IsEmpty() {
		return false
	}
	if c.Clip != nil && c.Clip.Intersect(c.Rect).IsEmpty() {
		return false
	}
	return true
}

// Flatten replays the display list and returns every draw command resolved to
// global coordinates.
func (d *DisplayList) Flatten() []DrawCommand {
	canvas := &resolvingCanvas{size: d.size, alpha: 1}
	d.Paint(canvas)
	return canvas.commands
}

type resolveState struct {
	transform  Offset
	alpha      float64
	clipDepth  int
	clipRadius float64
}

// resolvingCanvas tracks translation, layer alpha and clip state and records
// the resolved result of each draw.
type resolvingCanvas struct {
	size       Size
	transform  Offset
	alpha      float64
	clipRadius float64
	clips      []Rect
	saveStack  []resolveState
	commands   []DrawCommand
}

func (c *resolvingCanvas) push() {
	c.saveStack = append(c.saveStack, resolveState{
		transform:  c.transform,
		alpha:      c.alpha,
		clipDepth:  len(c.clips),
		clipRadius: c.clipRadius,
	})
}

func (c *resolvingCanvas) Save() { c.push() }

func (c *resolvingCanvas) SaveLayerAlpha(_ Rect, alpha float64) {
	c.push()
	c.alpha *= alpha
}

func (c *resolvingCanvas) Restore() {
	if len(c.saveStack) == 0 {
		return
	}
	state := c.saveStack[len(c.saveStack)-1]
	c.saveStack = c.saveStack[:len(c.saveStack)-1]
	c.transform = state.transform
	c.alpha = state.alpha
	c.clips = c.clips[:state.clipDepth]
	c.clipRadius = state.clipRadius
}

func (c *resolvingCanvas) Translate(dx, dy float64) {
	c.transform.X += dx
	c.transform.Y += dy
}

func (c *resolvingCanvas) ClipRRect(rect Rect, radius float64) {
	global := rect.Translate(c.transform.X, c.transform.Y)
	if len(c.clips) > 0 {
		global = c.clips[len(c.clips)-1].Intersect(global)
	}
	c.clips = append(c.clips, global)
	c.clipRadius = radius
}

func (c *resolvingCanvas) currentClip() *Rect {
	if len(c.clips) == 0 {
		return nil
	}
	clip := c.clips[len(c.clips)-1]
	return &clip
}

func (c *resolvingCanvas) DrawRect(rect Rect, color Color) {
	c.commands = append(c.commands, DrawCommand{
		Kind:       DrawKindRect,
		Rect:       rect.Translate(c.transform.X, c.transform.Y),
		Color:      color,
		Alpha:      c.alpha * color.Alpha(),
		Clip:       c.currentClip(),
		ClipRadius: c.clipRadius,
	})
}

func (c *resolvingCanvas) DrawText(layout *TextLayout, position Offset) {
	if layout == nil {
		return
	}
	origin := position.Add(c.transform)
	for i, line := range layout.Lines {
		if line.Text == "" {
			continue
		}
		c.commands = append(c.commands, DrawCommand{
			Kind:       DrawKindText,
			Rect:       RectFromLTWH(origin.X, origin.Y+float64(i)*layout.LineHeight, line.Width, layout.LineHeight),
			Color:      layout.Style.Color,
			Text:       line.Text,
			Alpha:      c.alpha * layout.Style.Color.Alpha(),
			Clip:       c.currentClip(),
			ClipRadius: c.clipRadius,
		})
	}
}

func (c *resolvingCanvas) Size() Size {
	return c.size
}
