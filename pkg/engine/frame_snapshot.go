package engine

import "github.com/go-drift/starport/pkg/graphics"

// FrameSnapshot is the output of one frame.
type FrameSnapshot struct {
	FrameID uint64
	Size    graphics.Size
	// Display is the recorded display list. It is shared with the pipeline
	// and must not be modified.
	Display *graphics.DisplayList
	// Commands holds the display list resolved to global coordinates.
	Commands []graphics.DrawCommand
}

// Visible returns the commands that produce pixels, in paint order.
func (s *FrameSnapshot) Visible() []graphics.DrawCommand {
	if s == nil {
		return nil
	}
	visible := make([]graphics.DrawCommand, 0, len(s.Commands))
	for _, cmd := range s.Commands {
		if cmd.Visible() {
			visible = append(visible, cmd)
		}
	}
	return visible
}

// Texts returns the strings of the visible text commands, in paint order.
func (s *FrameSnapshot) Texts() []string {
	var texts []string
	for _, cmd := range s.Visible() {
		if cmd.Kind == graphics.DrawKindText {
			texts = append(texts, cmd.Text)
		}
	}
	return texts
}
