package graphics

// Canvas records or executes drawing commands.
type Canvas interface {
	// Save pushes the current transform and clip state.
	Save()

	// SaveLayerAlpha saves a new layer whose content is composited with alpha (0-1).
	SaveLayerAlpha(bounds Rect, alpha float64)

	// Restore pops the most recent save or layer.
	Restore()

	// Translate moves the origin by the given offset.
	Translate(dx, dy float64)

	// ClipRRect clips subsequent drawing to a rounded rectangle.
	ClipRRect(rect Rect, radius float64)

	// DrawRect fills a rectangle with the given color.
	DrawRect(rect Rect, color Color)

	// DrawText draws a laid out paragraph with its top-left at position.
	DrawText(layout *TextLayout, position Offset)

	// Size returns the size of the drawing surface.
	Size() Size
}
