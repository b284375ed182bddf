package graphics

import (
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// TextStyle describes how a run of text is painted.
type TextStyle struct {
	Color Color
}

// TextLine is a single laid out line of text.
type TextLine struct {
	Text  string
	Width float64
}

// TextLayout is the result of laying out a string with the fixed face.
type TextLayout struct {
	Text       string
	Style      TextStyle
	Lines      []TextLine
	Size       Size
	LineHeight float64
}

// textFace is the headless runtime's single face. Every glyph has the same
// advance, so layouts are deterministic across hosts.
var textFace font.Face = basicfont.Face7x13

// MeasureText returns the advance width of s in logical pixels.
func MeasureText(s string) float64 {
	return float64(font.MeasureString(textFace, s)) / 64
}

// LineHeight returns the height of a single line of text.
func LineHeight() float64 {
	return float64(textFace.Metrics().Height) / 64
}

// LayoutText breaks text into lines no wider than maxWidth. Explicit newlines
// always break. A maxWidth of zero or less, or infinity, disables wrapping.
func LayoutText(text string, style TextStyle, maxWidth float64) *TextLayout {
	wrap := maxWidth > 0 && !math.IsInf(maxWidth, 1)
	layout := &TextLayout{Text: text, Style: style, LineHeight: LineHeight()}

	for _, paragraph := range strings.Split(text, "\n") {
		if !wrap {
			layout.addLine(paragraph)
			continue
		}
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			layout.addLine("")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if MeasureText(candidate) > maxWidth {
				layout.addLine(current)
				current = word
				continue
			}
			current = candidate
		}
		layout.addLine(current)
	}
	layout.Size.Height = float64(len(layout.Lines)) * layout.LineHeight
	return layout
}

func (l *TextLayout) addLine(text string) {
	width := MeasureText(text)
	l.Lines = append(l.Lines, TextLine{Text: text, Width: width})
	if width > l.Size.Width {
		l.Size.Width = width
	}
}
