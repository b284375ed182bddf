package scene

import (
	"fmt"

	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/graphics"
	"github.com/go-drift/starport/pkg/layout"
	"github.com/go-drift/starport/pkg/widgets"
)

// Badge is the carried widget: a tap counter whose count only survives a
// move if its state is never recreated.
type Badge struct {
	core.StatefulBase
	Label string
}

func (b Badge) CreateState() core.State {
	return &badgeState{}
}

type badgeState struct {
	core.StateBase
	taps int
}

func (s *badgeState) Build(ctx core.BuildContext) core.Widget {
	w := s.Widget().(Badge)
	return widgets.GestureDetector{
		OnTap: func() {
			s.SetState(func() { s.taps++ })
		},
		Child: widgets.Container{
			Color:   BadgeColor,
			Padding: layout.EdgeInsetsAll(8),
			Child:   widgets.Text{Content: fmt.Sprintf("%s %d", w.Label, s.taps), Color: graphics.ColorWhite},
		},
	}
}
