// Package widgets provides the primitive widgets of the headless runtime:
// layout (View, Stack, Positioned, Row, Column, Padding, Center, SizedBox),
// painting (Container, Text), visual effects (Opacity, ClipRRect, Offstage),
// input (GestureDetector) and the implicit AnimatedPositioned.
//
// Widgets are struct literals. Render object widgets embed
// core.RenderObjectBase and expose their children through ChildWidget or
// ChildrenWidgets:
//
//	widgets.Stack{
//	    Fit: widgets.StackFitExpand,
//	    Children: []core.Widget{
//	        widgets.Container{Color: background},
//	        widgets.Positioned{Left: 8, Top: 8, Width: 40, Height: 20, Child: badge},
//	    },
//	}
package widgets
