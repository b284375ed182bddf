// Package testing provides a widget testing harness for the headless engine.
//
// # Quick Start
//
// Create a tester, pump a widget, and make assertions:
//
//	func TestMyWidget(t *testing.T) {
//	    tester := sptest.NewWidgetTesterWithT(t)
//	    tester.PumpWidget(MyWidget{})
//
//	    tester.Tap(sptest.ByText("Submit"))
//	    tester.Pump()
//
//	    if !tester.Find(sptest.ByText("Submitted")).Exists() {
//	        t.Error("expected 'Submitted' text")
//	    }
//	}
//
// # Animation Testing
//
// The tester installs a [FakeClock] as the animation clock. Advance it and
// pump to step animations deterministically:
//
//	tester.Clock().Advance(100 * time.Millisecond)
//	tester.Pump()
//
// # Snapshot Testing
//
// Capture the render tree and resolved draw commands and compare them with
// a YAML golden file:
//
//	tester.CaptureSnapshot().MatchesFile(t, "testdata/carrier.snapshot.yaml")
//
// Update golden files with:
//
//	STARPORT_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import sptest "github.com/go-drift/starport/pkg/testing"
package testing
