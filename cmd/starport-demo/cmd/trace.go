package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/starport/cmd/starport-demo/internal/scene"
	"github.com/go-drift/starport/pkg/animation"
	"github.com/go-drift/starport/pkg/engine"
	"github.com/go-drift/starport/pkg/starport"
)

var (
	traceTo      int
	traceMax     int
	traceOut     string
	traceTimings bool
)

func init() {
	traceCmd.Flags().IntVar(&traceTo, "to", 3, "Slot (1-3) to move the badge to")
	traceCmd.Flags().IntVar(&traceMax, "max-frames", 600, "Stop after this many frames")
	traceCmd.Flags().StringVarP(&traceOut, "out", "o", "", "Write the report to a file instead of stdout")
	traceCmd.Flags().BoolVar(&traceTimings, "timings", false, "Include per-frame phase timings")
	rootCmd.AddCommand(traceCmd)
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Record a scripted flight as YAML",
	Long: `Settle the badge in slot 1, move it to --to and record every frame of
the flight on a simulated 16ms clock. The report lists the painted badge
rect per frame, the final registry entries and the last frame as text.`,
	RunE: runTrace,
}

type traceReport struct {
	App     string                `yaml:"app"`
	Flight  starport.Options      `yaml:"flight"`
	From    int                   `yaml:"from"`
	To      int                   `yaml:"to"`
	Frames  []traceFrame          `yaml:"frames"`
	Ports   []scene.PortView      `yaml:"ports"`
	Final   string                `yaml:"final"`
	Timings *engine.FrameTimeline `yaml:"timings,omitempty"`
}

type traceFrame struct {
	Frame     uint64     `yaml:"frame"`
	ElapsedMs int64      `yaml:"elapsedMs"`
	Badge     [4]float64 `yaml:"badge,flow"`
	Painted   bool       `yaml:"painted"`
}

// stepClock is an animation clock that only moves when advanced.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func runTrace(cmd *cobra.Command, args []string) error {
	if traceTo < 2 || traceTo > scene.Slots {
		return fmt.Errorf("--to must be between 2 and %d", scene.Slots)
	}
	report, err := recordFlight(traceTo - 1)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if traceOut != "" {
		f, err := os.Create(traceOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}
	return enc.Close()
}

func recordFlight(to int) (*traceReport, error) {
	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	prev := animation.SetClock(clock)
	defer animation.SetClock(prev)

	s := scene.New(scene.Config{
		Size:       surfaceSize(),
		Flight:     resolved.Flight,
		Logger:     logger,
		FrameTrace: traceMax,
	})
	defer s.Dispose()

	frames := 0
	step := func() (*engine.FrameSnapshot, error) {
		if frames >= traceMax {
			return nil, fmt.Errorf("flight did not settle within %d frames", traceMax)
		}
		frames++
		snap, err := s.Frame()
		clock.advance(frameInterval)
		return snap, err
	}
	for {
		if _, err := step(); err != nil {
			return nil, err
		}
		if !s.NeedsFrame() {
			break
		}
	}

	report := &traceReport{App: resolved.AppName, Flight: resolved.Flight, From: s.Slot() + 1, To: to + 1}
	if err := s.MoveTo(to); err != nil {
		return nil, err
	}
	start := clock.Now()
	for {
		elapsed := clock.Now().Sub(start)
		snap, err := step()
		if err != nil {
			return nil, err
		}
		rect, painted := s.BadgeRect()
		report.Frames = append(report.Frames, traceFrame{
			Frame:     snap.FrameID,
			ElapsedMs: elapsed.Milliseconds(),
			Badge:     [4]float64{rect.Left, rect.Top, rect.Right, rect.Bottom},
			Painted:   painted,
		})
		if !s.NeedsFrame() {
			break
		}
	}

	report.Ports = s.Ports()
	last := s.Engine().LastFrame()
	report.Final = scene.Rasterize(last.Commands, last.Size).String()
	if traceTimings {
		timeline := s.Engine().Trace().Snapshot()
		report.Timings = &timeline
	}
	logger.Debug().Int("frames", frames).Int("flight", len(report.Frames)).Msg("trace recorded")
	return report, nil
}
