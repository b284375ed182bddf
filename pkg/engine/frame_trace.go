package engine

import (
	"sync"
	"time"

	"github.com/go-drift/starport/pkg/core"
	"github.com/go-drift/starport/pkg/layout"
)

const (
	frameTraceSamplesDefault   = 240
	defaultFrameTraceThreshold = 16667 * time.Microsecond
)

// FramePhaseTimings captures time spent in each frame phase (ms).
type FramePhaseTimings struct {
	DispatchMs  float64 `json:"dispatchMs" yaml:"dispatchMs"`
	AnimateMs   float64 `json:"animateMs" yaml:"animateMs"`
	BuildMs     float64 `json:"buildMs" yaml:"buildMs"`
	LayoutMs    float64 `json:"layoutMs" yaml:"layoutMs"`
	PaintMs     float64 `json:"paintMs" yaml:"paintMs"`
	CallbacksMs float64 `json:"callbacksMs" yaml:"callbacksMs"`
}

// FrameCounts captures per-frame workload indicators.
type FrameCounts struct {
	RenderNodeCount int `json:"renderNodeCount" yaml:"renderNodeCount"`
	WidgetNodeCount int `json:"widgetNodeCount" yaml:"widgetNodeCount"`
	DrawCommands    int `json:"drawCommands" yaml:"drawCommands"`
}

// FrameSample is a single frame trace sample.
type FrameSample struct {
	Timestamp int64             `json:"ts" yaml:"ts"`
	FrameMs   float64           `json:"frameMs" yaml:"frameMs"`
	Phases    FramePhaseTimings `json:"phases" yaml:"phases"`
	Counts    FrameCounts       `json:"counts" yaml:"counts"`
}

// FrameTimeline is a chronological view of the buffered samples.
type FrameTimeline struct {
	Samples       []FrameSample `json:"samples" yaml:"samples"`
	DroppedFrames int           `json:"droppedFrames" yaml:"droppedFrames"`
	ThresholdMs   float64       `json:"thresholdMs" yaml:"thresholdMs"`
}

// FrameTraceBuffer stores recent frame samples in a ring buffer.
type FrameTraceBuffer struct {
	mu        sync.RWMutex
	samples   []FrameSample
	index     int
	count     int
	dropped   int
	threshold time.Duration
}

// NewFrameTraceBuffer creates a new frame trace buffer.
func NewFrameTraceBuffer(capacity int, threshold time.Duration) *FrameTraceBuffer {
	if capacity <= 0 {
		capacity = frameTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultFrameTraceThreshold
	}
	return &FrameTraceBuffer{
		samples:   make([]FrameSample, capacity),
		threshold: threshold,
	}
}

// Add records a frame sample and updates dropped frame count.
func (b *FrameTraceBuffer) Add(sample FrameSample, frameDuration time.Duration) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	if frameDuration > b.threshold {
		b.dropped++
	}
	b.mu.Unlock()
}

// Snapshot returns a chronological copy of samples and stats.
func (b *FrameTraceBuffer) Snapshot() FrameTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return FrameTimeline{ThresholdMs: durationToMillis(b.threshold)}
	}

	result := make([]FrameSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}

	return FrameTimeline{
		Samples:       result,
		DroppedFrames: b.dropped,
		ThresholdMs:   durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func countRenderTree(root layout.RenderObject) int {
	if root == nil {
		return 0
	}
	count := 1
	if cv, ok := root.(layout.ChildVisitor); ok {
		cv.VisitChildren(func(child layout.RenderObject) {
			count += countRenderTree(child)
		})
	}
	return count
}

func countWidgetTree(root core.Element) int {
	if root == nil {
		return 0
	}
	count := 1
	root.VisitChildren(func(child core.Element) bool {
		count += countWidgetTree(child)
		return true
	})
	return count
}
