package core

import (
	"slices"
	"sync"

	"github.com/go-drift/starport/pkg/errors"
	"github.com/go-drift/starport/pkg/layout"
)

// BuildOwner tracks dirty elements that need rebuilding, the microtask queue
// and the callbacks that run after each frame.
type BuildOwner struct {
	dirty    []Element
	dirtySet map[Element]bool
	pipeline *layout.PipelineOwner
	mu       sync.Mutex

	microtasks []func()

	nextCallbackID      int
	persistentCallbacks []frameCallback
	postFrameCallbacks  []func()

	buildErrors []*errors.BuildError

	// OnNeedsFrame is called when new work is scheduled, signalling the host
	// that a frame should be produced.
	OnNeedsFrame func()
}

type frameCallback struct {
	id int
	fn func()
}

// NewBuildOwner creates a new BuildOwner.
func NewBuildOwner() *BuildOwner {
	return &BuildOwner{
		pipeline: &layout.PipelineOwner{},
	}
}

// Pipeline returns the PipelineOwner for render object scheduling.
func (b *BuildOwner) Pipeline() *layout.PipelineOwner {
	return b.pipeline
}

// ScheduleBuild marks an element as needing rebuild.
func (b *BuildOwner) ScheduleBuild(element Element) {
	added := func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.dirtySet[element] {
			return false
		}
		if b.dirtySet == nil {
			b.dirtySet = make(map[Element]bool)
		}
		b.dirtySet[element] = true
		b.dirty = append(b.dirty, element)
		return true
	}()

	if added && b.OnNeedsFrame != nil {
		b.OnNeedsFrame()
	}
}

// ScheduleMicrotask queues fn to run at the next microtask flush, after the
// current build pass completes and before layout.
func (b *BuildOwner) ScheduleMicrotask(fn func()) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	b.microtasks = append(b.microtasks, fn)
	b.mu.Unlock()
	if b.OnNeedsFrame != nil {
		b.OnNeedsFrame()
	}
}

// FlushMicrotasks runs queued microtasks in FIFO order, including any queued
// while flushing. Returns the number of tasks run.
func (b *BuildOwner) FlushMicrotasks() int {
	ran := 0
	for {
		b.mu.Lock()
		if len(b.microtasks) == 0 {
			b.mu.Unlock()
			return ran
		}
		task := b.microtasks[0]
		b.microtasks = b.microtasks[1:]
		b.mu.Unlock()

		task()
		ran++
	}
}

// AddPersistentFrameCallback registers fn to run after layout and paint on
// every frame. The returned function unregisters it.
func (b *BuildOwner) AddPersistentFrameCallback(fn func()) (remove func()) {
	b.nextCallbackID++
	id := b.nextCallbackID
	b.persistentCallbacks = append(b.persistentCallbacks, frameCallback{id: id, fn: fn})
	if b.OnNeedsFrame != nil {
		b.OnNeedsFrame()
	}
	return func() {
		b.persistentCallbacks = slices.DeleteFunc(b.persistentCallbacks, func(cb frameCallback) bool {
			return cb.id == id
		})
	}
}

// AddPostFrameCallback registers fn to run once after the next frame.
func (b *BuildOwner) AddPostFrameCallback(fn func()) {
	b.postFrameCallbacks = append(b.postFrameCallbacks, fn)
	if b.OnNeedsFrame != nil {
		b.OnNeedsFrame()
	}
}

// RunFrameCallbacks runs persistent callbacks in registration order, then the
// one-shot post-frame callbacks.
func (b *BuildOwner) RunFrameCallbacks() {
	persistent := slices.Clone(b.persistentCallbacks)
	for _, cb := range persistent {
		if b.hasPersistentCallback(cb.id) {
			cb.fn()
		}
	}
	post := b.postFrameCallbacks
	b.postFrameCallbacks = nil
	for _, fn := range post {
		fn()
	}
}

func (b *BuildOwner) hasPersistentCallback(id int) bool {
	return slices.ContainsFunc(b.persistentCallbacks, func(cb frameCallback) bool {
		return cb.id == id
	})
}

func (b *BuildOwner) recordBuildError(err *errors.BuildError) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buildErrors = append(b.buildErrors, err)
}

// TakeBuildErrors returns and clears the build errors recorded since the last
// call.
func (b *BuildOwner) TakeBuildErrors() []*errors.BuildError {
	b.mu.Lock()
	defer b.mu.Unlock()
	taken := b.buildErrors
	b.buildErrors = nil
	return taken
}

// NeedsWork returns true if there are dirty elements, queued microtasks or
// post-frame callbacks, or pending layout/paint.
func (b *BuildOwner) NeedsWork() bool {
	b.mu.Lock()
	pending := len(b.dirty) > 0 || len(b.microtasks) > 0
	b.mu.Unlock()
	if pending || len(b.postFrameCallbacks) > 0 {
		return true
	}
	return b.pipeline.NeedsLayout() || b.pipeline.NeedsPaint()
}

// FlushBuild rebuilds all dirty elements in depth order.
func (b *BuildOwner) FlushBuild() {
	for {
		b.mu.Lock()
		if len(b.dirty) == 0 {
			b.mu.Unlock()
			return
		}

		slices.SortFunc(b.dirty, func(a, b Element) int {
			return a.Depth() - b.Depth()
		})

		dirty := b.dirty
		b.dirty = nil
		clear(b.dirtySet)
		b.mu.Unlock()

		for _, element := range dirty {
			if mountable, ok := element.(interface{ isMounted() bool }); ok && !mountable.isMounted() {
				continue
			}
			element.RebuildIfNeeded()
		}
	}
}

// FlushBuildAndMicrotasks alternates build passes and microtask flushes until
// neither has work left.
func (b *BuildOwner) FlushBuildAndMicrotasks() {
	for {
		b.FlushBuild()
		if b.FlushMicrotasks() == 0 {
			b.mu.Lock()
			settled := len(b.dirty) == 0
			b.mu.Unlock()
			if settled {
				return
			}
		}
	}
}
