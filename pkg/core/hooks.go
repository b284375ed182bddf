package core

// UseController builds a controller for s and disposes it with s.
func UseController[C Disposable](s stateBase, create func() C) C {
	c := create()
	s.state().OnDispose(c.Dispose)
	return c
}

// UseListenable rebuilds s on every notification from l until s is disposed.
func UseListenable(s stateBase, l Listenable) {
	base := s.state()
	base.OnDispose(l.AddListener(func() { base.SetState(nil) }))
}

// Managed is a value owned by a state: setting it schedules a rebuild of
// that state. Use it from the UI goroutine only.
type Managed[T any] struct {
	owner *StateBase
	v     T
}

func NewManaged[T any](s stateBase, initial T) *Managed[T] {
	return &Managed[T]{owner: s.state(), v: initial}
}

func (m *Managed[T]) Value() T { return m.v }

// Set stores v and marks the owner for rebuild.
func (m *Managed[T]) Set(v T) {
	m.v = v
	m.owner.SetState(nil)
}
