// Package layout derives a narrow/wide flag from the viewport width.
package layout

import "sync"

// DefaultBreakpoint is the widest viewport still considered narrow.
const DefaultBreakpoint = 768

// Viewport is the width source a Signal observes. OnResize must not call
// fn synchronously; the returned cancel func must be safe to call twice.
type Viewport interface {
	Width() int
	OnResize(fn func(width int)) (cancel func())
}

// IsNarrow reports whether width falls on the narrow side of breakpoint.
// The breakpoint itself is narrow.
func IsNarrow(width, breakpoint int) bool { return width <= breakpoint }

type observer struct {
	id uint64
	fn func(bool)
}

// Signal is an observable "is narrow viewport" flag. The viewport listener
// is registered when the first observer arrives and removed when the last
// one releases.
type Signal struct {
	vp         Viewport
	breakpoint int

	mu        sync.Mutex
	narrow    bool
	cancel    func()
	observers []observer
	nextID    uint64
}

// NewSignal builds a Signal over vp. A breakpoint <= 0 uses DefaultBreakpoint.
func NewSignal(vp Viewport, breakpoint int) *Signal {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	return &Signal{vp: vp, breakpoint: breakpoint}
}

// Breakpoint returns the configured threshold.
func (s *Signal) Breakpoint() int { return s.breakpoint }

// Value returns the last computed flag. It is false until first observed.
func (s *Signal) Value() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.narrow
}

// Observe registers fn and calls it right away with the current value, then
// again each time the viewport crosses the breakpoint. fn is never called
// for a resize that stays on the same side.
func (s *Signal) Observe(fn func(narrow bool)) *Subscription {
	s.mu.Lock()
	if s.cancel == nil {
		s.narrow = IsNarrow(s.vp.Width(), s.breakpoint)
		s.cancel = s.vp.OnResize(s.update)
	}
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer{id: id, fn: fn})
	v := s.narrow
	s.mu.Unlock()

	if fn != nil {
		fn(v)
	}
	return &Subscription{s: s, id: id}
}

// Observers returns how many subscriptions are live.
func (s *Signal) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

func (s *Signal) update(width int) {
	n := IsNarrow(width, s.breakpoint)

	s.mu.Lock()
	if s.cancel == nil || n == s.narrow {
		s.mu.Unlock()
		return
	}
	s.narrow = n
	fns := make([]func(bool), 0, len(s.observers))
	for _, o := range s.observers {
		if o.fn != nil {
			fns = append(fns, o.fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(n)
	}
}

func (s *Signal) release(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o.id == id {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			break
		}
	}
	if len(s.observers) == 0 && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Subscription ends an observation.
type Subscription struct {
	s    *Signal
	id   uint64
	once sync.Once
}

// Release stops delivery to this observer. Calling it again is a no-op.
func (sub *Subscription) Release() {
	if sub == nil {
		return
	}
	sub.once.Do(func() { sub.s.release(sub.id) })
}
