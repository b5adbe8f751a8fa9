package layout

import (
	"os"
	"sync"

	"github.com/charmbracelet/x/term"
)

// TermViewport is a Viewport whose width is pushed in by the host, usually
// from Bubble Tea window-size messages.
type TermViewport struct {
	mu        sync.Mutex
	width     int
	listeners map[int]func(int)
	next      int
}

// NewTermViewport starts at the given width.
func NewTermViewport(width int) *TermViewport {
	return &TermViewport{width: width, listeners: make(map[int]func(int))}
}

// FromTerminal reads the current width of f, falling back when f is not a tty.
func FromTerminal(f *os.File, fallback int) *TermViewport {
	w := fallback
	if f != nil {
		if tw, _, err := term.GetSize(f.Fd()); err == nil && tw > 0 {
			w = tw
		}
	}
	return NewTermViewport(w)
}

func (v *TermViewport) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

func (v *TermViewport) OnResize(fn func(int)) func() {
	v.mu.Lock()
	id := v.next
	v.next++
	v.listeners[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.listeners, id)
			v.mu.Unlock()
		})
	}
}

// Resize records a new width and notifies listeners when it changed.
func (v *TermViewport) Resize(width int) {
	v.mu.Lock()
	if width == v.width {
		v.mu.Unlock()
		return
	}
	v.width = width
	fns := make([]func(int), 0, len(v.listeners))
	for _, fn := range v.listeners {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(width)
	}
}

// Listeners returns the number of registered resize listeners.
func (v *TermViewport) Listeners() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.listeners)
}
