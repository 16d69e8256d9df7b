package native

// Event is an input event reported by the native side for a surface.
type Event struct {
	Surface SurfaceID
	Name    string // "onClick", "onKeyDown", ...
	X, Y    float64
	Key     string
	Text    string
}

// Listener receives events bound to a surface.
// Listeners are compared by pointer, never by the function they wrap.
type Listener struct {
	fn func(Event)
}

// NewListener wraps fn in a new Listener.
func NewListener(fn func(Event)) *Listener {
	return &Listener{fn: fn}
}

// Noop is the canonical listener that ignores every event.
var Noop = &Listener{}

// Handle invokes the listener. Nil and Noop listeners do nothing.
func (l *Listener) Handle(ev Event) {
	if l == nil || l.fn == nil {
		return
	}
	l.fn(ev)
}

// IsNoop reports whether the listener ignores every event.
func (l *Listener) IsNoop() bool {
	return l == nil || l.fn == nil
}
