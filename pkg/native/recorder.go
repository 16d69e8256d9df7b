package native

// Call is a single recorded scene call.
type Call struct {
	Method  string    // Scene method name, e.g. "SetPadding"
	Surface SurfaceID // Target (or parent for structural calls)
	Child   SurfaceID // Child for AppendChild/InsertBefore/RemoveChild
	Before  SurfaceID // Reference for InsertBefore
	Name    string    // Event name or property key
	Value   any       // New value; nil clears
}

// Recorder is an in-memory Scene that records every call.
type Recorder struct {
	calls   []Call
	next    SurfaceID
	flushes int

	// FlushErr, if set, is returned by Flush.
	FlushErr error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{next: FirstSurface}
}

// Calls returns the calls recorded since the last Reset.
func (r *Recorder) Calls() []Call {
	return r.calls
}

// Methods returns the method names of the recorded calls, in order.
func (r *Recorder) Methods() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Method
	}
	return out
}

// Count returns how many times method was called.
func (r *Recorder) Count(method string) int {
	n := 0
	for _, c := range r.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Flushes returns how many times Flush was called.
func (r *Recorder) Flushes() int {
	return r.flushes
}

// Reset forgets the recorded calls. Allocated ids are not reused.
func (r *Recorder) Reset() {
	r.calls = nil
}

// Flush implements Flusher.
func (r *Recorder) Flush() error {
	r.flushes++
	return r.FlushErr
}

func (r *Recorder) record(c Call) {
	r.calls = append(r.calls, c)
}

func (r *Recorder) alloc() SurfaceID {
	if r.next == NoSurface {
		r.next = FirstSurface
	}
	id := r.next
	r.next++
	return id
}

// CreateSurface implements Scene.
func (r *Recorder) CreateSurface() SurfaceID {
	id := r.alloc()
	r.record(Call{Method: "CreateSurface", Surface: id})
	return id
}

// CreateText implements Scene.
func (r *Recorder) CreateText() SurfaceID {
	id := r.alloc()
	r.record(Call{Method: "CreateText", Surface: id})
	return id
}

// AppendChild implements Scene.
func (r *Recorder) AppendChild(parent, child SurfaceID) {
	r.record(Call{Method: "AppendChild", Surface: parent, Child: child})
}

// InsertBefore implements Scene.
func (r *Recorder) InsertBefore(parent, child, before SurfaceID) {
	r.record(Call{Method: "InsertBefore", Surface: parent, Child: child, Before: before})
}

// RemoveChild implements Scene.
func (r *Recorder) RemoveChild(parent, child SurfaceID) {
	r.record(Call{Method: "RemoveChild", Surface: parent, Child: child})
}

// DestroySurface implements Scene.
func (r *Recorder) DestroySurface(id SurfaceID) {
	r.record(Call{Method: "DestroySurface", Surface: id})
}

// SetText implements Scene.
func (r *Recorder) SetText(id SurfaceID, text *string) {
	r.record(Call{Method: "SetText", Surface: id, Value: valueOf(text)})
}

// SetEventListener implements Scene.
func (r *Recorder) SetEventListener(id SurfaceID, name string, l *Listener) {
	r.record(Call{Method: "SetEventListener", Surface: id, Name: name, Value: l})
}

// RemoveEventListener implements Scene.
func (r *Recorder) RemoveEventListener(id SurfaceID, name string) {
	r.record(Call{Method: "RemoveEventListener", Surface: id, Name: name})
}

// SetProperty implements Scene.
func (r *Recorder) SetProperty(id SurfaceID, key string, value any) {
	r.record(Call{Method: "SetProperty", Surface: id, Name: key, Value: value})
}

// SetSize implements StyleSetter.
func (r *Recorder) SetSize(id SurfaceID, v *Size) {
	r.record(Call{Method: "SetSize", Surface: id, Value: valueOf(v)})
}

// SetOverflow implements StyleSetter.
func (r *Recorder) SetOverflow(id SurfaceID, v *Overflow) {
	r.record(Call{Method: "SetOverflow", Surface: id, Value: valueOf(v)})
}

// SetFlex implements StyleSetter.
func (r *Recorder) SetFlex(id SurfaceID, v *Flex) {
	r.record(Call{Method: "SetFlex", Surface: id, Value: valueOf(v)})
}

// SetFlow implements StyleSetter.
func (r *Recorder) SetFlow(id SurfaceID, v *Flow) {
	r.record(Call{Method: "SetFlow", Surface: id, Value: valueOf(v)})
}

// SetPadding implements StyleSetter.
func (r *Recorder) SetPadding(id SurfaceID, v *Insets) {
	r.record(Call{Method: "SetPadding", Surface: id, Value: valueOf(v)})
}

// SetMargin implements StyleSetter.
func (r *Recorder) SetMargin(id SurfaceID, v *Insets) {
	r.record(Call{Method: "SetMargin", Surface: id, Value: valueOf(v)})
}

// SetBorderRadius implements StyleSetter.
func (r *Recorder) SetBorderRadius(id SurfaceID, v *Corners) {
	r.record(Call{Method: "SetBorderRadius", Surface: id, Value: valueOf(v)})
}

// SetBoxShadow implements StyleSetter.
func (r *Recorder) SetBoxShadow(id SurfaceID, v *Shadow) {
	r.record(Call{Method: "SetBoxShadow", Surface: id, Value: valueOf(v)})
}

// SetBackgroundColor implements StyleSetter.
func (r *Recorder) SetBackgroundColor(id SurfaceID, v *Color) {
	r.record(Call{Method: "SetBackgroundColor", Surface: id, Value: valueOf(v)})
}

// SetImage implements StyleSetter.
func (r *Recorder) SetImage(id SurfaceID, v *string) {
	r.record(Call{Method: "SetImage", Surface: id, Value: valueOf(v)})
}

// SetBorder implements StyleSetter.
func (r *Recorder) SetBorder(id SurfaceID, v *Border) {
	r.record(Call{Method: "SetBorder", Surface: id, Value: valueOf(v)})
}

// valueOf dereferences p so recorded values compare by value.
// A nil pointer is recorded as an untyped nil.
func valueOf[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
