// Package surface holds the per-overlay state that lives between
// frames: the toolkit context, the pending input queue, and the focus
// flags. One State exists per attached overlay and is owned by it.
package surface

import (
	"time"

	"github.com/gogpu/wayoverlay/geom"
	"github.com/gogpu/wayoverlay/toolkit"
)

// State is the frame-to-frame state of one overlay. It exclusively owns
// its toolkit context; the context must never be driven through any
// other path.
//
// A State is confined to the compositor's main thread. Enqueue is cheap
// and non-blocking so the compositor's input dispatch can call it
// directly between frames.
type State struct {
	ctx toolkit.Context

	pending []toolkit.Event

	hasKeyboard bool
	hasPointer  bool

	// onKeyboardLost fires on the focused→unfocused keyboard edge, so
	// the translator can drop held modifiers whose release events will
	// be routed elsewhere.
	onKeyboardLost func()

	start time.Time
	now   func() time.Time

	lastSize geom.Size
}

// New creates the state for a freshly attached overlay, owning ctx.
func New(ctx toolkit.Context) *State {
	s := &State{
		ctx: ctx,
		now: time.Now,
	}
	s.start = s.now()
	return s
}

// Context returns the owned toolkit context.
func (s *State) Context() toolkit.Context {
	return s.ctx
}

// OnKeyboardFocusLost registers fn to run whenever keyboard focus
// transitions from held to released.
func (s *State) OnKeyboardFocusLost(fn func()) {
	s.onKeyboardLost = fn
}

// Enqueue appends a translated event to the pending buffer. It never
// blocks and never drops; the buffer is drained every frame so it stays
// small.
func (s *State) Enqueue(ev toolkit.Event) {
	s.pending = append(s.pending, ev)
}

// BeginFrame drains the pending buffer and returns the events in
// arrival order. The returned slice is exclusively the caller's; events
// enqueued after this call land in the next frame's batch.
func (s *State) BeginFrame() []toolkit.Event {
	drained := s.pending
	s.pending = nil
	return drained
}

// PendingLen reports the number of events waiting for the next frame.
func (s *State) PendingLen() int {
	return len(s.pending)
}

// TakeKeyboardFocus marks the overlay as keyboard-focused. Idempotent.
func (s *State) TakeKeyboardFocus() {
	s.hasKeyboard = true
}

// ReleaseKeyboardFocus clears keyboard focus. On the held→released edge
// the registered focus-lost hook runs. Idempotent.
func (s *State) ReleaseKeyboardFocus() {
	if !s.hasKeyboard {
		return
	}
	s.hasKeyboard = false
	if s.onKeyboardLost != nil {
		s.onKeyboardLost()
	}
}

// TakePointerFocus marks the overlay as pointer-focused. Idempotent.
func (s *State) TakePointerFocus() {
	s.hasPointer = true
}

// ReleasePointerFocus clears pointer focus. Idempotent.
func (s *State) ReleasePointerFocus() {
	s.hasPointer = false
}

// HasKeyboardFocus reports whether the overlay holds keyboard focus.
func (s *State) HasKeyboardFocus() bool {
	return s.hasKeyboard
}

// HasPointerFocus reports whether the overlay holds pointer focus.
func (s *State) HasPointerFocus() bool {
	return s.hasPointer
}

// Elapsed returns the monotonic time since the overlay was attached.
// Event timestamps and the toolkit's animation clock share this origin.
func (s *State) Elapsed() time.Duration {
	return s.now().Sub(s.start)
}

// SetLastSize records the logical size of the most recent frame.
func (s *State) SetLastSize(size geom.Size) {
	s.lastSize = size
}

// LastSize returns the logical size of the most recent frame, or the
// zero size before the first one.
func (s *State) LastSize() geom.Size {
	return s.lastSize
}
