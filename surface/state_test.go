package surface

import (
	"testing"
	"time"

	"github.com/gogpu/wayoverlay/geom"
	"github.com/gogpu/wayoverlay/toolkit"
)

// stubContext is a toolkit context that records nothing; surface tests
// never drive frames through it.
type stubContext struct{}

func (stubContext) Run(toolkit.FrameInput) (toolkit.Output, error) { return toolkit.Output{}, nil }
func (stubContext) WantsKeyboard() bool                            { return false }
func (stubContext) WantsPointer() bool                             { return false }

func TestBeginFrameDrainsExactlyOnce(t *testing.T) {
	s := New(stubContext{})

	first := toolkit.PointerMoveEvent{Pos: geom.Pt(1, 1)}
	second := toolkit.PointerMoveEvent{Pos: geom.Pt(2, 2)}
	s.Enqueue(first)
	s.Enqueue(second)

	drained := s.BeginFrame()
	if len(drained) != 2 {
		t.Fatalf("drained %d events, want 2", len(drained))
	}
	if drained[0] != toolkit.Event(first) || drained[1] != toolkit.Event(second) {
		t.Error("drain broke arrival order")
	}

	if again := s.BeginFrame(); len(again) != 0 {
		t.Errorf("second drain returned %d events, want 0", len(again))
	}
}

func TestEventsAfterDrainGoToNextFrame(t *testing.T) {
	s := New(stubContext{})

	s.Enqueue(toolkit.PointerMoveEvent{Pos: geom.Pt(1, 1)})
	frame1 := s.BeginFrame()

	// Arrives mid-frame: must not be visible in frame1's slice.
	s.Enqueue(toolkit.PointerMoveEvent{Pos: geom.Pt(2, 2)})
	if len(frame1) != 1 {
		t.Fatalf("frame1 has %d events, want 1", len(frame1))
	}

	frame2 := s.BeginFrame()
	if len(frame2) != 1 {
		t.Fatalf("frame2 has %d events, want 1", len(frame2))
	}
	move := frame2[0].(toolkit.PointerMoveEvent)
	if move.Pos != geom.Pt(2, 2) {
		t.Errorf("frame2 event = %v, want the mid-frame one", move.Pos)
	}
}

func TestFocusFlagsIdempotent(t *testing.T) {
	s := New(stubContext{})

	if s.HasKeyboardFocus() || s.HasPointerFocus() {
		t.Fatal("fresh state must be unfocused")
	}

	s.TakeKeyboardFocus()
	s.TakeKeyboardFocus()
	if !s.HasKeyboardFocus() {
		t.Error("keyboard focus not taken")
	}

	s.TakePointerFocus()
	s.ReleasePointerFocus()
	s.ReleasePointerFocus()
	if s.HasPointerFocus() {
		t.Error("pointer focus not released")
	}
}

func TestKeyboardFocusLostHook(t *testing.T) {
	s := New(stubContext{})

	calls := 0
	s.OnKeyboardFocusLost(func() { calls++ })

	// Release without focus is a no-op.
	s.ReleaseKeyboardFocus()
	if calls != 0 {
		t.Fatalf("hook ran %d times without focus, want 0", calls)
	}

	s.TakeKeyboardFocus()
	s.ReleaseKeyboardFocus()
	s.ReleaseKeyboardFocus() // repeated release fires once
	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}
}

func TestElapsedMonotonic(t *testing.T) {
	s := New(stubContext{})

	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }
	s.start = time.Unix(990, 0)

	if got := s.Elapsed(); got != 10*time.Second {
		t.Errorf("Elapsed = %v, want 10s", got)
	}
}

func TestLastSize(t *testing.T) {
	s := New(stubContext{})

	if s.LastSize() != (geom.Size{}) {
		t.Errorf("LastSize before first frame = %v, want zero", s.LastSize())
	}
	s.SetLastSize(geom.Sz(800, 600))
	if s.LastSize() != geom.Sz(800, 600) {
		t.Errorf("LastSize = %v, want 800x600", s.LastSize())
	}
}
