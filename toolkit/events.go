package toolkit

import (
	"time"

	"github.com/gogpu/wayoverlay/geom"
)

// Event is the marker interface for translated input events. The event
// set is closed: every variant is defined in this package, decoupling
// the bridge from any particular compositor library's event types.
//
// All coordinates are in overlay-local logical space (origin top-left,
// already divided by the output scale); timestamps are monotonic since
// overlay attach.
type Event interface {
	ImplementsEvent()
}

// Modifiers is a snapshot of the held modifier keys.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Logo  bool
}

// Key identifies a logical, layout-resolved key the toolkit reacts to.
type Key uint8

// The closed key set understood by the toolkit.
const (
	KeyArrowDown Key = iota
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyEscape
	KeyTab
	KeyBackspace
	KeyEnter
	KeySpace
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyNum0
	KeyNum1
	KeyNum2
	KeyNum3
	KeyNum4
	KeyNum5
	KeyNum6
	KeyNum7
	KeyNum8
	KeyNum9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

// PointerButton identifies a pointer button in the toolkit's model.
type PointerButton uint8

const (
	// PointerPrimary is the primary button, usually left.
	PointerPrimary PointerButton = iota
	// PointerSecondary is the secondary button, usually right.
	PointerSecondary
	// PointerMiddle is the middle button or wheel click.
	PointerMiddle
)

// TouchID identifies one touch contact for the duration of its
// down→up sequence.
type TouchID uint64

// TouchPhase tags the stage of a touch contact.
type TouchPhase uint8

const (
	TouchPhaseDown TouchPhase = iota
	TouchPhaseMove
	TouchPhaseUp
)

// KeyEvent is a key press or release, layout-resolved. Text carries the
// UTF-8 input produced by the press, if any.
type KeyEvent struct {
	Key       Key
	Text      string
	Pressed   bool
	Modifiers Modifiers
	Time      time.Duration
}

// PointerMoveEvent reports the pointer at a new local position.
type PointerMoveEvent struct {
	Pos       geom.Point
	Modifiers Modifiers
	Time      time.Duration
}

// PointerButtonEvent is a button press or release at a local position.
type PointerButtonEvent struct {
	Pos       geom.Point
	Button    PointerButton
	Pressed   bool
	Modifiers Modifiers
	Time      time.Duration
}

// ScrollEvent is a pointer axis event; Delta is in logical units.
type ScrollEvent struct {
	Delta     geom.Point
	Modifiers Modifiers
	Time      time.Duration
}

// TouchEvent is one phase of a touch contact.
type TouchEvent struct {
	ID        TouchID
	Phase     TouchPhase
	Pos       geom.Point
	Modifiers Modifiers
	Time      time.Duration
}

// PointerGoneEvent signals that the last pointer-capable input device
// disappeared; the toolkit should clear hover state.
type PointerGoneEvent struct {
	Time time.Duration
}

func (KeyEvent) ImplementsEvent()           {}
func (PointerMoveEvent) ImplementsEvent()   {}
func (PointerButtonEvent) ImplementsEvent() {}
func (ScrollEvent) ImplementsEvent()        {}
func (TouchEvent) ImplementsEvent()         {}
func (PointerGoneEvent) ImplementsEvent()   {}
