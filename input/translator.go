package input

import (
	"time"

	"github.com/gogpu/wayoverlay/geom"
	"github.com/gogpu/wayoverlay/toolkit"
)

// Linux input button codes as delivered by libinput-based compositors.
const (
	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112
)

// ButtonFromCode maps a Linux button code to the toolkit's button set.
// Returns false for buttons the toolkit has no notion of (side, extra).
func ButtonFromCode(code uint32) (toolkit.PointerButton, bool) {
	switch code {
	case btnLeft:
		return toolkit.PointerPrimary, true
	case btnRight:
		return toolkit.PointerSecondary, true
	case btnMiddle:
		return toolkit.PointerMiddle, true
	}
	return 0, false
}

// Placement locates an overlay on an output: the overlay origin in
// device coordinates, its size in logical units, and the output's scale
// factor relating the two spaces.
type Placement struct {
	Origin geom.Point
	Size   geom.Size
	Scale  float64
}

// localBounds is the overlay rectangle in local coordinates.
func (p Placement) localBounds() geom.Rect {
	return geom.RectFromOriginSize(geom.Point{}, p.Size)
}

// Sink receives translated events. The surface state's input queue is
// the production implementation.
type Sink interface {
	Enqueue(ev toolkit.Event)
}

// Translator converts device-space compositor input into overlay-local
// toolkit events and enqueues them on its sink.
//
// Delivery follows sticky-capture semantics: an interaction that starts
// with a button press or touch-down inside the overlay keeps being
// delivered until the matching release, no matter where the contact
// moves in between. Events that start outside the overlay are dropped
// without error.
//
// A Translator is driven from the compositor's dispatch thread only and
// is not safe for concurrent use.
type Translator struct {
	sink   Sink
	keymap Keymap
	mods   *ModifierState

	placement Placement

	pointer     geom.Point // last known pointer position, local space
	pointerSeen bool
	heldButtons map[toolkit.PointerButton]struct{}
	captured    bool

	touches map[toolkit.TouchID]struct{}

	pointerDevices int
}

// NewTranslator returns a translator feeding sink. A nil keymap falls
// back to the built-in US layout.
func NewTranslator(sink Sink, keymap Keymap) *Translator {
	if keymap == nil {
		keymap = USKeymap()
	}
	return &Translator{
		sink:        sink,
		keymap:      keymap,
		mods:        NewModifierState(),
		heldButtons: make(map[toolkit.PointerButton]struct{}),
		touches:     make(map[toolkit.TouchID]struct{}),
	}
}

// SetPlacement updates the overlay geometry used for the device→local
// transform and bounds checks. An in-flight capture is unaffected.
func (t *Translator) SetPlacement(p Placement) {
	if p.Scale <= 0 {
		p.Scale = 1
	}
	t.placement = p
}

// Placement returns the current overlay geometry.
func (t *Translator) Placement() Placement {
	return t.placement
}

// Modifiers returns the current modifier snapshot.
func (t *Translator) Modifiers() toolkit.Modifiers {
	return t.mods.Snapshot()
}

// ResetModifiers clears the held-modifier set. The surface state calls
// this when keyboard focus leaves the overlay, because the matching
// release events will be routed elsewhere.
func (t *Translator) ResetModifiers() {
	t.mods.Reset()
}

// Idle reports whether no pointer or touch capture is in progress.
func (t *Translator) Idle() bool {
	return !t.captured && len(t.touches) == 0
}

func (t *Translator) toLocal(device geom.Point) geom.Point {
	return geom.DeviceToLocal(t.placement.Origin, t.placement.Scale).Apply(device)
}

func (t *Translator) inside(local geom.Point) bool {
	return t.placement.localBounds().Contains(local)
}

// KeyboardKey translates a key press or release. Modifier keys update
// the modifier snapshot and are not forwarded; keys outside the
// toolkit's key set are forwarded only if they produce text. A keycode
// the keymap cannot resolve yields an error and no event.
func (t *Translator) KeyboardKey(keycode uint32, pressed bool, at time.Duration) error {
	r, err := t.keymap.Resolve(keycode)
	if err != nil {
		return err
	}
	if t.mods.Handle(r.Sym, pressed) {
		return nil
	}

	key, known := KeyFromKeysym(r.Sym)
	text := ""
	if pressed {
		text = r.Text
	}
	if !known && text == "" {
		return nil
	}
	t.sink.Enqueue(toolkit.KeyEvent{
		Key:       key,
		Text:      text,
		Pressed:   pressed,
		Modifiers: t.mods.Snapshot(),
		Time:      at,
	})
	return nil
}

// PointerMotion translates an absolute pointer position in device
// coordinates. The move is delivered while the pointer is inside the
// overlay or a capture is in progress; otherwise it only refreshes the
// tracked position.
func (t *Translator) PointerMotion(device geom.Point, at time.Duration) {
	local := t.toLocal(device)
	t.pointer = local
	t.pointerSeen = true
	if !t.captured && !t.inside(local) {
		return
	}
	t.sink.Enqueue(toolkit.PointerMoveEvent{
		Pos:       local,
		Modifiers: t.mods.Snapshot(),
		Time:      at,
	})
}

// PointerButton translates a button press or release at the last known
// pointer position. A press inside the overlay enters pointer capture;
// the capture ends when the last held button is released, wherever the
// pointer is by then.
func (t *Translator) PointerButton(code uint32, pressed bool, at time.Duration) {
	button, ok := ButtonFromCode(code)
	if !ok || !t.pointerSeen {
		return
	}
	inside := t.inside(t.pointer)

	if pressed {
		if !t.captured && !inside {
			return
		}
		t.captured = true
		t.heldButtons[button] = struct{}{}
	} else {
		if !t.captured && !inside {
			return
		}
		delete(t.heldButtons, button)
		if len(t.heldButtons) == 0 {
			t.captured = false
		}
	}

	t.sink.Enqueue(toolkit.PointerButtonEvent{
		Pos:       t.pointer,
		Button:    button,
		Pressed:   pressed,
		Modifiers: t.mods.Snapshot(),
		Time:      at,
	})
}

// PointerScroll translates an axis event. The delta arrives in device
// units and is rescaled into logical units. Delivered only while the
// pointer is over the overlay or captured.
func (t *Translator) PointerScroll(delta geom.Point, at time.Duration) {
	if !t.pointerSeen {
		return
	}
	if !t.captured && !t.inside(t.pointer) {
		return
	}
	t.sink.Enqueue(toolkit.ScrollEvent{
		Delta:     delta.Div(t.placement.Scale),
		Modifiers: t.mods.Snapshot(),
		Time:      at,
	})
}

// TouchDown translates a new touch contact. A contact starting outside
// the overlay is ignored for its entire lifetime. A down for an id that
// is already captured replaces the old capture, keeping the sequence
// consistent after a missed up; if the replacing down lands outside the
// overlay, the old capture ends with a balancing up so the toolkit
// never sees an unmatched down.
func (t *Translator) TouchDown(id toolkit.TouchID, device geom.Point, at time.Duration) {
	local := t.toLocal(device)
	if !t.inside(local) {
		if _, ok := t.touches[id]; ok {
			delete(t.touches, id)
			t.sink.Enqueue(toolkit.TouchEvent{
				ID:        id,
				Phase:     toolkit.TouchPhaseUp,
				Pos:       local,
				Modifiers: t.mods.Snapshot(),
				Time:      at,
			})
		}
		return
	}
	t.touches[id] = struct{}{}
	t.sink.Enqueue(toolkit.TouchEvent{
		ID:        id,
		Phase:     toolkit.TouchPhaseDown,
		Pos:       local,
		Modifiers: t.mods.Snapshot(),
		Time:      at,
	})
}

// TouchMove translates motion of a captured contact. Contacts that
// never went down inside the overlay are dropped.
func (t *Translator) TouchMove(id toolkit.TouchID, device geom.Point, at time.Duration) {
	if _, ok := t.touches[id]; !ok {
		return
	}
	t.sink.Enqueue(toolkit.TouchEvent{
		ID:        id,
		Phase:     toolkit.TouchPhaseMove,
		Pos:       t.toLocal(device),
		Modifiers: t.mods.Snapshot(),
		Time:      at,
	})
}

// TouchUp ends a captured contact. The up is delivered regardless of
// position; ups for unknown contacts are dropped.
func (t *Translator) TouchUp(id toolkit.TouchID, device geom.Point, at time.Duration) {
	if _, ok := t.touches[id]; !ok {
		return
	}
	delete(t.touches, id)
	t.sink.Enqueue(toolkit.TouchEvent{
		ID:        id,
		Phase:     toolkit.TouchPhaseUp,
		Pos:       t.toLocal(device),
		Modifiers: t.mods.Snapshot(),
		Time:      at,
	})
}

// PointerDeviceAdded records a new pointer-capable device.
func (t *Translator) PointerDeviceAdded() {
	t.pointerDevices++
}

// PointerDeviceRemoved records the removal of a pointer-capable device.
// When the last one disappears the toolkit is told the pointer is gone
// so it can clear hover state.
func (t *Translator) PointerDeviceRemoved(at time.Duration) {
	if t.pointerDevices > 0 {
		t.pointerDevices--
	}
	if t.pointerDevices == 0 {
		t.pointerSeen = false
		t.captured = false
		clear(t.heldButtons)
		t.sink.Enqueue(toolkit.PointerGoneEvent{Time: at})
	}
}
