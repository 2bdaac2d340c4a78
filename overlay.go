package wayoverlay

import (
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/gogpu/wayoverlay/element"
	"github.com/gogpu/wayoverlay/geom"
	"github.com/gogpu/wayoverlay/input"
	"github.com/gogpu/wayoverlay/render"
	"github.com/gogpu/wayoverlay/surface"
	"github.com/gogpu/wayoverlay/toolkit"
)

// OutputGeometry describes where an overlay lives on an output.
type OutputGeometry struct {
	// Name is the compositor's identifier for the output ("DP-1").
	Name string

	// Position is the overlay origin in output-device coordinates.
	Position geom.Point

	// Size is the overlay's drawable area in logical units.
	Size geom.Size

	// Scale is the output's scale factor (physical pixels per logical
	// unit).
	Scale float64
}

func (g OutputGeometry) valid() bool {
	return !g.Size.Empty() && g.Scale > 0
}

// Overlay is the compositor-facing handle for one toolkit overlay. It
// ties the translator, surface state, and render bridge together across
// the overlay's Detached → Attached → Detached lifecycle.
//
// An Overlay is confined to the compositor's main thread.
type Overlay struct {
	newContext func() toolkit.Context
	device     render.DeviceHandle
	opts       overlayOptions

	id         ulid.ULID
	state      *surface.State
	translator *input.Translator
	bridge     *render.Bridge
	geometry   OutputGeometry
	attached   bool
}

// New creates a detached overlay. newContext builds a fresh toolkit
// context on every Attach, so a detach/reattach cycle starts from a
// clean toolkit state. device is the compositor's shared GPU device.
func New(newContext func() toolkit.Context, device render.DeviceHandle, opts ...Option) (*Overlay, error) {
	if newContext == nil {
		return nil, ErrNilContextFactory
	}
	o := &Overlay{
		newContext: newContext,
		device:     device,
		opts:       defaultOptions(),
	}
	for _, opt := range opts {
		opt(&o.opts)
	}
	return o, nil
}

// ID identifies the overlay across frames. The zero value until the
// first Attach; stable between Attach and Detach.
func (o *Overlay) ID() ulid.ULID {
	return o.id
}

// Attached reports whether the overlay is currently on an output.
func (o *Overlay) Attached() bool {
	return o.attached
}

// Attach places the overlay on an output, creating a fresh toolkit
// context, surface state, and render bridge.
func (o *Overlay) Attach(g OutputGeometry) error {
	if o.attached {
		return ErrAlreadyAttached
	}
	if !g.valid() {
		return fmt.Errorf("%w: %+v", ErrInvalidGeometry, g)
	}

	bridge, err := render.NewBridge(o.device)
	if err != nil {
		return err
	}
	bridge.SetAlpha(o.opts.alpha)
	if o.opts.frameTime > 0 {
		bridge.SetFrameTime(o.opts.frameTime)
	}

	o.id = ulid.Make()
	o.state = surface.New(o.newContext())
	o.translator = input.NewTranslator(o.state, o.opts.keymap)
	o.translator.SetPlacement(input.Placement{
		Origin: g.Position,
		Size:   g.Size,
		Scale:  g.Scale,
	})
	o.state.OnKeyboardFocusLost(o.translator.ResetModifiers)
	o.bridge = bridge
	o.geometry = g
	o.attached = true

	Logger().Info("overlay attached",
		"id", o.id.String(),
		"output", g.Name,
		"size", fmt.Sprintf("%gx%g", g.Size.W, g.Size.H),
		"scale", g.Scale)
	return nil
}

// Detach removes the overlay from its output and tears down the toolkit
// context, surface state, and GPU resources. Idempotent.
func (o *Overlay) Detach() {
	if !o.attached {
		return
	}
	o.bridge.Close()
	o.bridge = nil
	o.state = nil
	o.translator = nil
	o.attached = false

	Logger().Info("overlay detached", "id", o.id.String(), "output", o.geometry.Name)
}

// UpdateOutput applies a changed output geometry (move, resize, scale
// change) without disturbing the toolkit state or an in-flight capture.
func (o *Overlay) UpdateOutput(g OutputGeometry) error {
	if !o.attached {
		return ErrNotAttached
	}
	if !g.valid() {
		return fmt.Errorf("%w: %+v", ErrInvalidGeometry, g)
	}
	o.geometry = g
	o.translator.SetPlacement(input.Placement{
		Origin: g.Position,
		Size:   g.Size,
		Scale:  g.Scale,
	})
	return nil
}

// Render drives one toolkit frame and returns the overlay's element for
// this compositor frame. On GPU resource exhaustion the frame is
// skipped with a warning and the error is returned; the overlay stays
// attached for a retry on the next refresh.
func (o *Overlay) Render() (element.Element, error) {
	if !o.attached {
		return element.Element{}, ErrNotAttached
	}

	out, err := o.bridge.Render(o.state, o.geometry.Size, o.geometry.Scale, o.translator.Modifiers())
	if err != nil {
		if errors.Is(err, render.ErrGPUResourceExhausted) {
			Logger().Warn("overlay frame skipped", "id", o.id.String(), "err", err)
		}
		return element.Element{}, err
	}

	// Opacity is already baked into the texture by the bridge shader;
	// handing it to the compositor as well would fade the overlay twice.
	return element.Compose(o.id, out, element.Placement{
		Position: o.geometry.Position,
		Z:        o.opts.z,
		Alpha:    1,
	}), nil
}

// WantsKeyboard reports whether the toolkit currently wants keyboard
// input, for the compositor's focus-arbitration policy.
func (o *Overlay) WantsKeyboard() bool {
	return o.attached && o.state.Context().WantsKeyboard()
}

// WantsPointer reports whether the toolkit currently wants the pointer.
func (o *Overlay) WantsPointer() bool {
	return o.attached && o.state.Context().WantsPointer()
}

// TakeKeyboardFocus marks the overlay as keyboard-focused.
func (o *Overlay) TakeKeyboardFocus() {
	if o.attached {
		o.state.TakeKeyboardFocus()
	}
}

// ReleaseKeyboardFocus clears keyboard focus and drops held modifiers,
// since their release events will be routed elsewhere.
func (o *Overlay) ReleaseKeyboardFocus() {
	if o.attached {
		o.state.ReleaseKeyboardFocus()
	}
}

// TakePointerFocus marks the overlay as pointer-focused.
func (o *Overlay) TakePointerFocus() {
	if o.attached {
		o.state.TakePointerFocus()
	}
}

// ReleasePointerFocus clears pointer focus.
func (o *Overlay) ReleasePointerFocus() {
	if o.attached {
		o.state.ReleasePointerFocus()
	}
}

// KeyboardKey feeds a key press or release from input dispatch.
// Keycodes the keymap cannot resolve are dropped with a warning.
func (o *Overlay) KeyboardKey(keycode uint32, pressed bool, at time.Duration) {
	if !o.attached {
		return
	}
	if err := o.translator.KeyboardKey(keycode, pressed, at); err != nil {
		Logger().Warn("keycode dropped", "id", o.id.String(), "keycode", keycode, "err", err)
	}
}

// PointerMotion feeds an absolute pointer position in device
// coordinates.
func (o *Overlay) PointerMotion(device geom.Point, at time.Duration) {
	if o.attached {
		o.translator.PointerMotion(device, at)
	}
}

// PointerButton feeds a button press or release. code is a Linux button
// code (BTN_LEFT and friends).
func (o *Overlay) PointerButton(code uint32, pressed bool, at time.Duration) {
	if o.attached {
		o.translator.PointerButton(code, pressed, at)
	}
}

// PointerScroll feeds an axis event with the delta in device units.
func (o *Overlay) PointerScroll(delta geom.Point, at time.Duration) {
	if o.attached {
		o.translator.PointerScroll(delta, at)
	}
}

// TouchDown feeds a new touch contact at a device-space position.
func (o *Overlay) TouchDown(id toolkit.TouchID, device geom.Point, at time.Duration) {
	if o.attached {
		o.translator.TouchDown(id, device, at)
	}
}

// TouchMove feeds motion of an existing contact.
func (o *Overlay) TouchMove(id toolkit.TouchID, device geom.Point, at time.Duration) {
	if o.attached {
		o.translator.TouchMove(id, device, at)
	}
}

// TouchUp feeds the end of a contact.
func (o *Overlay) TouchUp(id toolkit.TouchID, device geom.Point, at time.Duration) {
	if o.attached {
		o.translator.TouchUp(id, device, at)
	}
}

// PointerDeviceAdded records a new pointer-capable input device.
func (o *Overlay) PointerDeviceAdded() {
	if o.attached {
		o.translator.PointerDeviceAdded()
	}
}

// PointerDeviceRemoved records the removal of a pointer-capable device.
func (o *Overlay) PointerDeviceRemoved() {
	if o.attached {
		o.translator.PointerDeviceRemoved(o.state.Elapsed())
	}
}
