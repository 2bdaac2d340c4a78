package input

import "github.com/gogpu/wayoverlay/toolkit"

// ModifierState tracks which modifier keys are physically held on the
// keyboard focused on the overlay. It is fed every key event, including
// ones that never reach the toolkit, so that the snapshot stays correct
// while non-modifier keys are dropped.
type ModifierState struct {
	held map[Keysym]struct{}
}

// NewModifierState returns an empty modifier state.
func NewModifierState() *ModifierState {
	return &ModifierState{held: make(map[Keysym]struct{})}
}

// modifierKind classifies a keysym as a modifier, or returns false.
func modifierKind(sym Keysym) (Keysym, bool) {
	switch sym {
	case KeysymShiftL, KeysymShiftR,
		KeysymControlL, KeysymControlR,
		KeysymAltL, KeysymAltR,
		KeysymSuperL, KeysymSuperR:
		return sym, true
	}
	return 0, false
}

// Handle records a modifier press or release. It reports whether the
// keysym was a modifier key.
func (m *ModifierState) Handle(sym Keysym, pressed bool) bool {
	key, ok := modifierKind(sym)
	if !ok {
		return false
	}
	if pressed {
		m.held[key] = struct{}{}
	} else {
		delete(m.held, key)
	}
	return true
}

// Reset clears all held modifiers. Called when keyboard focus leaves
// the overlay, since release events for held keys will go elsewhere.
func (m *ModifierState) Reset() {
	clear(m.held)
}

func (m *ModifierState) any(syms ...Keysym) bool {
	for _, s := range syms {
		if _, ok := m.held[s]; ok {
			return true
		}
	}
	return false
}

// Snapshot returns the current modifier combination in toolkit form.
func (m *ModifierState) Snapshot() toolkit.Modifiers {
	return toolkit.Modifiers{
		Shift: m.any(KeysymShiftL, KeysymShiftR),
		Ctrl:  m.any(KeysymControlL, KeysymControlR),
		Alt:   m.any(KeysymAltL, KeysymAltR),
		Logo:  m.any(KeysymSuperL, KeysymSuperR),
	}
}
