// Package input translates compositor-native input events into the
// toolkit's event model. It owns the modifier state, the keymap
// contract, and the pointer/touch capture state machine; everything
// downstream of the Translator sees only overlay-local coordinates.
package input

import "github.com/gogpu/wayoverlay/toolkit"

// Keysym is an XKB keysym value, the layout-resolved identity of a key.
type Keysym uint32

// The keysyms the bridge recognizes. Values match the xkbcommon
// definitions so that any layout-aware keymap service can be plugged in
// unchanged.
const (
	KeysymSpace Keysym = 0x0020

	Keysym0 Keysym = 0x0030
	Keysym9 Keysym = 0x0039

	KeysymA Keysym = 0x0061 // lowercase Latin a..z
	KeysymZ Keysym = 0x007a

	KeysymBackSpace Keysym = 0xff08
	KeysymTab       Keysym = 0xff09
	KeysymReturn    Keysym = 0xff0d
	KeysymEscape    Keysym = 0xff1b
	KeysymHome      Keysym = 0xff50
	KeysymLeft      Keysym = 0xff51
	KeysymUp        Keysym = 0xff52
	KeysymRight     Keysym = 0xff53
	KeysymDown      Keysym = 0xff54
	KeysymPageUp    Keysym = 0xff55
	KeysymPageDown  Keysym = 0xff56
	KeysymEnd       Keysym = 0xff57
	KeysymInsert    Keysym = 0xff63
	KeysymDelete    Keysym = 0xffff

	KeysymShiftL   Keysym = 0xffe1
	KeysymShiftR   Keysym = 0xffe2
	KeysymControlL Keysym = 0xffe3
	KeysymControlR Keysym = 0xffe4
	KeysymAltL     Keysym = 0xffe9
	KeysymAltR     Keysym = 0xffea
	KeysymSuperL   Keysym = 0xffeb
	KeysymSuperR   Keysym = 0xffec
)

// Resolved is the result of a keymap lookup: the keysym plus any UTF-8
// text the key press produces under the current layout state.
type Resolved struct {
	Sym  Keysym
	Text string
}

// Keymap is the external keymap-service collaborator. Implementations
// are expected to wrap the compositor's layout-aware keymap (xkbcommon
// or equivalent); the bridge never interprets raw keycodes itself.
type Keymap interface {
	// Resolve maps a device keycode (in the compositor's keycode
	// space, i.e. already offset from evdev by 8) to a keysym. An
	// error means the keycode has no binding in the active layout;
	// the event is then dropped and logged, never fatal.
	Resolve(keycode uint32) (Resolved, error)
}

// KeyFromKeysym converts a keysym into the toolkit's closed key set.
// Returns false for keysyms the toolkit has no notion of.
func KeyFromKeysym(sym Keysym) (toolkit.Key, bool) {
	switch {
	case sym >= Keysym0 && sym <= Keysym9:
		return toolkit.KeyNum0 + toolkit.Key(sym-Keysym0), true
	case sym >= KeysymA && sym <= KeysymZ:
		return toolkit.KeyA + toolkit.Key(sym-KeysymA), true
	}

	switch sym {
	case KeysymDown:
		return toolkit.KeyArrowDown, true
	case KeysymLeft:
		return toolkit.KeyArrowLeft, true
	case KeysymRight:
		return toolkit.KeyArrowRight, true
	case KeysymUp:
		return toolkit.KeyArrowUp, true
	case KeysymEscape:
		return toolkit.KeyEscape, true
	case KeysymTab:
		return toolkit.KeyTab, true
	case KeysymBackSpace:
		return toolkit.KeyBackspace, true
	case KeysymReturn:
		return toolkit.KeyEnter, true
	case KeysymSpace:
		return toolkit.KeySpace, true
	case KeysymInsert:
		return toolkit.KeyInsert, true
	case KeysymDelete:
		return toolkit.KeyDelete, true
	case KeysymHome:
		return toolkit.KeyHome, true
	case KeysymEnd:
		return toolkit.KeyEnd, true
	case KeysymPageUp:
		return toolkit.KeyPageUp, true
	case KeysymPageDown:
		return toolkit.KeyPageDown, true
	}
	return 0, false
}

// evdev keycode constants for the built-in fallback keymap, offset by 8
// into X keycode space as Wayland compositors deliver them.
const (
	keycodeOffset = 8
)

// usKeymap is a built-in fallback Keymap covering the keys of a plain
// US layout. It exists so the bridge works without a keymap service;
// real deployments should wire the compositor's xkb state instead,
// which also resolves shift levels and dead keys (this table does not).
type usKeymap struct{}

// USKeymap returns the built-in fallback keymap.
func USKeymap() Keymap {
	return usKeymap{}
}

var usKeycodes = map[uint32]Resolved{
	1 + keycodeOffset:   {Sym: KeysymEscape},
	14 + keycodeOffset:  {Sym: KeysymBackSpace},
	15 + keycodeOffset:  {Sym: KeysymTab},
	28 + keycodeOffset:  {Sym: KeysymReturn},
	29 + keycodeOffset:  {Sym: KeysymControlL},
	42 + keycodeOffset:  {Sym: KeysymShiftL},
	54 + keycodeOffset:  {Sym: KeysymShiftR},
	56 + keycodeOffset:  {Sym: KeysymAltL},
	57 + keycodeOffset:  {Sym: KeysymSpace, Text: " "},
	97 + keycodeOffset:  {Sym: KeysymControlR},
	100 + keycodeOffset: {Sym: KeysymAltR},
	102 + keycodeOffset: {Sym: KeysymHome},
	103 + keycodeOffset: {Sym: KeysymUp},
	104 + keycodeOffset: {Sym: KeysymPageUp},
	105 + keycodeOffset: {Sym: KeysymLeft},
	106 + keycodeOffset: {Sym: KeysymRight},
	107 + keycodeOffset: {Sym: KeysymEnd},
	108 + keycodeOffset: {Sym: KeysymDown},
	109 + keycodeOffset: {Sym: KeysymPageDown},
	110 + keycodeOffset: {Sym: KeysymInsert},
	111 + keycodeOffset: {Sym: KeysymDelete},
	125 + keycodeOffset: {Sym: KeysymSuperL},
}

func init() {
	// Digit row: evdev 2..11 maps to 1..9,0.
	for i := uint32(0); i < 9; i++ {
		sym := Keysym0 + Keysym(i) + 1
		usKeycodes[2+i+keycodeOffset] = Resolved{Sym: sym, Text: string(rune(sym))}
	}
	usKeycodes[11+keycodeOffset] = Resolved{Sym: Keysym0, Text: "0"}

	// Letter rows, QWERTY order.
	rows := []struct {
		base    uint32
		letters string
	}{
		{16, "qwertyuiop"},
		{30, "asdfghjkl"},
		{44, "zxcvbnm"},
	}
	for _, row := range rows {
		for i, ch := range row.letters {
			sym := KeysymA + Keysym(ch-'a')
			usKeycodes[row.base+uint32(i)+keycodeOffset] = Resolved{Sym: sym, Text: string(ch)}
		}
	}
}

func (usKeymap) Resolve(keycode uint32) (Resolved, error) {
	r, ok := usKeycodes[keycode]
	if !ok {
		return Resolved{}, &UnboundKeycodeError{Keycode: keycode}
	}
	return r, nil
}

// UnboundKeycodeError reports a keycode with no binding in the active
// layout.
type UnboundKeycodeError struct {
	Keycode uint32
}

func (e *UnboundKeycodeError) Error() string {
	return "input: keycode has no binding in active layout"
}
