// Package wayoverlay bridges an immediate-mode GUI toolkit into a
// Wayland compositor's scene, for debug consoles, admin panels, and
// similar overlays drawn on top of normal client content.
//
// # Overview
//
// The bridge sits between three collaborators: the compositor's input
// dispatch, the embedded toolkit, and the compositor's renderer. Per
// overlay it owns four pieces:
//
//   - input.Translator: converts device-space events into toolkit-space
//     events with sticky pointer/touch capture and modifier tracking.
//   - surface.State: the toolkit context plus the per-frame input queue
//     and focus flags.
//   - render.Bridge: drives one toolkit paint pass per output refresh
//     and uploads the result to a compositable GPU texture.
//   - element.Element: the per-frame composition handle with placement,
//     z-order, opacity, and device-space damage.
//
// # Quick Start
//
//	overlay, err := wayoverlay.New(newDebugConsole, app)
//	if err != nil { ... }
//
//	// When the overlay becomes visible on an output:
//	err = overlay.Attach(wayoverlay.OutputGeometry{
//	    Name:     "DP-1",
//	    Position: geom.Pt(100, 50),
//	    Size:     geom.Sz(800, 600),
//	    Scale:    2.0,
//	})
//
//	// From input dispatch:
//	overlay.PointerMotion(geom.Pt(300, 250), timestamp)
//
//	// Once per output refresh:
//	el, err := overlay.Render()
//	// hand el to the compositor's scene traversal
//
// # Threading
//
// Everything here follows the compositor's single-threaded frame loop:
// input methods and Render must be called from the same thread. Only
// SetLogger is safe for concurrent use.
package wayoverlay
