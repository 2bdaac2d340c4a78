// Package element composes the compositor-facing view of an overlay.
// An Element is a transient value rebuilt from the current render
// output and placement every compositor frame; it holds no state of its
// own and must not be cached across frames.
package element

import (
	"github.com/oklog/ulid/v2"

	"github.com/gogpu/wayoverlay/geom"
	"github.com/gogpu/wayoverlay/render"
)

// Placement positions an overlay in the compositor scene.
type Placement struct {
	// Position is the overlay origin in output-device coordinates.
	Position geom.Point

	// Z orders the element against other scene elements; larger is
	// closer to the viewer.
	Z int

	// Alpha is the composition opacity in [0, 1], applied by the
	// compositor on top of whatever opacity the texture already
	// carries. Callers whose renderer pre-fades the texture pass 1.
	Alpha float64
}

// Element is one frame's renderable view of an overlay, ready for the
// compositor's scene traversal. The texture reference inside Output is
// borrowed from the render bridge and valid for this frame only.
type Element struct {
	// ID identifies the overlay across frames so the compositor can
	// correlate damage with retained scene nodes.
	ID ulid.ULID

	// Output is the bridge's frame product backing this element.
	Output *render.Output

	// Dest is the rectangle the texture covers, in device coordinates.
	Dest geom.Rect

	// Damage lists changed regions in device coordinates. Empty means
	// the compositor may skip recompositing this element.
	Damage []geom.Rect

	Z     int
	Alpha float64
}

// Compose builds the element for one frame from a render output and a
// placement. Damage is carried from local to device coordinates with
//
//	device = local*scale + position
//
// and clipped to the destination rectangle.
func Compose(id ulid.ULID, out *render.Output, p Placement) Element {
	toDevice := geom.LocalToDevice(p.Position, out.Scale)
	dest := toDevice.ApplyRect(geom.RectFromOriginSize(geom.Point{}, out.LogicalSize))

	damage := make([]geom.Rect, 0, len(out.Damage))
	for _, r := range out.Damage {
		dr := toDevice.ApplyRect(r).Intersect(dest)
		if !dr.Empty() {
			damage = append(damage, dr)
		}
	}

	return Element{
		ID:     id,
		Output: out,
		Dest:   dest,
		Damage: damage,
		Z:      p.Z,
		Alpha:  p.Alpha,
	}
}
