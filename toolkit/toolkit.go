// Package toolkit defines the contract between the overlay bridge and
// the embedded immediate-mode GUI toolkit.
//
// The toolkit itself is an external collaborator: this package contains
// only the narrow surface the bridge depends on: the per-frame input
// it feeds in (FrameInput with the translated event sequence) and the
// paint output it consumes (clipped triangle meshes plus texture
// deltas). Widget implementations, layout, and font rasterization all
// live behind the Context interface.
package toolkit

import (
	"image"
	"time"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/wayoverlay/geom"
)

// Context is the toolkit's retained state object across frames (layout
// cache, widget IDs, animation clocks). A Context is exclusively owned
// by one surface state and must only be driven from the compositor's
// render thread, once per frame.
type Context interface {
	// Run drives exactly one paint pass over the given frame input and
	// returns the primitives to draw. Implementations decide what to
	// paint (the embedding application's UI function); the bridge only
	// transports input in and meshes out.
	//
	// Run must be bounded: no unbounded layout loops. There is no
	// cancellation; a call runs to completion or fails.
	Run(in FrameInput) (Output, error)

	// WantsKeyboard reports whether the toolkit is currently interested
	// in keyboard input (e.g. a focused text field). The compositor's
	// focus-arbitration policy consumes this signal.
	WantsKeyboard() bool

	// WantsPointer reports whether the toolkit is currently interested
	// in the pointer, e.g. it is over a toolkit window or mid-drag.
	// When false the compositor may route pointer input to ordinary
	// clients instead.
	WantsPointer() bool
}

// FrameInput is everything the toolkit needs for one paint pass.
type FrameInput struct {
	// ScreenRect is the overlay's drawable area in logical units,
	// origin at the top-left.
	ScreenRect geom.Rect

	// PixelsPerPoint is the output scale factor (physical pixels per
	// logical unit).
	PixelsPerPoint float64

	// Time is the monotonic time since the overlay was attached, used
	// by the toolkit for animations.
	Time time.Duration

	// PredictedFrameTime is the expected duration until the next
	// frame, typically one output refresh period.
	PredictedFrameTime time.Duration

	// Modifiers is the modifier snapshot at frame start.
	Modifiers Modifiers

	// Events is the translated input sequence drained for this frame,
	// in arrival order.
	Events []Event
}

// TextureID identifies a toolkit-managed texture (font atlas, user
// images). IDs are allocated by the toolkit and remain valid across
// frames until the toolkit lists them in TexturesDelta.Free.
type TextureID uint64

// TextureUpdate describes a new or changed toolkit texture.
type TextureUpdate struct {
	ID TextureID

	// Pos is the top-left corner of a partial update, or nil when the
	// whole texture is (re)defined at the image's dimensions.
	Pos *image.Point

	// Image holds the pixel data for the updated region.
	Image *image.RGBA
}

// TexturesDelta lists texture changes produced by one paint pass.
// Set entries are applied before the frame's meshes are drawn, Free
// entries after.
type TexturesDelta struct {
	Set  []TextureUpdate
	Free []TextureID
}

// Empty reports whether the delta carries no changes.
func (d TexturesDelta) Empty() bool {
	return len(d.Set) == 0 && len(d.Free) == 0
}

// Vertex is one mesh vertex in logical coordinates with a premultiplied
// sRGBA color.
type Vertex struct {
	Pos   f32.Vec2
	UV    f32.Vec2
	Color [4]uint8
}

// Mesh is an indexed triangle list sampling a single texture.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Texture  TextureID
}

// ClippedMesh pairs a mesh with its clip rectangle in logical
// coordinates.
type ClippedMesh struct {
	Clip geom.Rect
	Mesh Mesh
}

// Output is the product of one paint pass. Meshes and deltas are valid
// only for the frame that produced them; retained texture IDs stay
// alive until freed.
type Output struct {
	Meshes   []ClippedMesh
	Textures TexturesDelta

	// UsedRect is the sub-area of the screen rect the toolkit actually
	// painted, in logical coordinates. Empty means nothing was drawn.
	UsedRect geom.Rect
}
