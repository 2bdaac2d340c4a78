package wayoverlay

import (
	"time"

	"github.com/gogpu/wayoverlay/input"
)

// Option configures an Overlay during creation.
//
// Example:
//
//	// Defaults: opaque, z-order 0, built-in US keymap.
//	overlay, err := wayoverlay.New(newConsole, app)
//
//	// Layout-aware keymap and translucent composition:
//	overlay, err := wayoverlay.New(newConsole, app,
//	    wayoverlay.WithKeymap(xkbKeymap),
//	    wayoverlay.WithAlpha(0.9),
//	)
type Option func(*overlayOptions)

// overlayOptions holds optional configuration for Overlay creation.
type overlayOptions struct {
	keymap    input.Keymap
	alpha     float64
	z         int
	frameTime time.Duration
}

// defaultOptions returns the default overlay options.
func defaultOptions() overlayOptions {
	return overlayOptions{
		keymap: nil, // NewTranslator falls back to the built-in US layout
		alpha:  1,
	}
}

// WithKeymap sets the keymap service used to resolve keycodes,
// typically a wrapper around the compositor's xkb state. Without it the
// built-in US-layout fallback is used.
func WithKeymap(km input.Keymap) Option {
	return func(o *overlayOptions) {
		o.keymap = km
	}
}

// WithAlpha sets the overlay's opacity in [0, 1]. The bridge bakes it
// into the rendered texture, so the produced elements composite at
// alpha 1.
func WithAlpha(alpha float64) Option {
	return func(o *overlayOptions) {
		o.alpha = alpha
	}
}

// WithZOrder sets the overlay's z-order in the compositor scene.
// Larger values composite closer to the viewer.
func WithZOrder(z int) Option {
	return func(o *overlayOptions) {
		o.z = z
	}
}

// WithFrameTime sets the predicted frame duration reported to the
// toolkit, normally the target output's refresh period. Defaults to
// 1/60 s.
func WithFrameTime(d time.Duration) Option {
	return func(o *overlayOptions) {
		o.frameTime = d
	}
}
