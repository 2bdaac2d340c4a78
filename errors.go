package wayoverlay

import "errors"

// Sentinel errors for overlay lifecycle misuse. Match with errors.Is.
var (
	// ErrNilContextFactory indicates New was called without a toolkit
	// context factory.
	ErrNilContextFactory = errors.New("wayoverlay: nil toolkit context factory")

	// ErrNotAttached indicates an operation that requires the overlay
	// to be attached to an output.
	ErrNotAttached = errors.New("wayoverlay: overlay not attached")

	// ErrAlreadyAttached indicates Attach on an attached overlay.
	ErrAlreadyAttached = errors.New("wayoverlay: overlay already attached")

	// ErrInvalidGeometry indicates an output geometry with a zero size
	// or non-positive scale.
	ErrInvalidGeometry = errors.New("wayoverlay: invalid output geometry")
)
