// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

// Sentinel errors returned by the render bridge. Match with errors.Is.
var (
	// ErrNilDevice indicates the bridge was created without a device.
	ErrNilDevice = errors.New("render: nil device")

	// ErrNoHALAccess indicates the device handle does not expose the
	// underlying HAL device and queue.
	ErrNoHALAccess = errors.New("render: device handle does not expose HAL access")

	// ErrInvalidSize indicates a render was requested at a zero or
	// negative size.
	ErrInvalidSize = errors.New("render: invalid output size")

	// ErrGPUResourceExhausted indicates the GPU could not allocate a
	// resource for this frame. The frame is skipped; the caller may
	// retry on the next refresh.
	ErrGPUResourceExhausted = errors.New("render: gpu resource exhausted")

	// ErrBridgeClosed indicates use of a bridge after Close.
	ErrBridgeClosed = errors.New("render: bridge closed")

	// ErrUnknownTexture indicates a mesh referenced a texture id that
	// was never set by the toolkit.
	ErrUnknownTexture = errors.New("render: mesh references unknown texture")

	// ErrShaderCompile indicates the composite shader failed to
	// validate on this device.
	ErrShaderCompile = errors.New("render: shader compilation failed")
)
