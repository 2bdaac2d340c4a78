// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DeviceHandle provides GPU device access from the host compositor.
//
// The bridge RECEIVES the device from the host, it does NOT create one.
// The compositor already owns a GPU device for its own scene rendering;
// sharing it keeps overlay textures directly compositable without a
// cross-device copy.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, giving the
// integration point a local name while staying compatible with the
// gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// HALHandle wraps a raw HAL device and queue into a DeviceHandle, for
// embedders that drive the HAL directly rather than through gogpu.
type HALHandle struct {
	device hal.Device
	queue  hal.Queue
}

// NewHALHandle returns a DeviceHandle backed directly by device and
// queue.
func NewHALHandle(device hal.Device, queue hal.Queue) *HALHandle {
	return &HALHandle{device: device, queue: queue}
}

// Device returns nil; the handle carries HAL types only.
func (*HALHandle) Device() gpucontext.Device { return nil }

// Queue returns nil; the handle carries HAL types only.
func (*HALHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil; the handle carries HAL types only.
func (*HALHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined; the bridge renders offscreen.
func (*HALHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// HalDevice returns the wrapped hal.Device.
func (h *HALHandle) HalDevice() any { return h.device }

// HalQueue returns the wrapped hal.Queue.
func (h *HALHandle) HalQueue() any { return h.queue }

// Ensure HALHandle implements DeviceHandle.
var _ DeviceHandle = (*HALHandle)(nil)

// halFromHandle extracts the underlying HAL device and queue from a
// provider. The provider must additionally expose HalDevice() any and
// HalQueue() any, as gogpu.App does.
func halFromHandle(handle DeviceHandle) (hal.Device, hal.Queue, error) {
	if handle == nil {
		return nil, nil, ErrNilDevice
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := handle.(halProvider)
	if !ok {
		return nil, nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALAccess)
	}
	return device, queue, nil
}
