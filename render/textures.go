// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wayoverlay/toolkit"
)

// textureEntry is one toolkit-managed texture resident on the GPU.
type textureEntry struct {
	tex  hal.Texture
	view hal.TextureView
	bind hal.BindGroup
	size image.Point
}

// textureStore keeps toolkit textures (font atlas, user images) alive
// across frames until the toolkit frees them. Each entry carries its
// own bind group so meshes can switch textures with one SetBindGroup.
type textureStore struct {
	device hal.Device
	queue  hal.Queue
	layout hal.BindGroupLayout

	entries map[toolkit.TextureID]*textureEntry
}

func newTextureStore(device hal.Device, queue hal.Queue, layout hal.BindGroupLayout) *textureStore {
	return &textureStore{
		device:  device,
		queue:   queue,
		layout:  layout,
		entries: make(map[toolkit.TextureID]*textureEntry),
	}
}

// apply uploads the frame's Set entries. Called before the frame's
// meshes are drawn so every referenced texture is current.
func (s *textureStore) apply(updates []toolkit.TextureUpdate) error {
	for _, up := range updates {
		if err := s.applyOne(up); err != nil {
			return err
		}
	}
	return nil
}

func (s *textureStore) applyOne(up toolkit.TextureUpdate) error {
	if up.Image == nil {
		return nil
	}
	bounds := up.Image.Bounds()
	sz := image.Pt(bounds.Dx(), bounds.Dy())
	if sz.X <= 0 || sz.Y <= 0 {
		return nil
	}

	entry := s.entries[up.ID]
	pos := image.Point{}
	if up.Pos != nil {
		pos = *up.Pos
	}

	if up.Pos == nil {
		// Whole-texture definition at the image's dimensions.
		if entry != nil && entry.size != sz {
			s.release(entry)
			entry = nil
		}
	} else if entry == nil || pos.X+sz.X > entry.size.X || pos.Y+sz.Y > entry.size.Y {
		// A partial update that does not fit forces a reallocation at
		// the covering size. The toolkit re-sends full content after a
		// resize, so dropping the old pixels is safe.
		if entry != nil {
			s.release(entry)
			entry = nil
		}
		pos = image.Point{}
	}

	if entry == nil {
		var err error
		entry, err = s.allocate(up.ID, image.Pt(pos.X+sz.X, pos.Y+sz.Y))
		if err != nil {
			return err
		}
		s.entries[up.ID] = entry
	}

	s.upload(entry, pos, up.Image)
	return nil
}

func (s *textureStore) allocate(id toolkit.TextureID, size image.Point) (*textureEntry, error) {
	label := fmt.Sprintf("overlay_toolkit_tex_%d", id)
	tex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              uint32(size.X),
			Height:             uint32(size.Y),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: texture %dx%d: %w", ErrGPUResourceExhausted, size.X, size.Y, err)
	}

	view, err := s.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.device.DestroyTexture(tex)
		return nil, fmt.Errorf("%w: texture view: %w", ErrGPUResourceExhausted, err)
	}

	bind, err := s.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind",
		Layout: s.layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{
				TextureView: view.NativeHandle(),
			}},
		},
	})
	if err != nil {
		s.device.DestroyTextureView(view)
		s.device.DestroyTexture(tex)
		return nil, fmt.Errorf("%w: texture bind group: %w", ErrGPUResourceExhausted, err)
	}

	return &textureEntry{tex: tex, view: view, bind: bind, size: size}, nil
}

// upload writes img into entry at pos. Rows are repacked when the
// image's stride is wider than its pixel rows.
func (s *textureStore) upload(entry *textureEntry, pos image.Point, img *image.RGBA) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	data := img.Pix
	if img.Stride != w*4 {
		data = make([]byte, w*h*4)
		for y := 0; y < h; y++ {
			src := img.Pix[y*img.Stride : y*img.Stride+w*4]
			copy(data[y*w*4:], src)
		}
	}

	s.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  entry.tex,
			MipLevel: 0,
			Origin: hal.Origin3D{
				X: uint32(pos.X),
				Y: uint32(pos.Y),
			},
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w * 4),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
	)
}

// free releases the frame's Free entries. Called after the frame's
// meshes are drawn, never before.
func (s *textureStore) free(ids []toolkit.TextureID) {
	for _, id := range ids {
		if entry, ok := s.entries[id]; ok {
			s.release(entry)
			delete(s.entries, id)
		}
	}
}

// bindFor returns the bind group for a toolkit texture id.
func (s *textureStore) bindFor(id toolkit.TextureID) (hal.BindGroup, bool) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return entry.bind, true
}

func (s *textureStore) release(entry *textureEntry) {
	if entry.bind != nil {
		s.device.DestroyBindGroup(entry.bind)
	}
	if entry.view != nil {
		s.device.DestroyTextureView(entry.view)
	}
	if entry.tex != nil {
		s.device.DestroyTexture(entry.tex)
	}
}

// destroy releases every resident texture.
func (s *textureStore) destroy() {
	for id, entry := range s.entries {
		s.release(entry)
		delete(s.entries, id)
	}
}
