// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wayoverlay/toolkit"
)

func newTestStore(t *testing.T) (*textureStore, func()) {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)

	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "test_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		}},
	})
	if err != nil {
		cleanup()
		t.Fatalf("CreateBindGroupLayout failed: %v", err)
	}

	store := newTextureStore(device, queue, layout)
	return store, func() {
		store.destroy()
		device.DestroyBindGroupLayout(layout)
		cleanup()
	}
}

func texUpdate(id toolkit.TextureID, pos *image.Point, w, h int) toolkit.TextureUpdate {
	return toolkit.TextureUpdate{
		ID:    id,
		Pos:   pos,
		Image: image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

func TestTextureStoreWholeDefine(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.applyOne(texUpdate(1, nil, 64, 64)); err != nil {
		t.Fatalf("applyOne failed: %v", err)
	}
	if _, ok := store.bindFor(1); !ok {
		t.Fatal("texture 1 not resident")
	}
	if got := store.entries[1].size; got != image.Pt(64, 64) {
		t.Errorf("size = %v, want 64x64", got)
	}
}

func TestTextureStoreSubRectUpdate(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.applyOne(texUpdate(1, nil, 64, 64)); err != nil {
		t.Fatalf("define failed: %v", err)
	}
	first := store.entries[1]

	pos := image.Pt(16, 16)
	if err := store.applyOne(texUpdate(1, &pos, 8, 8)); err != nil {
		t.Fatalf("sub-rect update failed: %v", err)
	}
	if store.entries[1] != first {
		t.Error("in-bounds sub-rect update reallocated the texture")
	}
}

func TestTextureStoreGrowReallocates(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.applyOne(texUpdate(1, nil, 64, 64)); err != nil {
		t.Fatalf("define failed: %v", err)
	}
	first := store.entries[1]

	pos := image.Pt(60, 60)
	if err := store.applyOne(texUpdate(1, &pos, 16, 16)); err != nil {
		t.Fatalf("growing update failed: %v", err)
	}
	if store.entries[1] == first {
		t.Error("out-of-bounds sub-rect kept the old allocation")
	}
	if got := store.entries[1].size; got != image.Pt(76, 76) {
		t.Errorf("grown size = %v, want 76x76", got)
	}
}

func TestTextureStoreResizeViaWholeDefine(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.applyOne(texUpdate(1, nil, 64, 64)); err != nil {
		t.Fatalf("define failed: %v", err)
	}
	if err := store.applyOne(texUpdate(1, nil, 128, 128)); err != nil {
		t.Fatalf("redefine failed: %v", err)
	}
	if got := store.entries[1].size; got != image.Pt(128, 128) {
		t.Errorf("size after redefine = %v, want 128x128", got)
	}
}

func TestTextureStoreFree(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.applyOne(texUpdate(1, nil, 64, 64)); err != nil {
		t.Fatalf("define failed: %v", err)
	}
	store.free([]toolkit.TextureID{1})
	if _, ok := store.bindFor(1); ok {
		t.Error("texture 1 still resident after free")
	}
	store.free([]toolkit.TextureID{1}) // double free is a no-op
}
