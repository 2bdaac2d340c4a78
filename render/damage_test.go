// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/wayoverlay/geom"
	"github.com/gogpu/wayoverlay/toolkit"
)

// quadOutput builds a one-mesh output covering the given rect.
func quadOutput(r geom.Rect, shade uint8) toolkit.Output {
	mesh := toolkit.Mesh{
		Vertices: []toolkit.Vertex{
			{Pos: f32.Vec2{float32(r.Min.X), float32(r.Min.Y)}, Color: [4]uint8{shade, shade, shade, 255}},
			{Pos: f32.Vec2{float32(r.Max.X), float32(r.Min.Y)}, Color: [4]uint8{shade, shade, shade, 255}},
			{Pos: f32.Vec2{float32(r.Max.X), float32(r.Max.Y)}, Color: [4]uint8{shade, shade, shade, 255}},
			{Pos: f32.Vec2{float32(r.Min.X), float32(r.Max.Y)}, Color: [4]uint8{shade, shade, shade, 255}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
		Texture: 1,
	}
	return toolkit.Output{
		Meshes:   []toolkit.ClippedMesh{{Clip: r, Mesh: mesh}},
		UsedRect: r,
	}
}

func TestDamageFirstFrameIsFull(t *testing.T) {
	var d damageTracker
	out := quadOutput(geom.RectFromOriginSize(geom.Pt(10, 10), geom.Sz(50, 50)), 128)

	damage := d.update(out)
	if len(damage) == 0 {
		t.Fatal("first frame produced no damage")
	}
}

func TestDamageEmptyWhenUnchanged(t *testing.T) {
	var d damageTracker
	out := quadOutput(geom.RectFromOriginSize(geom.Pt(10, 10), geom.Sz(50, 50)), 128)

	d.update(out)
	if damage := d.update(out); len(damage) != 0 {
		t.Errorf("identical frame produced damage %v", damage)
	}
	if damage := d.update(out); len(damage) != 0 {
		t.Errorf("third identical frame produced damage %v", damage)
	}
}

func TestDamageOnContentChange(t *testing.T) {
	var d damageTracker
	r := geom.RectFromOriginSize(geom.Pt(10, 10), geom.Sz(50, 50))

	d.update(quadOutput(r, 128))
	damage := d.update(quadOutput(r, 129)) // one shade off
	if len(damage) == 0 {
		t.Fatal("changed vertex colors produced no damage")
	}
}

func TestDamageOnTextureDelta(t *testing.T) {
	var d damageTracker
	out := quadOutput(geom.RectFromOriginSize(geom.Pt(10, 10), geom.Sz(50, 50)), 128)

	d.update(out)
	withDelta := out
	withDelta.Textures = toolkit.TexturesDelta{Free: []toolkit.TextureID{7}}
	if damage := d.update(withDelta); len(damage) == 0 {
		t.Error("texture delta produced no damage")
	}
}

func TestDamageCoversVacatedArea(t *testing.T) {
	var d damageTracker
	big := geom.RectFromOriginSize(geom.Pt(0, 0), geom.Sz(100, 100))
	small := geom.RectFromOriginSize(geom.Pt(0, 0), geom.Sz(20, 20))

	d.update(quadOutput(big, 128))
	damage := d.update(quadOutput(small, 128))

	union := geom.Rect{}
	for _, r := range damage {
		union = union.Union(r)
	}
	if !union.Contains(geom.Pt(90, 90)) {
		t.Errorf("damage %v does not cover the vacated area", damage)
	}
}

func TestDamageResetForcesFull(t *testing.T) {
	var d damageTracker
	out := quadOutput(geom.RectFromOriginSize(geom.Pt(10, 10), geom.Sz(50, 50)), 128)

	d.update(out)
	d.reset()
	if damage := d.update(out); len(damage) == 0 {
		t.Error("no damage after reset")
	}
}

func TestMergeRectFoldsOverlaps(t *testing.T) {
	a := geom.RectFromOriginSize(geom.Pt(0, 0), geom.Sz(10, 10))
	b := geom.RectFromOriginSize(geom.Pt(5, 5), geom.Sz(10, 10))
	c := geom.RectFromOriginSize(geom.Pt(100, 100), geom.Sz(5, 5))

	rects := mergeRect(nil, a)
	rects = mergeRect(rects, c)
	rects = mergeRect(rects, b)

	if len(rects) != 2 {
		t.Fatalf("got %d rects, want 2", len(rects))
	}
	var merged geom.Rect
	for _, r := range rects {
		if r.Overlaps(a) {
			merged = r
		}
	}
	want := geom.Rect{Min: geom.Pt(0, 0), Max: geom.Pt(15, 15)}
	if merged != want {
		t.Errorf("merged rect = %v, want %v", merged, want)
	}
}

func TestMergeRectChainReaction(t *testing.T) {
	// c bridges a and b, so all three must fold into one.
	a := geom.RectFromOriginSize(geom.Pt(0, 0), geom.Sz(10, 10))
	b := geom.RectFromOriginSize(geom.Pt(20, 0), geom.Sz(10, 10))
	c := geom.RectFromOriginSize(geom.Pt(5, 0), geom.Sz(20, 10))

	rects := mergeRect(nil, a)
	rects = mergeRect(rects, b)
	rects = mergeRect(rects, c)

	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1", len(rects))
	}
	want := geom.Rect{Min: geom.Pt(0, 0), Max: geom.Pt(30, 10)}
	if rects[0] != want {
		t.Errorf("folded rect = %v, want %v", rects[0], want)
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	r := geom.RectFromOriginSize(geom.Pt(0, 0), geom.Sz(10, 10))
	base := outputFingerprint(quadOutput(r, 100))

	if outputFingerprint(quadOutput(r, 100)) != base {
		t.Error("fingerprint not deterministic")
	}
	if outputFingerprint(quadOutput(r, 101)) == base {
		t.Error("fingerprint ignored color change")
	}

	moved := quadOutput(r.Translate(geom.Pt(1, 0)), 100)
	if outputFingerprint(moved) == base {
		t.Error("fingerprint ignored geometry change")
	}
}
