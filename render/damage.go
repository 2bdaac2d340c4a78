// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/gogpu/wayoverlay/geom"
	"github.com/gogpu/wayoverlay/toolkit"
)

// damageTracker decides which logical regions changed between
// consecutive toolkit outputs. Tracking is content based: a frame whose
// meshes and textures hash identically to the previous one produces no
// damage, letting the compositor skip recomposition entirely.
type damageTracker struct {
	lastHash uint64
	lastUsed geom.Rect
	hasFrame bool
}

// update returns the damaged regions for out, in logical coordinates.
// The first frame damages the whole used area.
func (d *damageTracker) update(out toolkit.Output) []geom.Rect {
	hash := outputFingerprint(out)
	changed := !d.hasFrame || hash != d.lastHash || !out.Textures.Empty()

	prevUsed := d.lastUsed
	d.lastHash = hash
	d.lastUsed = out.UsedRect
	d.hasFrame = true

	if !changed {
		return nil
	}

	var rects []geom.Rect
	for _, cm := range out.Meshes {
		r := cm.Clip.Intersect(out.UsedRect)
		if !r.Empty() {
			rects = mergeRect(rects, r)
		}
	}
	// Area the previous frame painted but this one does not must be
	// repainted too, or stale pixels would linger.
	if !prevUsed.Empty() {
		rects = mergeRect(rects, prevUsed)
	}
	if len(rects) == 0 && !out.UsedRect.Empty() {
		rects = append(rects, out.UsedRect)
	}
	return rects
}

// reset forgets the previous frame, forcing full damage on the next.
func (d *damageTracker) reset() {
	*d = damageTracker{}
}

// mergeRect inserts r into rects, folding it together with every rect
// it overlaps so the result stays mutually disjoint.
func mergeRect(rects []geom.Rect, r geom.Rect) []geom.Rect {
	for {
		merged := false
		out := rects[:0]
		for _, existing := range rects {
			if existing.Overlaps(r) {
				r = r.Union(existing)
				merged = true
			} else {
				out = append(out, existing)
			}
		}
		rects = out
		if !merged {
			return append(rects, r)
		}
	}
}

// outputFingerprint hashes the drawable content of one toolkit output.
// Texture deltas are deliberately excluded; they are checked separately
// since a delta always implies damage.
func outputFingerprint(out toolkit.Output) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	u64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	f64 := func(v float64) { u64(math.Float64bits(v)) }
	f32bits := func(v float32) {
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(v))
		h.Write(buf[:4])
	}
	rect := func(r geom.Rect) {
		f64(r.Min.X)
		f64(r.Min.Y)
		f64(r.Max.X)
		f64(r.Max.Y)
	}

	u64(uint64(len(out.Meshes)))
	for _, cm := range out.Meshes {
		rect(cm.Clip)
		u64(uint64(cm.Mesh.Texture))
		u64(uint64(len(cm.Mesh.Vertices)))
		for _, v := range cm.Mesh.Vertices {
			f32bits(v.Pos[0])
			f32bits(v.Pos[1])
			f32bits(v.UV[0])
			f32bits(v.UV[1])
			h.Write(v.Color[:])
		}
		u64(uint64(len(cm.Mesh.Indices)))
		for _, idx := range cm.Mesh.Indices {
			binary.LittleEndian.PutUint32(buf[:4], idx)
			h.Write(buf[:4])
		}
	}
	rect(out.UsedRect)

	return h.Sum64()
}
