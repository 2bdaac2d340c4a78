package geom

import "testing"

func TestRectContains(t *testing.T) {
	r := RectFromOriginSize(Pt(0, 0), Sz(100, 50))

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"interior", Pt(50, 25), true},
		{"min corner inclusive", Pt(0, 0), true},
		{"max corner exclusive", Pt(100, 50), false},
		{"right edge exclusive", Pt(100, 25), false},
		{"outside left", Pt(-1, 25), false},
		{"outside below", Pt(50, 51), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	a := RectFromOriginSize(Pt(0, 0), Sz(10, 10))
	b := RectFromOriginSize(Pt(5, 5), Sz(10, 10))

	got := a.Intersect(b)
	want := Rect{Min: Pt(5, 5), Max: Pt(10, 10)}
	if got != want {
		t.Errorf("Intersect = %v, want %v", got, want)
	}

	c := RectFromOriginSize(Pt(20, 20), Sz(5, 5))
	if !a.Intersect(c).Empty() {
		t.Errorf("Intersect of disjoint rects = %v, want empty", a.Intersect(c))
	}
}

func TestRectUnion(t *testing.T) {
	a := RectFromOriginSize(Pt(0, 0), Sz(10, 10))
	b := RectFromOriginSize(Pt(20, 5), Sz(10, 10))

	got := a.Union(b)
	want := Rect{Min: Pt(0, 0), Max: Pt(30, 15)}
	if got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}

	if got := (Rect{}).Union(a); got != a {
		t.Errorf("Union with empty = %v, want %v", got, a)
	}
	if got := a.Union(Rect{}); got != a {
		t.Errorf("Union with empty = %v, want %v", got, a)
	}
}

func TestRectOverlaps(t *testing.T) {
	a := RectFromOriginSize(Pt(0, 0), Sz(10, 10))
	if !a.Overlaps(RectFromOriginSize(Pt(9, 9), Sz(5, 5))) {
		t.Error("expected overlap at corner")
	}
	if a.Overlaps(RectFromOriginSize(Pt(10, 0), Sz(5, 5))) {
		t.Error("edge-adjacent rects must not overlap")
	}
	if a.Overlaps(Rect{}) {
		t.Error("empty rect must not overlap anything")
	}
}

func TestRectScaleTranslate(t *testing.T) {
	r := RectFromOriginSize(Pt(1, 2), Sz(3, 4))

	scaled := r.ScaleBy(2)
	if scaled.Min != Pt(2, 4) || scaled.Max != Pt(8, 12) {
		t.Errorf("ScaleBy(2) = %v", scaled)
	}

	moved := r.Translate(Pt(10, 20))
	if moved.Min != Pt(11, 22) || moved.Max != Pt(14, 26) {
		t.Errorf("Translate = %v", moved)
	}
}

func TestMatrixApply(t *testing.T) {
	m := Translation(10, 20).Multiply(Scaling(2, 2))
	got := m.Apply(Pt(3, 4))
	want := Pt(16, 28)
	if got != want {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestDeviceToLocal(t *testing.T) {
	// Overlay at (100,50) on a scale-2 output: device (300,250) is
	// local (100,100).
	m := DeviceToLocal(Pt(100, 50), 2.0)
	got := m.Apply(Pt(300, 250))
	want := Pt(100, 100)
	if got != want {
		t.Errorf("DeviceToLocal apply = %v, want %v", got, want)
	}
}

func TestLocalToDeviceRoundTrip(t *testing.T) {
	origin := Pt(100, 50)
	const scale = 2.0

	p := Pt(37, 81)
	device := LocalToDevice(origin, scale).Apply(p)
	back := DeviceToLocal(origin, scale).Apply(device)
	if back != p {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}
