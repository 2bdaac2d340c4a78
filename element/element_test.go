package element

import (
	"image"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/gogpu/wayoverlay/geom"
	"github.com/gogpu/wayoverlay/render"
)

func testOutput(damage ...geom.Rect) *render.Output {
	return &render.Output{
		Damage:       damage,
		LogicalSize:  geom.Sz(200, 150),
		PhysicalSize: image.Pt(400, 300),
		Scale:        2.0,
	}
}

func TestComposeDestination(t *testing.T) {
	p := Placement{Position: geom.Pt(100, 50), Z: 3, Alpha: 0.75}
	el := Compose(ulid.Make(), testOutput(), p)

	want := geom.Rect{Min: geom.Pt(100, 50), Max: geom.Pt(500, 350)}
	if el.Dest != want {
		t.Errorf("Dest = %v, want %v", el.Dest, want)
	}
	if el.Z != 3 {
		t.Errorf("Z = %d, want 3", el.Z)
	}
	if el.Alpha != 0.75 {
		t.Errorf("Alpha = %v, want 0.75", el.Alpha)
	}
}

func TestComposeDamageToDeviceSpace(t *testing.T) {
	local := geom.RectFromOriginSize(geom.Pt(10, 20), geom.Sz(30, 40))
	p := Placement{Position: geom.Pt(100, 50), Alpha: 1}

	el := Compose(ulid.Make(), testOutput(local), p)
	if len(el.Damage) != 1 {
		t.Fatalf("got %d damage rects, want 1", len(el.Damage))
	}
	// device = local*2 + (100,50)
	want := geom.Rect{Min: geom.Pt(120, 90), Max: geom.Pt(180, 170)}
	if el.Damage[0] != want {
		t.Errorf("Damage = %v, want %v", el.Damage[0], want)
	}
}

func TestComposeEmptyDamageStaysEmpty(t *testing.T) {
	el := Compose(ulid.Make(), testOutput(), Placement{Alpha: 1})
	if len(el.Damage) != 0 {
		t.Errorf("Damage = %v, want empty", el.Damage)
	}
}

func TestComposeClipsDamageToDest(t *testing.T) {
	// Damage partially beyond the logical bounds gets clipped to the
	// destination rectangle.
	wild := geom.Rect{Min: geom.Pt(190, 140), Max: geom.Pt(300, 200)}
	p := Placement{Position: geom.Pt(0, 0), Alpha: 1}

	el := Compose(ulid.Make(), testOutput(wild), p)
	if len(el.Damage) != 1 {
		t.Fatalf("got %d damage rects, want 1", len(el.Damage))
	}
	want := geom.Rect{Min: geom.Pt(380, 280), Max: geom.Pt(400, 300)}
	if el.Damage[0] != want {
		t.Errorf("Damage = %v, want %v", el.Damage[0], want)
	}
}

func TestComposeCarriesIdentity(t *testing.T) {
	id := ulid.Make()
	out := testOutput()
	el := Compose(id, out, Placement{Alpha: 1})

	if el.ID != id {
		t.Error("element lost its overlay id")
	}
	if el.Output != out {
		t.Error("element does not reference the frame output")
	}
}
