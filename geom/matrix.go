package geom

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translation creates a translation matrix.
func Translation(x, y float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scaling creates a scaling matrix.
func Scaling(x, y float64) Matrix {
	return Matrix{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Multiply returns the matrix product m * n, i.e. the transform that
// applies n first and m second.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.D,
		B: m.A*n.B + m.B*n.E,
		C: m.A*n.C + m.B*n.F + m.C,
		D: m.D*n.A + m.E*n.D,
		E: m.D*n.B + m.E*n.E,
		F: m.D*n.C + m.E*n.F + m.F,
	}
}

// Apply transforms the point p by the matrix.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// ApplyRect transforms both corners of r. Only valid for matrices
// without rotation or shear, which is all this module ever builds.
func (m Matrix) ApplyRect(r Rect) Rect {
	return Rect{Min: m.Apply(r.Min), Max: m.Apply(r.Max)}
}

// DeviceToLocal returns the transform from output-device coordinates
// into overlay-local (logical) coordinates for an overlay positioned at
// origin on an output with the given scale factor:
//
//	local = (device - origin) / scale
func DeviceToLocal(origin Point, scale float64) Matrix {
	return Scaling(1/scale, 1/scale).Multiply(Translation(-origin.X, -origin.Y))
}

// LocalToDevice returns the inverse of DeviceToLocal:
//
//	device = local * scale + origin
func LocalToDevice(origin Point, scale float64) Matrix {
	return Translation(origin.X, origin.Y).Multiply(Scaling(scale, scale))
}
