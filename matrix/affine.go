// Package matrix implements the 2D affine transform the wire protocol's
// Matrix property and LayerContext.State's composed transform share: six
// float32 coefficients (scaleX, skewX, transX, skewY, scaleY, transY) with
// an implicit (0, 0, 1) third row.
//
// The method surface (Offset, Scale, Rotate, Shear, Mul, Invert, Transform)
// mirrors gioui.org/f32.Affine2D, whose behavior is pinned by
// gioui.org/f32/affine_test.go; affine_test.go in this package reuses the
// same oracle values.
package matrix

import "math"

// Point is a 2D point in canvas pixel space.
type Point struct {
	X, Y float32
}

// Pt is a convenience constructor for Point.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Affine2D is a 2D affine transform in row-major form:
//
//	| a c e |   | scaleX skewX  transX |
//	| b d f | = | skewY  scaleY transY |
//	| 0 0 1 |   | 0      0      1      |
//
// The zero value is the identity transform.
type Affine2D struct {
	a, b, c, d, e, f float32
}

// Identity returns the identity transform (equal to the zero value, spelled
// out for readability at call sites).
func Identity() Affine2D { return Affine2D{} }

// NewAffine2D builds a transform directly from its six coefficients in wire
// order: scaleX, skewX, transX, skewY, scaleY, transY.
func NewAffine2D(scaleX, skewX, transX, skewY, scaleY, transY float32) Affine2D {
	return Affine2D{a: scaleX, c: skewX, e: transX, b: skewY, d: scaleY, f: transY}
}

// Elems returns the six coefficients in wire order.
func (a Affine2D) Elems() (scaleX, skewX, transX, skewY, scaleY, transY float32) {
	if a == (Affine2D{}) {
		return 1, 0, 0, 0, 1, 0
	}
	return a.a, a.c, a.e, a.b, a.d, a.f
}

// raw returns the coefficients with the identity zero-value convention
// resolved, for use in the arithmetic below.
func (a Affine2D) raw() (sx, kx, tx, ky, sy, ty float32) {
	if a == (Affine2D{}) {
		return 1, 0, 0, 0, 1, 0
	}
	return a.a, a.c, a.e, a.b, a.d, a.f
}

// Offset returns the transform that first applies a, then translates by
// off — so that chaining, e.g. Affine2D{}.Offset(o).Scale(...), applies
// operations in the order written.
func (a Affine2D) Offset(off Point) Affine2D {
	return NewAffine2D(1, 0, off.X, 0, 1, off.Y).Mul(a)
}

// Scale returns the transform that first applies a, then scales by factor
// around origin.
func (a Affine2D) Scale(origin, factor Point) Affine2D {
	s := NewAffine2D(factor.X, 0, origin.X-factor.X*origin.X, 0, factor.Y, origin.Y-factor.Y*origin.Y)
	return s.Mul(a)
}

// Rotate returns the transform that first applies a, then rotates by
// radians around origin.
func (a Affine2D) Rotate(origin Point, radians float32) Affine2D {
	sin, cos := float32(math.Sin(float64(radians))), float32(math.Cos(float64(radians)))
	tx := origin.X - cos*origin.X + sin*origin.Y
	ty := origin.Y - sin*origin.X - cos*origin.Y
	r := NewAffine2D(cos, -sin, tx, sin, cos, ty)
	return r.Mul(a)
}

// Shear returns the transform that first applies a, then shears around
// origin by angles ax, ay (in radians).
func (a Affine2D) Shear(origin Point, ax, ay float32) Affine2D {
	tanx, tany := float32(math.Tan(float64(ax))), float32(math.Tan(float64(ay)))
	tx := -tanx * origin.Y
	ty := -tany * origin.X
	s := NewAffine2D(1, tanx, tx, tany, 1, ty)
	return s.Mul(a)
}

// Mul returns the transform equivalent to first applying b, then a: for a
// point p, a.Mul(b).Transform(p) == a.Transform(b.Transform(p)).
func (a Affine2D) Mul(b Affine2D) Affine2D {
	a0, a1, a2, a3, a4, a5 := a.raw()
	b0, b1, b2, b3, b4, b5 := b.raw()
	return Affine2D{
		a: a0*b0 + a1*b3,
		b: a3*b0 + a4*b3,
		c: a0*b1 + a1*b4,
		d: a3*b1 + a4*b4,
		e: a0*b2 + a1*b5 + a2,
		f: a3*b2 + a4*b5 + a5,
	}
}

// Transform applies a to p.
func (a Affine2D) Transform(p Point) Point {
	sx, kx, tx, ky, sy, ty := a.raw()
	return Point{
		X: sx*p.X + kx*p.Y + tx,
		Y: ky*p.X + sy*p.Y + ty,
	}
}

// Invert returns the inverse transform of a.
func (a Affine2D) Invert() Affine2D {
	sx, kx, tx, ky, sy, ty := a.raw()
	det := sx*sy - kx*ky
	if det == 0 {
		return Affine2D{}
	}
	invDet := 1 / det
	isx := sy * invDet
	iky := -ky * invDet
	ikx := -kx * invDet
	isy := sx * invDet
	itx := -(isx*tx + ikx*ty)
	ity := -(iky*tx + isy*ty)
	return Affine2D{a: isx, b: iky, c: ikx, d: isy, e: itx, f: ity}
}

// Compose builds the transform from an uncomposed LayerContext.State, in
// the order the specification mandates: scale, then skew, then rotation
// (degrees), then translate by offset — M = T*R*K*S applied to identity.
func Compose(offset Point, rotationDegrees float32, scale, skew Point) Affine2D {
	m := Identity()
	m = m.Scale(Point{}, scale)
	m = m.Shear(Point{}, skew.X, skew.Y)
	m = m.Rotate(Point{}, rotationDegrees*math.Pi/180)
	m = m.Offset(offset)
	return m
}
