// Package drawctx implements the per-layer drawing state the decoder and
// encoder both mutate via SetContext/Save/Restore/Reset operations: a value
// type State plus a bounded save-stack, generalized from
// gioui.org/op's StackOp save/restore discipline to a stack bounded by a
// depth set at construction, 16 by default (the wire format has no way to signal a stack fault, so
// overflow/underflow here are fail-soft, never errors).
package drawctx

import "github.com/modelingevolution/blazor-blaze-sub001/matrix"

// Color is an RGBA color, 4 unsigned 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

// Black and Transparent are the defaults DefaultState uses.
var (
	Black       = Color{R: 0, G: 0, B: 0, A: 0xFF}
	Transparent = Color{}
)

// Point is an integer point in layer-local pixel space, matching the wire's
// Point (a pair of 32-bit signed integers).
type Point struct {
	X, Y int32
}

// Matrix is the wire's explicit 6-float affine transform.
type Matrix struct {
	ScaleX, SkewX, TransX float32
	SkewY, ScaleY, TransY float32
}

// Affine2D converts m to the matrix package's representation.
func (m Matrix) Affine2D() matrix.Affine2D {
	return matrix.NewAffine2D(m.ScaleX, m.SkewX, m.TransX, m.SkewY, m.ScaleY, m.TransY)
}

// State carries the drawing state applied to all subsequent draw
// operations until changed. The zero value is NOT State's default; use
// DefaultState for the spec's documented defaults.
type State struct {
	Stroke    Color
	Fill      Color
	FontColor Color
	Thickness int // >= 0
	FontSize  int // > 0

	Offset   Point
	Rotation float32 // degrees
	Scale    ScaleFactor
	Skew     ScaleFactor

	HasMatrix bool
	Matrix    Matrix
}

// ScaleFactor is a pair of float scale/skew factors on the two axes.
type ScaleFactor struct {
	X, Y float32
}

// DefaultState returns the specification's documented default state:
// stroke=black, fill=transparent, thickness=1, font=12/black, offset=0,
// rotation=0, scale=(1,1), skew=0, matrix=none.
func DefaultState() State {
	return State{
		Stroke:    Black,
		Fill:      Transparent,
		FontColor: Black,
		Thickness: 1,
		FontSize:  12,
		Scale:     ScaleFactor{X: 1, Y: 1},
	}
}

// ComposeMatrix returns the affine transform current draw operations should
// use: the state's explicit Matrix when present, otherwise the composition
// of scale, skew, rotation and offset per the specification's order
// (M = T*R*K*S).
func (s State) ComposeMatrix() matrix.Affine2D {
	if s.HasMatrix {
		return s.Matrix.Affine2D()
	}
	return matrix.Compose(
		matrix.Pt(float32(s.Offset.X), float32(s.Offset.Y)),
		s.Rotation,
		matrix.Pt(s.Scale.X, s.Scale.Y),
		matrix.Pt(s.Skew.X, s.Skew.Y),
	)
}
