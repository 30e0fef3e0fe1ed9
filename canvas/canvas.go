// Package canvas declares the drawing capability set the decoder and
// encoder target: an abstract 2D drawing surface with primitives, a
// transform/matrix stack, and a clear operation. The concrete rasterizer
// behind a Canvas is an external collaborator in production (a GPU
// compositor, say); internal/raster supplies a minimal reference software
// implementation purely so this module's own tests exercise real pixels.
package canvas

import "github.com/modelingevolution/blazor-blaze-sub001/matrix"

// Color is an RGBA color, matching drawctx.Color's layout.
type Color struct {
	R, G, B, A uint8
}

// Point is a layer-local pixel coordinate.
type Point struct {
	X, Y int32
}

// Pt is a convenience constructor for Point.
func Pt(x, y int32) Point {
	return Point{X: x, Y: y}
}

// Canvas is the capability set a decoder/encoder drives. Coordinates are in
// layer-local pixel space; the caller is responsible for calling SetMatrix
// with the composed transform after every context-mutating operation so
// that Save/Restore can cheaply re-establish it on the canvas's own matrix
// stack.
type Canvas interface {
	// SetMatrix installs m as the transform applied to all subsequent
	// drawing calls, until the next SetMatrix.
	SetMatrix(m matrix.Affine2D)
	// Save pushes the canvas's current matrix onto its own stack.
	Save()
	// Restore pops the canvas's matrix stack, restoring the previous
	// matrix. A restore on an empty stack is a no-op.
	Restore()
	// Clear sets every pixel to fully transparent.
	Clear()

	// DrawPolygon strokes the open polyline through pts using the given
	// stroke color and thickness. Zero points is a legal no-op. Fill of
	// polygons is not a wire-level operation (see DESIGN.md, Open Question
	// resolutions).
	DrawPolygon(pts []Point, stroke Color, thickness int)
	// DrawText draws s with its baseline origin at pt, using the given
	// font color and size.
	DrawText(pt Point, s string, color Color, fontSize int)
	// DrawCircle strokes a circle of the given radius centered at c. A
	// thickness of 0 omits the stroke pass entirely.
	DrawCircle(c Point, radius int, stroke Color, thickness int)
	// DrawRect strokes the axis-aligned rectangle with top-left origin at
	// pt and the given width/height.
	DrawRect(pt Point, w, h int, stroke Color, thickness int)
	// DrawLine strokes a segment from p1 to p2.
	DrawLine(p1, p2 Point, stroke Color, thickness int)
}
