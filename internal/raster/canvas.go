// Package raster supplies the reference software canvas.Canvas: a
// golang.org/x/image/vector-backed
// rasterizer composited onto an *image.RGBA, the same pairing
// gioui.org/raster.Rasterizer.Frame uses (vector.Rasterizer for path fills,
// image/draw.Draw for the final composite). Production renderers are
// expected to supply their own canvas.Canvas (a GPU compositor, typically);
// this package's own tests exercise the drawing primitives on real pixels
// without a GPU (the decoder and stage tests use recording test doubles).
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"golang.org/x/text/unicode/norm"

	"github.com/modelingevolution/blazor-blaze-sub001/canvas"
	"github.com/modelingevolution/blazor-blaze-sub001/layer"
	"github.com/modelingevolution/blazor-blaze-sub001/matrix"
)

// Canvas is the reference implementation of canvas.Canvas. It is not safe
// for concurrent use; the specification confines every canvas to the single
// decoder goroutine that owns its layer for the duration of one frame.
type Canvas struct {
	img   *image.RGBA
	cur   matrix.Affine2D
	stack []matrix.Affine2D
}

var _ canvas.Canvas = (*Canvas)(nil)

// NewCanvas adapts l's pixel buffer into a Canvas. It is a stage.CanvasFactory.
func NewCanvas(l *layer.Layer) canvas.Canvas {
	return &Canvas{img: l.Pix, cur: matrix.Identity()}
}

func (c *Canvas) SetMatrix(m matrix.Affine2D) { c.cur = m }

func (c *Canvas) Save() { c.stack = append(c.stack, c.cur) }

func (c *Canvas) Restore() {
	if n := len(c.stack); n > 0 {
		c.cur = c.stack[n-1]
		c.stack = c.stack[:n-1]
	}
}

func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
}

func (c *Canvas) transform(p canvas.Point) matrix.Point {
	return c.cur.Transform(matrix.Pt(float32(p.X), float32(p.Y)))
}

// DrawPolygon strokes the open polyline through pts: every consecutive pair
// is rendered as a filled quad of the given thickness via a
// vector.Rasterizer, mirroring how gioui.org/raster.Rasterizer fills a
// clip's path with vector.NewRasterizer + Draw.
func (c *Canvas) DrawPolygon(pts []canvas.Point, stroke canvas.Color, thickness int) {
	for i := 0; i+1 < len(pts); i++ {
		c.strokeSegment(c.transform(pts[i]), c.transform(pts[i+1]), stroke, thickness)
	}
}

func (c *Canvas) DrawLine(p1, p2 canvas.Point, stroke canvas.Color, thickness int) {
	c.strokeSegment(c.transform(p1), c.transform(p2), stroke, thickness)
}

func (c *Canvas) DrawRect(pt canvas.Point, w, h int, stroke canvas.Color, thickness int) {
	x0, y0 := pt.X, pt.Y
	x1, y1 := pt.X+int32(w), pt.Y+int32(h)
	corners := []canvas.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0}}
	c.DrawPolygon(corners, stroke, thickness)
}

func (c *Canvas) DrawCircle(center canvas.Point, radius int, stroke canvas.Color, thickness int) {
	const segments = 48
	pts := make([]canvas.Point, segments+1)
	for i := 0; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / segments
		pts[i] = canvas.Pt(
			center.X+int32(float64(radius)*math.Cos(theta)),
			center.Y+int32(float64(radius)*math.Sin(theta)),
		)
	}
	c.DrawPolygon(pts, stroke, thickness)
}

// strokeSegment fills the quad obtained by offsetting the p1->p2 segment by
// half of thickness along its normal, using the same
// vector.Rasterizer+image/draw pairing gioui.org/raster.go uses for filled
// paths.
func (c *Canvas) strokeSegment(p1, p2 matrix.Point, stroke canvas.Color, thickness int) {
	if thickness <= 0 {
		return
	}
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		dx, dy, length = 1, 0, 1
	}
	half := float32(thickness) / 2
	nx, ny := -dy/length*half, dx/length*half

	quad := [4]matrix.Point{
		{X: p1.X + nx, Y: p1.Y + ny},
		{X: p2.X + nx, Y: p2.Y + ny},
		{X: p2.X - nx, Y: p2.Y - ny},
		{X: p1.X - nx, Y: p1.Y - ny},
	}

	bounds := c.img.Bounds()
	vr := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	vr.DrawOp = draw.Over
	vr.MoveTo(quad[0].X, quad[0].Y)
	vr.LineTo(quad[1].X, quad[1].Y)
	vr.LineTo(quad[2].X, quad[2].Y)
	vr.LineTo(quad[3].X, quad[3].Y)
	vr.ClosePath()

	src := image.NewUniform(toNRGBA(stroke))
	vr.Draw(c.img, bounds, src, image.Point{})
}

// DrawText draws s with its baseline origin at pt using a fixed bitmap
// font (golang.org/x/image/font/basicfont), after NFC-normalizing the
// input with golang.org/x/text/unicode/norm; complex text shaping
// (combining marks, bidi, ligatures) is out of scope (see SPEC_FULL.md
// Non-goals). fontSize is not applied: every glyph is drawn at
// basicfont.Face7x13's fixed 7x13 size.
func (c *Canvas) DrawText(pt canvas.Point, s string, col canvas.Color, fontSize int) {
	normalized := norm.NFC.String(s)
	origin := c.transform(pt)
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(toNRGBA(col)),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(origin.X), int(origin.Y)),
	}
	d.DrawString(normalized)
}

func toNRGBA(c canvas.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
