package raster

import (
	"testing"

	"github.com/modelingevolution/blazor-blaze-sub001/canvas"
	"github.com/modelingevolution/blazor-blaze-sub001/layer"
	"github.com/modelingevolution/blazor-blaze-sub001/matrix"
)

func newTestCanvas(t *testing.T, w, h int) (*Canvas, *layer.Pool) {
	t.Helper()
	p := layer.NewPool()
	ls, err := p.Rent(w, h)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCanvas(ls.Layer()).(*Canvas)
	return c, p
}

func opaquePixelCount(c *Canvas) int {
	n := 0
	pix := c.img.Pix
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0 {
			n++
		}
	}
	return n
}

func TestClearIsFullyTransparent(t *testing.T) {
	c, _ := newTestCanvas(t, 8, 8)
	c.DrawRect(canvas.Pt(0, 0), 8, 8, canvas.Color{R: 255, A: 255}, 1)
	if opaquePixelCount(c) == 0 {
		t.Fatal("expected DrawRect to have painted something")
	}
	c.Clear()
	if n := opaquePixelCount(c); n != 0 {
		t.Errorf("Clear left %d opaque pixels", n)
	}
}

func TestDrawLinePaintsPixels(t *testing.T) {
	c, _ := newTestCanvas(t, 16, 16)
	c.DrawLine(canvas.Pt(1, 1), canvas.Pt(14, 1), canvas.Color{G: 255, A: 255}, 2)
	if opaquePixelCount(c) == 0 {
		t.Fatal("expected DrawLine to paint at least one pixel")
	}
}

func TestSaveRestoreMatrixStack(t *testing.T) {
	c, _ := newTestCanvas(t, 4, 4)
	c.SetMatrix(matrix.Identity())
	c.Save()
	c.SetMatrix(matrix.NewAffine2D(2, 0, 5, 0, 2, 5))
	c.Restore()
	if c.cur != matrix.Identity() {
		t.Errorf("Restore should have reverted to the saved matrix, got %+v", c.cur)
	}
}

func TestRestoreOnEmptyStackIsNoop(t *testing.T) {
	c, _ := newTestCanvas(t, 4, 4)
	m := matrix.NewAffine2D(2, 0, 0, 0, 2, 0)
	c.SetMatrix(m)
	c.Restore()
	if c.cur != m {
		t.Error("Restore on an empty stack must not change the current matrix")
	}
}

func TestDrawTextDoesNotPanicOnEmptyString(t *testing.T) {
	c, _ := newTestCanvas(t, 32, 16)
	c.DrawText(canvas.Pt(0, 10), "", canvas.Color{A: 255}, 13)
}

func TestDrawCirclePaintsPixels(t *testing.T) {
	c, _ := newTestCanvas(t, 32, 32)
	c.DrawCircle(canvas.Pt(16, 16), 8, canvas.Color{B: 255, A: 255}, 1)
	if opaquePixelCount(c) == 0 {
		t.Fatal("expected DrawCircle to paint at least one pixel")
	}
}

// TestZeroThicknessOmitsStrokePass checks that a thickness of 0 paints
// nothing, for every primitive that strokes through strokeSegment, per
// canvas.Canvas's documented contract ("a thickness of 0 omits the stroke
// pass entirely").
func TestZeroThicknessOmitsStrokePass(t *testing.T) {
	stroke := canvas.Color{R: 255, G: 255, B: 255, A: 255}

	c, _ := newTestCanvas(t, 32, 32)
	c.DrawLine(canvas.Pt(1, 1), canvas.Pt(30, 1), stroke, 0)
	c.DrawRect(canvas.Pt(2, 2), 10, 10, stroke, 0)
	c.DrawCircle(canvas.Pt(16, 16), 8, stroke, 0)
	c.DrawPolygon([]canvas.Point{canvas.Pt(0, 0), canvas.Pt(5, 5), canvas.Pt(10, 0)}, stroke, 0)

	if n := opaquePixelCount(c); n != 0 {
		t.Errorf("thickness 0 painted %d opaque pixels, want 0", n)
	}
}
