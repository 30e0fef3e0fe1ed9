// Package layer implements the pooled pixel buffers the stage composes:
// fixed-size Layer bitmaps rented from a dimension-keyed Pool and returned
// exactly once when their Lease drops. The pool itself is a concurrent,
// channel-backed free-list generalized from the commit/release bookkeeping
// in gioui.org/gpu/caches.go's resourceCache (there: a per-frame generation
// swap guarded by ordinary Go maps; here: a standing free-list shared by
// many frames, safe for concurrent Rent/return without a global lock).
package layer

import (
	"image"
)

// Layer is a fixed (Width, Height) pixel buffer. Pixels are stored in an
// *image.RGBA, which holds alpha-premultiplied RGBA.
type Layer struct {
	Width, Height int
	Pix           *image.RGBA
}

func newLayer(w, h int) *Layer {
	return &Layer{Width: w, Height: h, Pix: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Clear sets every pixel to fully transparent.
func (l *Layer) Clear() {
	pix := l.Pix.Pix
	for i := range pix {
		pix[i] = 0
	}
}

func (l *Layer) dims() dimKey {
	return dimKey{w: l.Width, h: l.Height}
}
