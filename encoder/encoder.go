// Package encoder implements the producer side of the wire protocol: a
// symmetric mirror of decoder that records per-layer operations into an
// in-memory builder and serializes the same header/layer-block/end-marker
// layout decoder.Decoder consumes.
//
// The recording shape — a builder that appends self-describing byte chunks
// to a growing slice, flushed as one contiguous stream — mirrors
// gioui.org/op's Ops/MacroOp recording API: op.Ops owns the byte buffer and
// a MacroOp is a transient, scoped view over it for the duration of one
// recorded region, exactly the relationship encoder.Frame has to
// encoder.Layer here.
package encoder

import (
	"encoding/binary"
	"io"
	"math"

	"golang.org/x/exp/slices"

	"github.com/modelingevolution/blazor-blaze-sub001/canvas"
	"github.com/modelingevolution/blazor-blaze-sub001/drawctx"
	"github.com/modelingevolution/blazor-blaze-sub001/proto"
	"github.com/modelingevolution/blazor-blaze-sub001/wire"
)

// Frame records one frame's worth of per-layer blocks before Encode
// serializes them in ascending layer-id order (gio's own go.mod requires
// golang.org/x/exp, whose slices.SortFunc performs that ordering here).
type Frame struct {
	id     uint64
	layers []layerRecord
}

type layerRecord struct {
	id        int
	frameType proto.FrameType
	ops       []byte
	opCount   int
}

// BeginFrame starts recording frame id.
func BeginFrame(id uint64) *Frame {
	return &Frame{id: id}
}

// Clear records layerID as a Clear layer (a fresh, empty buffer; no ops).
func (f *Frame) Clear(layerID int) *Frame {
	f.layers = append(f.layers, layerRecord{id: layerID, frameType: proto.Clear})
	return f
}

// Remain records layerID as reusing its prior-frame buffer verbatim.
func (f *Frame) Remain(layerID int) *Frame {
	f.layers = append(f.layers, layerRecord{id: layerID, frameType: proto.Remain})
	return f
}

// Master begins recording a Master layer block and returns a Layer builder
// scoped to it. There is no explicit end call: the caller simply stops using
// the Layer, since Encode reads every recorded layer regardless.
func (f *Frame) Master(layerID int) *Layer {
	idx := len(f.layers)
	f.layers = append(f.layers, layerRecord{id: layerID, frameType: proto.Master})
	return &Layer{frame: f, index: idx}
}

// Encode serializes the recorded frame: header, every layer block in
// ascending layer-id order, and the end marker.
func (f *Frame) Encode() []byte {
	ordered := make([]layerRecord, len(f.layers))
	copy(ordered, f.layers)
	slices.SortFunc(ordered, func(a, b layerRecord) int { return a.id - b.id })

	buf := make([]byte, 0, proto.MinFrameLen+64)
	buf = appendU64LE(buf, f.id)
	buf = append(buf, byte(len(ordered)))
	for _, l := range ordered {
		buf = append(buf, byte(l.id), byte(l.frameType))
		if l.frameType == proto.Master {
			buf = wire.AppendVarint32(buf, uint32(l.opCount))
			buf = append(buf, l.ops...)
		}
	}
	buf = append(buf, proto.EndMarker[:]...)
	return buf
}

// FlushAsync writes the encoded frame to w. The producer-side transport
// itself is out of scope for this module (the caller supplies w, whether
// it wraps a socket, a channel-backed pipe, or anything else); FlushAsync
// only names the point at which a fully recorded Frame leaves this package.
func (f *Frame) FlushAsync(w io.Writer) error {
	_, err := w.Write(f.Encode())
	return err
}

// Layer is a transient recording view over one Master layer block of a
// Frame, analogous to a MacroOp scoped to a region of gio's op.Ops.
type Layer struct {
	frame *Frame
	index int
}

func (l *Layer) rec() *layerRecord { return &l.frame.layers[l.index] }

func (l *Layer) emitOp(op proto.OpCode, payload []byte) *Layer {
	r := l.rec()
	r.ops = append(r.ops, byte(op))
	r.ops = append(r.ops, payload...)
	r.opCount++
	return l
}

// SaveContext records a SaveContext op.
func (l *Layer) SaveContext() *Layer {
	return l.emitOp(proto.OpSaveContext, nil)
}

// RestoreContext records a RestoreContext op.
func (l *Layer) RestoreContext() *Layer {
	return l.emitOp(proto.OpRestoreContext, nil)
}

// ResetContext records a ResetContext op.
func (l *Layer) ResetContext() *Layer {
	return l.emitOp(proto.OpResetContext, nil)
}

// Property is one SetContext property, built by the With* constructors
// below; SetContext batches as many as the caller passes into a single op.
type Property struct {
	code    proto.PropCode
	payload []byte
}

// SetContext records a SetContext op carrying every given Property.
func (l *Layer) SetContext(props ...Property) *Layer {
	payload := wire.AppendVarint32(nil, uint32(len(props)))
	for _, p := range props {
		payload = append(payload, byte(p.code))
		payload = append(payload, p.payload...)
	}
	return l.emitOp(proto.OpSetContext, payload)
}

func colorBytes(c drawctx.Color) []byte { return []byte{c.R, c.G, c.B, c.A} }

func f32leBytes(v float32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	return b[:]
}

// WithStroke sets the stroke color property.
func WithStroke(c drawctx.Color) Property { return Property{proto.PropStroke, colorBytes(c)} }

// WithFill sets the fill color property.
func WithFill(c drawctx.Color) Property { return Property{proto.PropFill, colorBytes(c)} }

// WithFontColor sets the font color property.
func WithFontColor(c drawctx.Color) Property { return Property{proto.PropFontColor, colorBytes(c)} }

// WithThickness sets the stroke thickness property.
func WithThickness(n int) Property {
	return Property{proto.PropThickness, wire.AppendVarint32(nil, uint32(n))}
}

// WithFontSize sets the font size property.
func WithFontSize(n int) Property {
	return Property{proto.PropFontSize, wire.AppendVarint32(nil, uint32(n))}
}

// WithOffset sets the offset property.
func WithOffset(x, y int32) Property {
	payload := wire.WriteSignedVarint(nil, x)
	payload = wire.WriteSignedVarint(payload, y)
	return Property{proto.PropOffset, payload}
}

// WithRotation sets the rotation (degrees) property.
func WithRotation(degrees float32) Property {
	return Property{proto.PropRotation, f32leBytes(degrees)}
}

// WithScale sets the scale property.
func WithScale(x, y float32) Property {
	return Property{proto.PropScale, append(f32leBytes(x), f32leBytes(y)...)}
}

// WithSkew sets the skew property.
func WithSkew(x, y float32) Property {
	return Property{proto.PropSkew, append(f32leBytes(x), f32leBytes(y)...)}
}

// WithMatrix sets the explicit matrix property.
func WithMatrix(m drawctx.Matrix) Property {
	payload := make([]byte, 0, proto.MatrixLen)
	for _, v := range [...]float32{m.ScaleX, m.SkewX, m.TransX, m.SkewY, m.ScaleY, m.TransY} {
		payload = append(payload, f32leBytes(v)...)
	}
	return Property{proto.PropMatrix, payload}
}

// DrawPolygon records a stroked open polyline. The first point is encoded
// absolute; every following point is encoded as a zigzag-varint delta from
// the previous one, matching decoder's delta-accumulation exactly.
func (l *Layer) DrawPolygon(pts []canvas.Point) *Layer {
	payload := wire.AppendVarint32(nil, uint32(len(pts)))
	var prev canvas.Point
	for i, p := range pts {
		if i == 0 {
			payload = wire.WriteSignedVarint(payload, p.X)
			payload = wire.WriteSignedVarint(payload, p.Y)
		} else {
			payload = wire.WriteSignedVarint(payload, p.X-prev.X)
			payload = wire.WriteSignedVarint(payload, p.Y-prev.Y)
		}
		prev = p
	}
	return l.emitOp(proto.OpDrawPolygon, payload)
}

// DrawText records a DrawText op with baseline origin pt.
func (l *Layer) DrawText(pt canvas.Point, s string) *Layer {
	payload := wire.WriteSignedVarint(nil, pt.X)
	payload = wire.WriteSignedVarint(payload, pt.Y)
	payload = wire.AppendVarint32(payload, uint32(len(s)))
	payload = append(payload, s...)
	return l.emitOp(proto.OpDrawText, payload)
}

// DrawCircle records a DrawCircle op.
func (l *Layer) DrawCircle(center canvas.Point, radius int) *Layer {
	payload := wire.WriteSignedVarint(nil, center.X)
	payload = wire.WriteSignedVarint(payload, center.Y)
	payload = wire.AppendVarint32(payload, uint32(radius))
	return l.emitOp(proto.OpDrawCircle, payload)
}

// DrawRect records a DrawRect op.
func (l *Layer) DrawRect(pt canvas.Point, w, h int) *Layer {
	payload := wire.WriteSignedVarint(nil, pt.X)
	payload = wire.WriteSignedVarint(payload, pt.Y)
	payload = wire.AppendVarint32(payload, uint32(w))
	payload = wire.AppendVarint32(payload, uint32(h))
	return l.emitOp(proto.OpDrawRect, payload)
}

// DrawLine records a DrawLine op.
func (l *Layer) DrawLine(p1, p2 canvas.Point) *Layer {
	payload := wire.WriteSignedVarint(nil, p1.X)
	payload = wire.WriteSignedVarint(payload, p1.Y)
	payload = wire.WriteSignedVarint(payload, p2.X)
	payload = wire.WriteSignedVarint(payload, p2.Y)
	return l.emitOp(proto.OpDrawLine, payload)
}

func appendU64LE(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}
