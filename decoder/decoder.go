// Package decoder implements the stream parser that turns a growing byte
// buffer into Stage/Canvas calls: a two-phase "scan, then replay" design
// grounded on gioui.org/internal/ops/reader.go's Reader.Decode, which walks
// a cursor across an encoded op stream using a type-keyed size table and
// never advances past a short read. Here the size table is implicit in the
// wire format's count prefixes (layer_count, op_count, pt_count),
// but the discipline is the same: a frame is only ever replayed onto the
// Stage after the entire wire representation, end marker included, has been
// confirmed present.
package decoder

import (
	"encoding/binary"
	"math"

	"github.com/modelingevolution/blazor-blaze-sub001/canvas"
	"github.com/modelingevolution/blazor-blaze-sub001/config"
	"github.com/modelingevolution/blazor-blaze-sub001/drawctx"
	"github.com/modelingevolution/blazor-blaze-sub001/proto"
	"github.com/modelingevolution/blazor-blaze-sub001/protoerr"
	"github.com/modelingevolution/blazor-blaze-sub001/stage"
	"github.com/modelingevolution/blazor-blaze-sub001/wire"
)

// Result carries the outcome of a successful Decode call.
type Result struct {
	Consumed   int
	FrameID    uint64
	LayerCount int
}

// Decoder parses frames from a caller-maintained byte buffer and replays
// them onto a Stage. It keeps one drawctx.Context per layer id, persisting
// across frames (a LayerContext survives until the producer emits
// ResetContext), matching spec.md §3's LayerContext lifecycle.
//
// A Decoder is not safe for concurrent use: the specification confines
// decode calls to a single decoder thread.
type Decoder struct {
	cfg   config.Config
	stage *stage.Stage
	ctx   []*drawctx.Context
}

// New builds a Decoder over st, using cfg's MaxLayers/MaxPolygonPoints/
// MaxTextBytes/SaveStackDepth tunables.
func New(cfg config.Config, st *stage.Stage) *Decoder {
	ctxs := make([]*drawctx.Context, cfg.MaxLayers)
	for i := range ctxs {
		ctxs[i] = drawctx.NewContextWithDepth(cfg.SaveStackDepth)
	}
	return &Decoder{cfg: cfg, stage: st, ctx: ctxs}
}

// Decode attempts to parse one frame from the front of buf. It returns
// protoerr.ErrNeedMoreData (via errors.Is) if buf does not yet hold a
// complete frame — the caller must not advance its cursor and should retry
// once more bytes arrive — or a *protoerr.ProtocolError for a malformed
// frame, which is fatal to the stream session. On success it returns the
// number of bytes consumed from the front of buf.
func (d *Decoder) Decode(buf []byte) (Result, error) {
	if len(buf) < proto.MinFrameLen {
		return Result{}, protoerr.ErrNeedMoreData
	}

	c := &cursor{buf: buf}
	frameIDBytes, ok := c.fixed(proto.FrameIDLen)
	if !ok {
		return Result{}, protoerr.ErrNeedMoreData
	}
	frameID := binary.LittleEndian.Uint64(frameIDBytes)

	layerCountByte, ok := c.u8()
	if !ok {
		return Result{}, protoerr.ErrNeedMoreData
	}
	layerCount := int(layerCountByte)

	plans := make([]layerPlan, 0, layerCount)
	for i := 0; i < layerCount; i++ {
		plan, err := d.scanLayer(c)
		if err != nil {
			return Result{}, err
		}
		plans = append(plans, plan)
	}

	endMarker, ok := c.fixed(proto.EndMarkerLen)
	if !ok {
		return Result{}, protoerr.ErrNeedMoreData
	}
	if endMarker[0] != proto.EndMarker[0] || endMarker[1] != proto.EndMarker[1] {
		return Result{}, protoerr.New(protoerr.KindBadFrame, "end marker mismatch: got %x", endMarker)
	}

	// The frame is fully present and well-formed: replay it onto the
	// Stage. Nothing above this point has touched d.stage or any
	// drawctx.Context.
	d.stage.OnFrameStart(frameID)
	for _, p := range plans {
		if err := d.replayLayer(p); err != nil {
			return Result{}, err
		}
	}
	d.stage.OnFrameEnd()

	return Result{Consumed: c.pos, FrameID: frameID, LayerCount: layerCount}, nil
}

type layerPlan struct {
	layerID   int
	frameType proto.FrameType
	ops       []func(ctx *drawctx.Context, cv canvas.Canvas)
}

// scanLayer parses one layer block (layer id, frame type, and — for Master
// — its operation stream) without calling any Stage or drawctx.Context
// method, recording each operation as a closure to be applied only once the
// whole frame is confirmed complete.
func (d *Decoder) scanLayer(c *cursor) (layerPlan, error) {
	layerIDByte, ok := c.u8()
	if !ok {
		return layerPlan{}, protoerr.ErrNeedMoreData
	}
	layerID := int(layerIDByte)
	if layerID >= d.cfg.MaxLayers {
		return layerPlan{}, protoerr.New(protoerr.KindLayerID, "layer id %d out of range [0,%d)", layerID, d.cfg.MaxLayers)
	}

	ftByte, ok := c.u8()
	if !ok {
		return layerPlan{}, protoerr.ErrNeedMoreData
	}
	ft := proto.FrameType(ftByte)
	switch ft {
	case proto.Master, proto.Clear, proto.Remain:
	default:
		return layerPlan{}, protoerr.New(protoerr.KindBadFrame, "unknown frame type %d for layer %d", ftByte, layerID)
	}

	plan := layerPlan{layerID: layerID, frameType: ft}
	if ft != proto.Master {
		return plan, nil
	}

	opCount, ok, err := c.varint32()
	if err != nil {
		return layerPlan{}, err
	}
	if !ok {
		return layerPlan{}, protoerr.ErrNeedMoreData
	}

	for i := uint32(0); i < opCount; i++ {
		opByte, ok := c.u8()
		if !ok {
			return layerPlan{}, protoerr.ErrNeedMoreData
		}
		fn, err := d.scanOp(proto.OpCode(opByte), c)
		if err != nil {
			return layerPlan{}, err
		}
		plan.ops = append(plan.ops, fn)
	}
	return plan, nil
}

// replayLayer applies a scanned layer plan to the Stage: Clear/Remain to
// establish the working entry, then (Master only) every recorded op in
// order against the layer's persistent LayerContext and its fresh canvas.
func (d *Decoder) replayLayer(p layerPlan) error {
	switch p.frameType {
	case proto.Master, proto.Clear:
		if err := d.stage.Clear(p.layerID); err != nil {
			return err
		}
	case proto.Remain:
		return d.stage.Remain(p.layerID)
	}
	if p.frameType != proto.Master {
		return nil
	}
	cv, err := d.stage.CanvasFor(p.layerID)
	if err != nil {
		return err
	}
	ctx := d.ctx[p.layerID]
	cv.SetMatrix(ctx.Current().ComposeMatrix())
	for _, op := range p.ops {
		op(ctx, cv)
	}
	return nil
}

// scanOp parses one operation's payload (dispatched by op code) and returns
// a closure that performs its effect against a LayerContext/Canvas pair
// once the frame is confirmed complete. It returns protoerr.ErrNeedMoreData
// if c runs out of bytes mid-operation.
func (d *Decoder) scanOp(op proto.OpCode, c *cursor) (func(*drawctx.Context, canvas.Canvas), error) {
	switch op {
	case proto.OpSetContext:
		return d.scanSetContext(c)
	case proto.OpSaveContext:
		return func(ctx *drawctx.Context, cv canvas.Canvas) {
			ctx.Save()
		}, nil
	case proto.OpRestoreContext:
		return func(ctx *drawctx.Context, cv canvas.Canvas) {
			ctx.Restore()
			cv.SetMatrix(ctx.Current().ComposeMatrix())
		}, nil
	case proto.OpResetContext:
		return func(ctx *drawctx.Context, cv canvas.Canvas) {
			ctx.Reset()
			cv.SetMatrix(ctx.Current().ComposeMatrix())
		}, nil
	case proto.OpDrawPolygon:
		return d.scanDrawPolygon(c)
	case proto.OpDrawText:
		return d.scanDrawText(c)
	case proto.OpDrawCircle:
		return scanDrawCircle(c)
	case proto.OpDrawRect:
		return scanDrawRect(c)
	case proto.OpDrawLine:
		return scanDrawLine(c)
	default:
		return nil, protoerr.New(protoerr.KindUnknownOp, "unknown op byte 0x%02x", byte(op))
	}
}

func (d *Decoder) scanSetContext(c *cursor) (func(*drawctx.Context, canvas.Canvas), error) {
	propCount, ok, err := c.varint32()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, protoerr.ErrNeedMoreData
	}
	type propApply func(*drawctx.State)
	applies := make([]propApply, 0, propCount)
	for i := uint32(0); i < propCount; i++ {
		propByte, ok := c.u8()
		if !ok {
			return nil, protoerr.ErrNeedMoreData
		}
		apply, err := scanProp(proto.PropCode(propByte), c)
		if err != nil {
			return nil, err
		}
		applies = append(applies, apply)
	}
	return func(ctx *drawctx.Context, cv canvas.Canvas) {
		s := ctx.Current()
		for _, apply := range applies {
			apply(&s)
		}
		ctx.SetCurrent(s)
		cv.SetMatrix(s.ComposeMatrix())
	}, nil
}

func scanProp(p proto.PropCode, c *cursor) (func(*drawctx.State), error) {
	switch p {
	case proto.PropStroke:
		col, ok := c.color()
		if !ok {
			return nil, protoerr.ErrNeedMoreData
		}
		return func(s *drawctx.State) { s.Stroke = col }, nil
	case proto.PropFill:
		col, ok := c.color()
		if !ok {
			return nil, protoerr.ErrNeedMoreData
		}
		return func(s *drawctx.State) { s.Fill = col }, nil
	case proto.PropFontColor:
		col, ok := c.color()
		if !ok {
			return nil, protoerr.ErrNeedMoreData
		}
		return func(s *drawctx.State) { s.FontColor = col }, nil
	case proto.PropThickness:
		v, ok, err := c.varint32()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, protoerr.ErrNeedMoreData
		}
		return func(s *drawctx.State) { s.Thickness = int(v) }, nil
	case proto.PropFontSize:
		v, ok, err := c.varint32()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, protoerr.ErrNeedMoreData
		}
		return func(s *drawctx.State) { s.FontSize = int(v) }, nil
	case proto.PropOffset:
		x, y, ok, err := c.zzPointPair()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, protoerr.ErrNeedMoreData
		}
		return func(s *drawctx.State) { s.Offset = drawctx.Point{X: x, Y: y} }, nil
	case proto.PropRotation:
		f, ok := c.f32()
		if !ok {
			return nil, protoerr.ErrNeedMoreData
		}
		return func(s *drawctx.State) { s.Rotation = f }, nil
	case proto.PropScale:
		x, y, ok := c.f32Pair()
		if !ok {
			return nil, protoerr.ErrNeedMoreData
		}
		return func(s *drawctx.State) { s.Scale = drawctx.ScaleFactor{X: x, Y: y} }, nil
	case proto.PropSkew:
		x, y, ok := c.f32Pair()
		if !ok {
			return nil, protoerr.ErrNeedMoreData
		}
		return func(s *drawctx.State) { s.Skew = drawctx.ScaleFactor{X: x, Y: y} }, nil
	case proto.PropMatrix:
		m, ok := c.matrix()
		if !ok {
			return nil, protoerr.ErrNeedMoreData
		}
		return func(s *drawctx.State) { s.HasMatrix = true; s.Matrix = m }, nil
	default:
		return nil, protoerr.New(protoerr.KindUnknownProp, "unknown prop byte 0x%02x", byte(p))
	}
}

func (d *Decoder) scanDrawPolygon(c *cursor) (func(*drawctx.Context, canvas.Canvas), error) {
	ptCount, ok, err := c.varint32()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, protoerr.ErrNeedMoreData
	}
	if int(ptCount) > d.cfg.MaxPolygonPoints {
		return nil, protoerr.New(protoerr.KindResourceExhausted, "polygon point count %d exceeds limit %d", ptCount, d.cfg.MaxPolygonPoints)
	}
	pts := make([]canvas.Point, 0, ptCount)
	var x, y int32
	for i := uint32(0); i < ptCount; i++ {
		if i == 0 {
			x, y, ok, err = c.zzPointPair()
		} else {
			var dx, dy int32
			dx, dy, ok, err = c.zzPointPair()
			x, y = x+dx, y+dy
		}
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, protoerr.ErrNeedMoreData
		}
		pts = append(pts, canvas.Pt(x, y))
	}
	return func(ctx *drawctx.Context, cv canvas.Canvas) {
		s := ctx.Current()
		cv.DrawPolygon(pts, toCanvasColor(s.Stroke), s.Thickness)
	}, nil
}

func (d *Decoder) scanDrawText(c *cursor) (func(*drawctx.Context, canvas.Canvas), error) {
	x, y, ok, err := c.zzPointPair()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, protoerr.ErrNeedMoreData
	}
	n, ok, err := c.varint32()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, protoerr.ErrNeedMoreData
	}
	if int(n) > d.cfg.MaxTextBytes {
		return nil, protoerr.New(protoerr.KindResourceExhausted, "text length %d exceeds limit %d", n, d.cfg.MaxTextBytes)
	}
	raw, ok := c.fixed(int(n))
	if !ok {
		return nil, protoerr.ErrNeedMoreData
	}
	text := string(raw)
	return func(ctx *drawctx.Context, cv canvas.Canvas) {
		s := ctx.Current()
		cv.DrawText(canvas.Pt(x, y), text, toCanvasColor(s.FontColor), s.FontSize)
	}, nil
}

func scanDrawCircle(c *cursor) (func(*drawctx.Context, canvas.Canvas), error) {
	cx, cy, ok, err := c.zzPointPair()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, protoerr.ErrNeedMoreData
	}
	radius, ok, err := c.varint32()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, protoerr.ErrNeedMoreData
	}
	return func(ctx *drawctx.Context, cv canvas.Canvas) {
		s := ctx.Current()
		cv.DrawCircle(canvas.Pt(cx, cy), int(radius), toCanvasColor(s.Stroke), s.Thickness)
	}, nil
}

func scanDrawRect(c *cursor) (func(*drawctx.Context, canvas.Canvas), error) {
	x, y, ok, err := c.zzPointPair()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, protoerr.ErrNeedMoreData
	}
	w, ok, err := c.varint32()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, protoerr.ErrNeedMoreData
	}
	h, ok, err := c.varint32()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, protoerr.ErrNeedMoreData
	}
	return func(ctx *drawctx.Context, cv canvas.Canvas) {
		s := ctx.Current()
		cv.DrawRect(canvas.Pt(x, y), int(w), int(h), toCanvasColor(s.Stroke), s.Thickness)
	}, nil
}

func scanDrawLine(c *cursor) (func(*drawctx.Context, canvas.Canvas), error) {
	x1, y1, ok, err := c.zzPointPair()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, protoerr.ErrNeedMoreData
	}
	x2, y2, ok, err := c.zzPointPair()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, protoerr.ErrNeedMoreData
	}
	return func(ctx *drawctx.Context, cv canvas.Canvas) {
		s := ctx.Current()
		cv.DrawLine(canvas.Pt(x1, y1), canvas.Pt(x2, y2), toCanvasColor(s.Stroke), s.Thickness)
	}, nil
}

func toCanvasColor(c drawctx.Color) canvas.Color {
	return canvas.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// cursor walks buf without ever advancing past a short read, mirroring the
// pc-cursor discipline of gioui.org/internal/ops/reader.go's Reader.Decode.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) remaining() []byte { return c.buf[c.pos:] }

func (c *cursor) u8() (byte, bool) {
	if c.pos >= len(c.buf) {
		return 0, false
	}
	b := c.buf[c.pos]
	c.pos++
	return b, true
}

func (c *cursor) fixed(n int) ([]byte, bool) {
	if n == 0 {
		return c.buf[c.pos:c.pos], true
	}
	if c.pos+n > len(c.buf) {
		return nil, false
	}
	s := c.buf[c.pos : c.pos+n]
	c.pos += n
	return s, true
}

func (c *cursor) varint32() (uint32, bool, error) {
	n, v, err := wire.ReadVarintU32(c.remaining())
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	c.pos += n
	return v, true, nil
}

func (c *cursor) signedVarint32() (int32, bool, error) {
	n, v, err := wire.ReadSignedVarint(c.remaining())
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	c.pos += n
	return v, true, nil
}

// zzPointPair reads two consecutive zigzag varints, as every coordinate
// pair in the wire format is encoded.
func (c *cursor) zzPointPair() (x, y int32, ok bool, err error) {
	x, ok, err = c.signedVarint32()
	if err != nil || !ok {
		return 0, 0, ok, err
	}
	y, ok, err = c.signedVarint32()
	if err != nil || !ok {
		return 0, 0, ok, err
	}
	return x, y, true, nil
}

func (c *cursor) color() (drawctx.Color, bool) {
	b, ok := c.fixed(proto.ColorLen)
	if !ok {
		return drawctx.Color{}, false
	}
	return drawctx.Color{R: b[0], G: b[1], B: b[2], A: b[3]}, true
}

func (c *cursor) f32() (float32, bool) {
	b, ok := c.fixed(proto.Float32Len)
	if !ok {
		return 0, false
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), true
}

func (c *cursor) f32Pair() (x, y float32, ok bool) {
	x, ok = c.f32()
	if !ok {
		return 0, 0, false
	}
	y, ok = c.f32()
	if !ok {
		return 0, 0, false
	}
	return x, y, true
}

func (c *cursor) matrix() (drawctx.Matrix, bool) {
	b, ok := c.fixed(proto.MatrixLen)
	if !ok {
		return drawctx.Matrix{}, false
	}
	read := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[i*proto.Float32Len:]))
	}
	return drawctx.Matrix{
		ScaleX: read(0), SkewX: read(1), TransX: read(2),
		SkewY: read(3), ScaleY: read(4), TransY: read(5),
	}, true
}
