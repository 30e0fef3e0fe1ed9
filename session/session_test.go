package session_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/modelingevolution/blazor-blaze-sub001/canvas"
	"github.com/modelingevolution/blazor-blaze-sub001/config"
	"github.com/modelingevolution/blazor-blaze-sub001/encoder"
	"github.com/modelingevolution/blazor-blaze-sub001/layer"
	"github.com/modelingevolution/blazor-blaze-sub001/matrix"
	"github.com/modelingevolution/blazor-blaze-sub001/proto"
	"github.com/modelingevolution/blazor-blaze-sub001/protoerr"
	"github.com/modelingevolution/blazor-blaze-sub001/session"
	"github.com/modelingevolution/blazor-blaze-sub001/stage"
)

type nullCanvas struct{}

func (nullCanvas) SetMatrix(matrix.Affine2D)                                    {}
func (nullCanvas) Save()                                                        {}
func (nullCanvas) Restore()                                                     {}
func (nullCanvas) Clear()                                                       {}
func (nullCanvas) DrawPolygon(pts []canvas.Point, stroke canvas.Color, th int)   {}
func (nullCanvas) DrawText(pt canvas.Point, s string, c canvas.Color, fs int)    {}
func (nullCanvas) DrawCircle(c canvas.Point, r int, stroke canvas.Color, t int)  {}
func (nullCanvas) DrawRect(pt canvas.Point, w, h int, stroke canvas.Color, t int) {}
func (nullCanvas) DrawLine(p1, p2 canvas.Point, stroke canvas.Color, t int)      {}

func newTestStage() *stage.Stage {
	return stage.New(layer.NewPool(), proto.DefaultMaxLayers, 16, 16, func(*layer.Layer) canvas.Canvas {
		return nullCanvas{}
	})
}

// slowReader dribbles bytes out a handful at a time, forcing Run's drain
// loop to cope with a frame split across multiple Read calls.
type slowReader struct {
	data []byte
	pos  int
	step int
}

func (r *slowReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	end := r.pos + r.step
	if end > len(r.data) {
		end = len(r.data)
	}
	n := copy(p, r.data[r.pos:end])
	r.pos += n
	return n, nil
}

func twoFrames() []byte {
	var buf []byte
	buf = append(buf, encoder.BeginFrame(1).Master(0).Encode()...)
	buf = append(buf, encoder.BeginFrame(2).Master(0).Encode()...)
	return buf
}

func TestRunDecodesFramesSplitAcrossReads(t *testing.T) {
	st := newTestStage()
	s := session.New(config.New(), st)

	r := &slowReader{data: twoFrames(), step: 3}
	if err := s.Run(r); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	snap, ok := st.TryCopyFrame()
	if !ok {
		t.Fatal("expected a published snapshot")
	}
	defer snap.Release()
	if snap.FrameID != 2 {
		t.Errorf("FrameID = %d, want 2", snap.FrameID)
	}
}

func TestRunStopsCleanlyAtEOF(t *testing.T) {
	st := newTestStage()
	s := session.New(config.New(), st)

	r := bytes.NewReader(encoder.BeginFrame(1).Master(0).Encode())
	if err := s.Run(r); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestRunPropagatesFatalDecodeError(t *testing.T) {
	st := newTestStage()
	s := session.New(config.New(), st)

	buf := encoder.BeginFrame(1).Master(0).Encode()
	buf[len(buf)-1] = 0xFE // corrupt the end marker

	err := s.Run(bytes.NewReader(buf))
	if !errors.Is(err, protoerr.BadFrame) {
		t.Fatalf("err = %v, want errors.Is(err, protoerr.BadFrame)", err)
	}
}

func TestRunRejectsOversizedBuffer(t *testing.T) {
	st := newTestStage()
	cfg := config.New(config.WithReceiveBufferBytes(4))
	s := session.New(cfg, st)

	err := s.Run(bytes.NewReader(encoder.BeginFrame(1).Master(0).Encode()))
	if !errors.Is(err, protoerr.ResourceExhausted) {
		t.Fatalf("err = %v, want errors.Is(err, protoerr.ResourceExhausted)", err)
	}
}
