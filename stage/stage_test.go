package stage

import (
	"testing"

	"github.com/modelingevolution/blazor-blaze-sub001/canvas"
	"github.com/modelingevolution/blazor-blaze-sub001/layer"
	"github.com/modelingevolution/blazor-blaze-sub001/matrix"
)

// nullCanvas is a test double satisfying canvas.Canvas with no-op drawing,
// just enough to let Stage construct a view per Clear.
type nullCanvas struct{}

func (nullCanvas) SetMatrix(matrix.Affine2D)                                    {}
func (nullCanvas) Save()                                                        {}
func (nullCanvas) Restore()                                                     {}
func (nullCanvas) Clear()                                                       {}
func (nullCanvas) DrawPolygon([]canvas.Point, canvas.Color, int)                 {}
func (nullCanvas) DrawText(canvas.Point, string, canvas.Color, int)              {}
func (nullCanvas) DrawCircle(canvas.Point, int, canvas.Color, int)               {}
func (nullCanvas) DrawRect(canvas.Point, int, int, canvas.Color, int)            {}
func (nullCanvas) DrawLine(canvas.Point, canvas.Point, canvas.Color, int)        {}

func newTestStage() *Stage {
	pool := layer.NewPool()
	return New(pool, 16, 4, 4, func(*layer.Layer) canvas.Canvas { return nullCanvas{} })
}

func TestClearThenFrameEndPublishesLayer(t *testing.T) {
	s := newTestStage()
	s.OnFrameStart(1)
	if err := s.Clear(0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CanvasFor(0); err != nil {
		t.Fatal(err)
	}
	s.OnFrameEnd()

	snap, ok := s.TryCopyFrame()
	if !ok {
		t.Fatal("expected a published snapshot")
	}
	defer snap.Release()
	if snap.At(0) == nil {
		t.Fatal("layer 0 should be present")
	}
	if len(snap.Layers()) != 1 {
		t.Errorf("expected exactly 1 declared layer, got %d", len(snap.Layers()))
	}
}

func TestRemainWithoutPriorFails(t *testing.T) {
	s := newTestStage()
	s.OnFrameStart(1)
	if err := s.Remain(0); err == nil {
		t.Fatal("Remain on an uninitialized layer should fail")
	}
}

func TestRemainAliasesPriorFrame(t *testing.T) {
	// S2: frame 1 Master's layer 0; frame 2 Remains it with no extra
	// allocation.
	s := newTestStage()
	s.OnFrameStart(1)
	if err := s.Clear(0); err != nil {
		t.Fatal(err)
	}
	s.OnFrameEnd()
	frame1, _ := s.TryCopyFrame()

	s.OnFrameStart(2)
	if err := s.Remain(0); err != nil {
		t.Fatal(err)
	}
	s.OnFrameEnd()
	frame2, ok := s.TryCopyFrame()
	if !ok {
		t.Fatal("expected frame 2 to publish")
	}

	if frame1.At(0).Layer() != frame2.At(0).Layer() {
		t.Error("Remain should alias the exact same Layer buffer")
	}
	frame1.Release()
	frame2.Release()
}

func TestCanvasForOnRemainedLayerFails(t *testing.T) {
	s := newTestStage()
	s.OnFrameStart(1)
	s.Clear(0)
	s.OnFrameEnd()

	s.OnFrameStart(2)
	if err := s.Remain(0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CanvasFor(0); err == nil {
		t.Fatal("CanvasFor on a Remain-ed layer must fail")
	}
}

func TestDecoderFasterThanRenderer(t *testing.T) {
	// S5: publish frames 1,2,3 without any renderer TryCopyFrame, then
	// call it once; only frame 3 should be observed.
	s := newTestStage()
	for i := uint64(1); i <= 3; i++ {
		s.OnFrameStart(i)
		if err := s.Clear(0); err != nil {
			t.Fatal(err)
		}
		s.OnFrameEnd()
	}
	snap, ok := s.TryCopyFrame()
	if !ok {
		t.Fatal("expected a snapshot")
	}
	defer snap.Release()
	if snap.FrameID != 3 {
		t.Errorf("expected to observe frame 3, got %d", snap.FrameID)
	}
}

func TestShutdownStopsFutureCopies(t *testing.T) {
	// S6: renderer holds a copy across shutdown; the copy stays valid,
	// later TryCopyFrame calls return false.
	s := newTestStage()
	s.OnFrameStart(1)
	s.Clear(0)
	s.OnFrameEnd()

	held, ok := s.TryCopyFrame()
	if !ok {
		t.Fatal("expected initial snapshot")
	}

	s.Shutdown()

	if _, ok := s.TryCopyFrame(); ok {
		t.Fatal("TryCopyFrame after shutdown should return false")
	}
	// Held copy still usable.
	if held.At(0) == nil {
		t.Fatal("previously held snapshot should remain valid")
	}
	held.Release()
}

func TestLayerIDOutOfRange(t *testing.T) {
	s := newTestStage()
	s.OnFrameStart(1)
	if err := s.Clear(16); err == nil {
		t.Fatal("layer id 16 should be out of range for MaxLayers=16")
	}
	if err := s.Clear(15); err != nil {
		t.Fatalf("layer id 15 should be valid: %v", err)
	}
}
