// Package stage implements the central frame-lifecycle manager that
// decouples the decoder thread from the renderer thread: a working array of
// per-layer SharedRefs under construction, a published display frame the
// renderer polls, and a previous frame kept around to satisfy Remain.
//
// The "commit a new generation, release the stale one outside the lock"
// shape is grounded on gioui.org/gpu/caches.go's resourceCache.frame(),
// generalized from a per-frame map diff to an atomically swapped snapshot
// pointer guarded by a short sync.Mutex critical section, per
// SPEC_FULL.md §5 ("a short critical section that encloses only pointer
// swaps and a SharedRef increment — never a bitmap operation").
package stage

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/modelingevolution/blazor-blaze-sub001/canvas"
	"github.com/modelingevolution/blazor-blaze-sub001/frame"
	"github.com/modelingevolution/blazor-blaze-sub001/layer"
	"github.com/modelingevolution/blazor-blaze-sub001/protoerr"
)

// CanvasFactory builds the capability-set view over a freshly rented
// Layer. Production callers supply their own (a GPU-backed implementation);
// internal/raster.NewCanvas is the reference software implementation (this
// package's own tests pass a no-op test double instead).
type CanvasFactory func(*layer.Layer) canvas.Canvas

// Stage is the sole boundary between the decoder thread (the only caller of
// OnFrameStart, Clear, Remain, CanvasFor and OnFrameEnd) and the renderer
// thread (the only caller of TryCopyFrame).
type Stage struct {
	pool      *layer.Pool
	maxLayers int
	width     int
	height    int
	newCanvas CanvasFactory

	// Decoder-owned state; never touched by the renderer goroutine.
	frameID     uint64
	working     []*frame.SharedRef
	workingFrom []entryKind
	workingView []canvas.Canvas

	// Guards display/prev pointer swaps and the renderer's TryCopy.
	mu           sync.Mutex
	displayFrame *frame.Snapshot
	prevFrame    *frame.Snapshot

	closed atomic.Bool
}

type entryKind int

const (
	entryNone entryKind = iota
	entryCleared
	entryRemained
)

// New builds a Stage with the given layer width/height used for every
// rented Layer, backed by pool and presenting layers through newCanvas.
// maxLayers bounds the legal layer-id range (the configured MaxLayers). The
// wire format carries no per-layer dimensions (§4.4 of the specification
// has no width/height field), so every layer in a stream shares one
// (width, height) fixed at Stage construction.
func New(pool *layer.Pool, maxLayers, width, height int, newCanvas CanvasFactory) *Stage {
	s := &Stage{
		pool:         pool,
		maxLayers:    maxLayers,
		width:        width,
		height:       height,
		newCanvas:    newCanvas,
		working:      make([]*frame.SharedRef, maxLayers),
		workingFrom:  make([]entryKind, maxLayers),
		workingView:  make([]canvas.Canvas, maxLayers),
		displayFrame: frame.NewSnapshot(0, make([]*frame.SharedRef, maxLayers)),
		prevFrame:    frame.NewSnapshot(0, make([]*frame.SharedRef, maxLayers)),
	}
	return s
}

// MaxLayers reports the configured layer-id ceiling (exclusive).
func (s *Stage) MaxLayers() int { return s.maxLayers }

// OnFrameStart begins constructing the frame identified by frameID.
func (s *Stage) OnFrameStart(frameID uint64) {
	s.frameID = frameID
}

// Clear rents a fresh, pre-cleared Layer at the stage's configured
// dimensions for layerID, wraps it as a fresh SharedRef at working[layerID],
// dropping any prior entry there first (last-write-wins within a frame),
// and makes its canvas view available via CanvasFor.
func (s *Stage) Clear(layerID int) error {
	if err := s.checkLayerID(layerID); err != nil {
		return err
	}
	lease, err := s.pool.Rent(s.width, s.height)
	if err != nil {
		return err
	}
	s.dropWorking(layerID)
	ref := frame.NewSharedRef(lease)
	s.working[layerID] = ref
	s.workingFrom[layerID] = entryCleared
	s.workingView[layerID] = s.newCanvas(ref.Layer())
	return nil
}

// Remain aliases layerID's entry in prev_frame read-only for this frame.
// It fails with protoerr.BadRemain if prev_frame has no live entry for
// layerID (a producer bug, or a first-frame Remain).
func (s *Stage) Remain(layerID int) error {
	if err := s.checkLayerID(layerID); err != nil {
		return err
	}
	prevRef := s.prevFrame.At(layerID)
	if prevRef == nil {
		return protoerr.New(protoerr.KindBadRemain, "layer %d: no prior frame to remain from", layerID)
	}
	cp, ok := prevRef.TryCopy()
	if !ok {
		return protoerr.New(protoerr.KindBadRemain, "layer %d: prior frame already released", layerID)
	}
	s.dropWorking(layerID)
	s.working[layerID] = cp
	s.workingFrom[layerID] = entryRemained
	s.workingView[layerID] = nil
	return nil
}

// CanvasFor returns the canvas view of the working layer entered via Clear
// this frame. Calling it for a layer entered via Remain, or never entered,
// is a caller bug: the specification calls for a debug panic / release
// error, and this implementation returns an error uniformly so callers can
// decide for themselves whether to treat it as fatal.
func (s *Stage) CanvasFor(layerID int) (canvas.Canvas, error) {
	if err := s.checkLayerID(layerID); err != nil {
		return nil, err
	}
	if s.workingFrom[layerID] != entryCleared {
		return nil, fmt.Errorf("stage: CanvasFor(%d): layer was not entered via Clear this frame", layerID)
	}
	return s.workingView[layerID], nil
}

func (s *Stage) dropWorking(layerID int) {
	if prior := s.working[layerID]; prior != nil {
		prior.Release()
	}
	s.working[layerID] = nil
	s.workingView[layerID] = nil
	s.workingFrom[layerID] = entryNone
}

func (s *Stage) checkLayerID(layerID int) error {
	if layerID < 0 || layerID >= s.maxLayers {
		return protoerr.New(protoerr.KindLayerID, "layer id %d out of range [0,%d)", layerID, s.maxLayers)
	}
	return nil
}

// OnFrameEnd publishes a new Snapshot built from the working array,
// atomically (with respect to TryCopyFrame) swapping it in as
// display_frame, retains it as prev_frame for the next frame's Remain
// lookups, and zeroes working. The stale display_frame is released outside
// the critical section so the renderer is never blocked behind a bitmap
// drop.
func (s *Stage) OnFrameEnd() {
	next := frame.NewSnapshot(s.frameID, s.working)
	for i := range s.working {
		s.working[i] = nil
		s.workingView[i] = nil
		s.workingFrom[i] = entryNone
	}

	s.mu.Lock()
	old := s.displayFrame
	s.displayFrame = next
	s.prevFrame = next
	s.mu.Unlock()

	old.Release()
}

// TryCopyFrame returns an aliasing copy of the current display frame, or
// ok == false if the stage has been shut down or the display frame is
// torn (cannot happen in normal operation, only during a race with
// Shutdown).
func (s *Stage) TryCopyFrame() (*frame.Snapshot, bool) {
	if s.closed.Load() {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.displayFrame == nil {
		return nil, false
	}
	return s.displayFrame.TryCopy()
}

// Shutdown marks the stage closed: future TryCopyFrame calls return
// ok == false, and the stage's own references to display_frame/prev_frame
// are dropped. Renderer copies already handed out remain valid until their
// own Release.
func (s *Stage) Shutdown() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.mu.Lock()
	display, prev := s.displayFrame, s.prevFrame
	s.displayFrame = nil
	s.prevFrame = nil
	s.mu.Unlock()

	if display != nil {
		display.Release()
	}
	if prev != nil && prev != display {
		prev.Release()
	}
}
