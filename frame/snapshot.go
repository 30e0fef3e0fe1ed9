package frame

// Snapshot is an immutable, ordered collection of optional SharedRefs, one
// slot per layer id. Dropping it (Release) drops every present ref.
//
// TryCopy increments the count of every present ref, atomically per slot;
// if any slot's ref has already reached a count of zero the whole
// operation is considered torn and fails, rolling back any increments it
// had already made so no ref is left over-counted.
type Snapshot struct {
	// FrameID is the frame_id this snapshot was published for, used by a
	// renderer (or a test) to observe the monotonic-with-gaps ordering
	// guarantee in SPEC_FULL.md §5.
	FrameID uint64
	slots   []*SharedRef
}

// NewSnapshot builds a Snapshot of the given width (one slot per layer id)
// from refs, which must already be indexed by layer id and may contain
// nils for absent layers. NewSnapshot copies refs into its own slots and
// takes ownership of the SharedRefs: the caller must not retain separate
// aliases of them beyond this call (Stage.OnFrameEnd zeroes its working
// array right after this call for exactly this reason).
func NewSnapshot(frameID uint64, refs []*SharedRef) *Snapshot {
	slots := make([]*SharedRef, len(refs))
	copy(slots, refs)
	return &Snapshot{FrameID: frameID, slots: slots}
}

// Len returns the number of layer-id slots (the configured MaxLayers).
func (s *Snapshot) Len() int {
	return len(s.slots)
}

// At returns the SharedRef for layer id i, or nil if that layer is absent
// from this frame.
func (s *Snapshot) At(i int) *SharedRef {
	if i < 0 || i >= len(s.slots) {
		return nil
	}
	return s.slots[i]
}

// Layers reports which layer ids this snapshot holds.
func (s *Snapshot) Layers() []int {
	var ids []int
	for i, ref := range s.slots {
		if ref != nil {
			ids = append(ids, i)
		}
	}
	return ids
}

// TryCopy returns a new Snapshot aliasing every present ref in s, all or
// nothing. It fails if any present ref's count has already reached zero.
func (s *Snapshot) TryCopy() (*Snapshot, bool) {
	slots := make([]*SharedRef, len(s.slots))
	for i, ref := range s.slots {
		if ref == nil {
			continue
		}
		cp, ok := ref.TryCopy()
		if !ok {
			// Torn: undo every increment already performed in this
			// attempt before reporting failure.
			for j := 0; j < i; j++ {
				if slots[j] != nil {
					slots[j].Release()
				}
			}
			return nil, false
		}
		slots[i] = cp
	}
	return &Snapshot{FrameID: s.FrameID, slots: slots}, true
}

// Release drops every present SharedRef in s. A Snapshot must be released
// exactly once by whichever component (Stage or a renderer) holds it.
func (s *Snapshot) Release() {
	for _, ref := range s.slots {
		if ref != nil {
			ref.Release()
		}
	}
}
