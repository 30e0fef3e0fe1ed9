// Package frame implements the multi-owner reference-counted handles and
// the immutable per-frame snapshot the stage publishes: SharedRef wraps a
// layer.Lease with an atomic count, and Snapshot is a fixed-length array of
// optional SharedRefs, one per layer id.
//
// The atomic-refcount idiom is grounded on gviegas-neo3/engine/texture.go's
// atomic.Int64 resource counters and IntuitionAmiga-IntuitionEngine's
// atomic.Int32/.Bool lock-free fields; the all-or-nothing TryCopy semantics
// below are this protocol's own addition, needed because a Snapshot must
// never be observed half-aliased (Invariant 3 of the base specification).
package frame

import (
	"sync/atomic"

	"github.com/modelingevolution/blazor-blaze-sub001/layer"
)

// SharedRef is a multi-owner, atomically refcounted handle over a unique
// layer.Lease. A freshly constructed SharedRef starts at count 1. TryCopy
// increments the count iff it is currently greater than zero, returning a
// new handle that aliases the same Lease; it fails (ok == false) if the
// count had already reached zero, meaning some other holder's Release won
// the race to the final drop.
//
// All operations are safe for concurrent use by multiple goroutines.
type SharedRef struct {
	count *atomic.Int64
	lease *layer.Lease
}

// NewSharedRef wraps lease in a fresh SharedRef with an initial count of 1.
func NewSharedRef(lease *layer.Lease) *SharedRef {
	c := &atomic.Int64{}
	c.Store(1)
	return &SharedRef{count: c, lease: lease}
}

// Layer returns the underlying pooled buffer. Valid as long as this handle
// (or any alias produced by TryCopy) has not yet called Release for the
// last time.
func (r *SharedRef) Layer() *layer.Layer {
	return r.lease.Layer()
}

// TryCopy attempts to create a new handle aliasing the same Lease,
// incrementing the shared count. It fails if the count has already reached
// zero.
func (r *SharedRef) TryCopy() (*SharedRef, bool) {
	for {
		n := r.count.Load()
		if n <= 0 {
			return nil, false
		}
		if r.count.CompareAndSwap(n, n+1) {
			return &SharedRef{count: r.count, lease: r.lease}, true
		}
	}
}

// Release decrements the shared count. On the transition to zero it
// releases the underlying Lease, returning the Layer to its pool. A
// SharedRef's count reaches zero exactly once, and only the call that
// observes that transition performs the pool return.
func (r *SharedRef) Release() {
	if r.count.Add(-1) == 0 {
		r.lease.Release()
	}
}
