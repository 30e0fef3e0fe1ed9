package layer

import (
	"sync"
	"sync/atomic"

	"github.com/modelingevolution/blazor-blaze-sub001/protoerr"
)

type dimKey struct {
	w, h int
}

// defaultBucketCapacity bounds how many idle layers of one dimension the
// pool will hold onto; beyond that, returned layers are simply dropped for
// the GC to reclaim rather than grown without bound.
const defaultBucketCapacity = 64

// Pool is a concurrent, dimension-keyed free-list of Layer buffers. Rent
// never blocks: on a free-list miss it allocates a fresh, pre-cleared
// Layer. Pool lookup is keyed by (width, height); a returned Layer goes
// back to the free list of its own size, so Rent never hands out a Layer
// of another size.
//
// Pool is safe for concurrent use from multiple goroutines; it holds no
// lock across an allocation or a pixel operation, only a lock-free
// per-bucket channel send/receive.
type Pool struct {
	buckets  sync.Map // dimKey -> chan *Layer
	capacity int

	maxLayers int64 // <=0 means unbounded
	allocated atomic.Int64
}

// Option configures a Pool at construction.
type Option func(*Pool)

// WithBucketCapacity overrides how many idle layers per dimension the pool
// retains before discarding returns.
func WithBucketCapacity(n int) Option {
	return func(p *Pool) { p.capacity = n }
}

// WithMaxLayers caps the total number of Layer buffers the pool will ever
// allocate across all dimensions; Rent beyond the cap fails with
// protoerr.ResourceExhausted. This models the specification's "allocation
// failure surfaces as ResourceExhausted at rent" failure mode: a genuine
// out-of-memory condition is not recoverable in Go, so exhaustion is
// instead an explicit, configurable ceiling a session can enforce.
func WithMaxLayers(n int) Option {
	return func(p *Pool) { p.maxLayers = int64(n) }
}

// NewPool builds a Pool ready for concurrent Rent/return.
func NewPool(opts ...Option) *Pool {
	p := &Pool{capacity: defaultBucketCapacity}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pool) bucket(k dimKey) chan *Layer {
	v, _ := p.buckets.LoadOrStore(k, make(chan *Layer, p.capacity))
	return v.(chan *Layer)
}

// Rent returns a Layer of exactly (width, height), pre-cleared to
// transparent, either reused from the free list or freshly allocated.
func (p *Pool) Rent(width, height int) (*Lease, error) {
	b := p.bucket(dimKey{w: width, h: height})
	select {
	case l := <-b:
		l.Clear()
		return newLease(p, l), nil
	default:
	}
	if p.maxLayers > 0 && p.allocated.Add(1) > p.maxLayers {
		p.allocated.Add(-1)
		return nil, protoerr.New(protoerr.KindResourceExhausted, "layer pool exhausted at %d layers", p.maxLayers)
	}
	return newLease(p, newLayer(width, height)), nil
}

// giveBack returns l to its dimension's free list, discarding it instead if
// the bucket is at capacity. Called exactly once, by Lease.Release.
func (p *Pool) giveBack(l *Layer) {
	b := p.bucket(l.dims())
	select {
	case b <- l:
	default:
		// Bucket full: let the GC reclaim l.
	}
}
