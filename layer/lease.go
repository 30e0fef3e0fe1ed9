package layer

import "sync/atomic"

// Lease is a single-owner handle to a pooled Layer. Releasing it returns
// the Layer to its pool exactly once, even under concurrent or repeated
// Release calls (idempotent).
type Lease struct {
	pool *Pool
	l    *Layer

	released atomic.Bool
}

func newLease(pool *Pool, l *Layer) *Lease {
	return &Lease{pool: pool, l: l}
}

// Layer returns the leased buffer. Valid only until Release is called.
func (ls *Lease) Layer() *Layer {
	return ls.l
}

// Release returns the Layer to the pool. Safe to call more than once or
// concurrently; only the first call has any effect.
func (ls *Lease) Release() {
	if ls.released.CompareAndSwap(false, true) {
		ls.pool.giveBack(ls.l)
	}
}
