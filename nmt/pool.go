package nmt

import (
	"errors"

	"github.com/animica/da/hashutil"
	"github.com/animica/da/namespace"
)

// Pool provides a fixed-size pool of reusable builders, adapted from the
// buffered-NMT pool pattern used for parallel commitment computation: each
// acquired builder is reset on release rather than reallocated.
type Pool struct {
	builders chan *Builder
	poolSize int
}

// NewPool pre-populates a pool of poolSize empty builders.
func NewPool(poolSize int) (*Pool, error) {
	if poolSize <= 0 {
		return nil, errors.New("pool size must be positive")
	}
	p := &Pool{
		builders: make(chan *Builder, poolSize),
		poolSize: poolSize,
	}
	for i := 0; i < poolSize; i++ {
		p.builders <- NewBuilder()
	}
	return p, nil
}

// MustNewPool is NewPool for a compile-time-constant poolSize, panicking on
// the sizing error NewPool would otherwise return.
func MustNewPool(poolSize int) *Pool {
	p, err := NewPool(poolSize)
	if err != nil {
		panic(err)
	}
	return p
}

// Acquire blocks until a builder is available.
func (p *Pool) Acquire() *Builder {
	return <-p.builders
}

// Release resets b and returns it to the pool.
func (p *Pool) Release(b *Builder) {
	*b = Builder{}
	p.builders <- b
}

// ComputeRoot acquires a builder, appends every (ns, payload) leaf in
// order, finalizes, and releases the builder back to the pool.
func (p *Pool) ComputeRoot(nss []namespace.ID, payloads [][]byte) ([hashutil.Size]byte, error) {
	b := p.Acquire()
	defer p.Release(b)

	for i, payload := range payloads {
		if err := b.Append(nss[i], payload); err != nil {
			return [hashutil.Size]byte{}, err
		}
	}
	return b.Finalize()
}
