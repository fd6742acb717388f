package heap

import (
	"github.com/cockroachdb/errors"
)

//go:generate mockgen -destination ../internal/mocks/heap.go -package mocks github.com/persistgo/immer/memory/heap Heap

// Heap acquires and releases raw blocks of memory. Heaps that heap policies are built on are
// instantiated by type alone and must also satisfy StatelessHeap.
type Heap interface {
	// Allocate returns a block of exactly size bytes. The contents of the block are unspecified
	// unless the implementation documents otherwise.
	Allocate(size int) ([]byte, error)
	// Deallocate releases a block previously returned by Allocate on the same heap. size must be
	// the size that was requested when the block was allocated.
	Deallocate(size int, data []byte)
}

// StatelessHeap is satisfied by heaps that have no state of their own, so that their zero value
// is ready to use. Heap policies take their base heap through it.
type StatelessHeap interface {
	Heap
	~struct{}
}

// Malloc is the standard heap: blocks come from the Go runtime and are reclaimed by the
// garbage collector once released.
type Malloc struct{}

var _ Heap = Malloc{}

func (Malloc) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "malloc heap: requested %d bytes", size)
	}

	return make([]byte, size), nil
}

func (Malloc) Deallocate(size int, data []byte) {}

// SplitHeap routes requests of up to Threshold bytes to Small and everything else to Big.
type SplitHeap struct {
	Threshold int
	Small     Heap
	Big       Heap
}

var _ Heap = SplitHeap{}

func (h SplitHeap) Allocate(size int) ([]byte, error) {
	if size <= h.Threshold {
		return h.Small.Allocate(size)
	}
	return h.Big.Allocate(size)
}

func (h SplitHeap) Deallocate(size int, data []byte) {
	if size <= h.Threshold {
		h.Small.Deallocate(size, data)
		return
	}
	h.Big.Deallocate(size, data)
}
