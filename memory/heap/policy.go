package heap

import "reflect"

// Policy chooses the heap that a container should use for objects of a given size. Policies
// are selected by type, so memory policies require StatelessPolicy.
type Policy interface {
	// Optimized returns the heap to allocate objects of size bytes from
	Optimized(size int) Heap
}

// StatelessPolicy is satisfied by heap policies that have no state of their own, so that their
// zero value is ready to use. Memory policies take their heap policy through it.
type StatelessPolicy interface {
	Policy
	~struct{}
}

// Plain is a heap policy that always uses the heap H directly
type Plain[H StatelessHeap] struct{}

var _ Policy = Plain[Malloc]{}

func (Plain[H]) Optimized(size int) Heap {
	var base H
	return base
}

// FreeList is a heap policy that serves each object size of up to MaxFreeListBlockSize bytes
// from a process-wide free list of blocks for its size class, drawn from H. Bigger objects are
// allocated from H directly, and so are requests for more bytes than the size the heap was
// optimized for. Free lists are shared by every FreeList policy with the same H.
type FreeList[H StatelessHeap] struct{}

var _ Policy = FreeList[Malloc]{}

func (FreeList[H]) Optimized(size int) Heap {
	var base H
	if size <= 0 || size > MaxFreeListBlockSize {
		return base
	}

	class := sizeClass(size)
	list := freeLists.get(reflect.TypeOf((*H)(nil)).Elem(), class, freeListBase[H])
	return SplitHeap{
		Threshold: class,
		Small:     list,
		Big:       base,
	}
}

func freeListBase[H StatelessHeap]() Heap {
	if debugFreeLists {
		return DebugSize[H]{}
	}

	var base H
	return base
}
