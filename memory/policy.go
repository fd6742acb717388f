// Package memory bundles a heap policy, a reference counting policy and an allocation shape
// hint into a single memory policy that persistent containers take as one type parameter.
//
// A container generic over a MemoryPolicy decides how its nodes are allocated, shared and
// destroyed entirely from the policy's type:
//
//	type Vector[T any, P memory.MemoryPolicy] struct { ... }
//
//	var v Vector[int, memory.DefaultMemoryPolicy]
//
// Strategies that do not provide the heap.Policy or refcount.Policy method sets, or that carry
// state and so cannot be used from their zero value, are rejected by the compiler where the
// policy is instantiated.
package memory

import (
	"github.com/persistgo/immer/memory/heap"
	"github.com/persistgo/immer/memory/refcount"
)

// MemoryPolicy is the view of a memory policy that containers consume
type MemoryPolicy interface {
	// HeapPolicy returns the policy choosing the heap that nodes are allocated from
	HeapPolicy() heap.Policy
	// RefcountPolicy returns the policy maintaining the reference counts of shared nodes
	RefcountPolicy() refcount.Policy
	// PreferFewerBiggerObjects hints whether containers should place several logical objects in
	// one allocated block rather than allocating each separately
	PreferFewerBiggerObjects() bool
}

// Policy is a memory policy made of the heap policy H and the reference counting policy R. The
// allocation shape hint is derived from H: it is false when H is heap.FreeList[heap.Malloc],
// whose free lists make many small allocations cheap, and true for every other heap policy.
// Use PolicyWith to set the hint explicitly.
//
// Policy has no state. All values of one instantiation are equal.
type Policy[H heap.StatelessPolicy, R refcount.StatelessPolicy] struct{}

var _ MemoryPolicy = Policy[heap.Plain[heap.Malloc], refcount.Atomic]{}

func (Policy[H, R]) Heap() H {
	var h H
	return h
}

func (Policy[H, R]) Refcount() R {
	var r R
	return r
}

func (p Policy[H, R]) HeapPolicy() heap.Policy { return p.Heap() }

func (p Policy[H, R]) RefcountPolicy() refcount.Policy { return p.Refcount() }

func (Policy[H, R]) PreferFewerBiggerObjects() bool {
	return preferFewerBiggerObjects[H]()
}

// PolicyWith is a memory policy made of the heap policy H, the reference counting policy R and
// the allocation shape hint B, which always wins over the hint Policy would derive from H.
type PolicyWith[H heap.StatelessPolicy, R refcount.StatelessPolicy, B Hint] struct{}

var _ MemoryPolicy = PolicyWith[heap.FreeList[heap.Malloc], refcount.Atomic, True]{}

func (PolicyWith[H, R, B]) Heap() H {
	var h H
	return h
}

func (PolicyWith[H, R, B]) Refcount() R {
	var r R
	return r
}

func (p PolicyWith[H, R, B]) HeapPolicy() heap.Policy { return p.Heap() }

func (p PolicyWith[H, R, B]) RefcountPolicy() refcount.Policy { return p.Refcount() }

func (PolicyWith[H, R, B]) PreferFewerBiggerObjects() bool {
	var b B
	return b.Bool()
}

// Hint is a boolean carried in a stateless type, so that it can be fixed as a type parameter
type Hint interface {
	~struct{}
	Bool() bool
}

// True is the Hint for true
type True struct{}

func (True) Bool() bool { return true }

// False is the Hint for false
type False struct{}

func (False) Bool() bool { return false }

// preferFewerBiggerObjects compares the heap policy's type with the one combination that favors
// many small objects. Only that exact type matches: other heap policies, including free lists
// over other heaps, derive true.
func preferFewerBiggerObjects[H heap.StatelessPolicy]() bool {
	var h H
	_, smallObjects := any(h).(heap.FreeList[heap.Malloc])
	return !smallObjects
}
