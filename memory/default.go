package memory

import "github.com/persistgo/immer/memory/refcount"

// DefaultRefcountPolicy is the reference counting policy used by DefaultMemoryPolicy. It is
// thread safe, so nodes shared between containers may be referenced and released from any
// goroutine without locking. Containers that pick another policy take on the responsibility
// of confining their nodes.
type DefaultRefcountPolicy = refcount.Atomic

// DefaultMemoryPolicy combines DefaultHeapPolicy and DefaultRefcountPolicy, with the allocation
// shape hint derived from the heap policy
type DefaultMemoryPolicy = Policy[DefaultHeapPolicy, DefaultRefcountPolicy]

// Default is the value of DefaultMemoryPolicy
var Default DefaultMemoryPolicy
