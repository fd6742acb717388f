package refcount

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// Count is the reference count storage kept alongside a shared object. Its meaning depends on
// the Policy that manages it, and it must only ever be touched through one Policy.
type Count struct {
	n int32
}

// Policy maintains the reference count of shared objects. Policies are selected by type, so
// memory policies require StatelessPolicy.
type Policy interface {
	// Init sets the count of a newly created object, which starts with one reference
	Init(c *Count)
	// Inc records a new reference to the object
	Inc(c *Count)
	// Dec drops a reference to the object. It returns true when the last reference was dropped
	// and the caller must destroy the object.
	Dec(c *Count) bool
	// Load returns the current number of references
	Load(c *Count) int32
	// Unique returns true when the caller holds the only reference, so the object may be
	// mutated in place
	Unique(c *Count) bool
	// ThreadSafe reports whether Inc and Dec may be called concurrently without external locking
	ThreadSafe() bool
}

// StatelessPolicy is satisfied by reference counting policies that have no state of their own,
// so that their zero value is ready to use. Memory policies take their reference counting
// policy through it.
type StatelessPolicy interface {
	Policy
	~struct{}
}

func underflow(value int32) error {
	return errors.AssertionFailedf("refcount: reference count dropped to %d", value)
}

// Atomic counts references with atomic operations, so shared objects may be referenced and
// released from any number of goroutines at once.
type Atomic struct{}

var _ Policy = Atomic{}

func (Atomic) Init(c *Count) { atomic.StoreInt32(&c.n, 1) }

func (Atomic) Inc(c *Count) { atomic.AddInt32(&c.n, 1) }

func (Atomic) Dec(c *Count) bool {
	value := atomic.AddInt32(&c.n, -1)
	if value < 0 {
		panic(underflow(value))
	}
	return value == 0
}

func (Atomic) Load(c *Count) int32 { return atomic.LoadInt32(&c.n) }

func (Atomic) Unique(c *Count) bool { return atomic.LoadInt32(&c.n) == 1 }

func (Atomic) ThreadSafe() bool { return true }

// Unsafe counts references with plain integer operations. It is cheaper than Atomic, but every
// object it manages must be confined to a single goroutine at a time.
type Unsafe struct{}

var _ Policy = Unsafe{}

func (Unsafe) Init(c *Count) { c.n = 1 }

func (Unsafe) Inc(c *Count) { c.n++ }

func (Unsafe) Dec(c *Count) bool {
	c.n--
	if c.n < 0 {
		panic(underflow(c.n))
	}
	return c.n == 0
}

func (Unsafe) Load(c *Count) int32 { return c.n }

func (Unsafe) Unique(c *Count) bool { return c.n == 1 }

func (Unsafe) ThreadSafe() bool { return false }

// None does not count references at all. Objects are never reported as released and are
// left to the garbage collector. It is trivially safe to use concurrently.
type None struct{}

var _ Policy = None{}

func (None) Init(c *Count) {}

func (None) Inc(c *Count) {}

func (None) Dec(c *Count) bool { return false }

func (None) Load(c *Count) int32 { return 0 }

// Unique is always false, since ownership is unknown
func (None) Unique(c *Count) bool { return false }

func (None) ThreadSafe() bool { return true }
