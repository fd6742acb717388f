package heap

import (
	"sync/atomic"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Statistics describes the blocks a free list has handed out and the blocks it is holding for
// reuse.
type Statistics struct {
	// AllocationCount is the number of blocks currently handed out
	AllocationCount int
	// AllocationBytes is the sum of the block sizes currently handed out
	AllocationBytes int
	// CachedBlockCount is the number of released blocks held for reuse
	CachedBlockCount int
	// CachedBlockBytes is the sum of the sizes of released blocks held for reuse
	CachedBlockBytes int
	// Hits is the number of allocations served from cached blocks
	Hits int
	// Misses is the number of allocations that had to go to the base heap
	Misses int
	// Overflows is the number of releases passed to the base heap because the free list was full
	Overflows int
}

func (s *Statistics) Clear() {
	*s = Statistics{}
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.AllocationCount += other.AllocationCount
	s.AllocationBytes += other.AllocationBytes
	s.CachedBlockCount += other.CachedBlockCount
	s.CachedBlockBytes += other.CachedBlockBytes
	s.Hits += other.Hits
	s.Misses += other.Misses
	s.Overflows += other.Overflows
}

func (s *Statistics) WriteJSON(json *jwriter.ObjectState) {
	json.Name("Allocations").Int(s.AllocationCount)
	json.Name("AllocationBytes").Int(s.AllocationBytes)
	json.Name("CachedBlocks").Int(s.CachedBlockCount)
	json.Name("CachedBytes").Int(s.CachedBlockBytes)
	json.Name("Hits").Int(s.Hits)
	json.Name("Misses").Int(s.Misses)
	json.Name("Overflows").Int(s.Overflows)
}

// counters is updated from the allocation path without holding the free list lock, so it can
// be read while other goroutines allocate.
type counters struct {
	allocationCount  atomic.Int64
	cachedBlockCount atomic.Int64
	hits             atomic.Int64
	misses           atomic.Int64
	overflows        atomic.Int64
}

func (c *counters) addAllocation(hit bool) {
	c.allocationCount.Add(1)
	if hit {
		c.hits.Add(1)
		c.cachedBlockCount.Add(-1)
	} else {
		c.misses.Add(1)
	}
}

func (c *counters) removeAllocation(cached bool) {
	c.allocationCount.Add(-1)
	if cached {
		c.cachedBlockCount.Add(1)
	} else {
		c.overflows.Add(1)
	}
}

func (c *counters) snapshot(blockSize int) Statistics {
	allocations := int(c.allocationCount.Load())
	cached := int(c.cachedBlockCount.Load())

	return Statistics{
		AllocationCount:  allocations,
		AllocationBytes:  allocations * blockSize,
		CachedBlockCount: cached,
		CachedBlockBytes: cached * blockSize,
		Hits:             int(c.hits.Load()),
		Misses:           int(c.misses.Load()),
		Overflows:        int(c.overflows.Load()),
	}
}
