package heap

import (
	"github.com/cockroachdb/errors"
	"github.com/persistgo/immer/memory/internal/utils"
	"golang.org/x/exp/slog"
)

const (
	// DefaultFreeListSize is the number of released blocks a free list holds for reuse when no
	// limit is provided
	DefaultFreeListSize int = 1 << 10
)

// FreeListOptions contains optional settings when creating a FreeListHeap
type FreeListOptions struct {
	// Limit is the maximum number of released blocks held for reuse. Blocks released while the
	// list is full go back to the base heap. DefaultFreeListSize is used when Limit is 0.
	Limit int
	// ExternallySynchronized disables the internal mutex. The consumer must guarantee that the
	// heap is only used from one goroutine at a time.
	ExternallySynchronized bool
}

// FreeListHeap hands out blocks of one fixed size and recycles released blocks instead of
// returning them to its base heap right away. Requests for fewer bytes than the block size are
// served from a full block.
type FreeListHeap struct {
	blockSize int
	limit     int
	base      Heap

	mutex    utils.OptionalMutex
	free     [][]byte
	counters counters
}

var _ Heap = &FreeListHeap{}

// NewFreeListHeap creates a free list of blockSize byte blocks drawn from base
func NewFreeListHeap(blockSize int, base Heap, options FreeListOptions) (*FreeListHeap, error) {
	if blockSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "free list heap: block size is %d", blockSize)
	}
	if base == nil {
		return nil, errors.New("free list heap: base heap is nil")
	}

	limit := options.Limit
	if limit == 0 {
		limit = DefaultFreeListSize
	} else if limit < 0 {
		return nil, errors.Newf("free list heap: limit is %d", limit)
	}

	return &FreeListHeap{
		blockSize: blockSize,
		limit:     limit,
		base:      base,
		mutex:     utils.OptionalMutex{UseMutex: !options.ExternallySynchronized},
	}, nil
}

func (h *FreeListHeap) BlockSize() int { return h.blockSize }

func (h *FreeListHeap) Limit() int { return h.limit }

func (h *FreeListHeap) Allocate(size int) ([]byte, error) {
	if size <= 0 || size > h.blockSize {
		return nil, errors.Wrapf(ErrInvalidSize, "free list heap: requested %d bytes from a %d byte free list", size, h.blockSize)
	}

	h.mutex.Lock()
	last := len(h.free) - 1
	if last >= 0 {
		block := h.free[last]
		h.free[last] = nil
		h.free = h.free[:last]
		h.mutex.Unlock()

		h.counters.addAllocation(true)
		return block[:size], nil
	}
	h.mutex.Unlock()

	block, err := h.base.Allocate(h.blockSize)
	if err != nil {
		return nil, err
	}

	h.counters.addAllocation(false)
	return block[:size], nil
}

func (h *FreeListHeap) Deallocate(size int, data []byte) {
	if cap(data) < h.blockSize {
		panic(errors.AssertionFailedf("free list heap: released block has capacity %d, expected at least %d", cap(data), h.blockSize))
	}
	block := data[:h.blockSize]

	h.mutex.Lock()
	if len(h.free) < h.limit {
		h.free = append(h.free, block)
		h.mutex.Unlock()

		h.counters.removeAllocation(true)
		return
	}
	h.mutex.Unlock()

	h.counters.removeAllocation(false)
	logDebug("free list full, releasing block to base heap",
		slog.Int("blockSize", h.blockSize),
		slog.Int("limit", h.limit))
	h.base.Deallocate(h.blockSize, block)
}

// Clear releases every cached block to the base heap. Blocks currently handed out are not
// affected and may still be released to this heap afterward.
func (h *FreeListHeap) Clear() {
	h.mutex.Lock()
	cached := h.free
	h.free = nil
	h.mutex.Unlock()

	h.counters.cachedBlockCount.Add(-int64(len(cached)))
	for _, block := range cached {
		h.base.Deallocate(h.blockSize, block)
	}
}

// Statistics returns a snapshot of this heap's counters
func (h *FreeListHeap) Statistics() Statistics {
	return h.counters.snapshot(h.blockSize)
}
