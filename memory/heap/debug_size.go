package heap

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

const (
	sizeTrailerBytes int = 8
	// corruptionDetectionMagicValue is the 4-byte pattern written into the guard margin behind
	// each debug allocation
	corruptionDetectionMagicValue uint32 = 0x7F84E666
)

// DebugSize wraps a heap and records the requested size of every block in a trailer placed
// after the block. Releasing a block with a size other than the one it was allocated with
// panics. When built with the immer_debug_heap tag, a guard margin filled with a known pattern
// is also placed between the block and its trailer and verified on release.
type DebugSize[H StatelessHeap] struct{}

var _ Heap = DebugSize[Malloc]{}

func (DebugSize[H]) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "debug size heap: requested %d bytes", size)
	}

	var base H
	block, err := base.Allocate(size + DebugMargin + sizeTrailerBytes)
	if err != nil {
		return nil, err
	}

	writeMagicValue(block[size : size+DebugMargin])
	binary.LittleEndian.PutUint64(block[len(block)-sizeTrailerBytes:], uint64(size))

	return block[:size], nil
}

func (DebugSize[H]) Deallocate(size int, data []byte) {
	total := size + DebugMargin + sizeTrailerBytes
	if cap(data) < total {
		panic(errors.AssertionFailedf("debug size heap: released block has capacity %d, too small for a %d byte block", cap(data), size))
	}

	block := data[:total]
	recorded := int(binary.LittleEndian.Uint64(block[total-sizeTrailerBytes:]))
	if recorded != size {
		panic(errors.AssertionFailedf("debug size heap: block of %d bytes released as %d bytes", recorded, size))
	}

	if !validateMagicValue(block[size : size+DebugMargin]) {
		panic(errors.AssertionFailedf("debug size heap: guard margin behind a %d byte block was overwritten", size))
	}

	var base H
	base.Deallocate(total, block)
}

func writeMagicValue(margin []byte) {
	for i := 0; i+4 <= len(margin); i += 4 {
		binary.LittleEndian.PutUint32(margin[i:], corruptionDetectionMagicValue)
	}
}

func validateMagicValue(margin []byte) bool {
	for i := 0; i+4 <= len(margin); i += 4 {
		if binary.LittleEndian.Uint32(margin[i:]) != corruptionDetectionMagicValue {
			return false
		}
	}

	return true
}
