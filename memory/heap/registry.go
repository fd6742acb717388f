package heap

import (
	"reflect"
	"sort"
	"strconv"
	"sync"

	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/persistgo/immer/memory/internal/utils"
	"golang.org/x/exp/slog"
)

const (
	// sizeClassAlignment is the granularity of the size classes FreeList policies cache blocks in
	sizeClassAlignment uint = 8
	// MaxFreeListBlockSize is the largest object size FreeList policies serve from free lists.
	// It is a multiple of sizeClassAlignment.
	MaxFreeListBlockSize int = 1 << 10
	// FreeListByteLimit bounds the bytes each process-wide free list holds for reuse. Lists of
	// small blocks are bounded by DefaultFreeListSize blocks first.
	FreeListByteLimit int = 64 << 10
)

func sizeClassLimit(blockSize int) int {
	limit := FreeListByteLimit / blockSize
	if limit > DefaultFreeListSize {
		return DefaultFreeListSize
	}
	return limit
}

type sizeClassKey struct {
	base      reflect.Type
	blockSize int
}

// freeListRegistry holds the process-wide free lists shared by every FreeList policy, one per
// base heap type and size class.
type freeListRegistry struct {
	mutex sync.RWMutex
	lists *swiss.Map[sizeClassKey, *FreeListHeap]
}

var freeLists = &freeListRegistry{
	lists: swiss.NewMap[sizeClassKey, *FreeListHeap](16),
}

func sizeClass(size int) int {
	return utils.AlignUp(size, sizeClassAlignment)
}

func (r *freeListRegistry) get(baseType reflect.Type, blockSize int, newBase func() Heap) *FreeListHeap {
	key := sizeClassKey{base: baseType, blockSize: blockSize}

	r.mutex.RLock()
	list, ok := r.lists.Get(key)
	r.mutex.RUnlock()
	if ok {
		return list
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, ok = r.lists.Get(key)
	if ok {
		return list
	}

	// blockSize is a size class between sizeClassAlignment and MaxFreeListBlockSize, so creation
	// cannot fail
	list, err := NewFreeListHeap(blockSize, newBase(), FreeListOptions{Limit: sizeClassLimit(blockSize)})
	if err != nil {
		panic(err)
	}
	r.lists.Put(key, list)

	logDebug("created free list",
		slog.String("baseHeap", baseType.String()),
		slog.Int("blockSize", blockSize),
		slog.Int("limit", list.Limit()))
	return list
}

func (r *freeListRegistry) sortedKeys() []sizeClassKey {
	keys := make([]sizeClassKey, 0, r.lists.Count())
	r.lists.Iter(func(key sizeClassKey, _ *FreeListHeap) bool {
		keys = append(keys, key)
		return false
	})

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].base != keys[j].base {
			return keys[i].base.String() < keys[j].base.String()
		}
		return keys[i].blockSize < keys[j].blockSize
	})
	return keys
}

// FreeListStatistics sums the statistics of every process-wide free list created by FreeList
// policies so far
func FreeListStatistics() Statistics {
	freeLists.mutex.RLock()
	defer freeLists.mutex.RUnlock()

	var stats Statistics
	freeLists.lists.Iter(func(_ sizeClassKey, list *FreeListHeap) bool {
		listStats := list.Statistics()
		stats.AddStatistics(&listStats)
		return false
	})
	return stats
}

// ClearFreeLists releases every block cached by the process-wide free lists to their base heaps
func ClearFreeLists() {
	freeLists.mutex.RLock()
	defer freeLists.mutex.RUnlock()

	freeLists.lists.Iter(func(_ sizeClassKey, list *FreeListHeap) bool {
		list.Clear()
		return false
	})
}

// WriteStatisticsJSON writes one object per base heap, keyed by size class, describing the
// process-wide free lists
func WriteStatisticsJSON(writer *jwriter.Writer) {
	freeLists.mutex.RLock()
	defer freeLists.mutex.RUnlock()

	objState := writer.Object()
	defer objState.End()

	keys := freeLists.sortedKeys()
	for i := 0; i < len(keys); {
		base := keys[i].base
		baseObj := objState.Name(base.String()).Object()
		for ; i < len(keys) && keys[i].base == base; i++ {
			list, _ := freeLists.lists.Get(keys[i])
			stats := list.Statistics()

			classObj := baseObj.Name(strconv.Itoa(keys[i].blockSize)).Object()
			classObj.Name("Limit").Int(list.Limit())
			stats.WriteJSON(&classObj)
			classObj.End()
		}
		baseObj.End()
	}
}
