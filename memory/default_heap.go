//go:build !immer_free_list

package memory

import "github.com/persistgo/immer/memory/heap"

// FreeListEnabled is true when the module is built with the immer_free_list tag
const FreeListEnabled = false

// DefaultHeapPolicy is the heap policy used by DefaultMemoryPolicy. It allocates straight from
// the standard heap unless the module is built with the immer_free_list tag, in which case it
// is heap.FreeList[heap.Malloc].
type DefaultHeapPolicy = heap.Plain[heap.Malloc]
