//go:build immer_free_list

package memory

import "github.com/persistgo/immer/memory/heap"

// FreeListEnabled is true when the module is built with the immer_free_list tag
const FreeListEnabled = true

// DefaultHeapPolicy is the heap policy used by DefaultMemoryPolicy. It recycles blocks through
// process-wide free lists because the module was built with the immer_free_list tag.
type DefaultHeapPolicy = heap.FreeList[heap.Malloc]
