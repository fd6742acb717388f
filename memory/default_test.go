//go:build !immer_free_list

package memory_test

import (
	"reflect"
	"testing"

	"github.com/persistgo/immer/memory"
	"github.com/persistgo/immer/memory/heap"
	"github.com/persistgo/immer/memory/refcount"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyUsesPlainHeap(t *testing.T) {
	require.False(t, memory.FreeListEnabled)

	require.Equal(t, memory.Config{
		Heap:                     reflect.TypeOf(heap.Plain[heap.Malloc]{}),
		Refcount:                 reflect.TypeOf(refcount.Atomic{}),
		PreferFewerBiggerObjects: true,
	}, memory.Describe(memory.Default))

	require.Equal(t, heap.Plain[heap.Malloc]{}, memory.DefaultHeapPolicy{})
	require.True(t, memory.Default.Refcount().ThreadSafe())
}
