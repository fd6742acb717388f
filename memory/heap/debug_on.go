//go:build immer_debug_heap

package heap

const (
	// DebugMargin is the number of guard bytes DebugSize places behind every block
	DebugMargin int = 16
	// debugFreeLists causes free lists created by FreeList policies to draw their blocks
	// through DebugSize
	debugFreeLists bool = true
)
