package utils

import (
	"sync"
)

// OptionalMutex is a mutex that only locks when UseMutex is set. Heaps that are owned by
// a single goroutine leave it unset to skip locking entirely.
type OptionalMutex struct {
	Mutex    sync.Mutex
	UseMutex bool
}

func (m *OptionalMutex) Lock() {
	if m.UseMutex {
		m.Mutex.Lock()
	}
}

func (m *OptionalMutex) Unlock() {
	if m.UseMutex {
		m.Mutex.Unlock()
	}
}
