package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	require.Equal(t, 0, AlignUp(0, 8))
	require.Equal(t, 8, AlignUp(1, 8))
	require.Equal(t, 8, AlignUp(8, 8))
	require.Equal(t, 16, AlignUp(9, 8))
	require.Equal(t, 64, AlignUp(33, 32))
}

func TestOptionalMutexUnlocked(t *testing.T) {
	var m OptionalMutex
	m.Lock()
	m.Lock()
	m.Unlock()
	m.Unlock()

	m.UseMutex = true
	m.Lock()
	require.False(t, m.Mutex.TryLock())
	m.Unlock()
	require.True(t, m.Mutex.TryLock())
	m.Mutex.Unlock()
}
