package errring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDrainOrderAndSentinel(t *testing.T) {
	r := New()
	for i := uint8(0); i < 5; i++ {
		r.Push(10, i)
	}
	require.Equal(t, 5, r.Count())
	for i := uint8(0); i < 5; i++ {
		e, ok := r.Next()
		require.True(t, ok)
		require.Equal(t, uint8(10), e.Module)
		require.Equal(t, i, e.Code)
	}
	_, ok := r.Next()
	require.False(t, ok)
	require.Equal(t, 0, r.Count())
}

func TestOverflowKeepsMostRecentHistoryLength(t *testing.T) {
	r := New()
	total := HistoryLength + 10
	for i := 0; i < total; i++ {
		r.Push(1, uint8(i))
	}
	require.Equal(t, HistoryLength, r.Count())
	// The oldest surviving entry should be the (total-HistoryLength)-th pushed.
	first, ok := r.Next()
	require.True(t, ok)
	require.Equal(t, uint8(total-HistoryLength), first.Code)
}
