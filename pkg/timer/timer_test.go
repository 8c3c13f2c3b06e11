package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartQueryExpireStop(t *testing.T) {
	s := NewService()
	require.Equal(t, OutOfRange, s.Query("adc-ready"))

	require.NoError(t, s.Start("adc-ready", 20*time.Millisecond, false))
	require.Equal(t, Running, s.Query("adc-ready"))

	err := s.Start("adc-ready", 20*time.Millisecond, false)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, s.Start("adc-ready", 20*time.Millisecond, true))

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, Expired, s.Query("adc-ready"))

	require.NoError(t, s.Stop("adc-ready"))
	require.Equal(t, NotRunning, s.Query("adc-ready"))
}

func TestWaitUntilSucceedsBeforeTimeout(t *testing.T) {
	s := NewService()
	ready := false
	go func() {
		time.Sleep(5 * time.Millisecond)
		ready = true
	}()
	ok := s.WaitUntil("mux-busy", 200*time.Millisecond, time.Millisecond, func() bool { return ready })
	require.True(t, ok)
}

func TestWaitUntilTimesOut(t *testing.T) {
	s := NewService()
	ok := s.WaitUntil("mux-busy", 10*time.Millisecond, time.Millisecond, func() bool { return false })
	require.False(t, ok)
}
